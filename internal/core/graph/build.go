// Package graph builds the similarity graph: directed, weighted edges
// between incidents of different known groups whose edge-preset score
// clears a threshold inside a day window. A built graph is an immutable
// value owned by the caller; nothing here is global state.
package graph

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/similarity"
	"github.com/sifthq/corral/internal/core/store"
	"github.com/sifthq/corral/internal/core/temporal"
)

// Params identify one edge set. Graphs built with different parameters are
// cached separately and never mixed.
type Params struct {
	DayWindow int
	Threshold float64
}

// Graph is a write-once similarity graph. After Build returns it is only
// ever read, so traversals share it without locking.
type Graph struct {
	BuildID string
	params  Params
	out     map[int64][]model.SimilarityEdge
	edges   []model.SimilarityEdge
}

// Params returns the parameters the graph was built with.
func (g *Graph) Params() Params { return g.params }

// Edges returns every edge in canonical (source, target) order.
func (g *Graph) Edges() []model.SimilarityEdge { return g.edges }

// EdgeCount reports the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// From returns the outgoing edges of one incident, ordered by target ID.
func (g *Graph) From(id int64) []model.SimilarityEdge { return g.out[id] }

// Builder computes similarity graphs and caches them per parameter set for
// the lifetime of one analysis run.
type Builder struct {
	workers int

	mu    sync.Mutex
	cache map[Params]*Graph
}

// NewBuilder returns a builder that partitions the pairwise scan across
// the given number of workers. workers < 1 means single-threaded.
func NewBuilder(workers int) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{workers: workers, cache: make(map[Params]*Graph)}
}

// Build computes (or returns the cached) edge set for the snapshot under
// the given parameters. Rebuilding with identical parameters on the same
// snapshot yields an identical edge set.
func (b *Builder) Build(s *store.Store, p Params) *Graph {
	b.mu.Lock()
	if g, ok := b.cache[p]; ok {
		b.mu.Unlock()
		return g
	}
	b.mu.Unlock()

	g := build(s, p, b.workers)

	b.mu.Lock()
	b.cache[p] = g
	b.mu.Unlock()
	return g
}

// Invalidate drops all cached graphs, forcing a full recompute on the next
// Build call.
func (b *Builder) Invalidate() {
	b.mu.Lock()
	b.cache = make(map[Params]*Graph)
	b.mu.Unlock()
}

func build(s *store.Store, p Params, workers int) *Graph {
	records := s.Records()

	// Records are date-sorted, so each anchor only scans forward until the
	// day window closes instead of the whole corpus. Anchors are
	// partitioned across workers by stride; each worker writes only its own
	// slice and the partial results merge once at the end.
	parts := make([][]model.SimilarityEdge, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var edges []model.SimilarityEdge
			for i := w; i < len(records); i += workers {
				edges = scanAnchor(records, i, p, edges)
			}
			parts[w] = edges
		}(w)
	}
	wg.Wait()

	var all []model.SimilarityEdge
	for _, part := range parts {
		all = append(all, part...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].SourceID != all[j].SourceID {
			return all[i].SourceID < all[j].SourceID
		}
		return all[i].TargetID < all[j].TargetID
	})

	out := make(map[int64][]model.SimilarityEdge)
	for _, e := range all {
		out[e.SourceID] = append(out[e.SourceID], e)
	}

	return &Graph{
		BuildID: uuid.New().String(),
		params:  p,
		out:     out,
		edges:   all,
	}
}

func scanAnchor(records []store.Record, i int, p Params, edges []model.SimilarityEdge) []model.SimilarityEdge {
	a := records[i]
	if !a.GroupKnown() {
		return edges
	}
	for j := i + 1; j < len(records); j++ {
		b := records[j]
		if temporal.DaysBetween(a.Date, b.Date) > p.DayWindow {
			break
		}
		if !b.GroupKnown() || b.GroupName == a.GroupName {
			continue
		}
		// Canonical direction: the edge runs from the smaller event ID, and
		// only exists when that incident is also the earlier-dated one.
		if a.EventID >= b.EventID {
			continue
		}
		score, _ := similarity.Score(a.Incident, b.Incident, similarity.PresetEdge)
		if score <= 0 || score < p.Threshold {
			continue
		}
		edges = append(edges, model.SimilarityEdge{
			SourceID: a.EventID,
			TargetID: b.EventID,
			Score:    score,
		})
	}
	return edges
}
