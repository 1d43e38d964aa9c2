// Package path implements constrained multi-hop traversal over the
// similarity graph: bounded breadth-first search from a capped set of
// start candidates, under strict temporal ordering and an expansion budget
// that guarantees termination on dense graphs.
package path

import (
	"time"

	"github.com/sifthq/corral/internal/core/graph"
	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/rank"
	"github.com/sifthq/corral/internal/core/store"
)

// Query describes one path search. MaxHops bounds the number of EDGES on a
// path. Zero-valued optional fields mean "unconstrained": HopWindow,
// MaxSpan, MinStart, MaxEnd, and EdgeFloor are only enforced when set.
type Query struct {
	Start func(store.Record) bool
	End   func(store.Record) bool

	MaxHops   int
	HopWindow time.Duration // max elapsed time between consecutive incidents
	MaxSpan   time.Duration // max elapsed time from the first incident to any node
	MinStart  *time.Time    // first incident's date lower bound
	MaxEnd    *time.Time    // last incident's date upper bound
	EdgeFloor float64       // per-edge similarity floor

	StartCap int // bound on start candidates
	Budget   int // node-expansion budget
	TopN     int
}

// Result carries the accepted paths plus a flag set when the expansion
// budget ran out before the search space was exhausted. A truncated result
// is a soft degradation, not a failure; an empty result is a fully
// successful outcome.
type Result struct {
	Paths     []model.IncidentPath
	Truncated bool
}

// Finder searches one immutable similarity graph. The graph is passed in
// by the caller; the finder never builds or mutates it.
type Finder struct {
	store *store.Store
	graph *graph.Graph
}

func NewFinder(s *store.Store, g *graph.Graph) *Finder {
	return &Finder{store: s, graph: g}
}

type partial struct {
	nodes []store.Record
}

// Search runs the bounded BFS. Paths are accepted when the last node
// matches the end filter and at least one edge was traversed; a start that
// matches the end filter by itself is a defined non-match. Accepted paths
// are deduplicated by node sequence, ordered by length then first-incident
// date, and truncated to TopN.
func (f *Finder) Search(q Query) Result {
	starts := f.startCandidates(q)

	budget := q.Budget
	truncated := false
	seen := make(map[string]bool)
	var found []model.IncidentPath

	for _, start := range starts {
		frontier := []partial{{nodes: []store.Record{start}}}
		for hop := 0; hop < q.MaxHops && len(frontier) > 0; hop++ {
			var next []partial
			for _, p := range frontier {
				if budget <= 0 {
					truncated = true
					break
				}
				budget--

				cur := p.nodes[len(p.nodes)-1]
				for _, e := range f.graph.From(cur.EventID) {
					if e.Score < q.EdgeFloor {
						continue
					}
					n, ok := f.store.ByID(e.TargetID)
					if !ok {
						continue
					}
					if !f.admissible(q, p.nodes[0], cur, n) {
						continue
					}
					ext := partial{nodes: append(append([]store.Record{}, p.nodes...), n)}
					if q.End(n) && acceptEnd(q, n) {
						ip := toPath(ext.nodes)
						key := pathKey(ext.nodes)
						if !seen[key] {
							seen[key] = true
							found = append(found, ip)
						}
					}
					next = append(next, ext)
				}
			}
			if truncated {
				break
			}
			frontier = next
		}
		if truncated {
			break
		}
	}

	rank.Sort(found,
		rank.ByInt(func(p model.IncidentPath) int { return p.Length }, false),
		func(a, b model.IncidentPath) (bool, bool) {
			return a.Nodes[0].Date.Before(b.Nodes[0].Date), a.Nodes[0].Date.After(b.Nodes[0].Date)
		},
		rank.ByString(func(p model.IncidentPath) string { return pathNodeKey(p) }),
	)
	return Result{Paths: rank.TopK(found, q.TopN), Truncated: truncated}
}

// startCandidates returns the capped, deterministically ordered start set:
// records matching the start filter, honoring the global lower bound, in
// date then event ID order.
func (f *Finder) startCandidates(q Query) []store.Record {
	var out []store.Record
	for _, r := range f.store.Records() {
		if !q.Start(r) {
			continue
		}
		if q.MinStart != nil && r.Date.Before(*q.MinStart) {
			continue
		}
		out = append(out, r)
		if q.StartCap > 0 && len(out) == q.StartCap {
			break
		}
	}
	return out
}

// admissible checks every per-hop constraint for extending a path from cur
// to next: strictly increasing normalized dates (ties rejected), the
// per-hop window, and the whole-path span from the first node.
func (f *Finder) admissible(q Query, first, cur, next store.Record) bool {
	if !next.Date.After(cur.Date) {
		return false
	}
	if q.HopWindow > 0 && next.Date.Sub(cur.Date) > q.HopWindow {
		return false
	}
	if q.MaxSpan > 0 && next.Date.Sub(first.Date) > q.MaxSpan {
		return false
	}
	if q.MaxEnd != nil && next.Date.After(*q.MaxEnd) {
		return false
	}
	return true
}

func acceptEnd(q Query, last store.Record) bool {
	return q.MaxEnd == nil || !last.Date.After(*q.MaxEnd)
}

func toPath(nodes []store.Record) model.IncidentPath {
	out := model.IncidentPath{Length: len(nodes) - 1}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, model.PathNode{
			EventID:    n.EventID,
			Group:      n.GroupName,
			Date:       n.Date,
			City:       n.City,
			AttackType: n.AttackType,
			Weapon:     n.WeaponType,
			Target:     n.TargetType,
		})
	}
	return out
}

func pathKey(nodes []store.Record) string {
	key := make([]byte, 0, len(nodes)*9)
	for _, n := range nodes {
		id := n.EventID
		for i := 0; i < 8; i++ {
			key = append(key, byte(id>>(8*i)))
		}
		key = append(key, ':')
	}
	return string(key)
}

func pathNodeKey(p model.IncidentPath) string {
	key := make([]byte, 0, len(p.Nodes)*9)
	for _, n := range p.Nodes {
		id := n.EventID
		for i := 0; i < 8; i++ {
			key = append(key, byte(id>>(8*i)))
		}
		key = append(key, ':')
	}
	return string(key)
}
