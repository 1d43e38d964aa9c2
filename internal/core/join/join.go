// Package join implements the two-sided temporal/spatial queries: an
// anchor incident matching one filter, a counterpart matching a related
// filter, and a window predicate on their normalized dates tying them
// together. These queries read the store snapshot directly and are
// independent of the similarity graph.
package join

import (
	"sync"

	"github.com/sifthq/corral/internal/core/store"
)

// Engine runs windowed joins over one store snapshot.
type Engine struct {
	store   *store.Store
	workers int
}

// New returns a join engine. workers bounds the anchor partitions used by
// the pairwise scans; workers < 1 means single-threaded.
func New(s *store.Store, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{store: s, workers: workers}
}

// scanAnchors partitions anchor indexes [0, n) across the worker pool by
// stride. Each worker owns one accumulator; merge combines them after all
// workers finish, so no synchronization is needed during the scan.
func scanAnchors[A any](n, workers int, newAcc func() A, visit func(acc A, i int), merge func(parts []A)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	parts := make([]A, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			acc := newAcc()
			for i := w; i < n; i += workers {
				visit(acc, i)
			}
			parts[w] = acc
		}(w)
	}
	wg.Wait()
	merge(parts)
}

// completeDate reports whether the record carries explicit month and day
// fields. Queries that require a complete date exclude anything else
// rather than defaulting the missing component.
func completeDate(r store.Record) bool {
	return r.Month > 0 && r.Day > 0
}
