package path

import (
	"time"

	"github.com/sifthq/corral/internal/core/store"
)

// IndirectEdgeFloor is the per-edge similarity floor applied to
// indirect-connection traversal, independent of the threshold the graph
// was built with.
const IndirectEdgeFloor = 0.7

// AttackChains finds similarity-graph paths from any incident of
// startGroup to any incident of endGroup within maxHops edges, ranked by
// path length, top 5.
func (f *Finder) AttackChains(startGroup, endGroup string, maxHops, startCap, budget int) Result {
	return f.Search(Query{
		Start:    byGroup(startGroup),
		End:      byGroup(endGroup),
		MaxHops:  maxHops,
		StartCap: startCap,
		Budget:   budget,
		TopN:     5,
	})
}

// IndirectConnections finds paths between two groups through at most
// maxIntermediaries intermediate incidents, i.e. a hop bound of
// maxIntermediaries + 1 edges, where every edge scores at least
// IndirectEdgeFloor and every node falls within daysWindow days of the
// path's first incident. Top 10 by path length.
func (f *Finder) IndirectConnections(group1, group2 string, maxIntermediaries, daysWindow, startCap, budget int) Result {
	return f.Search(Query{
		Start:     byGroup(group1),
		End:       byGroup(group2),
		MaxHops:   maxIntermediaries + 1,
		MaxSpan:   time.Duration(daysWindow) * 24 * time.Hour,
		EdgeFloor: IndirectEdgeFloor,
		StartCap:  startCap,
		Budget:    budget,
		TopN:      10,
	})
}

func byGroup(name string) func(store.Record) bool {
	return func(r store.Record) bool { return r.GroupName == name }
}
