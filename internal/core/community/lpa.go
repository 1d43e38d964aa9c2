// Package community clusters incidents into campaign candidates by label
// propagation over the similarity graph. Edge scores weight the vote, so
// tightly similar incident groups converge onto one label.
package community

import (
	"sort"

	"github.com/sifthq/corral/internal/core/graph"
	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/store"
)

// LabelPropagationDetector implements campaign detection using the Label
// Propagation Algorithm (LPA) over similarity edges.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

// Detect groups the graph's incidents into campaigns. Similarity edges are
// treated as undirected; the integer weight is the edge score scaled to
// [0,100]. Ties break toward the largest label so repeated runs over the
// same graph produce identical clusters. Singleton clusters are dropped.
func (d *LabelPropagationDetector) Detect(s *store.Store, g *graph.Graph) []model.Campaign {
	edges := g.Edges()
	if len(edges) == 0 {
		return nil
	}

	adj := make(map[int64]map[int64]int)
	touch := func(id int64) {
		if adj[id] == nil {
			adj[id] = make(map[int64]int)
		}
	}
	for _, e := range edges {
		touch(e.SourceID)
		touch(e.TargetID)
		w := int(e.Score * 100)
		adj[e.SourceID][e.TargetID] += w
		adj[e.TargetID][e.SourceID] += w
	}

	// Each incident starts with its own label; iterate in a fixed order so
	// propagation is deterministic.
	ids := make([]int64, 0, len(adj))
	labels := make(map[int64]int64, len(adj))
	for id := range adj {
		ids = append(ids, id)
		labels[id] = id
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0
		for _, id := range ids {
			neighbors := adj[id]
			if len(neighbors) == 0 {
				continue
			}

			counts := make(map[int64]int)
			max := 0
			for n, w := range neighbors {
				label := labels[n]
				counts[label] += w
				if counts[label] > max {
					max = counts[label]
				}
			}

			best := int64(-1)
			for label, count := range counts {
				if count == max && label > best {
					best = label
				}
			}

			if labels[id] != best {
				labels[id] = best
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	clusters := make(map[int64][]int64)
	for id, label := range labels {
		clusters[label] = append(clusters[label], id)
	}

	clusterLabels := make([]int64, 0, len(clusters))
	for label := range clusters {
		clusterLabels = append(clusterLabels, label)
	}
	sort.Slice(clusterLabels, func(i, j int) bool { return clusterLabels[i] < clusterLabels[j] })

	var campaigns []model.Campaign
	for _, label := range clusterLabels {
		members := clusters[label]
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

		c := model.Campaign{}
		for _, id := range members {
			group := ""
			if r, ok := s.ByID(id); ok {
				group = r.GroupName
			}
			c.Members = append(c.Members, model.CommunityMember{EventID: id, Group: group})
		}
		campaigns = append(campaigns, c)
	}
	return campaigns
}
