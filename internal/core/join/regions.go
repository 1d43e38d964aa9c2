package join

import (
	"time"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/rank"
	"github.com/sifthq/corral/internal/core/temporal"
)

// GroupsInRegions finds groups that struck in region1 and then in region2
// within the given number of calendar months of the anchor attack.
// Results combine the distinct anchor and counterpart incidents per group,
// ranked by that combined count descending.
func (e *Engine) GroupsInRegions(region1, region2 string, months int) []model.RegionPairGroup {
	counts := e.crossRegionCounts(region1, region2, func(d time.Time) time.Time {
		return temporal.AddMonths(d, months)
	})

	out := make([]model.RegionPairGroup, 0, len(counts))
	for g, c := range counts {
		out = append(out, model.RegionPairGroup{
			GroupName:    g,
			TotalAttacks: len(c.anchors) + len(c.counterparts),
		})
	}
	rank.Sort(out,
		rank.ByInt(func(r model.RegionPairGroup) int { return r.TotalAttacks }, true),
		rank.ByString(func(r model.RegionPairGroup) string { return r.GroupName }),
	)
	return out
}

// CrossRegionGroups is the day-window variant: groups active in both
// regions within `days` of the anchor, with the distinct region list
// attached.
func (e *Engine) CrossRegionGroups(region1, region2 string, days int) []model.CrossRegionGroup {
	counts := e.crossRegionCounts(region1, region2, func(d time.Time) time.Time {
		return d.AddDate(0, 0, days)
	})

	out := make([]model.CrossRegionGroup, 0, len(counts))
	for g, c := range counts {
		out = append(out, model.CrossRegionGroup{
			GroupName:    g,
			Regions:      rank.DistinctUnion([]string{region1}, []string{region2}),
			TotalAttacks: len(c.anchors) + len(c.counterparts),
		})
	}
	rank.Sort(out,
		rank.ByInt(func(r model.CrossRegionGroup) int { return r.TotalAttacks }, true),
		rank.ByString(func(r model.CrossRegionGroup) string { return r.GroupName }),
	)
	return out
}

type regionPairCount struct {
	anchors      map[int64]bool
	counterparts map[int64]bool
}

// crossRegionCounts collects, per known group, the distinct anchor
// incidents in region1 and the distinct counterpart incidents in region2
// whose date falls in [anchor, windowEnd(anchor)].
func (e *Engine) crossRegionCounts(region1, region2 string, windowEnd func(time.Time) time.Time) map[string]regionPairCount {
	counts := make(map[string]regionPairCount)
	for _, a := range e.store.ByRegion(region1) {
		if !a.GroupKnown() {
			continue
		}
		end := windowEnd(a.Date)
		for _, b := range e.store.ByGroup(a.GroupName) {
			if b.Region != region2 {
				continue
			}
			if b.Date.Before(a.Date) || b.Date.After(end) {
				continue
			}
			c, ok := counts[a.GroupName]
			if !ok {
				c = regionPairCount{anchors: make(map[int64]bool), counterparts: make(map[int64]bool)}
				counts[a.GroupName] = c
			}
			c.anchors[a.EventID] = true
			c.counterparts[b.EventID] = true
		}
	}
	return counts
}

// TransitiveConnections lists other known groups active in any region the
// subject group operates in, with their attack counts and the shared
// regions, top 10 by attack count.
func (e *Engine) TransitiveConnections(group string) []model.ConnectedGroup {
	regions := make(map[string]bool)
	for _, r := range e.store.ByGroup(group) {
		if r.Region != "" {
			regions[r.Region] = true
		}
	}

	counts := make(map[string]int)
	shared := make(map[string]map[string]bool)
	for region := range regions {
		for _, r := range e.store.ByRegion(region) {
			if !r.GroupKnown() || r.GroupName == group {
				continue
			}
			counts[r.GroupName]++
			if shared[r.GroupName] == nil {
				shared[r.GroupName] = make(map[string]bool)
			}
			shared[r.GroupName][region] = true
		}
	}

	out := make([]model.ConnectedGroup, 0, len(counts))
	for g, n := range counts {
		var rs []string
		for region := range shared[g] {
			rs = append(rs, region)
		}
		out = append(out, model.ConnectedGroup{
			GroupName:     g,
			AttackCount:   n,
			SharedRegions: rank.DistinctUnion(rs),
		})
	}
	rank.Sort(out,
		rank.ByInt(func(c model.ConnectedGroup) int { return c.AttackCount }, true),
		rank.ByString(func(c model.ConnectedGroup) string { return c.GroupName }),
	)
	return rank.TopK(out, 10)
}
