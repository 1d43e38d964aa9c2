package join

import (
	"time"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/rank"
	"github.com/sifthq/corral/internal/core/temporal"
)

type cityAgg struct {
	country      string
	groups       map[string]bool
	counterparts map[int64]bool
}

// CityClusters finds cities hit by different known groups within the hour
// window of each other. The window is symmetric around the anchor and
// measured on normalized calendar dates, so it behaves the same across
// month boundaries. Ranked by distinct counterpart attacks descending,
// top 10.
func (e *Engine) CityClusters(hours int) []model.CityCluster {
	records := e.store.Records()
	window := time.Duration(hours) * time.Hour

	merged := make(map[string]*cityAgg)
	scanAnchors(len(records), e.workers,
		func() map[string]*cityAgg { return make(map[string]*cityAgg) },
		func(acc map[string]*cityAgg, i int) {
			a := records[i]
			if a.City == "" || !a.GroupKnown() {
				return
			}
			for _, b := range e.store.ByCity(a.City) {
				if b.EventID == a.EventID || !b.GroupKnown() || b.GroupName == a.GroupName {
					continue
				}
				gap := b.Date.Sub(a.Date)
				if gap < -window || gap > window {
					continue
				}
				c, ok := acc[a.City]
				if !ok {
					c = &cityAgg{groups: make(map[string]bool), counterparts: make(map[int64]bool)}
					acc[a.City] = c
				}
				// City names collide across countries; keep the smallest
				// country name so the output does not depend on scan order.
				if c.country == "" || (a.Country != "" && a.Country < c.country) {
					c.country = a.Country
				}
				c.groups[a.GroupName] = true
				c.groups[b.GroupName] = true
				c.counterparts[b.EventID] = true
			}
		},
		func(parts []map[string]*cityAgg) {
			for _, part := range parts {
				for city, c := range part {
					m, ok := merged[city]
					if !ok {
						merged[city] = c
						continue
					}
					if m.country == "" || (c.country != "" && c.country < m.country) {
						m.country = c.country
					}
					for g := range c.groups {
						m.groups[g] = true
					}
					for id := range c.counterparts {
						m.counterparts[id] = true
					}
				}
			}
		},
	)

	out := make([]model.CityCluster, 0, len(merged))
	for city, c := range merged {
		out = append(out, model.CityCluster{
			City:        city,
			Country:     c.country,
			Groups:      rank.DistinctUnion(keys(c.groups)),
			AttackCount: len(c.counterparts),
		})
	}
	rank.Sort(out,
		rank.ByInt(func(c model.CityCluster) int { return c.AttackCount }, true),
		rank.ByString(func(c model.CityCluster) string { return c.City }),
	)
	return rank.TopK(out, 10)
}

// CitiesMultipleGroups finds city windows where at least minGroups distinct
// known groups attacked within `hours` after an anchor incident. Only
// records with complete dates qualify; the anchor's own group counts toward
// the set but the anchor never pairs with itself.
func (e *Engine) CitiesMultipleGroups(minGroups, hours int) []model.CityGroupWindow {
	records := e.store.Records()
	window := time.Duration(hours) * time.Hour

	var out []model.CityGroupWindow
	scanAnchors(len(records), e.workers,
		func() *[]model.CityGroupWindow { return &[]model.CityGroupWindow{} },
		func(acc *[]model.CityGroupWindow, i int) {
			a := records[i]
			if a.City == "" || !completeDate(a) {
				return
			}
			groups := make(map[string]bool)
			if a.GroupKnown() {
				groups[a.GroupName] = true
			}
			for _, b := range e.store.ByCity(a.City) {
				if b.EventID == a.EventID || !completeDate(b) || !b.GroupKnown() {
					continue
				}
				if !temporal.WithinWindow(a.Date, b.Date, window) {
					continue
				}
				groups[b.GroupName] = true
			}
			if len(groups) < minGroups {
				return
			}
			*acc = append(*acc, model.CityGroupWindow{
				City:       a.City,
				Country:    a.Country,
				Groups:     rank.DistinctUnion(keys(groups)),
				GroupCount: len(groups),
			})
		},
		func(parts []*[]model.CityGroupWindow) {
			for _, part := range parts {
				out = append(out, *part...)
			}
		},
	)

	out = dedupeCityWindows(out)
	rank.Sort(out,
		rank.ByInt(func(c model.CityGroupWindow) int { return c.GroupCount }, true),
		rank.ByString(func(c model.CityGroupWindow) string { return c.City }),
		rank.ByString(func(c model.CityGroupWindow) string { return c.Country }),
	)
	return out
}

// dedupeCityWindows collapses anchors that produced the same city and group
// set; overlapping anchors in one burst otherwise repeat the same row.
func dedupeCityWindows(rows []model.CityGroupWindow) []model.CityGroupWindow {
	seen := make(map[string]bool)
	var out []model.CityGroupWindow
	for _, r := range rows {
		key := r.City + "\x00" + r.Country
		for _, g := range r.Groups {
			key += "\x00" + g
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
