package join

import (
	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/rank"
	"github.com/sifthq/corral/internal/core/similarity"
	"github.com/sifthq/corral/internal/core/temporal"
)

type groupPair struct {
	first  string
	second string
}

// PotentialCoordination scores every cross-group incident pair inside the
// day window with the coordination preset and aggregates the pairs that
// clear the threshold per ordered group pair: average similarity (rounded
// to one decimal at this surface only), average day gap, the matched
// criteria, and the underlying incident pairs. Ordered by similarity
// descending then average gap ascending, capped at 100 group pairs.
func (e *Engine) PotentialCoordination(daysWindow int, threshold float64) []model.CoordinationPair {
	records := e.store.Records()

	merged := make(map[groupPair][]model.CoordinatedPair)
	scanAnchors(len(records), e.workers,
		func() map[groupPair][]model.CoordinatedPair { return make(map[groupPair][]model.CoordinatedPair) },
		func(acc map[groupPair][]model.CoordinatedPair, i int) {
			a := records[i]
			if !a.GroupKnown() {
				return
			}
			end := a.Date.AddDate(0, 0, daysWindow)
			for j := e.store.LowerBound(a.Date); j < len(records); j++ {
				b := records[j]
				if b.Date.After(end) {
					break
				}
				if b.EventID == a.EventID || !b.GroupKnown() || b.GroupName == a.GroupName {
					continue
				}
				score, m := similarity.Score(a.Incident, b.Incident, similarity.PresetCoordination)
				if score < threshold {
					continue
				}
				key := groupPair{first: a.GroupName, second: b.GroupName}
				acc[key] = append(acc[key], model.CoordinatedPair{
					Score:        score,
					DaysBetween:  temporal.DaysBetween(a.Date, b.Date),
					WeaponMatch:  m.Weapon,
					TargetMatch:  m.Target,
					RegionMatch:  m.Region,
					CountryMatch: m.Country,
					First:        a.Ref(),
					Second:       b.Ref(),
				})
			}
		},
		func(parts []map[groupPair][]model.CoordinatedPair) {
			for _, part := range parts {
				for key, pairs := range part {
					merged[key] = append(merged[key], pairs...)
				}
			}
		},
	)

	out := make([]model.CoordinationPair, 0, len(merged))
	for key, pairs := range merged {
		rank.Sort(pairs,
			rank.ByInt(func(p model.CoordinatedPair) int { return p.DaysBetween }, false),
			rank.ByInt(func(p model.CoordinatedPair) int { return int(p.First.EventID) }, false),
			rank.ByInt(func(p model.CoordinatedPair) int { return int(p.Second.EventID) }, false),
		)

		var scoreSum float64
		var daysSum int
		criteria := make(map[string]bool)
		for _, p := range pairs {
			scoreSum += p.Score
			daysSum += p.DaysBetween
			for _, label := range (similarity.Matches{
				Weapon:  p.WeaponMatch,
				Target:  p.TargetMatch,
				Region:  p.RegionMatch,
				Country: p.CountryMatch,
			}).Labels() {
				criteria[label] = true
			}
		}

		out = append(out, model.CoordinationPair{
			Group1:           key.first,
			Group2:           key.second,
			SimilarityScore:  similarity.Round1(scoreSum / float64(len(pairs))),
			AvgDaysBetween:   float64(daysSum) / float64(len(pairs)),
			MatchingCriteria: rank.DistinctUnion(keys(criteria)),
			SimilarAttacks:   pairs,
		})
	}

	rank.Sort(out,
		rank.ByFloat(func(c model.CoordinationPair) float64 { return c.SimilarityScore }, true),
		rank.ByFloat(func(c model.CoordinationPair) float64 { return c.AvgDaysBetween }, false),
		rank.ByString(func(c model.CoordinationPair) string { return c.Group1 }),
		rank.ByString(func(c model.CoordinationPair) string { return c.Group2 }),
	)
	return rank.TopK(out, 100)
}
