package join

import (
	"sort"
	"time"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/rank"
)

// WeaponPatternChanges lists groups that used more than one distinct weapon
// type, with their (year, weapon) history, ranked by distinct weapon count
// descending, top 10.
func (e *Engine) WeaponPatternChanges() []model.WeaponPattern {
	var out []model.WeaponPattern
	for _, group := range e.store.Groups() {
		weapons := make(map[string]bool)
		pairs := make(map[model.YearWeapon]bool)
		for _, r := range e.store.ByGroup(group) {
			if r.WeaponType == "" {
				continue
			}
			weapons[r.WeaponType] = true
			pairs[model.YearWeapon{Year: r.Year, Weapon: r.WeaponType}] = true
		}
		if len(weapons) <= 1 {
			continue
		}

		patterns := make([]model.YearWeapon, 0, len(pairs))
		for p := range pairs {
			patterns = append(patterns, p)
		}
		sort.Slice(patterns, func(i, j int) bool {
			if patterns[i].Year != patterns[j].Year {
				return patterns[i].Year < patterns[j].Year
			}
			return patterns[i].Weapon < patterns[j].Weapon
		})

		out = append(out, model.WeaponPattern{
			GroupName:     group,
			Patterns:      patterns,
			UniqueWeapons: len(weapons),
		})
	}
	rank.Sort(out,
		rank.ByInt(func(w model.WeaponPattern) int { return w.UniqueWeapons }, true),
		rank.ByString(func(w model.WeaponPattern) string { return w.GroupName }),
	)
	return rank.TopK(out, 10)
}

// RegionalAttackClusters builds a per-region monthly attack histogram over
// records with a known month, ranked by how many distinct months are
// populated, top 10.
func (e *Engine) RegionalAttackClusters() []model.RegionalPattern {
	var out []model.RegionalPattern
	for _, region := range e.store.Regions() {
		counts := make(map[int]int)
		for _, r := range e.store.ByRegion(region) {
			if r.Month <= 0 {
				continue
			}
			counts[r.Month]++
		}
		if len(counts) == 0 {
			continue
		}

		monthly := make([]model.MonthCount, 0, len(counts))
		for m, n := range counts {
			monthly = append(monthly, model.MonthCount{Month: m, Count: n})
		}
		rank.Sort(monthly,
			rank.ByInt(func(m model.MonthCount) int { return m.Count }, true),
			rank.ByInt(func(m model.MonthCount) int { return m.Month }, false),
		)

		out = append(out, model.RegionalPattern{Region: region, Monthly: monthly})
	}
	rank.Sort(out,
		rank.ByInt(func(r model.RegionalPattern) int { return len(r.Monthly) }, true),
		rank.ByString(func(r model.RegionalPattern) string { return r.Region }),
	)
	return rank.TopK(out, 10)
}

// GroupActivities returns one group's incidents between two dates
// inclusive, in date order.
func (e *Engine) GroupActivities(group string, start, end time.Time) []model.GroupActivity {
	var out []model.GroupActivity
	for _, r := range e.store.ByGroup(group) {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, model.GroupActivity{
			EventID:    r.EventID,
			Date:       r.Date,
			City:       r.City,
			Country:    r.Country,
			AttackType: r.AttackType,
			TargetType: r.TargetType,
			Casualties: r.Casualties,
			Wounded:    r.Wounded,
		})
	}
	// ByGroup is already date-ordered; keep event ID as the tie-break.
	return out
}

// SimilarTactics finds groups other than the two subjects whose attack
// types fall inside the tactic sets of both, ranked by how many of their
// attacks use those shared tactics.
func (e *Engine) SimilarTactics(group1, group2 string) []model.SharedTacticGroup {
	g1 := e.tacticSet(group1)
	g2 := e.tacticSet(group2)

	type agg struct {
		tactics map[string]bool
		count   int
	}
	matches := make(map[string]*agg)
	for _, r := range e.store.Records() {
		if !r.GroupKnown() || r.GroupName == group1 || r.GroupName == group2 {
			continue
		}
		if r.AttackType == "" || !g1[r.AttackType] || !g2[r.AttackType] {
			continue
		}
		a, ok := matches[r.GroupName]
		if !ok {
			a = &agg{tactics: make(map[string]bool)}
			matches[r.GroupName] = a
		}
		a.tactics[r.AttackType] = true
		a.count++
	}

	out := make([]model.SharedTacticGroup, 0, len(matches))
	for g, a := range matches {
		out = append(out, model.SharedTacticGroup{
			GroupName:     g,
			SharedTactics: rank.DistinctUnion(keys(a.tactics)),
			AttackCount:   a.count,
		})
	}
	rank.Sort(out,
		rank.ByInt(func(s model.SharedTacticGroup) int { return s.AttackCount }, true),
		rank.ByString(func(s model.SharedTacticGroup) string { return s.GroupName }),
	)
	return out
}

func (e *Engine) tacticSet(group string) map[string]bool {
	set := make(map[string]bool)
	for _, r := range e.store.ByGroup(group) {
		if r.AttackType != "" {
			set[r.AttackType] = true
		}
	}
	return set
}
