package join

import (
	"time"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/rank"
	"github.com/sifthq/corral/internal/core/temporal"
)

// SequentialTargetAttacks finds pairs where one group hit a target type and
// a different group hit the same target type strictly afterwards, at most
// `hours` later. Both sides need complete dates and known groups. Ranked
// by the hour gap ascending, top 10.
func (e *Engine) SequentialTargetAttacks(hours int) []model.SequentialAttack {
	records := e.store.Records()
	window := time.Duration(hours) * time.Hour

	var out []model.SequentialAttack
	scanAnchors(len(records), e.workers,
		func() *[]model.SequentialAttack { return &[]model.SequentialAttack{} },
		func(acc *[]model.SequentialAttack, i int) {
			a := records[i]
			if a.TargetType == "" || !completeDate(a) || !a.GroupKnown() {
				return
			}
			for _, b := range e.store.ByTargetType(a.TargetType) {
				if !completeDate(b) || !b.GroupKnown() || b.GroupName == a.GroupName {
					continue
				}
				if !b.Date.After(a.Date) || b.Date.After(a.Date.Add(window)) {
					continue
				}
				*acc = append(*acc, model.SequentialAttack{
					FirstGroup:   a.GroupName,
					SecondGroup:  b.GroupName,
					TargetType:   a.TargetType,
					FirstCity:    a.City,
					SecondCity:   b.City,
					HoursBetween: temporal.HoursBetween(a.Date, b.Date),
				})
			}
		},
		func(parts []*[]model.SequentialAttack) {
			for _, part := range parts {
				out = append(out, *part...)
			}
		},
	)

	rank.Sort(out,
		rank.ByInt(func(s model.SequentialAttack) int { return s.HoursBetween }, false),
		rank.ByString(func(s model.SequentialAttack) string { return s.FirstGroup }),
		rank.ByString(func(s model.SequentialAttack) string { return s.SecondGroup }),
		rank.ByString(func(s model.SequentialAttack) string { return s.FirstCity }),
		rank.ByString(func(s model.SequentialAttack) string { return s.SecondCity }),
	)
	return rank.TopK(out, 10)
}

// HighFrequencyAttacks surfaces the dates on which one group carried out at
// least minAttacks attacks, with the locations involved, in date order.
func (e *Engine) HighFrequencyAttacks(group string, minAttacks int) []model.BurstDay {
	byDate := make(map[time.Time][]string)
	for _, r := range e.store.ByGroup(group) {
		byDate[r.Date] = append(byDate[r.Date], r.City)
	}

	var out []model.BurstDay
	for date, locations := range byDate {
		if len(locations) < minAttacks {
			continue
		}
		out = append(out, model.BurstDay{
			Date:        date,
			AttackCount: len(locations),
			Locations:   locations,
		})
	}
	rank.Sort(out, func(a, b model.BurstDay) (bool, bool) {
		return a.Date.Before(b.Date), a.Date.After(b.Date)
	})
	return out
}
