// Package store holds the normalized, indexed in-memory snapshot of one
// analysis run. The snapshot is built once from an IncidentSource load and
// is read-only afterwards, so every query can scan it without locking.
package store

import (
	"sort"
	"time"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/temporal"
)

// Record pairs an incident with its derived normalized date. Queries
// compare dates only through this value, never through the raw fields.
type Record struct {
	model.Incident
	Date time.Time
}

// Ref condenses a record into the per-incident detail carried by pair and
// path results.
func (r Record) Ref() model.AttackRef {
	location := r.City
	if r.Country != "" {
		if location != "" {
			location += ", "
		}
		location += r.Country
	}
	return model.AttackRef{
		EventID:  r.EventID,
		Group:    r.GroupName,
		Date:     r.Date,
		Location: location,
		Weapon:   r.WeaponType,
		Target:   r.TargetType,
	}
}

// Store is the immutable incident snapshot. Records are ordered by
// normalized date, then event ID, so windowed scans can binary-search the
// window start instead of walking the whole corpus.
type Store struct {
	records []Record
	byID    map[int64]int

	byGroup   map[string][]int
	byCity    map[string][]int
	byRegion  map[string][]int
	byCountry map[string][]int
	byTarget  map[string][]int
	byWeapon  map[string][]int

	skippedMalformed int
	skippedInvalid   int
}

// Load normalizes and indexes a loaded incident set. Records without a year
// (MalformedRecordError in the taxonomy) or with an impossible calendar date
// are skipped and counted, never merged into results.
func Load(incidents []model.Incident) *Store {
	s := &Store{
		byID:      make(map[int64]int),
		byGroup:   make(map[string][]int),
		byCity:    make(map[string][]int),
		byRegion:  make(map[string][]int),
		byCountry: make(map[string][]int),
		byTarget:  make(map[string][]int),
		byWeapon:  make(map[string][]int),
	}

	for _, inc := range incidents {
		if inc.Year == 0 {
			s.skippedMalformed++
			continue
		}
		date, err := temporal.Normalize(inc.Year, inc.Month, inc.Day)
		if err != nil {
			s.skippedInvalid++
			continue
		}
		s.records = append(s.records, Record{Incident: inc, Date: date})
	}

	sort.SliceStable(s.records, func(i, j int) bool {
		if !s.records[i].Date.Equal(s.records[j].Date) {
			return s.records[i].Date.Before(s.records[j].Date)
		}
		return s.records[i].EventID < s.records[j].EventID
	})

	for i, r := range s.records {
		s.byID[r.EventID] = i
		if r.GroupKnown() {
			s.byGroup[r.GroupName] = append(s.byGroup[r.GroupName], i)
		}
		index(s.byCity, r.City, i)
		index(s.byRegion, r.Region, i)
		index(s.byCountry, r.Country, i)
		index(s.byTarget, r.TargetType, i)
		index(s.byWeapon, r.WeaponType, i)
	}

	return s
}

func index(m map[string][]int, key string, i int) {
	if key != "" {
		m[key] = append(m[key], i)
	}
}

// Len reports the number of usable records in the snapshot.
func (s *Store) Len() int { return len(s.records) }

// Skipped reports how many source records were excluded during load,
// split into year-less records and impossible calendar dates.
func (s *Store) Skipped() (malformed, invalidDate int) {
	return s.skippedMalformed, s.skippedInvalid
}

// Records exposes the date-ordered snapshot. Callers must not mutate it.
func (s *Store) Records() []Record { return s.records }

// ByID looks up a single record by event ID.
func (s *Store) ByID(id int64) (Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// ByGroup returns the records of one known group in date order. Unknown
// and unattributed incidents are never indexed here.
func (s *Store) ByGroup(name string) []Record { return s.pick(s.byGroup[name]) }

func (s *Store) ByCity(city string) []Record         { return s.pick(s.byCity[city]) }
func (s *Store) ByRegion(region string) []Record     { return s.pick(s.byRegion[region]) }
func (s *Store) ByCountry(country string) []Record   { return s.pick(s.byCountry[country]) }
func (s *Store) ByTargetType(target string) []Record { return s.pick(s.byTarget[target]) }
func (s *Store) ByWeaponType(weapon string) []Record { return s.pick(s.byWeapon[weapon]) }

// Groups returns the distinct known group names present in the snapshot.
func (s *Store) Groups() []string {
	out := make([]string, 0, len(s.byGroup))
	for g := range s.byGroup {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Regions returns the distinct regions present in the snapshot.
func (s *Store) Regions() []string {
	out := make([]string, 0, len(s.byRegion))
	for r := range s.byRegion {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// LowerBound returns the index of the first record whose normalized date
// is not before t.
func (s *Store) LowerBound(t time.Time) int {
	return sort.Search(len(s.records), func(i int) bool {
		return !s.records[i].Date.Before(t)
	})
}

// InDateRange returns records with from <= date <= to, in date order.
func (s *Store) InDateRange(from, to time.Time) []Record {
	lo := s.LowerBound(from)
	hi := sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Date.After(to)
	})
	if lo >= hi {
		return nil
	}
	return s.records[lo:hi]
}

func (s *Store) pick(idx []int) []Record {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Record, len(idx))
	for i, j := range idx {
		out[i] = s.records[j]
	}
	return out
}
