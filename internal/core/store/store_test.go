package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sifthq/corral/internal/core/model"
)

func TestLoadSkipsBadRecords(t *testing.T) {
	s := Load([]model.Incident{
		{EventID: 1, Year: 1999, Month: 2, Day: 30}, // impossible date
		{EventID: 2, Year: 0, Month: 1, Day: 1},     // no year
		{EventID: 3, Year: 1999, Month: 5, Day: 4, GroupName: "Taliban"},
	})

	assert.Equal(t, 1, s.Len())
	malformed, invalid := s.Skipped()
	assert.Equal(t, 1, malformed)
	assert.Equal(t, 1, invalid)
}

func TestRecordsOrderedByNormalizedDate(t *testing.T) {
	s := Load([]model.Incident{
		{EventID: 30, Year: 1999, Month: 6, Day: 1},
		{EventID: 20, Year: 1999, Month: 0, Day: 0}, // normalizes to Jan 1
		{EventID: 10, Year: 1998, Month: 12, Day: 31},
		{EventID: 40, Year: 1999, Month: 1, Day: 1}, // same date as 20, higher ID
	})

	var ids []int64
	for _, r := range s.Records() {
		ids = append(ids, r.EventID)
	}
	assert.Equal(t, []int64{10, 20, 40, 30}, ids)
}

func TestIndexesExcludeUnknownGroup(t *testing.T) {
	s := Load([]model.Incident{
		{EventID: 1, Year: 1999, GroupName: "Taliban", City: "Kabul"},
		{EventID: 2, Year: 1999, GroupName: model.UnknownGroup, City: "Kabul"},
		{EventID: 3, Year: 1999, City: "Kabul"},
	})

	assert.Len(t, s.ByGroup("Taliban"), 1)
	assert.Empty(t, s.ByGroup(model.UnknownGroup))
	assert.Equal(t, []string{"Taliban"}, s.Groups())
	// City index keeps all three; group attribution is a per-query filter.
	assert.Len(t, s.ByCity("Kabul"), 3)
}

func TestInDateRange(t *testing.T) {
	s := Load([]model.Incident{
		{EventID: 1, Year: 1999, Month: 1, Day: 10},
		{EventID: 2, Year: 1999, Month: 1, Day: 20},
		{EventID: 3, Year: 1999, Month: 2, Day: 5},
	})

	from := time.Date(1999, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(1999, 2, 5, 0, 0, 0, 0, time.UTC)
	got := s.InDateRange(from, to)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].EventID)
	assert.Equal(t, int64(3), got[1].EventID)

	assert.Empty(t, s.InDateRange(to.AddDate(1, 0, 0), to.AddDate(2, 0, 0)))
}
