package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/store"
)

func corpus() *store.Store {
	return store.Load([]model.Incident{
		{EventID: 1, Year: 1999, Month: 1, Day: 1, GroupName: "Taliban", WeaponType: "Explosives", TargetType: "Police", Region: "South Asia", Country: "Afghanistan"},
		{EventID: 2, Year: 1999, Month: 1, Day: 5, GroupName: "ISIL", WeaponType: "Explosives", TargetType: "Police", Region: "South Asia", Country: "Afghanistan"},
		{EventID: 3, Year: 1999, Month: 1, Day: 10, GroupName: "Boko Haram", WeaponType: "Firearms", TargetType: "Military", Region: "Sub-Saharan Africa", Country: "Nigeria"},
		{EventID: 4, Year: 1999, Month: 6, Day: 1, GroupName: "ISIL", WeaponType: "Explosives", TargetType: "Police", Region: "South Asia", Country: "Afghanistan"},
		{EventID: 5, Year: 1999, Month: 1, Day: 2, GroupName: model.UnknownGroup, WeaponType: "Explosives", TargetType: "Police", Region: "South Asia", Country: "Afghanistan"},
	})
}

func TestBuildEdges(t *testing.T) {
	b := NewBuilder(2)
	g := b.Build(corpus(), Params{DayWindow: 30, Threshold: 0.5})

	// 1->2 is a full match (1.0). 1->3 and 2->3 share no features.
	// 4 is outside the window of 1 and 2. 5 has an unknown group.
	require.Equal(t, 1, g.EdgeCount())
	e := g.Edges()[0]
	assert.Equal(t, int64(1), e.SourceID)
	assert.Equal(t, int64(2), e.TargetID)
	assert.InDelta(t, 1.0, e.Score, 1e-9)
}

func TestBuildZeroScoreNeverProducesEdges(t *testing.T) {
	s := store.Load([]model.Incident{
		{EventID: 1, Year: 1999, Month: 1, Day: 1, GroupName: "A"},
		{EventID: 2, Year: 1999, Month: 1, Day: 2, GroupName: "B"},
	})
	g := NewBuilder(1).Build(s, Params{DayWindow: 30, Threshold: 0})
	assert.Equal(t, 0, g.EdgeCount())
}

func TestBuildThresholdZeroKeepsAnyMatch(t *testing.T) {
	s := store.Load([]model.Incident{
		{EventID: 1, Year: 1999, Month: 1, Day: 1, GroupName: "A", Country: "Iraq"},
		{EventID: 2, Year: 1999, Month: 1, Day: 2, GroupName: "B", Country: "Iraq"},
	})
	g := NewBuilder(1).Build(s, Params{DayWindow: 30, Threshold: 0})
	require.Equal(t, 1, g.EdgeCount())
	assert.InDelta(t, 0.20, g.Edges()[0].Score, 1e-9)
}

func TestBuildCanonicalDirectionOnly(t *testing.T) {
	// The earlier-dated incident has the larger event ID, so no edge in
	// either direction.
	s := store.Load([]model.Incident{
		{EventID: 9, Year: 1999, Month: 1, Day: 1, GroupName: "A", Country: "Iraq"},
		{EventID: 1, Year: 1999, Month: 1, Day: 5, GroupName: "B", Country: "Iraq"},
	})
	g := NewBuilder(1).Build(s, Params{DayWindow: 30, Threshold: 0})
	assert.Equal(t, 0, g.EdgeCount())
}

func TestBuildIdempotentAndCached(t *testing.T) {
	s := corpus()
	b := NewBuilder(4)
	p := Params{DayWindow: 30, Threshold: 0.3}

	g1 := b.Build(s, p)
	g2 := b.Build(s, p)
	assert.Same(t, g1, g2)

	// A fresh builder over the same snapshot yields the identical edge set.
	g3 := NewBuilder(1).Build(s, p)
	assert.Equal(t, g1.Edges(), g3.Edges())

	// Different parameters never mix edge sets.
	g4 := b.Build(s, Params{DayWindow: 200, Threshold: 0.3})
	assert.NotEqual(t, g1.EdgeCount(), g4.EdgeCount())
}
