package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/source"
)

func testIncidents() []model.Incident {
	return []model.Incident{
		{
			EventID: 201503010001, GroupName: "Alpha Front",
			Year: 2015, Month: 3, Day: 1,
			City: "Kabul", Region: "South Asia", Country: "Afghanistan",
			AttackType: "Bombing/Explosion", TargetType: "Police", WeaponType: "Explosives",
			Casualties: 4, Wounded: 10,
		},
		{
			EventID: 201503020002, GroupName: "Beta Brigade",
			Year: 2015, Month: 3, Day: 2,
			City: "Kabul", Region: "South Asia", Country: "Afghanistan",
			AttackType: "Armed Assault", TargetType: "Police", WeaponType: "Explosives",
			Casualties: 2, Wounded: 3,
		},
		// no year at all: dropped as malformed
		{EventID: 3, GroupName: "Alpha Front", City: "Kabul"},
		// February 30th does not exist
		{EventID: 4, GroupName: "Alpha Front", Year: 2015, Month: 2, Day: 30,
			City: "Kabul", Region: "South Asia", Country: "Afghanistan"},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), &source.Memory{Incidents: testIncidents()}, Options{})
	require.NoError(t, err)
	return engine
}

func TestNewEngineCountsSkippedRecords(t *testing.T) {
	engine := newTestEngine(t)

	assert.Equal(t, 2, engine.Size())
	malformed, invalid := engine.Skipped()
	assert.Equal(t, 1, malformed)
	assert.Equal(t, 1, invalid)
	assert.NotEmpty(t, engine.RunID)
}

func TestEngineRejectsBadParameters(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name string
		call func() error
	}{
		{"empty region", func() error {
			_, err := engine.GroupsInRegions("", "South Asia", 6)
			return err
		}},
		{"negative months", func() error {
			_, err := engine.GroupsInRegions("South Asia", "South Asia", -1)
			return err
		}},
		{"negative hours", func() error {
			_, err := engine.CityClusters(-1)
			return err
		}},
		{"zero min groups", func() error {
			_, err := engine.CitiesMultipleGroups(0, 48)
			return err
		}},
		{"empty group", func() error {
			_, err := engine.HighFrequencyAttacks("", 3)
			return err
		}},
		{"end before start", func() error {
			_, err := engine.GroupActivities("Alpha Front",
				time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
			return err
		}},
		{"threshold above one", func() error {
			_, err := engine.PotentialCoordination(7, 1.5)
			return err
		}},
		{"zero hop bound", func() error {
			_, err := engine.AttackChains("Alpha Front", "Beta Brigade", 0)
			return err
		}},
		{"negative intermediaries", func() error {
			_, err := engine.IndirectConnections("Alpha Front", "Beta Brigade", -1, 30)
			return err
		}},
		{"negative graph window", func() error {
			_, err := engine.BuildGraph(-1, 0.7)
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			var paramErr *ParameterError
			assert.True(t, errors.As(err, &paramErr))
		})
	}
}

func TestEngineBuildGraphCachesByParams(t *testing.T) {
	engine := newTestEngine(t)

	g1, err := engine.BuildGraph(30, 0.7)
	require.NoError(t, err)
	g2, err := engine.BuildGraph(30, 0.7)
	require.NoError(t, err)
	assert.Same(t, g1, g2)

	g3, err := engine.BuildGraph(7, 0.7)
	require.NoError(t, err)
	assert.NotSame(t, g1, g3)
}

func TestEngineQuerySmoke(t *testing.T) {
	engine := newTestEngine(t)

	clusters, err := engine.CityClusters(72)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "Kabul", clusters[0].City)
	assert.ElementsMatch(t, []string{"Alpha Front", "Beta Brigade"}, clusters[0].Groups)

	pairs, err := engine.PotentialCoordination(7, 0.5)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Alpha Front", pairs[0].Group1)
	assert.Equal(t, "Beta Brigade", pairs[0].Group2)
	// weapon + target + region + country all match under the 0.35/0.35/0.15/0.15 preset
	assert.InDelta(t, 1.0, pairs[0].SimilarityScore, 1e-9)

	res, err := engine.AttackChains("Alpha Front", "Beta Brigade", 2)
	require.NoError(t, err)
	require.Len(t, res.Paths, 1)
	assert.Equal(t, 1, res.Paths[0].Length)
	assert.Equal(t, "Alpha Front", res.Paths[0].Nodes[0].Group)
	assert.Equal(t, "Beta Brigade", res.Paths[0].Nodes[1].Group)

	campaigns := engine.Campaigns()
	require.Len(t, campaigns, 1)
	assert.Len(t, campaigns[0].Members, 2)
}

func TestEngineEmptyResultsAreNotErrors(t *testing.T) {
	engine := newTestEngine(t)

	rows, err := engine.HighFrequencyAttacks("Gamma Cell", 3)
	require.NoError(t, err)
	assert.Empty(t, rows)

	bursts, err := engine.HighFrequencyAttacks("Alpha Front", 5)
	require.NoError(t, err)
	assert.Empty(t, bursts)
}
