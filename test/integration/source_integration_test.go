//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/sifthq/corral/internal/core"
	"github.com/sifthq/corral/internal/source"
)

const createIncidents = `
	CREATE TABLE incidents (
		eventid INTEGER PRIMARY KEY,
		gname TEXT,
		iyear INTEGER,
		imonth INTEGER,
		iday INTEGER,
		city TEXT,
		region TEXT,
		country TEXT,
		attack_type TEXT,
		target_type TEXT,
		weapon_type TEXT,
		casualties INTEGER,
		wounded INTEGER
	)
`

func TestSQLiteSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(createIncidents)
	require.NoError(t, err)

	insert := `INSERT INTO incidents VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, inc := range syntheticCorpus() {
		_, err = db.Exec(insert, inc.EventID, inc.GroupName, inc.Year, inc.Month, inc.Day,
			inc.City, inc.Region, inc.Country,
			inc.AttackType, inc.TargetType, inc.WeaponType,
			inc.Casualties, inc.Wounded)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	src, err := source.NewSQLiteSource(path)
	require.NoError(t, err)
	ctx := context.Background()
	defer src.Close(ctx)

	engine, err := core.NewEngine(ctx, src, core.Options{})
	require.NoError(t, err)
	assert.Equal(t, 60, engine.Size())

	clusters, err := engine.CityClusters(72)
	require.NoError(t, err)
	assert.NotEmpty(t, clusters)
}

func TestNeo4jSourceSmoke(t *testing.T) {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}
	user := os.Getenv("NEO4J_USER")
	pwd := os.Getenv("NEO4J_PASSWORD")

	src, err := source.NewNeo4jSource(uri, user, pwd)
	require.NoError(t, err)
	ctx := context.Background()
	defer src.Close(ctx)

	engine, err := core.NewEngine(ctx, src, core.Options{})
	require.NoError(t, err)
	assert.Greater(t, engine.Size(), 0)

	regional := engine.RegionalAttackClusters()
	assert.NotEmpty(t, regional)
}
