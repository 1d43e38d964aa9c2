package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	content := `
[source]
kind = "csv"
path = "corpus.csv"

[engine]
edge_day_window = 45
edge_threshold = 0.6
start_cap = 10
expansion_budget = 5000

[concurrency]
graph_build = 4
join_scan = 2
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Source.Kind)
	assert.Equal(t, 45, cfg.Engine.EdgeDayWindow)
	assert.Equal(t, 0.6, cfg.Engine.EdgeThreshold)
	assert.Equal(t, 4, cfg.Concurrency.GraphBuild)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
