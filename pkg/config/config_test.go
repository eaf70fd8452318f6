package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, time.UTC, cfg.Planner.Location())
	assert.True(t, cfg.SupportsCity("wroclaw"))
	assert.True(t, cfg.SupportsCity("Wroclaw"))
	assert.False(t, cfg.SupportsCity("krakow"))

	_, bounded := cfg.Planner.HorizonEnd(time.Now())
	assert.False(t, bounded)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
supportedCities: [wroclaw, krakow]
store:
  type: gtfs
  path: feed.zip
planner:
  timezone: Europe/Warsaw
  candidateStops: 4
  searchHorizon: PT2H
  queryTimeout: 2s
`), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.SupportsCity("KRAKOW"))
	assert.Equal(t, "gtfs", cfg.Store.Type)
	assert.Equal(t, 4, cfg.Planner.CandidateStops)
	assert.Equal(t, 2*time.Second, cfg.Planner.QueryTimeout)

	// Unset fields keep their defaults
	assert.Equal(t, 50, cfg.Planner.DepartureLimit)
	assert.Equal(t, 1.4, cfg.Planner.WalkingSpeed)

	assert.Equal(t, "Europe/Warsaw", cfg.Planner.Location().String())

	start := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
	end, bounded := cfg.Planner.HorizonEnd(start)
	assert.True(t, bounded)
	assert.Equal(t, start.Add(2*time.Hour), end)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{"no cities", func(cfg *Config) { cfg.SupportedCities = nil }},
		{"unknown store", func(cfg *Config) { cfg.Store.Type = "csv" }},
		{"sqlite without path", func(cfg *Config) { cfg.Store.Path = "" }},
		{"postgres without connection", func(cfg *Config) { cfg.Store.Type = "postgres" }},
		{"bad timezone", func(cfg *Config) { cfg.Planner.Timezone = "Mars/Olympus_Mons" }},
		{"bad horizon", func(cfg *Config) { cfg.Planner.SearchHorizon = "two hours" }},
		{"zero horizon", func(cfg *Config) { cfg.Planner.SearchHorizon = "PT0S" }},
		{"no walking", func(cfg *Config) { cfg.Planner.WalkingSpeed = 0 }},
		{"no candidates", func(cfg *Config) { cfg.Planner.CandidateStops = 0 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("TRAVIGO_CONFIG", "")
	t.Setenv("TRAVIGO_SUPPORTED_CITIES", "gdansk,gdansk,sopot")
	t.Setenv("TRAVIGO_STORE_TYPE", "mongodb")
	t.Setenv("TRAVIGO_MONGODB_CONNECTION", "mongodb://localhost:27017")
	t.Setenv("TRAVIGO_MONGODB_DATABASE", "journeyplanner")
	t.Setenv("TRAVIGO_PLANNER_CANDIDATE_STOPS", "3")
	t.Setenv("TRAVIGO_PLANNER_WALKING_SPEED", "1.2")
	t.Setenv("TRAVIGO_PLANNER_QUERY_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"gdansk", "sopot"}, cfg.SupportedCities)
	assert.Equal(t, "mongodb", cfg.Store.Type)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.ConnectionString)
	assert.Equal(t, "journeyplanner", cfg.Store.Database)
	assert.Equal(t, 3, cfg.Planner.CandidateStops)
	assert.Equal(t, 1.2, cfg.Planner.WalkingSpeed)
	assert.Equal(t, 750*time.Millisecond, cfg.Planner.QueryTimeout)

	t.Setenv("TRAVIGO_PLANNER_WORKERS", "many")
	_, err = Load()
	assert.Error(t, err)
}
