package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/team-calendar/generic"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "teamcal.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0, cfg.TeamView.MaxConcurrency)
	assert.Equal(t, generic.PeriodCalendarMonth, cfg.PeriodType())
	assert.Equal(t, 5*time.Minute, cfg.Holidays.CacheTTL)
}

func TestLoad_FileAndEnv(t *testing.T) {
	// GIVEN: A config file and an environment override
	path := writeConfig(t, `
server:
  port: 3000
  read_timeout: 5s
database:
  path: ":memory:"
log:
  level: debug
  format: json
teamview:
  max_concurrency: 8
  period: iso_week
holidays:
  cache_ttl: 0s
`)
	t.Setenv("TEAMCAL_SERVER_PORT", "9090")

	// WHEN
	cfg, err := Load(path)

	// THEN: The environment wins over the file, the file over defaults
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.TeamView.MaxConcurrency)
	assert.Equal(t, generic.PeriodISOWeek, cfg.PeriodType())
	assert.Equal(t, time.Duration(0), cfg.Holidays.CacheTTL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad period", "teamview:\n  period: fortnight\n"},
		{"negative concurrency", "teamview:\n  max_concurrency: -1\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"bad port", "server:\n  port: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
