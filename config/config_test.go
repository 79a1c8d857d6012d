package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Interval())
	assert.Equal(t, 4, cfg.Resolver.DispatchWorkers)
	assert.Equal(t, 20*time.Second, cfg.FeedTimeout())
	assert.Equal(t, 10*time.Minute, cfg.LockTTL())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "no", cfg.Resolver.DrawPolicy)
	assert.Equal(t, "resolver.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Lock.RedisAddr)
}

func TestParse_Values(t *testing.T) {
	data := []byte(`
resolver:
  interval_seconds: 60
  draw_policy: hold
esports:
  games: [csgo, dota2]
sports:
  leagues: [basketball/nba]
  lookback_days: 7
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.Interval())
	assert.Equal(t, "hold", cfg.Resolver.DrawPolicy)
	assert.Equal(t, []string{"csgo", "dota2"}, cfg.Esports.Games)
	assert.Equal(t, []string{"basketball/nba"}, cfg.Sports.Leagues)
	assert.Equal(t, 7, cfg.Sports.LookbackDays)
}

func TestParse_InvalidDrawPolicy(t *testing.T) {
	_, err := Parse([]byte("resolver:\n  draw_policy: split\n"))
	require.Error(t, err)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("resolver: [\n"))
	require.Error(t, err)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("RESOLVER_API_KEY", "secret")
	t.Setenv("ESPORTS_API_TOKEN", "tok")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STORAGE_DSN", ":memory:")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse([]byte("api:\n  api_key: from-yaml\n"))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.API.APIKey)
	assert.Equal(t, "tok", cfg.Esports.Token)
	assert.Equal(t, "localhost:6379", cfg.Lock.RedisAddr)
	assert.Equal(t, 3, cfg.Lock.RedisDB)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  dsn: runs.db\n"), 0o600))
	t.Setenv("STORAGE_DSN", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "runs.db", cfg.Storage.DSN)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Sports.Leagues)
	assert.NotEmpty(t, cfg.Esports.Games)
}
