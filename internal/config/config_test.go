package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.Ingestion.Window)
	assert.Equal(t, 72*time.Hour, cfg.Classification.Window)
	assert.Equal(t, "command", cfg.Classification.Provider)
	assert.Equal(t, "claude", cfg.Command.Path)
	assert.NotEmpty(t, cfg.EnabledSites())
	assert.Equal(t, time.UTC, cfg.Scheduler.Location())
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: postgres://u:p@db:5432/news
ingestion:
  window: 96h
classification:
  provider: chat
  batchSize: 5
sites:
  - name: blogs
    scanner: rss
    tier: 1
    timeout: 10s
    targets:
      - name: openai
        url: https://openai.com/news/rss.xml
  - name: off
    scanner: reddit
    tier: 3
    disabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 96*time.Hour, cfg.Ingestion.Window)
	assert.Equal(t, 72*time.Hour, cfg.Classification.Window)
	assert.Equal(t, 5, cfg.Classification.BatchSize)
	assert.Equal(t, 200, cfg.Classification.MaxItems)
	require.Len(t, cfg.Sites, 2)
	assert.Equal(t, 10*time.Second, cfg.Sites[0].Timeout)

	enabled := cfg.EnabledSites()
	require.Len(t, enabled, 1)
	assert.Equal(t, "blogs", enabled[0].Name)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "/tmp/override.db")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CHATGPT_API_KEY", "secret")
	t.Setenv("CLASSIFY_WINDOW", "48h")
	t.Setenv("TWITTER_API_KEY", "tw")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Database.DSN)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Output.Kafka.Brokers)
	assert.Equal(t, "secret", cfg.ChatGPT.APIKey)
	assert.Equal(t, 48*time.Hour, cfg.Classification.Window)
	assert.Equal(t, "tw", cfg.Credentials.TwitterAPIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
classification:
  provider: magic
sites:
  - name: a
    scanner: rss
    tier: 9
  - name: a
    scanner: rss
    tier: 1
`)
	_, err := Load(path)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "database.driver")
	assert.Contains(t, msg, "classification.provider")
	assert.Contains(t, msg, "tier must be 1..5")
	assert.Contains(t, msg, "duplicate name a")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
