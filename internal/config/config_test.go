package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Bot.ResponseDelay)
	assert.Equal(t, 1, cfg.Bot.MinQueryLength)
	assert.Equal(t, nlu.MatchSubstring, cfg.Bot.MatchMode)
	assert.Equal(t, "cvData", cfg.Profile.DocumentID)
	assert.Equal(t, time.Minute, cfg.Profile.RefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.Profile.CacheTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.Server.AllowedOrigins)
}

func TestLoadFrom_Environment(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("BOT_RESPONSE_DELAY_MS", "0")
	t.Setenv("BOT_MATCH_MODE", "Word")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("REDIS_PORT", "not-a-number")

	cfg, err := LoadFrom()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Zero(t, cfg.Bot.ResponseDelay)
	assert.Equal(t, nlu.MatchWord, cfg.Bot.MatchMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoadFrom_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.env")
	require.NoError(t, os.WriteFile(path, []byte("PROFILE_DOCUMENT_ID=resume\nBOT_MIN_QUERY_LENGTH=2\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PROFILE_DOCUMENT_ID")
		os.Unsetenv("BOT_MIN_QUERY_LENGTH")
	})

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "resume", cfg.Profile.DocumentID)
	assert.Equal(t, 2, cfg.Bot.MinQueryLength)

	_, err = LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]string{
		"DB_DRIVER":             "mysql",
		"BOT_MATCH_MODE":        "fuzzy",
		"BOT_MIN_QUERY_LENGTH":  "0",
		"BOT_RESPONSE_DELAY_MS": "-5",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadFrom()
			assert.Error(t, err)
		})
	}
}
