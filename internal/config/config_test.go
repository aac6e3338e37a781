package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MOVIES_API_URL", "https://api.example.com")
	t.Setenv("SESSION_STORE", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, "http://localhost:3000/", cfg.AssetBaseURL)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, "movie_session", cfg.SessionCookie)
	assert.Equal(t, DBConfig{}, cfg.DB)
}

func TestLoadMySQLStore(t *testing.T) {
	t.Setenv("MOVIES_API_URL", "https://api.example.com")
	t.Setenv("SESSION_STORE", "MySQL")
	t.Setenv("DB_USER", "console")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "movies")

	cfg := Load()
	assert.Equal(t, "mysql", cfg.SessionStore)
	assert.Equal(t, DBConfig{User: "console", Host: "db", Port: "3306", Name: "movies"}, cfg.DB)
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL)
	assert.Equal(t, "session_route", rl.KeyStrategy)

	t.Setenv("RATE_LIMIT_BURST", "50")
	assert.Equal(t, 50, LoadRateLimitConfig().Capacity)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "90s")
	assert.False(t, envBool("X_BOOL", true))
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, 90*time.Second, envDur("X_DUR", 0))
}

func TestEventsAndCatalogDefaults(t *testing.T) {
	t.Setenv("EVENTS_ENABLED", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")

	ev := LoadEventsConfig()
	assert.False(t, ev.Enabled)
	assert.Equal(t, "amqp://u:p@mq:5672/", ev.URL)
	assert.Equal(t, "movie.changed", ev.Exchange)

	cc := LoadCatalogConfig()
	assert.True(t, cc.Shared)
	assert.Equal(t, 5*time.Minute, cc.TTL)
}
