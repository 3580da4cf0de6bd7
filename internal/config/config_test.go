package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.SessionBackend)
	assert.Positive(t, cfg.SessionTTL)
}

func TestLoadLoginRateDisabledByDefault(t *testing.T) {
	t.Setenv("LOGIN_RATE", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Zero(t, cfg.LoginRate)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/agenda.sqlite")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/agenda")
	t.Setenv("DB_AUTO_MIGRATE", "1")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LOGIN_RATE", "0.5")
	t.Setenv("LOGIN_BURST", "2")
	t.Setenv("LOG_FORMAT", "text")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/agenda.sqlite", cfg.DBPath)
	assert.Equal(t, "postgres://u:p@db:5432/agenda", cfg.DatabaseURL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.InDelta(t, 0.5, cfg.LoginRate, 1e-9)
	assert.Equal(t, 2, cfg.LoginBurst)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("LOGIN_BURST", "many")
	t.Setenv("LOGIN_RATE", "-1")

	cfg := Load()

	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.LoginBurst)
	assert.Zero(t, cfg.LoginRate)
}
