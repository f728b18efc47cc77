package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_URI", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("BOT_MOVE_DELAY_MS", "")
	t.Setenv("SNAPSHOT_TTL_MINUTES", "")

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 500*time.Millisecond, cfg.BotMoveDelay)
	assert.Equal(t, 24*time.Hour, cfg.SnapshotTTL)
	assert.Same(t, cfg, AppConfig)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://play.example.com")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com, ,https://play.example.com,https://b.example.com ")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/dropfour")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("BOT_MOVE_DELAY_MS", "0")
	t.Setenv("BOT_DEPTH", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, []string{
		"https://play.example.com",
		"https://a.example.com",
		"https://b.example.com",
	}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DatabaseURL, "default_query_exec_mode=simple_protocol")
	assert.Equal(t, time.Duration(0), cfg.BotMoveDelay)
	assert.Equal(t, 6, cfg.BotDepth)
}

func TestLibPQURLLeftAlone(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/dropfour?sslmode=disable")

	cfg := LoadConfig()
	assert.Equal(t, "postgres://u:p@db:5432/dropfour?sslmode=disable", cfg.DatabaseURL)
}
