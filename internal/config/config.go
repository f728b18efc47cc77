package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	FrontendURL    string

	DatabaseURL          string
	DBDriver             string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration

	JWTSecret    string
	SeatTokenTTL time.Duration

	BotMoveDelay time.Duration
	BotDepth     int

	SessionIdleTimeout   time.Duration
	FinishedSessionTTL   time.Duration
	ArchiveRetentionDays int
	CleanupInterval      time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	if extra := GetEnv("ALLOWED_ORIGINS", ""); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" && trimmed != frontendURL {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Database Config
	dbDriver := GetEnv("DB_DRIVER", "pgx")
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	if dbURL != "" && dbDriver == "pgx" {
		// simple_protocol keeps pgx usable behind PgBouncer
		if u, err := url.Parse(dbURL); err == nil {
			q := u.Query()
			if q.Get("default_query_exec_mode") == "" {
				q.Set("default_query_exec_mode", "simple_protocol")
				u.RawQuery = q.Encode()
				dbURL = u.String()
			}
		}
	}

	AppConfig = &Config{
		Port:           port,
		AllowedOrigins: allowedOrigins,
		FrontendURL:    frontendURL,

		DatabaseURL:          dbURL,
		DBDriver:             dbDriver,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),

		RedisAddr:     GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetEnvAsInt("REDIS_DB", 0),
		SnapshotTTL:   GetEnvAsDuration("SNAPSHOT_TTL_MINUTES", 24*60, time.Minute),

		JWTSecret:    GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		SeatTokenTTL: GetEnvAsDuration("SEAT_TOKEN_TTL_HOURS", 24, time.Hour),

		BotMoveDelay: GetEnvAsDuration("BOT_MOVE_DELAY_MS", 500, time.Millisecond),
		BotDepth:     GetEnvAsInt("BOT_DEPTH", 6),

		SessionIdleTimeout:   GetEnvAsDuration("SESSION_IDLE_HOURS", 24, time.Hour),
		FinishedSessionTTL:   GetEnvAsDuration("FINISHED_SESSION_TTL_MINUTES", 60, time.Minute),
		ArchiveRetentionDays: GetEnvAsInt("ARCHIVE_RETENTION_DAYS", 30),
		CleanupInterval:      GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 60, time.Minute),
	}

	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit (e.g. minutes).
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
