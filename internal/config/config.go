// Package config reads crease settings from the environment and an optional
// .env file in the working directory. Command-line flags override them.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDB is the database path when CREASE_DB is unset.
const DefaultDB = "crease.db"

type Config struct {
	// SQLite database file
	DB string

	// Undo stack cap for new matches; 0 means the engine default
	UndoDepth int

	// Redis checkpoint mirror, disabled when RedisAddr is empty
	RedisAddr string
	RedisDB   int
	RedisTTL  time.Duration

	// Telemetry
	LogLevel string
}

// Load reads .env if present, then the environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() *Config {
	return &Config{
		DB:        envStr("CREASE_DB", DefaultDB),
		UndoDepth: envInt("CREASE_UNDO_DEPTH", 0),

		RedisAddr: envStr("CREASE_REDIS_ADDR", ""),
		RedisDB:   envInt("CREASE_REDIS_DB", 0),
		RedisTTL:  time.Duration(envInt("CREASE_REDIS_TTL_SEC", 0)) * time.Second,

		LogLevel: envStr("CREASE_LOG_LEVEL", "info"),
	}
}

// MirrorEnabled reports whether checkpoints are mirrored to Redis.
func (c *Config) MirrorEnabled() bool {
	return c.RedisAddr != ""
}

// ParseLogLevel maps a level name to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
