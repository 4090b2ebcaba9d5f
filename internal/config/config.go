package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Frames   FrameStoreConfig
	Redis    RedisConfig
	Render   RenderConfig
	LogLevel string
}

// FrameStoreConfig selects where imported frames are kept
type FrameStoreConfig struct {
	Backend string // dir, memory or redis
	Dir     string
}

// RedisConfig holds Redis-related configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RenderConfig holds render defaults
type RenderConfig struct {
	OutputDir    string
	Background   string
	PreviewScale float64
	CatalogFile  string // optional catalog override, empty uses the built-in one
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Frames: FrameStoreConfig{
			Backend: strings.ToLower(getEnv("FRAME_STORE", "dir")),
			Dir:     getEnv("FRAME_DIR", defaultFrameDir()),
		},
		Redis: RedisConfig{
			Addr:     getRedisAddr(),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Render: RenderConfig{
			OutputDir:    getEnv("OUTPUT_DIR", "."),
			Background:   getEnv("DEFAULT_BACKGROUND", "#ffffff"),
			PreviewScale: getEnvAsFloat("PREVIEW_SCALE", 0.25),
			CatalogFile:  getEnv("CATALOG_FILE", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.Frames.Backend {
	case "dir", "memory", "redis":
	default:
		return nil, fmt.Errorf("unknown FRAME_STORE %q", cfg.Frames.Backend)
	}
	if cfg.Render.PreviewScale <= 0 || cfg.Render.PreviewScale > 1 {
		return nil, fmt.Errorf("PREVIEW_SCALE must be in (0, 1], got %v", cfg.Render.PreviewScale)
	}

	return cfg, nil
}

func defaultFrameDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mockup-renderer", "frames")
	}
	return ".mockup-frames"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float64 or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getRedisAddr prefers REDIS_URL (with or without the redis:// scheme),
// then REDIS_ADDR
func getRedisAddr() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return strings.TrimPrefix(url, "redis://")
	}
	return getEnv("REDIS_ADDR", "localhost:6379")
}
