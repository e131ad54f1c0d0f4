package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Session  SessionConfig
	Speech   SpeechConfig
	Catalog  CatalogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// OpenAIConfig holds the AI oracle settings.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // empty = api.openai.com
	MaxTokens   int
	Temperature float64
	TimeoutSec  int
}

// RedisConfig holds Redis connection settings. Empty Addr disables Redis;
// sessions then live in process memory and report archival is off.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig holds PostgreSQL settings for the report archive.
// Empty URL disables archival.
type DatabaseConfig struct {
	URL string
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	TTLMinutes int // idle eviction TTL
}

// SpeechConfig holds the OS speech tool command lines. Empty commands
// disable the respective direction (the session degrades gracefully).
type SpeechConfig struct {
	SpeakCommand  string // e.g. "espeak --stdin"; text arrives on stdin
	ListenCommand string // prints the transcript; gets max silence (sec) as last arg
	MaxSilenceSec int    // pause that ends answer capture
}

// CatalogConfig holds the optional roles catalog override.
type CatalogConfig struct {
	RolesFile string // YAML file; empty = built-in catalog
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Speak/listen requests block for as long as the candidate does,
		// so the write deadline defaults to off.
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 0),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 1000),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
			TimeoutSec:  getEnvInt("OPENAI_TIMEOUT_SEC", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Session: SessionConfig{
			TTLMinutes: getEnvInt("SESSION_TTL_MIN", 30),
		},
		Speech: SpeechConfig{
			SpeakCommand:  getEnv("SPEECH_SPEAK_CMD", ""),
			ListenCommand: getEnv("SPEECH_LISTEN_CMD", ""),
			MaxSilenceSec: getEnvInt("SPEECH_MAX_SILENCE_SEC", 2),
		},
		Catalog: CatalogConfig{
			RolesFile: getEnv("ROLES_FILE", ""),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
