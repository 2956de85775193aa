package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Profile  ProfileConfig
	Bot      BotConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Addr              string
	AllowedOrigins    []string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

type DatabaseConfig struct {
	Driver     string
	Postgres   PostgresConfig
	SQLitePath string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type ProfileConfig struct {
	DocumentID      string
	RefreshInterval time.Duration
	NotifyChannel   string
	CacheTTL        time.Duration
}

type BotConfig struct {
	ResponseDelay  time.Duration
	MinQueryLength int
	MatchMode      nlu.MatchMode
}

type LoggingConfig struct {
	Level string
	File  string
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFrom reads the given env files instead of .env. Variables already set
// in the environment win.
func LoadFrom(files ...string) (*Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:              getEnv("HTTP_ADDR", ":8080"),
			AllowedOrigins:    util.ParseCommaSeparated(getEnv("WS_ALLOWED_ORIGINS", "")),
			ShutdownTimeout:   time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
			ReadHeaderTimeout: time.Duration(getEnvInt("HTTP_READ_HEADER_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Postgres: PostgresConfig{
				Host:     getEnv("POSTGRES_HOST", "localhost"),
				Port:     getEnvInt("POSTGRES_PORT", 5432),
				User:     getEnv("POSTGRES_USER", "portfolio"),
				Password: getEnv("POSTGRES_PASSWORD", ""),
				Database: getEnv("POSTGRES_DB", "portfolio"),
				SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			},
			SQLitePath: getEnv("SQLITE_PATH", "data/portfolio.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Profile: ProfileConfig{
			DocumentID:      getEnv("PROFILE_DOCUMENT_ID", "cvData"),
			RefreshInterval: time.Duration(getEnvInt("PROFILE_REFRESH_INTERVAL_SECONDS", 60)) * time.Second,
			NotifyChannel:   getEnv("PROFILE_NOTIFY_CHANNEL", "cv_data_changed"),
			CacheTTL:        time.Duration(getEnvInt("PROFILE_CACHE_TTL_MINUTES", 1440)) * time.Minute,
		},
		Bot: BotConfig{
			ResponseDelay:  time.Duration(getEnvInt("BOT_RESPONSE_DELAY_MS", 500)) * time.Millisecond,
			MinQueryLength: getEnvInt("BOT_MIN_QUERY_LENGTH", 1),
			MatchMode:      nlu.MatchMode(strings.ToLower(getEnv("BOT_MATCH_MODE", string(nlu.MatchSubstring)))),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", "logs/bot.log"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Postgres.Host == "" || c.Database.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_HOST and POSTGRES_DB are required for the postgres driver")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if !c.Bot.MatchMode.IsValid() {
		return fmt.Errorf("BOT_MATCH_MODE must be substring or word, got %q", c.Bot.MatchMode)
	}
	if c.Bot.ResponseDelay < 0 {
		return fmt.Errorf("BOT_RESPONSE_DELAY_MS must not be negative")
	}
	if c.Bot.MinQueryLength < 1 {
		return fmt.Errorf("BOT_MIN_QUERY_LENGTH must be at least 1")
	}
	if c.Profile.DocumentID == "" {
		return fmt.Errorf("PROFILE_DOCUMENT_ID is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
