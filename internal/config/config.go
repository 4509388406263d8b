package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const AppName = "varta"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	// Server
	Port string
	Env  string // development, production

	// Storage
	DBDriver    string
	DatabaseURL string

	// Gemini
	GeminiAPIKey    string
	GeminiModel     string
	SearchGrounding bool
	PromptsFile     string

	// Security
	VaultSecret           string
	GenerateRatePerMinute int

	// First user seeded into an empty workspace
	SeedUserEmail string
	SeedUserName  string
}

// FromEnv reads the configuration from the environment, loading .env first
// when present. It does not validate.
func FromEnv() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		DBDriver:              getEnv("DB_DRIVER", DriverSQLite),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		SearchGrounding:       getEnvBool("GEMINI_SEARCH_GROUNDING", false),
		PromptsFile:           getEnv("PROMPTS_FILE", ""),
		VaultSecret:           getEnv("VAULT_SECRET", ""),
		GenerateRatePerMinute: getEnvInt("GENERATE_RATE_PER_MINUTE", 6),
		SeedUserEmail:         getEnv("SEED_USER_EMAIL", ""),
		SeedUserName:          getEnv("SEED_USER_NAME", ""),
	}
}

// Load builds the server configuration: environment first, then command
// line flags, then validation.
func Load(args []string) (*Config, error) {
	cfg := FromEnv()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Environment (development, production)")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "Storage driver (sqlite, postgres, memory)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "SQLite path or PostgreSQL connection string")
	fs.StringVar(&cfg.GeminiModel, "model", cfg.GeminiModel, "Gemini model name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize fills derived defaults and validates.
func (c *Config) Finalize() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DatabaseURL == "" && c.DBDriver == DriverSQLite {
		c.DatabaseURL = DefaultDatabaseURL()
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be one of sqlite, postgres, memory (got %q)", c.DBDriver)
	}

	if c.DBDriver != DriverMemory && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be development or production (got %q)", c.Env)
	}

	if c.VaultSecret != "" && len(c.VaultSecret) < 16 {
		return errors.New("VAULT_SECRET must be at least 16 characters")
	}

	if c.GenerateRatePerMinute < 1 {
		return errors.New("GENERATE_RATE_PER_MINUTE must be positive")
	}

	if c.GeminiModel == "" {
		return errors.New("GEMINI_MODEL is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DataDir is the per-user data directory ($XDG_DATA_HOME/varta).
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

func DefaultDatabaseURL() string {
	return filepath.Join(DataDir(), "varta.db")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}
