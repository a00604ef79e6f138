package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment. It is
// loaded once at startup and passed by value into constructors; nothing
// reads the environment after Load returns.
type Config struct {
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	AdminDBName string

	TableName      string
	SearchLanguage string
	SeedCSVPath    string

	NimbleAPIURL   string
	NimbleAPIToken string

	SyncInterval time.Duration
	SyncDisabled bool

	Port       string
	CORSOrigin string

	SearchRateMax    int
	SearchRateWindow time.Duration
}

// Load reads the configuration from the environment, applying defaults.
// A .env file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBHost:      envOrDefault("DB_HOST", "localhost"),
		DBPort:      envOrDefault("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		AdminDBName: envOrDefault("ADMIN_DB_NAME", "postgres"),

		TableName:      envOrDefault("TABLE_NAME", "contacts"),
		SearchLanguage: envOrDefault("SEARCH_LANGUAGE", "english"),
		SeedCSVPath:    os.Getenv("SEED_CSV_PATH"),

		NimbleAPIURL:   os.Getenv("NIMBLE_API_URL"),
		NimbleAPIToken: os.Getenv("NIMBLE_API_TOKEN"),

		SyncInterval: 12 * time.Hour,
		SyncDisabled: strings.EqualFold(os.Getenv("SYNC_DISABLED"), "true"),

		Port:       envOrDefault("PORT", "8080"),
		CORSOrigin: envOrDefault("CORS_ORIGIN", "*"),

		SearchRateMax:    60,
		SearchRateWindow: time.Minute,
	}

	if cfg.DBUser == "" {
		return Config{}, fmt.Errorf("DB_USER is not set")
	}
	if cfg.DBName == "" {
		return Config{}, fmt.Errorf("DB_NAME is not set")
	}

	if v := strings.TrimSpace(os.Getenv("SYNC_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SYNC_INTERVAL must be a positive duration: %q", v)
		}
		cfg.SyncInterval = d
	}

	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_SEARCH_MAX")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.SearchRateMax = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_SEARCH_WINDOW_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.SearchRateWindow = time.Duration(parsed) * time.Second
		}
	}

	return cfg, nil
}

// MustLoad is Load with a fatal exit on error, for the cmd entry points.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// DSN returns the connection string for the target database.
func (c Config) DSN() string {
	return c.dsnFor(c.DBName)
}

// AdminDSN returns the connection string for the administrative database,
// used only to check for and create the target database.
func (c Config) AdminDSN() string {
	return c.dsnFor(c.AdminDBName)
}

func (c Config) dsnFor(dbname string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + dbname,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	return u.String()
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
