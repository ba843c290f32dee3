package cliparse

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/danielhkuo/fabval/db"
	"github.com/danielhkuo/fabval/redmine"
)

const (
	DefaultPort          = 5001
	DefaultAllowedOrigin = "http://localhost:3000"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AllowedOrigin string
	SeedFile      string
	PageSize      int
	FetchTimeout  time.Duration
}

// LoadDotEnv reads a .env file into the process environment if one exists.
// Variables already set are left alone.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ParseFlags validates flags and fills in defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("fabval", pflag.ContinueOnError)

	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (postgres or sqlite)")
	fs.StringVar(&cfg.AllowedOrigin, "allowed-origin", "", "Origin allowed by CORS")
	fs.StringVar(&cfg.SeedFile, "seed", "", "YAML catalog of devices and questions to load at startup")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "Redmine issues fetched per request")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", 0, "Timeout for each Redmine request")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", db.TypePostgres)
	}
	if cfg.DatabaseType != db.TypePostgres && cfg.DatabaseType != db.TypeSQLite {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != db.TypePostgres {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = postgresURLFromEnv()
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = envOr("ALLOWED_ORIGIN", DefaultAllowedOrigin)
	}
	if cfg.SeedFile == "" {
		cfg.SeedFile = os.Getenv("SEED_FILE")
	}

	if cfg.PageSize == 0 {
		size, err := envInt("REDMINE_PAGE_SIZE", redmine.DefaultPageSize)
		if err != nil {
			return Config{}, err
		}
		cfg.PageSize = size
	}
	if cfg.PageSize < 1 {
		return Config{}, errors.New("page size must be positive")
	}

	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = redmine.DefaultTimeout
		if v := os.Getenv("REDMINE_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid REDMINE_TIMEOUT env variable")
			}
			cfg.FetchTimeout = d
		}
	}

	return cfg, nil
}

// postgresURLFromEnv builds a connection string from the DB_* variables
func postgresURLFromEnv() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(envOr("DB_USER", "root"), envOr("DB_PASSWORD", "root")),
		Host:     envOr("DB_HOST", "host.docker.internal") + ":" + envOr("DB_PORT", "5432"),
		Path:     "/" + envOr("DB_NAME", "validacion_fabricacion"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
