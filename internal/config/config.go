package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

type Config struct {
	AppEnv   string
	LogLevel string

	// BaseURL — адрес REST API хелпдеска, все пути запросов относительны ему.
	BaseURL string

	Storage struct {
		Backend     string
		SessionFile string
		DSN         string
	}

	PageSize     int
	SummaryWords int
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
		BaseURL:  firstEnv("HELPDESK_BASE_URL", "HELPDESK_API_URL", "http://localhost:5000/api"),
	}
	cfg.Storage.Backend = getEnv("HELPDESK_STORAGE", StorageFile)
	cfg.Storage.SessionFile = getEnv("HELPDESK_SESSION_FILE", defaultPath("session.json"))
	cfg.Storage.DSN = getEnv("HELPDESK_STORAGE_DSN", defaultPath("storage.db"))

	var err error
	if cfg.PageSize, err = getInt("HELPDESK_PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.SummaryWords, err = getInt("HELPDESK_SUMMARY_WORDS", 8); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: HELPDESK_BASE_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: HELPDESK_BASE_URL %q is not an absolute URL", c.BaseURL)
	}
	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.SessionFile == "" {
			return errors.New("config: HELPDESK_SESSION_FILE is required for file storage")
		}
	case StorageSQLite:
		if c.Storage.DSN == "" {
			return errors.New("config: HELPDESK_STORAGE_DSN is required for sqlite storage")
		}
	default:
		return fmt.Errorf("config: unknown HELPDESK_STORAGE %q", c.Storage.Backend)
	}
	if c.PageSize <= 0 || c.SummaryWords <= 0 {
		return errors.New("config: HELPDESK_PAGE_SIZE and HELPDESK_SUMMARY_WORDS must be positive")
	}
	return nil
}

// defaultPath resolves name under $XDG_CONFIG_HOME/helpdesk (or ~/.config/helpdesk).
func defaultPath(name string) string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "helpdesk-"+name)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "helpdesk", name)
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
