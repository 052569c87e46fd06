package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HELPDESK_BASE_URL", "HELPDESK_API_URL", "HELPDESK_STORAGE", "HELPDESK_SESSION_FILE", "HELPDESK_PAGE_SIZE", "HELPDESK_SUMMARY_WORDS"} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "http://localhost:5000/api" || cfg.PageSize != 10 || cfg.SummaryWords != 8 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Storage.Backend != StorageFile || cfg.Storage.SessionFile != "/tmp/xdg/helpdesk/session.json" {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBadInt(t *testing.T) {
	t.Setenv("HELPDESK_PAGE_SIZE", "ten")
	if _, err := Load(); err == nil {
		t.Fatal("non-numeric page size accepted")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{BaseURL: "https://desk.example.com/api", PageSize: 10, SummaryWords: 8}
		c.Storage.Backend = StorageSQLite
		c.Storage.DSN = "/tmp/helpdesk.db"
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"relative url", func(c *Config) { c.BaseURL = "/api" }, false},
		{"no dsn", func(c *Config) { c.Storage.DSN = "" }, false},
		{"file without path", func(c *Config) { c.Storage.Backend = StorageFile }, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, false},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
