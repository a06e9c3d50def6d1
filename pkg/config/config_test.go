package config

import (
	"testing"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.Site.BaseURL != "https://epiotrkow.pl" {
		t.Errorf("default base URL = %q", cfg.Site.BaseURL)
	}
	if cfg.Crawl.MaxPages != 20 {
		t.Errorf("default max pages = %d, want 20", cfg.Crawl.MaxPages)
	}
	if cfg.Lead.MaxChars != 1000 {
		t.Errorf("default lead budget = %d, want 1000", cfg.Lead.MaxChars)
	}
	if cfg.Lead.MinGood != 250 {
		t.Errorf("default lead quality gate = %d, want 250", cfg.Lead.MinGood)
	}
	if cfg.Feed.DateFallback != DateFallbackNow {
		t.Errorf("default date fallback = %q, want now", cfg.Feed.DateFallback)
	}
	if cfg.HTTP.TextProxyURL != "" {
		t.Error("text proxy should be disabled by default")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("MAX_PAGES", "3")
	t.Setenv("LEAD_MIN_GOOD", "100")
	t.Setenv("REQUESTS_PER_SECOND", "0.5")
	t.Setenv("DATE_FALLBACK_MODE", "omit")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.Crawl.MaxPages != 3 {
		t.Errorf("max pages = %d, want 3", cfg.Crawl.MaxPages)
	}
	if cfg.Lead.MinGood != 100 {
		t.Errorf("lead quality gate = %d, want 100", cfg.Lead.MinGood)
	}
	if cfg.HTTP.RequestsPerSecond != 0.5 {
		t.Errorf("requests per second = %f, want 0.5", cfg.HTTP.RequestsPerSecond)
	}
	if cfg.Feed.DateFallback != DateFallbackOmit {
		t.Errorf("date fallback = %q, want omit", cfg.Feed.DateFallback)
	}
}

func TestLoadFromEnv_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_PAGES", "dużo")

	cfg, _ := LoadFromEnv()
	if cfg.Crawl.MaxPages != 20 {
		t.Errorf("malformed value should fall back to default, got %d", cfg.Crawl.MaxPages)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, _ := LoadFromEnv()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty base URL", func(c *Config) { c.Site.BaseURL = "" }, true},
		{"zero max pages", func(c *Config) { c.Crawl.MaxPages = 0 }, true},
		{"budget below gate", func(c *Config) { c.Lead.MaxChars = 100 }, true},
		{"zero retries", func(c *Config) { c.HTTP.RetryCount = 0 }, true},
		{"negative rate", func(c *Config) { c.HTTP.RequestsPerSecond = -1 }, true},
		{"bad date fallback", func(c *Config) { c.Feed.DateFallback = "yesterday" }, true},
		{"bad description mode", func(c *Config) { c.Feed.DescriptionMode = "markdown" }, true},
		{"empty output path", func(c *Config) { c.OutputPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
