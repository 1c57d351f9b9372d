package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Tautulli: TautulliConfig{
			URL:    "http://localhost:8181",
			APIKey: "valid-api-key",
		},
		Email: EmailConfig{
			Host:        "smtp.example.com",
			Port:        587,
			FromAddress: "plex@example.com",
			Subject:     DefaultSubject,
		},
		Matching: MatchingConfig{
			Strategy: "substring",
		},
		Report: ReportConfig{
			Days:    1,
			Library: "Movies",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing tautulli url",
			mutate:  func(c *Config) { c.Tautulli.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.Tautulli.APIKey = "" },
			wantErr: true,
		},
		{
			name:    "placeholder api key",
			mutate:  func(c *Config) { c.Tautulli.APIKey = "your-api-key-here" },
			wantErr: true,
		},
		{
			name:    "missing smtp host",
			mutate:  func(c *Config) { c.Email.Host = "" },
			wantErr: true,
		},
		{
			name:    "invalid smtp port",
			mutate:  func(c *Config) { c.Email.Port = 0 },
			wantErr: true,
		},
		{
			name:    "missing from address",
			mutate:  func(c *Config) { c.Email.FromAddress = "" },
			wantErr: true,
		},
		{
			name:    "invalid matching strategy",
			mutate:  func(c *Config) { c.Matching.Strategy = "fuzzy" },
			wantErr: true,
		},
		{
			name:    "exact matching strategy",
			mutate:  func(c *Config) { c.Matching.Strategy = "exact" },
			wantErr: false,
		},
		{
			name:    "zero days",
			mutate:  func(c *Config) { c.Report.Days = 0 },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "pretty" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `tautulli:
  url: http://localhost:8181
  api_key: test-key
email:
  host: smtp.example.com
  from_address: plex@example.com
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Email.Port != 587 {
		t.Errorf("email.port default = %d, want 587", cfg.Email.Port)
	}
	if cfg.Email.Subject != DefaultSubject {
		t.Errorf("email.subject default = %q, want %q", cfg.Email.Subject, DefaultSubject)
	}
	if cfg.Images.Poster.Height != 205 || cfg.Images.Poster.Width != 100 {
		t.Errorf("poster default = %dx%d, want 205x100", cfg.Images.Poster.Height, cfg.Images.Poster.Width)
	}
	if cfg.Images.Art.Height != 100 || cfg.Images.Art.Width != 205 {
		t.Errorf("art default = %dx%d, want 100x205", cfg.Images.Art.Height, cfg.Images.Art.Width)
	}
	if cfg.Matching.Strategy != "substring" {
		t.Errorf("matching.strategy default = %q, want substring", cfg.Matching.Strategy)
	}
	if cfg.Report.Days != 1 {
		t.Errorf("report.days default = %d, want 1", cfg.Report.Days)
	}
	if cfg.Report.Library != "Movies" {
		t.Errorf("report.library default = %q, want Movies", cfg.Report.Library)
	}
	if cfg.Report.SendEmpty {
		t.Error("report.send_empty default should be false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
