package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GATEWAY_API_KEY", "test-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Gateway.Model != "google/gemini-2.5-flash" {
		t.Errorf("model = %q", cfg.Gateway.Model)
	}
	if cfg.Gateway.BaseURL != "https://ai.gateway.lovable.dev/v1" {
		t.Errorf("base_url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Refresh.Freshness != 6*time.Hour {
		t.Errorf("freshness = %v, want 6h", cfg.Refresh.Freshness)
	}
	if cfg.Refresh.HistoryLimit != 48 {
		t.Errorf("history_limit = %d, want 48", cfg.Refresh.HistoryLimit)
	}
	if cfg.Refresh.MaxCandidates != 30 {
		t.Errorf("max_candidates = %d, want 30", cfg.Refresh.MaxCandidates)
	}
	if cfg.Refresh.PaceInterval != 500*time.Millisecond {
		t.Errorf("pace_interval = %v, want 500ms", cfg.Refresh.PaceInterval)
	}
	if len(cfg.Refresh.Seeds) != 8 {
		t.Errorf("seeds = %v, want 8 defaults", cfg.Refresh.Seeds)
	}
	if cfg.Alerts.MinJump != 20 {
		t.Errorf("min_jump = %d, want 20", cfg.Alerts.MinJump)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing gateway key",
			cfg:     Config{Database: DatabaseConfig{Driver: "sqlite"}},
			wantErr: true,
		},
		{
			name: "sqlite needs no host",
			cfg: Config{
				Gateway:  GatewayConfig{APIKey: "k"},
				Database: DatabaseConfig{Driver: "sqlite", Path: "./x.db"},
			},
		},
		{
			name: "postgres without host",
			cfg: Config{
				Gateway:  GatewayConfig{APIKey: "k"},
				Database: DatabaseConfig{Driver: "postgres"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	pg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db.internal",
		Port:     5432,
		User:     "hypelens",
		Password: "secret",
		Name:     "hypelens",
		SSLMode:  "disable",
	}
	want := "host=db.internal port=5432 user=hypelens password=secret dbname=hypelens sslmode=disable"
	if got := pg.DSN(); got != want {
		t.Errorf("postgres DSN = %q, want %q", got, want)
	}

	lite := DatabaseConfig{Driver: "sqlite", Path: "./data/hypelens.db"}
	if got := lite.DSN(); got != "./data/hypelens.db" {
		t.Errorf("sqlite DSN = %q", got)
	}
}
