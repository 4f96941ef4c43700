package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Conorjs98/fantasy-dashboard/internal/rankings"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantError bool
		check     func(t *testing.T, c *Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{"SLEEPER_LEAGUE_ID": "123"},
			check: func(t *testing.T, c *Config) {
				if c.Sleeper.LeagueID != "123" {
					t.Errorf("Expected league ID 123, got %s", c.Sleeper.LeagueID)
				}
				if c.Sleeper.Timeout != 10*time.Second {
					t.Errorf("Expected 10s timeout, got %v", c.Sleeper.Timeout)
				}
				if c.Sleeper.FetchConcurrency != 6 {
					t.Errorf("Expected fetch concurrency 6, got %d", c.Sleeper.FetchConcurrency)
				}
				if c.Rankings.Ranking() != rankings.DefaultConfig() {
					t.Errorf("Expected default ranking config, got %+v", c.Rankings.Ranking())
				}
				if c.Rankings.DefaultPlayoffTeams != 6 {
					t.Errorf("Expected 6 playoff teams, got %d", c.Rankings.DefaultPlayoffTeams)
				}
				if c.LogLevel != "info" {
					t.Errorf("Expected info log level, got %s", c.LogLevel)
				}
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"SLEEPER_LEAGUE_ID":          "123",
				"SLEEPER_TIMEOUT":            "3s",
				"POWER_WEIGHT_WIN_PCT":       "0.6",
				"POWER_WEIGHT_NORMALIZED_PF": "0.4",
				"POWER_TIEBREAKER":           "none",
				"POSTGRES_URL":               "postgres://localhost/fantasy",
			},
			check: func(t *testing.T, c *Config) {
				if c.Sleeper.Timeout != 3*time.Second {
					t.Errorf("Expected 3s timeout, got %v", c.Sleeper.Timeout)
				}
				want := rankings.Config{Weights: rankings.Weights{WinPct: 0.6, NormalizedPF: 0.4}, Tiebreaker: rankings.TiebreakerNone}
				if c.Rankings.Ranking() != want {
					t.Errorf("Expected %+v, got %+v", want, c.Rankings.Ranking())
				}
				if c.Database.ConnString() != "postgres://localhost/fantasy" {
					t.Errorf("Expected POSTGRES_URL fallback, got %s", c.Database.ConnString())
				}
			},
		},
		{
			name: "database url preferred",
			env: map[string]string{
				"SLEEPER_LEAGUE_ID": "123",
				"DATABASE_URL":      "postgres://primary/db",
				"POSTGRES_URL":      "postgres://secondary/db",
			},
			check: func(t *testing.T, c *Config) {
				if c.Database.ConnString() != "postgres://primary/db" {
					t.Errorf("Expected DATABASE_URL, got %s", c.Database.ConnString())
				}
			},
		},
		{
			name:      "league id required",
			env:       map[string]string{},
			wantError: true,
		},
		{
			name: "weights must sum to one",
			env: map[string]string{
				"SLEEPER_LEAGUE_ID":          "123",
				"POWER_WEIGHT_WIN_PCT":       "0.9",
				"POWER_WEIGHT_NORMALIZED_PF": "0.9",
			},
			wantError: true,
		},
		{
			name: "unknown tiebreaker",
			env: map[string]string{
				"SLEEPER_LEAGUE_ID": "123",
				"POWER_TIEBREAKER":  "head_to_head",
			},
			wantError: true,
		},
		{
			name: "fetch concurrency at least one",
			env: map[string]string{
				"SLEEPER_LEAGUE_ID":         "123",
				"SLEEPER_FETCH_CONCURRENCY": "0",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"SLEEPER_LEAGUE_ID", "SLEEPER_TIMEOUT", "SLEEPER_FETCH_CONCURRENCY",
				"POWER_WEIGHT_WIN_PCT", "POWER_WEIGHT_NORMALIZED_PF", "POWER_TIEBREAKER",
				"DATABASE_URL", "POSTGRES_URL",
			} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			c, err := New()
			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadLeagueSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "league_settings.json")
	content := `{
		"leagues": {
			"111": {
				"name": "Record League",
				"rankings": {"win_pct_weight": 0.7, "normalized_pf_weight": 0.3, "tiebreaker": "none", "playoff_teams": 4}
			},
			"222": {
				"name": "Broken League",
				"rankings": {"win_pct_weight": 0.9}
			}
		},
		"default_settings": {"name": "Default League"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	cfg, err := LoadLeagueSettings(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := cfg.GetLeagueSettings("111").Name; got != "Record League" {
		t.Errorf("Expected Record League, got %s", got)
	}
	if got := cfg.GetLeagueSettings("999").Name; got != "Default League" {
		t.Errorf("Expected default settings for unknown league, got %s", got)
	}

	base := rankings.DefaultConfig()

	merged, err := cfg.RankingConfig("111", base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := rankings.Config{Weights: rankings.Weights{WinPct: 0.7, NormalizedPF: 0.3}, Tiebreaker: rankings.TiebreakerNone}
	if merged != want {
		t.Errorf("Expected %+v, got %+v", want, merged)
	}

	unchanged, err := cfg.RankingConfig("999", base)
	if err != nil || unchanged != base {
		t.Errorf("Expected base config for unknown league, got %+v (err=%v)", unchanged, err)
	}

	fallback, err := cfg.RankingConfig("222", base)
	if err == nil {
		t.Error("Expected error for overrides that do not sum to 1")
	}
	if fallback != base {
		t.Errorf("Expected base config returned alongside error, got %+v", fallback)
	}

	if got := cfg.PlayoffTeams("111", 6); got != 4 {
		t.Errorf("Expected 4 playoff teams, got %d", got)
	}
	if got := cfg.PlayoffTeams("999", 6); got != 6 {
		t.Errorf("Expected fallback of 6 playoff teams, got %d", got)
	}
}

func TestLoadLeagueSettings_Errors(t *testing.T) {
	if _, err := LoadLeagueSettings(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing explicit path")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}
	if _, err := LoadLeagueSettings(path); err == nil {
		t.Error("Expected error for malformed settings")
	}
}
