package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Conorjs98/fantasy-dashboard/internal/rankings"
)

// LeagueSettings represents the configuration for a specific league
type LeagueSettings struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Rankings    RankingOverrides `json:"rankings"`
}

// RankingOverrides replaces parts of the env ranking config for one league.
// Unset fields keep the env value.
type RankingOverrides struct {
	WinPctWeight       *float64 `json:"win_pct_weight,omitempty"`
	NormalizedPFWeight *float64 `json:"normalized_pf_weight,omitempty"`
	Tiebreaker         string   `json:"tiebreaker,omitempty"`
	PlayoffTeams       *int     `json:"playoff_teams,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// LeagueConfig represents the entire league configuration file
type LeagueConfig struct {
	Instructions    string                    `json:"_instructions,omitempty"`
	Leagues         map[string]LeagueSettings `json:"leagues"`
	DefaultSettings LeagueSettings            `json:"default_settings"`
	Template        map[string]LeagueSettings `json:"_template,omitempty"`
}

var defaultSettingsPaths = []string{
	"configs/league_settings.json",
	"../configs/league_settings.json",
	"../../configs/league_settings.json",
}

// DefaultLeagueConfig has no per-league overrides
func DefaultLeagueConfig() *LeagueConfig {
	return &LeagueConfig{
		Leagues: make(map[string]LeagueSettings),
		DefaultSettings: LeagueSettings{
			Name:        "Default League",
			Description: "Power rankings with environment weights and tiebreaker",
		},
	}
}

// LoadLeagueSettings loads league configuration from path, or from the
// usual configs/ locations when path is empty. A missing file yields the
// default configuration; an explicit path that cannot be read is an error.
func LoadLeagueSettings(path string) (*LeagueConfig, error) {
	var configData []byte
	var foundPath string

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read league settings %s: %w", path, err)
		}
		configData, foundPath = data, path
	} else {
		for _, candidate := range defaultSettingsPaths {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if data, err := os.ReadFile(candidate); err == nil {
				configData, foundPath = data, candidate
				break
			}
		}
	}

	if foundPath == "" {
		return DefaultLeagueConfig(), nil
	}

	var config LeagueConfig
	if err := json.Unmarshal(configData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse league settings from %s: %w", foundPath, err)
	}
	if config.Leagues == nil {
		config.Leagues = make(map[string]LeagueSettings)
	}

	return &config, nil
}

// GetLeagueSettings returns settings for a specific league ID
func (c *LeagueConfig) GetLeagueSettings(leagueID string) LeagueSettings {
	if settings, exists := c.Leagues[leagueID]; exists {
		return settings
	}

	// Return default settings if league not found
	return c.DefaultSettings
}

// RankingConfig applies a league's overrides on top of base and validates the result
func (c *LeagueConfig) RankingConfig(leagueID string, base rankings.Config) (rankings.Config, error) {
	overrides := c.GetLeagueSettings(leagueID).Rankings

	cfg := base
	if overrides.WinPctWeight != nil {
		cfg.Weights.WinPct = *overrides.WinPctWeight
	}
	if overrides.NormalizedPFWeight != nil {
		cfg.Weights.NormalizedPF = *overrides.NormalizedPFWeight
	}
	if overrides.Tiebreaker != "" {
		cfg.Tiebreaker = rankings.TiebreakerType(overrides.Tiebreaker)
	}

	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("league %s ranking overrides: %w", leagueID, err)
	}
	return cfg, nil
}

// PlayoffTeams returns the league's configured playoff team count, or fallback
func (c *LeagueConfig) PlayoffTeams(leagueID string, fallback int) int {
	if n := c.GetLeagueSettings(leagueID).Rankings.PlayoffTeams; n != nil && *n > 0 {
		return *n
	}
	return fallback
}
