package config

import (
	"fmt"
	"time"

	"github.com/Conorjs98/fantasy-dashboard/internal/rankings"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Sleeper  Sleeper
	Rankings Rankings
	Database Database

	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	LeagueSettingsPath string `envconfig:"LEAGUE_SETTINGS_PATH"`
}

type Sleeper struct {
	LeagueID         string        `envconfig:"SLEEPER_LEAGUE_ID" required:"true"`
	BaseURL          string        `envconfig:"SLEEPER_BASE_URL"`
	Timeout          time.Duration `envconfig:"SLEEPER_TIMEOUT" default:"10s"`
	FetchConcurrency int           `envconfig:"SLEEPER_FETCH_CONCURRENCY" default:"6"`
}

type Rankings struct {
	WinPctWeight        float64 `envconfig:"POWER_WEIGHT_WIN_PCT" default:"0.5"`
	NormalizedPFWeight  float64 `envconfig:"POWER_WEIGHT_NORMALIZED_PF" default:"0.5"`
	Tiebreaker          string  `envconfig:"POWER_TIEBREAKER" default:"points_against"`
	DefaultPlayoffTeams int     `envconfig:"DEFAULT_PLAYOFF_TEAMS" default:"6"`
}

type Database struct {
	URL         string `envconfig:"DATABASE_URL"`
	PostgresURL string `envconfig:"POSTGRES_URL"`
}

// ConnString prefers DATABASE_URL and falls back to POSTGRES_URL
func (d Database) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	return d.PostgresURL
}

// Ranking builds the ranking config the env describes
func (r Rankings) Ranking() rankings.Config {
	return rankings.Config{
		Weights: rankings.Weights{
			WinPct:       r.WinPctWeight,
			NormalizedPF: r.NormalizedPFWeight,
		},
		Tiebreaker: rankings.TiebreakerType(r.Tiebreaker),
	}
}

func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Rankings.Ranking().Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking settings: %w", err)
	}
	if c.Sleeper.FetchConcurrency < 1 {
		return nil, fmt.Errorf("SLEEPER_FETCH_CONCURRENCY must be at least 1, got %d", c.Sleeper.FetchConcurrency)
	}
	if c.Rankings.DefaultPlayoffTeams < 0 {
		return nil, fmt.Errorf("DEFAULT_PLAYOFF_TEAMS must not be negative, got %d", c.Rankings.DefaultPlayoffTeams)
	}
	return &c, nil
}
