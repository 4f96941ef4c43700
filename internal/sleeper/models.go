package sleeper

import (
	"math"
	"time"
)

// League represents a Sleeper fantasy league
type League struct {
	LeagueID         string             `json:"league_id"`
	PreviousLeagueID string             `json:"previous_league_id,omitempty"`
	Name             string             `json:"name"`
	Status           string             `json:"status"`
	Sport            string             `json:"sport"`
	Season           string             `json:"season"`
	Settings         LeagueSettings     `json:"settings"`
	ScoringSettings  map[string]float64 `json:"scoring_settings"`
	RosterPositions  []string           `json:"roster_positions"`
	TotalRosters     int                `json:"total_rosters"`
	Avatar           string             `json:"avatar"`
}

// League status values reported by Sleeper
const (
	StatusPreDraft = "pre_draft"
	StatusDrafting = "drafting"
	StatusInSeason = "in_season"
	StatusComplete = "complete"
)

// LeagueSettings contains league configuration
type LeagueSettings struct {
	PlayoffTeams     int `json:"playoff_teams"`
	PlayoffWeekStart int `json:"playoff_week_start"`
	PlayoffSeedType  int `json:"playoff_seed_type"`
	NumTeams         int `json:"num_teams"`
	StartWeek        int `json:"start_week"`
	Leg              int `json:"leg"`
	// LastScoredLeg is nil until Sleeper has scored a week
	LastScoredLeg *int `json:"last_scored_leg"`
}

// NFLState is the current NFL season/week as reported by Sleeper
type NFLState struct {
	Season     string `json:"season"`
	SeasonType string `json:"season_type"`
	Week       int    `json:"week"`
	Leg        int    `json:"leg"`
}

// User represents a Sleeper user
type User struct {
	UserID      string       `json:"user_id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name"`
	Avatar      string       `json:"avatar"`
	Metadata    UserMetadata `json:"metadata"`
}

// UserMetadata holds the league-specific profile a user sets for their team
type UserMetadata struct {
	TeamName string `json:"team_name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	TeamLogo string `json:"team_logo,omitempty"`
}

// Roster represents a team's roster
type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Metadata RosterMetadata `json:"metadata"`
	Settings RosterSettings `json:"settings"`
}

// RosterMetadata holds roster-level branding
type RosterMetadata struct {
	Avatar   string `json:"avatar,omitempty"`
	TeamLogo string `json:"team_logo,omitempty"`
}

// RosterSettings contains team performance data
type RosterSettings struct {
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	FPTS               float64 `json:"fpts"`
	FPTSDecimal        float64 `json:"fpts_decimal"`
	FPTSAgainst        float64 `json:"fpts_against"`
	FPTSAgainstDecimal float64 `json:"fpts_against_decimal"`
	Division           int     `json:"division,omitempty"`
	PlayoffSeed        int     `json:"playoff_seed,omitempty"`
}

// PointsFor returns the season points scored, joining the integer and hundredths fields
func (s RosterSettings) PointsFor() float64 {
	return s.FPTS + s.FPTSDecimal/100
}

// PointsAgainst returns the season points allowed
func (s RosterSettings) PointsAgainst() float64 {
	return s.FPTSAgainst + s.FPTSAgainstDecimal/100
}

// Matchup is one roster's result for one week. Rosters sharing a MatchupID
// played each other; a zero MatchupID means no opponent (bye or null id).
type Matchup struct {
	RosterID       int       `json:"roster_id"`
	MatchupID      int       `json:"matchup_id"`
	Points         *float64  `json:"points"`
	Starters       []string  `json:"starters"`
	StartersPoints []float64 `json:"starters_points"`
}

// Score returns the matchup score and whether it is a usable finite number
func (m Matchup) Score() (float64, bool) {
	if m.Points == nil || math.IsNaN(*m.Points) || math.IsInf(*m.Points, 0) {
		return 0, false
	}
	return *m.Points, true
}

// BracketMatchup represents a playoff bracket matchup from Sleeper's bracket API
type BracketMatchup struct {
	MatchupID int          `json:"m"`           // match number within the bracket
	Round     int          `json:"r"`           // round
	Placement *int         `json:"p,omitempty"` // final place decided by this match, only on placement games
	Winner    *int         `json:"w,omitempty"` // winner roster ID once decided
	Loser     *int         `json:"l,omitempty"` // loser roster ID once decided
	Team1     *int         `json:"t1,omitempty"`
	Team2     *int         `json:"t2,omitempty"`
	Team1From *BracketFrom `json:"t1_from,omitempty"`
	Team2From *BracketFrom `json:"t2_from,omitempty"`
}

// BracketFrom points at the earlier bracket match a team advanced from
type BracketFrom struct {
	Winner *int `json:"w,omitempty"`
	Loser  *int `json:"l,omitempty"`
}

// APIResponse represents the standard response format for our tools
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  string      `json:"summary"`
	Error    string      `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	StatusCode   int       `json:"status_code,omitempty"`
	APICallsUsed int       `json:"api_calls_used,omitempty"`
	LeagueID     string    `json:"league_id,omitempty"`
	Season       string    `json:"season,omitempty"`
}

// SleeperError represents an error from the Sleeper API
type SleeperError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	LeagueID   string `json:"league_id,omitempty"`
}

func (e *SleeperError) Error() string {
	return e.Message
}
