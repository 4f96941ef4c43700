package league

import (
	"errors"

	"github.com/Conorjs98/fantasy-dashboard/internal/rankings"
	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
)

// RegularSeasonWeeks is used when a league has no playoff start week
const RegularSeasonWeeks = 17

// ErrSeasonNotFound is returned when a requested season is not in the league's history
var ErrSeasonNotFound = errors.New("season not found")

// Info is the resolved view of one league season
type Info struct {
	LeagueID         string  `json:"league_id"`
	Name             string  `json:"name"`
	Season           string  `json:"season"`
	CurrentWeek      int     `json:"current_week"`
	TotalWeeks       int     `json:"total_weeks"`
	PlayoffWeekStart int     `json:"playoff_week_start,omitempty"`
	Status           string  `json:"status"`
	Avatar           *string `json:"avatar"`
}

// Member is a league member as shown in lists and lookups
type Member = rankings.Identity

// Context is a league season with its members and the seasons around it
type Context struct {
	League           Info             `json:"league"`
	Members          []Member         `json:"members"`
	AvailableSeasons []string         `json:"available_seasons"`
	Rosters          []sleeper.Roster `json:"-"`
	Users            []sleeper.User   `json:"-"`
	Raw              *sleeper.League  `json:"-"`
}

// BuildInfo resolves the current and total weeks for a league season.
//
// The current week is the last scored week once Sleeper has scored one;
// before that it is the final regular season week for completed leagues,
// and the NFL's live week when the league is this season's. It is never
// below 1.
func BuildInfo(leagueID string, league *sleeper.League, state *sleeper.NFLState) Info {
	totalWeeks := RegularSeasonWeeks
	if league.Settings.PlayoffWeekStart > 0 {
		totalWeeks = league.Settings.PlayoffWeekStart - 1
	}

	liveWeek := 1
	if state != nil && league.Season == state.Season && state.Leg > 0 {
		liveWeek = state.Leg
	}

	scoredWeek := 0
	if league.Settings.LastScoredLeg != nil {
		scoredWeek = *league.Settings.LastScoredLeg
	}

	var currentWeek int
	switch {
	case scoredWeek > 0:
		currentWeek = scoredWeek
	case league.Status == sleeper.StatusComplete:
		currentWeek = totalWeeks
	default:
		currentWeek = liveWeek
	}

	return Info{
		LeagueID:         leagueID,
		Name:             league.Name,
		Season:           league.Season,
		CurrentWeek:      max(1, currentWeek),
		TotalWeeks:       totalWeeks,
		PlayoffWeekStart: league.Settings.PlayoffWeekStart,
		Status:           league.Status,
		Avatar:           sleeper.AvatarURL(league.Avatar),
	}
}

// BuildMembers resolves every roster's owner, names and avatar, in roster order
func BuildMembers(rosters []sleeper.Roster, users []sleeper.User) []Member {
	return rankings.Identities(rosters, users)
}
