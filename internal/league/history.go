package league

import (
	"context"
	"fmt"

	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
	"github.com/sirupsen/logrus"
)

// HistoryEntry is one season of a league, newest first in a history
type HistoryEntry struct {
	LeagueID string          `json:"league_id"`
	League   *sleeper.League `json:"league"`
}

// ResolveHistory follows previous_league_id links back from leagueID.
// Failing to load leagueID itself is an error; a failure further back ends
// the walk with the seasons found so far.
func ResolveHistory(ctx context.Context, client sleeper.Client, logger *logrus.Logger, leagueID string) ([]HistoryEntry, error) {
	var history []HistoryEntry
	visited := make(map[string]bool)

	current := leagueID
	for current != "" && !visited[current] {
		visited[current] = true

		league, err := client.GetLeague(ctx, current)
		if err != nil {
			if len(history) == 0 {
				return nil, fmt.Errorf("failed to resolve league history: %w", err)
			}
			logger.WithError(err).WithFields(logrus.Fields{
				"league_id":       leagueID,
				"previous_league": current,
				"seasons_found":   len(history),
			}).Warn("Stopped league history walk early")
			break
		}

		history = append(history, HistoryEntry{LeagueID: current, League: league})
		current = league.PreviousLeagueID
	}

	return history, nil
}

// Seasons lists the seasons of a history in walk order
func Seasons(history []HistoryEntry) []string {
	seasons := make([]string, 0, len(history))
	for _, entry := range history {
		seasons = append(seasons, entry.League.Season)
	}
	return seasons
}

// findSeason returns the entry for season, or the newest entry when season is empty
func findSeason(history []HistoryEntry, season string) (HistoryEntry, bool) {
	if len(history) == 0 {
		return HistoryEntry{}, false
	}
	if season == "" {
		return history[0], true
	}
	for _, entry := range history {
		if entry.League.Season == season {
			return entry, true
		}
	}
	return HistoryEntry{}, false
}
