package rankings

import "github.com/Conorjs98/fantasy-dashboard/internal/sleeper"

// DeriveFinalPlacements maps roster ids to their final place (1 = champion)
// from completed playoff brackets. Only placement games (those carrying p, w
// and l) contribute: the winner takes p and the loser p+1. Losers bracket
// places are offset by playoffTeams so they sort below every playoff team.
//
// Brackets are not cross-checked. If a roster is named by more than one
// placement game, the last one seen wins.
func DeriveFinalPlacements(winners, losers []sleeper.BracketMatchup, playoffTeams int) map[int]int {
	placements := make(map[int]int)

	for _, match := range winners {
		if match.Placement == nil || match.Winner == nil || match.Loser == nil {
			continue
		}
		placements[*match.Winner] = *match.Placement
		placements[*match.Loser] = *match.Placement + 1
	}

	for _, match := range losers {
		if match.Placement == nil || match.Winner == nil || match.Loser == nil {
			continue
		}
		placements[*match.Winner] = *match.Placement + playoffTeams
		placements[*match.Loser] = *match.Placement + 1 + playoffTeams
	}

	return placements
}
