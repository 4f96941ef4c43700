// Package rankings derives standings, power rankings and all-play expected
// records from Sleeper roster and weekly matchup data.
//
// Everything in this package is pure: no I/O, no logging, no clocks. The
// same inputs always produce the same output.
package rankings

import "github.com/Conorjs98/fantasy-dashboard/internal/sleeper"

// AccumulatedStats is a team's cumulative record through a cutoff week
type AccumulatedStats struct {
	RosterID      int     `json:"roster_id"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
}

// AccumulateStats folds weekly head-to-head results into one record per
// roster, in roster input order. Week index i of matchupsByWeek holds week
// i+1. Only the first throughWeek weeks are folded.
//
// When there is no weekly data, or throughWeek is not positive, the season
// totals Sleeper reports on each roster are returned instead.
func AccumulateStats(rosters []sleeper.Roster, matchupsByWeek [][]sleeper.Matchup, throughWeek int) []AccumulatedStats {
	if len(matchupsByWeek) == 0 || throughWeek <= 0 {
		return seasonTotals(rosters)
	}

	stats := make([]AccumulatedStats, 0, len(rosters))
	index := make(map[int]int, len(rosters))
	for _, r := range rosters {
		if _, seen := index[r.RosterID]; seen {
			continue
		}
		index[r.RosterID] = len(stats)
		stats = append(stats, AccumulatedStats{RosterID: r.RosterID})
	}

	weeks := min(throughWeek, len(matchupsByWeek))
	for w := 0; w < weeks; w++ {
		for _, pair := range headToHeadPairs(matchupsByWeek[w]) {
			a, b := pair[0], pair[1]
			ia, okA := index[a.RosterID]
			ib, okB := index[b.RosterID]
			if !okA || !okB {
				continue
			}

			// missing scores count as zero here
			scoreA, _ := a.Score()
			scoreB, _ := b.Score()

			statsA, statsB := &stats[ia], &stats[ib]
			statsA.PointsFor += scoreA
			statsA.PointsAgainst += scoreB
			statsB.PointsFor += scoreB
			statsB.PointsAgainst += scoreA

			switch {
			case scoreA > scoreB:
				statsA.Wins++
				statsB.Losses++
			case scoreB > scoreA:
				statsB.Wins++
				statsA.Losses++
			default:
				statsA.Ties++
				statsB.Ties++
			}
		}
	}

	return stats
}

func seasonTotals(rosters []sleeper.Roster) []AccumulatedStats {
	stats := make([]AccumulatedStats, 0, len(rosters))
	seen := make(map[int]bool, len(rosters))
	for _, r := range rosters {
		if seen[r.RosterID] {
			continue
		}
		seen[r.RosterID] = true
		stats = append(stats, AccumulatedStats{
			RosterID:      r.RosterID,
			Wins:          r.Settings.Wins,
			Losses:        r.Settings.Losses,
			Ties:          r.Settings.Ties,
			PointsFor:     r.Settings.PointsFor(),
			PointsAgainst: r.Settings.PointsAgainst(),
		})
	}
	return stats
}

// headToHeadPairs groups a week's results by matchup id and returns the
// groups of exactly two, in order of first appearance. A zero matchup id
// marks a bye and never pairs.
func headToHeadPairs(week []sleeper.Matchup) [][2]sleeper.Matchup {
	groups := make(map[int][]sleeper.Matchup)
	var order []int
	for _, m := range week {
		if m.MatchupID == 0 {
			continue
		}
		if _, ok := groups[m.MatchupID]; !ok {
			order = append(order, m.MatchupID)
		}
		groups[m.MatchupID] = append(groups[m.MatchupID], m)
	}

	pairs := make([][2]sleeper.Matchup, 0, len(order))
	for _, id := range order {
		group := groups[id]
		if len(group) != 2 {
			continue
		}
		pairs = append(pairs, [2]sleeper.Matchup{group[0], group[1]})
	}
	return pairs
}
