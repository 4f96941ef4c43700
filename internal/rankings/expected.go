package rankings

import (
	"fmt"

	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
)

// Scope selects which weeks an expected record covers
type Scope string

const (
	ScopeSeasonToDate Scope = "season_to_date"
	ScopeSelectedWeek Scope = "selected_week"
)

// ParseScope accepts a scope name. Empty means season to date.
func ParseScope(raw string) (Scope, error) {
	switch Scope(raw) {
	case "", ScopeSeasonToDate:
		return ScopeSeasonToDate, nil
	case ScopeSelectedWeek:
		return ScopeSelectedWeek, nil
	default:
		return "", fmt.Errorf("unknown scope %q, expected %q or %q", raw, ScopeSeasonToDate, ScopeSelectedWeek)
	}
}

// Label is the human-readable scope name
func (s Scope) Label() string {
	if s == ScopeSelectedWeek {
		return "Selected Week"
	}
	return "Season-to-Date"
}

// Reasons reported when an expected record cannot be computed
const (
	ReasonNoCompletedWeek  = "Expected Record requires at least one completed week."
	ReasonNoScopeData      = "Expected Record matchup data is unavailable for this scope."
	ReasonScoresNotPresent = "Expected Record matchup scores are not available yet."
)

// RosterExpectation is one team's all-play result against its actual wins
type RosterExpectation struct {
	ExpectedRecord  ExpectedRecordLine `json:"expected_record"`
	ActualWins      int                `json:"actual_wins"`
	DeltaVsExpected float64            `json:"delta_vs_expected"`
	AllPlayWinPct   float64            `json:"all_play_win_pct"`
}

// ExpectedRecords holds an expectation for every roster. When Available is
// false every expectation is zero and Reason says why.
type ExpectedRecords struct {
	ByRoster  map[int]RosterExpectation `json:"by_roster"`
	Available bool                      `json:"available"`
	Reason    string                    `json:"reason,omitempty"`
}

// ComputeExpectedRecords plays every team against every other team each
// week. A week's all-play tally is divided by the number of opponents that
// week, so each week is worth one game whatever the number of scores.
//
// Season to date covers weeks 1..throughWeek; selected week covers only
// throughWeek. Anything other than selected week is season to date.
func ComputeExpectedRecords(rosters []sleeper.Roster, matchupsByWeek [][]sleeper.Matchup, throughWeek int, scope Scope) ExpectedRecords {
	raw := make(map[int]*RosterExpectation, len(rosters))
	for _, r := range rosters {
		raw[r.RosterID] = &RosterExpectation{}
	}

	unavailable := func(reason string) ExpectedRecords {
		return ExpectedRecords{ByRoster: flatten(raw), Reason: reason}
	}

	if throughWeek < 1 {
		return unavailable(ReasonNoCompletedWeek)
	}

	weekStart := 0
	if scope == ScopeSelectedWeek {
		weekStart = throughWeek - 1
	}
	weekEnd := min(throughWeek, len(matchupsByWeek)) - 1
	if weekEnd < weekStart {
		return unavailable(ReasonNoScopeData)
	}

	comparisons := 0
	for w := weekStart; w <= weekEnd; w++ {
		week := matchupsByWeek[w]
		comparisons += accumulateAllPlay(raw, week)

		for _, pair := range headToHeadPairs(week) {
			scoreA, okA := pair[0].Score()
			scoreB, okB := pair[1].Score()
			if !okA || !okB {
				continue
			}
			switch {
			case scoreA > scoreB:
				if e, ok := raw[pair[0].RosterID]; ok {
					e.ActualWins++
				}
			case scoreB > scoreA:
				if e, ok := raw[pair[1].RosterID]; ok {
					e.ActualWins++
				}
			}
		}
	}

	if comparisons == 0 {
		return unavailable(ReasonScoresNotPresent)
	}

	for _, e := range raw {
		expectedGames := e.ExpectedRecord.Wins + e.ExpectedRecord.Losses
		e.DeltaVsExpected = roundTo(float64(e.ActualWins)-e.ExpectedRecord.Wins, 1)
		e.ExpectedRecord.Wins = roundTo(e.ExpectedRecord.Wins, 1)
		e.ExpectedRecord.Losses = roundTo(e.ExpectedRecord.Losses, 1)
		e.ExpectedRecord.Ties = roundTo(e.ExpectedRecord.Ties, 1)
		if expectedGames > 0 {
			e.AllPlayWinPct = roundTo(e.ExpectedRecord.Wins/expectedGames, 3)
		}
	}

	return ExpectedRecords{ByRoster: flatten(raw), Available: true}
}

// accumulateAllPlay adds one week's normalized all-play record into totals
// and returns the number of pairwise comparisons made.
func accumulateAllPlay(totals map[int]*RosterExpectation, week []sleeper.Matchup) int {
	type entry struct {
		rosterID int
		score    float64
	}

	var valid []entry
	weekly := make(map[int]*ExpectedRecordLine)
	for _, m := range week {
		score, ok := m.Score()
		if !ok || m.RosterID <= 0 {
			continue
		}
		valid = append(valid, entry{rosterID: m.RosterID, score: score})
		weekly[m.RosterID] = &ExpectedRecordLine{}
	}

	comparisons := 0
	for i := 0; i < len(valid); i++ {
		a := weekly[valid[i].rosterID]
		for j := i + 1; j < len(valid); j++ {
			b := weekly[valid[j].rosterID]
			comparisons++

			switch {
			case valid[i].score > valid[j].score:
				a.Wins++
				b.Losses++
			case valid[j].score > valid[i].score:
				b.Wins++
				a.Losses++
			default:
				a.Wins += 0.5
				b.Wins += 0.5
				a.Losses += 0.5
				b.Losses += 0.5
				a.Ties++
				b.Ties++
			}
		}
	}

	opponents := float64(len(valid) - 1)
	if opponents <= 0 {
		return comparisons
	}
	for rosterID, line := range weekly {
		season, ok := totals[rosterID]
		if !ok {
			continue
		}
		season.ExpectedRecord.Wins += line.Wins / opponents
		season.ExpectedRecord.Losses += line.Losses / opponents
		season.ExpectedRecord.Ties += line.Ties / opponents
	}

	return comparisons
}

func flatten(raw map[int]*RosterExpectation) map[int]RosterExpectation {
	out := make(map[int]RosterExpectation, len(raw))
	for id, e := range raw {
		out[id] = *e
	}
	return out
}

// ApplyExpectedRecords returns a copy of rankings with the expected record
// fields filled in. Unavailable records leave them nil.
func ApplyExpectedRecords(rankings []ManagerRanking, expected ExpectedRecords) []ManagerRanking {
	out := make([]ManagerRanking, len(rankings))
	copy(out, rankings)
	if !expected.Available {
		return out
	}

	for i := range out {
		e, ok := expected.ByRoster[out[i].RosterID]
		if !ok {
			continue
		}
		record := e.ExpectedRecord
		delta := e.DeltaVsExpected
		pct := e.AllPlayWinPct
		out[i].ExpectedRecord = &record
		out[i].DeltaVsExpected = &delta
		out[i].AllPlayWinPct = &pct
	}
	return out
}
