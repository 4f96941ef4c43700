package rankings

import (
	"fmt"
	"math"
	"sort"

	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
)

// TiebreakerType is the stat compared after wins and points for
type TiebreakerType string

const (
	// TiebreakerPointsAgainst ranks the team with more points against higher
	TiebreakerPointsAgainst TiebreakerType = "points_against"
	// TiebreakerNone leaves teams level on wins and points for in input order
	TiebreakerNone TiebreakerType = "none"
)

// Weights blend win percentage and normalized points for into a power score
type Weights struct {
	WinPct       float64 `json:"win_pct"`
	NormalizedPF float64 `json:"normalized_pf"`
}

// Config controls how ComputeRankings scores and orders teams
type Config struct {
	Weights    Weights        `json:"weights"`
	Tiebreaker TiebreakerType `json:"tiebreaker"`
}

const weightTolerance = 1e-9

// DefaultConfig weighs record and scoring evenly and breaks ties on points against
func DefaultConfig() Config {
	return Config{
		Weights:    Weights{WinPct: 0.5, NormalizedPF: 0.5},
		Tiebreaker: TiebreakerPointsAgainst,
	}
}

// Validate checks that weights are non-negative and sum to 1
func (c Config) Validate() error {
	if c.Weights.WinPct < 0 || c.Weights.NormalizedPF < 0 {
		return fmt.Errorf("power ranking weights must be non-negative, got win_pct=%v normalized_pf=%v",
			c.Weights.WinPct, c.Weights.NormalizedPF)
	}
	if sum := c.Weights.WinPct + c.Weights.NormalizedPF; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("power ranking weights must sum to 1, got %v", sum)
	}
	switch c.Tiebreaker {
	case TiebreakerPointsAgainst, TiebreakerNone:
	default:
		return fmt.Errorf("unknown tiebreaker %q", c.Tiebreaker)
	}
	return nil
}

// ExpectedRecordLine is a fractional all-play record
type ExpectedRecordLine struct {
	Wins   float64 `json:"wins"`
	Losses float64 `json:"losses"`
	Ties   float64 `json:"ties"`
}

// ManagerRanking is one team's place in a power ranking. The expected
// record fields are nil when the view did not compute them.
type ManagerRanking struct {
	Identity
	Rank            int                 `json:"rank"`
	PowerScore      float64             `json:"power_score"`
	Wins            int                 `json:"wins"`
	Losses          int                 `json:"losses"`
	Ties            int                 `json:"ties"`
	PointsFor       float64             `json:"points_for"`
	PointsAgainst   float64             `json:"points_against"`
	ExpectedRecord  *ExpectedRecordLine `json:"expected_record,omitempty"`
	DeltaVsExpected *float64            `json:"delta_vs_expected,omitempty"`
	AllPlayWinPct   *float64            `json:"all_play_win_pct,omitempty"`
}

// Options carries optional ranking inputs
type Options struct {
	// FinalPlacements, when non-empty, orders teams by final place instead
	// of by record. Teams without a place sort last.
	FinalPlacements map[int]int
}

// ComputeRankings scores every team and returns them ranked 1..N.
//
// powerScore = (winPct*W1 + normalizedPF*W2) * 100, where normalizedPF is
// points for over the league's best points for (denominator at least 1).
func ComputeRankings(stats []AccumulatedStats, rosters []sleeper.Roster, users []sleeper.User, opts Options, cfg Config) []ManagerRanking {
	idx := newIdentityIndex(rosters, users)

	maxPF := 1.0
	for _, s := range stats {
		maxPF = math.Max(maxPF, s.PointsFor)
	}

	scored := make([]ManagerRanking, 0, len(stats))
	for _, s := range stats {
		var winPct float64
		if games := s.Wins + s.Losses + s.Ties; games > 0 {
			winPct = float64(s.Wins) / float64(games)
		}
		normalizedPF := math.Max(0, s.PointsFor/maxPF)
		powerScore := (winPct*cfg.Weights.WinPct + normalizedPF*cfg.Weights.NormalizedPF) * 100

		scored = append(scored, ManagerRanking{
			Identity:      idx.resolve(s.RosterID),
			PowerScore:    roundTo(powerScore, 1),
			Wins:          s.Wins,
			Losses:        s.Losses,
			Ties:          s.Ties,
			PointsFor:     roundTo(s.PointsFor, 2),
			PointsAgainst: roundTo(s.PointsAgainst, 2),
		})
	}

	if len(opts.FinalPlacements) > 0 {
		place := func(rosterID int) int {
			if p, ok := opts.FinalPlacements[rosterID]; ok {
				return p
			}
			return math.MaxInt
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return place(scored[i].RosterID) < place(scored[j].RosterID)
		})
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			a, b := scored[i], scored[j]
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.PointsFor != b.PointsFor {
				return a.PointsFor > b.PointsFor
			}
			if cfg.Tiebreaker == TiebreakerPointsAgainst {
				return a.PointsAgainst > b.PointsAgainst
			}
			return false
		})
	}

	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored
}
