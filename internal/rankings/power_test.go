package rankings

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantError bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "record heavy", cfg: Config{Weights: Weights{WinPct: 0.7, NormalizedPF: 0.3}, Tiebreaker: TiebreakerNone}},
		{name: "negative weight", cfg: Config{Weights: Weights{WinPct: 1.5, NormalizedPF: -0.5}, Tiebreaker: TiebreakerNone}, wantError: true},
		{name: "weights below one", cfg: Config{Weights: Weights{WinPct: 0.4, NormalizedPF: 0.4}, Tiebreaker: TiebreakerNone}, wantError: true},
		{name: "unknown tiebreaker", cfg: Config{Weights: Weights{WinPct: 0.5, NormalizedPF: 0.5}, Tiebreaker: "coin_flip"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestComputeRankings_Record(t *testing.T) {
	rosters := []sleeper.Roster{roster(1, "u1"), roster(2, "u2"), roster(3, "u3"), roster(4, "u4")}
	users := []sleeper.User{
		{UserID: "u1", DisplayName: "alice", Metadata: sleeper.UserMetadata{TeamName: "Alice's Aces"}},
		{UserID: "u2", DisplayName: "bob"},
		{UserID: "u3", DisplayName: "carol"},
	}
	stats := []AccumulatedStats{
		{RosterID: 1, Wins: 2, Losses: 1, PointsFor: 300, PointsAgainst: 250},
		{RosterID: 2, Wins: 3, PointsFor: 280, PointsAgainst: 200},
		{RosterID: 3, Wins: 2, Losses: 1, PointsFor: 300, PointsAgainst: 260},
		{RosterID: 4, Losses: 3, PointsFor: 150, PointsAgainst: 320},
	}

	got := ComputeRankings(stats, rosters, users, Options{}, DefaultConfig())

	wantOrder := []int{2, 3, 1, 4}
	for i, id := range wantOrder {
		if got[i].RosterID != id {
			t.Errorf("Position %d: expected roster %d, got %d", i, id, got[i].RosterID)
		}
		if got[i].Rank != i+1 {
			t.Errorf("Position %d: expected rank %d, got %d", i, i+1, got[i].Rank)
		}
	}

	// roster 2: 3-0 with 280 of a best 300 points
	if got[0].PowerScore != 96.7 {
		t.Errorf("Expected power score 96.7, got %v", got[0].PowerScore)
	}
	if got[3].PowerScore != 25 {
		t.Errorf("Expected power score 25, got %v", got[3].PowerScore)
	}

	if got[2].TeamName != "Alice's Aces" || got[2].DisplayName != "alice" {
		t.Errorf("Expected alice's identity, got %+v", got[2].Identity)
	}
	if got[3].DisplayName != "Team 4" || got[3].TeamName != "Team 4" {
		t.Errorf("Expected fallback names for ownerless roster, got %+v", got[3].Identity)
	}
	if got[0].ExpectedRecord != nil || got[0].DeltaVsExpected != nil || got[0].AllPlayWinPct != nil {
		t.Error("Expected optional fields to stay nil")
	}
}

func TestComputeRankings_Tiebreaker(t *testing.T) {
	rosters := []sleeper.Roster{roster(1, ""), roster(2, "")}
	stats := []AccumulatedStats{
		{RosterID: 1, Wins: 1, PointsFor: 100, PointsAgainst: 80},
		{RosterID: 2, Wins: 1, PointsFor: 100, PointsAgainst: 90},
	}

	tests := []struct {
		name       string
		tiebreaker TiebreakerType
		want       []int
	}{
		{name: "points against breaks tie", tiebreaker: TiebreakerPointsAgainst, want: []int{2, 1}},
		{name: "no tiebreaker keeps input order", tiebreaker: TiebreakerNone, want: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Tiebreaker = tt.tiebreaker
			got := ComputeRankings(stats, rosters, nil, Options{}, cfg)
			for i, id := range tt.want {
				if got[i].RosterID != id {
					t.Errorf("Position %d: expected roster %d, got %d", i, id, got[i].RosterID)
				}
			}
		})
	}
}

func TestComputeRankings_ResidualTieKeepsInputOrder(t *testing.T) {
	rosters := []sleeper.Roster{roster(7, ""), roster(3, ""), roster(5, "")}
	stats := []AccumulatedStats{
		{RosterID: 7, Wins: 1, PointsFor: 100, PointsAgainst: 90},
		{RosterID: 3, Wins: 1, PointsFor: 100, PointsAgainst: 90},
		{RosterID: 5, Wins: 1, PointsFor: 100, PointsAgainst: 90},
	}

	got := ComputeRankings(stats, rosters, nil, Options{}, DefaultConfig())
	for i, id := range []int{7, 3, 5} {
		if got[i].RosterID != id {
			t.Errorf("Position %d: expected roster %d, got %d", i, id, got[i].RosterID)
		}
	}
}

func TestComputeRankings_FinalPlacements(t *testing.T) {
	rosters := []sleeper.Roster{roster(1, ""), roster(2, ""), roster(3, ""), roster(4, "")}
	stats := []AccumulatedStats{
		{RosterID: 1, Wins: 10, PointsFor: 1500},
		{RosterID: 2, Wins: 9, PointsFor: 1400},
		{RosterID: 3, Wins: 4, PointsFor: 1100},
		{RosterID: 4, Wins: 6, PointsFor: 1200},
	}

	tests := []struct {
		name       string
		placements map[int]int
		want       []int
	}{
		{name: "full bracket", placements: map[int]int{4: 1, 1: 2, 2: 3, 3: 4}, want: []int{4, 1, 2, 3}},
		{name: "unplaced sort last in input order", placements: map[int]int{3: 1, 2: 2}, want: []int{3, 2, 1, 4}},
		{name: "empty map falls back to record", placements: map[int]int{}, want: []int{1, 2, 4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRankings(stats, rosters, nil, Options{FinalPlacements: tt.placements}, DefaultConfig())
			for i, id := range tt.want {
				if got[i].RosterID != id {
					t.Errorf("Position %d: expected roster %d, got %d", i, id, got[i].RosterID)
				}
				if got[i].Rank != i+1 {
					t.Errorf("Position %d: expected rank %d, got %d", i, i+1, got[i].Rank)
				}
			}
		})
	}
}

func TestComputeRankings_ScoreBounds(t *testing.T) {
	rosters := []sleeper.Roster{roster(1, ""), roster(2, ""), roster(3, "")}
	stats := []AccumulatedStats{
		{RosterID: 1, Wins: 5, PointsFor: 1000},
		{RosterID: 2, Losses: 5, PointsFor: 0},
		{RosterID: 3},
	}

	got := ComputeRankings(stats, rosters, nil, Options{}, DefaultConfig())
	for _, r := range got {
		if r.PowerScore < 0 || r.PowerScore > 100 {
			t.Errorf("Roster %d power score %v out of range", r.RosterID, r.PowerScore)
		}
	}
	if got[0].RosterID != 1 || got[0].PowerScore != 100 {
		t.Errorf("Expected undefeated top scorer at 100, got %+v", got[0])
	}
}

func TestComputeRankings_RoundsPoints(t *testing.T) {
	stats := []AccumulatedStats{{RosterID: 1, Wins: 1, PointsFor: 123.456, PointsAgainst: 99.994}}

	got := ComputeRankings(stats, []sleeper.Roster{roster(1, "")}, nil, Options{}, DefaultConfig())
	if got[0].PointsFor != 123.46 {
		t.Errorf("Expected points for 123.46, got %v", got[0].PointsFor)
	}
	if got[0].PointsAgainst != 99.99 {
		t.Errorf("Expected points against 99.99, got %v", got[0].PointsAgainst)
	}
}

func TestComputeRankings_Idempotent(t *testing.T) {
	rosters := []sleeper.Roster{roster(1, "u1"), roster(2, "u2"), roster(3, "u3")}
	users := []sleeper.User{{UserID: "u1", DisplayName: "a"}, {UserID: "u2", DisplayName: "b"}}
	weeks := [][]sleeper.Matchup{
		{result(1, 1, 100), result(2, 1, 100), result(3, 2, 80)},
		{result(1, 1, 90), result(3, 1, 95), result(2, 2, 70)},
	}

	run := func() []byte {
		stats := AccumulateStats(rosters, weeks, 2)
		ranked := ComputeRankings(stats, rosters, users, Options{}, DefaultConfig())
		ranked = ApplyExpectedRecords(ranked, ComputeExpectedRecords(rosters, weeks, 2, ScopeSeasonToDate))
		out, err := json.Marshal(ranked)
		if err != nil {
			t.Fatalf("Failed to marshal rankings: %v", err)
		}
		return out
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output, got\n%s\n%s", first, second)
	}
}

func TestResolveIdentity_Avatar(t *testing.T) {
	tests := []struct {
		name   string
		roster *sleeper.Roster
		user   *sleeper.User
		want   string
	}{
		{
			name:   "roster avatar first",
			roster: &sleeper.Roster{Metadata: sleeper.RosterMetadata{Avatar: "https://img/roster.png", TeamLogo: "https://img/logo.png"}},
			user:   &sleeper.User{Avatar: "user123"},
			want:   "https://img/roster.png",
		},
		{
			name:   "roster team logo second",
			roster: &sleeper.Roster{Metadata: sleeper.RosterMetadata{TeamLogo: "https://img/logo.png"}},
			user:   &sleeper.User{Avatar: "user123"},
			want:   "https://img/logo.png",
		},
		{
			name:   "user metadata avatar",
			roster: &sleeper.Roster{},
			user:   &sleeper.User{Avatar: "user123", Metadata: sleeper.UserMetadata{Avatar: "https://img/meta.png"}},
			want:   "https://img/meta.png",
		},
		{
			name:   "user avatar id expanded",
			roster: &sleeper.Roster{},
			user:   &sleeper.User{Avatar: "user123"},
			want:   "https://sleepercdn.com/avatars/thumbs/user123",
		},
		{
			name:   "nothing set",
			roster: &sleeper.Roster{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveIdentity(1, tt.roster, tt.user)
			if tt.want == "" {
				if got.Avatar != nil {
					t.Errorf("Expected nil avatar, got %s", *got.Avatar)
				}
				return
			}
			if got.Avatar == nil || *got.Avatar != tt.want {
				t.Errorf("Expected avatar %s, got %v", tt.want, got.Avatar)
			}
		})
	}
}
