package league

import (
	"context"
	"math"
	"sort"

	"github.com/Conorjs98/fantasy-dashboard/internal/rankings"
	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
)

// Side is one team's half of a matchup
type Side struct {
	Member
	Points *float64 `json:"points"`
}

// Pairing is a head-to-head game. WinnerRosterID is nil for ties and
// games without both scores.
type Pairing struct {
	MatchupID      int      `json:"matchup_id"`
	Home           Side     `json:"home"`
	Away           Side     `json:"away"`
	WinnerRosterID *int     `json:"winner_roster_id"`
	Margin         *float64 `json:"margin"`
}

// Highlight calls out a notable game of the week
type Highlight struct {
	Type        string  `json:"type"`
	Label       string  `json:"label"`
	MatchupID   int     `json:"matchup_id"`
	WinnerName  string  `json:"winner_name"`
	WinnerScore float64 `json:"winner_score"`
	LoserName   string  `json:"loser_name"`
	LoserScore  float64 `json:"loser_score"`
}

// WeekMatchups is a week's games with byes and highlights
type WeekMatchups struct {
	LeagueID   string      `json:"league_id"`
	Week       int         `json:"week"`
	Pairings   []Pairing   `json:"pairings"`
	Unpaired   []Side      `json:"unpaired"`
	Highlights []Highlight `json:"highlights"`
}

// Matchups loads one week and pairs each team with its opponent
func (s *Service) Matchups(ctx context.Context, leagueID string, week int) (*WeekMatchups, error) {
	results, err := s.client.GetMatchups(ctx, leagueID, week)
	if err != nil {
		return nil, err
	}
	rosters, users, err := s.rostersAndUsers(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	view := BuildWeekMatchups(results, rosters, users)
	view.LeagueID = leagueID
	view.Week = week
	return view, nil
}

// BuildWeekMatchups groups a week's results into games. Results that do not
// form a pair of two are listed as unpaired.
func BuildWeekMatchups(results []sleeper.Matchup, rosters []sleeper.Roster, users []sleeper.User) *WeekMatchups {
	members := make(map[int]Member)
	for _, m := range BuildMembers(rosters, users) {
		members[m.RosterID] = m
	}
	side := func(m sleeper.Matchup) Side {
		member, ok := members[m.RosterID]
		if !ok {
			member = rankings.ResolveIdentity(m.RosterID, nil, nil)
		}
		return Side{Member: member, Points: m.Points}
	}

	groups := make(map[int][]sleeper.Matchup)
	var order []int
	view := &WeekMatchups{Pairings: []Pairing{}, Unpaired: []Side{}, Highlights: []Highlight{}}
	for _, m := range results {
		if m.MatchupID == 0 {
			view.Unpaired = append(view.Unpaired, side(m))
			continue
		}
		if _, ok := groups[m.MatchupID]; !ok {
			order = append(order, m.MatchupID)
		}
		groups[m.MatchupID] = append(groups[m.MatchupID], m)
	}
	sort.Ints(order)

	for _, id := range order {
		group := groups[id]
		if len(group) != 2 {
			for _, m := range group {
				view.Unpaired = append(view.Unpaired, side(m))
			}
			continue
		}

		pairing := Pairing{MatchupID: id, Home: side(group[0]), Away: side(group[1])}
		home, okHome := group[0].Score()
		away, okAway := group[1].Score()
		if okHome && okAway {
			margin := math.Abs(home - away)
			pairing.Margin = &margin
			switch {
			case home > away:
				pairing.WinnerRosterID = &group[0].RosterID
			case away > home:
				pairing.WinnerRosterID = &group[1].RosterID
			}
		}
		view.Pairings = append(view.Pairings, pairing)
	}

	view.Highlights = buildHighlights(view.Pairings)
	return view
}

// buildHighlights picks the closest game and the biggest blowout among
// decided games. A week with a single decided game gets only one.
func buildHighlights(pairings []Pairing) []Highlight {
	var decided []Pairing
	for _, p := range pairings {
		if p.WinnerRosterID != nil && p.Margin != nil {
			decided = append(decided, p)
		}
	}
	if len(decided) == 0 {
		return []Highlight{}
	}

	closest, blowout := decided[0], decided[0]
	for _, p := range decided[1:] {
		if *p.Margin < *closest.Margin {
			closest = p
		}
		if *p.Margin > *blowout.Margin {
			blowout = p
		}
	}

	highlights := []Highlight{newHighlight("closest_game", "Closest Game", closest)}
	if blowout.MatchupID != closest.MatchupID {
		highlights = append(highlights, newHighlight("biggest_blowout", "Biggest Blowout", blowout))
	}
	return highlights
}

func newHighlight(kind, label string, p Pairing) Highlight {
	winner, loser := p.Home, p.Away
	if *p.WinnerRosterID == p.Away.RosterID {
		winner, loser = p.Away, p.Home
	}
	return Highlight{
		Type:        kind,
		Label:       label,
		MatchupID:   p.MatchupID,
		WinnerName:  winner.TeamName,
		WinnerScore: *winner.Points,
		LoserName:   loser.TeamName,
		LoserScore:  *loser.Points,
	}
}
