// Package sleepertest provides a func-field mock of sleeper.Client for tests.
package sleepertest

import (
	"context"
	"errors"

	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
)

// MockClient is a mock implementation of the sleeper.Client interface for testing.
// Unset funcs return an error.
type MockClient struct {
	GetLeagueFunc         func(leagueID string) (*sleeper.League, error)
	GetLeagueUsersFunc    func(leagueID string) ([]sleeper.User, error)
	GetLeagueRostersFunc  func(leagueID string) ([]sleeper.Roster, error)
	GetMatchupsFunc       func(leagueID string, week int) ([]sleeper.Matchup, error)
	GetWinnersBracketFunc func(leagueID string) ([]sleeper.BracketMatchup, error)
	GetLosersBracketFunc  func(leagueID string) ([]sleeper.BracketMatchup, error)
	GetNFLStateFunc       func() (*sleeper.NFLState, error)
}

var _ sleeper.Client = (*MockClient)(nil)

var errNotImplemented = errors.New("not implemented")

func (m *MockClient) GetLeague(ctx context.Context, leagueID string) (*sleeper.League, error) {
	if m.GetLeagueFunc != nil {
		return m.GetLeagueFunc(leagueID)
	}
	return nil, errNotImplemented
}

func (m *MockClient) GetLeagueUsers(ctx context.Context, leagueID string) ([]sleeper.User, error) {
	if m.GetLeagueUsersFunc != nil {
		return m.GetLeagueUsersFunc(leagueID)
	}
	return nil, errNotImplemented
}

func (m *MockClient) GetLeagueRosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error) {
	if m.GetLeagueRostersFunc != nil {
		return m.GetLeagueRostersFunc(leagueID)
	}
	return nil, errNotImplemented
}

func (m *MockClient) GetMatchups(ctx context.Context, leagueID string, week int) ([]sleeper.Matchup, error) {
	if m.GetMatchupsFunc != nil {
		return m.GetMatchupsFunc(leagueID, week)
	}
	return nil, errNotImplemented
}

func (m *MockClient) GetWinnersBracket(ctx context.Context, leagueID string) ([]sleeper.BracketMatchup, error) {
	if m.GetWinnersBracketFunc != nil {
		return m.GetWinnersBracketFunc(leagueID)
	}
	return nil, errNotImplemented
}

func (m *MockClient) GetLosersBracket(ctx context.Context, leagueID string) ([]sleeper.BracketMatchup, error) {
	if m.GetLosersBracketFunc != nil {
		return m.GetLosersBracketFunc(leagueID)
	}
	return nil, errNotImplemented
}

func (m *MockClient) GetNFLState(ctx context.Context) (*sleeper.NFLState, error) {
	if m.GetNFLStateFunc != nil {
		return m.GetNFLStateFunc()
	}
	return nil, errNotImplemented
}

// Points returns a pointer to a score, for building sleeper.Matchup values
func Points(p float64) *float64 { return &p }

// Int returns a pointer to an int, for building bracket values
func Int(i int) *int { return &i }
