package league

import (
	"context"
	"fmt"
	"sort"

	"github.com/Conorjs98/fantasy-dashboard/internal/config"
	"github.com/Conorjs98/fantasy-dashboard/internal/rankings"
	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 6

// Options configures a Service
type Options struct {
	Ranking             rankings.Config
	DefaultPlayoffTeams int
	FetchConcurrency    int
	Settings            *config.LeagueConfig
}

// Service loads league data from Sleeper and runs the ranking engine over it
type Service struct {
	client   sleeper.Client
	logger   *logrus.Logger
	ranking  rankings.Config
	playoffs int
	fetch    int
	settings *config.LeagueConfig
}

// NewService creates a league service
func NewService(client sleeper.Client, logger *logrus.Logger, opts Options) *Service {
	if opts.FetchConcurrency < 1 {
		opts.FetchConcurrency = defaultFetchConcurrency
	}
	if opts.Settings == nil {
		opts.Settings = config.DefaultLeagueConfig()
	}
	if opts.Ranking == (rankings.Config{}) {
		opts.Ranking = rankings.DefaultConfig()
	}
	return &Service{
		client:   client,
		logger:   logger,
		ranking:  opts.Ranking,
		playoffs: opts.DefaultPlayoffTeams,
		fetch:    opts.FetchConcurrency,
		settings: opts.Settings,
	}
}

// Context resolves a league season: its history, NFL state, rosters and
// members. An empty season means the newest season in the history.
func (s *Service) Context(ctx context.Context, leagueID, season string) (*Context, error) {
	var (
		history []HistoryEntry
		state   *sleeper.NFLState
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = ResolveHistory(gctx, s.client, s.logger, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		state, err = s.client.GetNFLState(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	target, ok := findSeason(history, season)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSeasonNotFound, season)
	}

	rosters, users, err := s.rostersAndUsers(ctx, target.LeagueID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"league_id": target.LeagueID,
		"season":    target.League.Season,
		"seasons":   len(history),
	}).Debug("Resolved league context")

	return &Context{
		League:           BuildInfo(target.LeagueID, target.League, state),
		Members:          BuildMembers(rosters, users),
		AvailableSeasons: Seasons(history),
		Rosters:          rosters,
		Users:            users,
		Raw:              target.League,
	}, nil
}

// resolveSeasonLeague maps a season to the league id that ran it. An empty
// season is leagueID itself.
func (s *Service) resolveSeasonLeague(ctx context.Context, leagueID, season string) (string, error) {
	if season == "" {
		return leagueID, nil
	}
	history, err := ResolveHistory(ctx, s.client, s.logger, leagueID)
	if err != nil {
		return "", err
	}
	target, ok := findSeason(history, season)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSeasonNotFound, season)
	}
	return target.LeagueID, nil
}

func (s *Service) rostersAndUsers(ctx context.Context, leagueID string) ([]sleeper.Roster, []sleeper.User, error) {
	var (
		rosters []sleeper.Roster
		users   []sleeper.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rosters, err = s.client.GetLeagueRosters(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.client.GetLeagueUsers(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rosters, users, nil
}

// seasonData is everything the ranking views need for one league season
type seasonData struct {
	league  *sleeper.League
	rosters []sleeper.Roster
	users   []sleeper.User
}

func (s *Service) loadSeason(ctx context.Context, leagueID string) (*seasonData, error) {
	var data seasonData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.league, err = s.client.GetLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		data.rosters, data.users, err = s.rostersAndUsers(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchMatchups loads weeks 1..throughWeek concurrently. Index i of the
// result holds week i+1.
func (s *Service) FetchMatchups(ctx context.Context, leagueID string, throughWeek int) ([][]sleeper.Matchup, error) {
	if throughWeek <= 0 {
		return nil, nil
	}

	weeks := make([][]sleeper.Matchup, throughWeek)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetch)
	for i := range weeks {
		g.Go(func() error {
			matchups, err := s.client.GetMatchups(gctx, leagueID, i+1)
			if err != nil {
				return err
			}
			weeks[i] = matchups
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"weeks":     throughWeek,
	}).Debug("Fetched weekly matchups")

	return weeks, nil
}

// RankingsRequest selects a power ranking view. A nil Week means the last
// scored week, and for completed seasons the final bracket order.
type RankingsRequest struct {
	LeagueID string
	Season   string
	Week     *int
	Scope    rankings.Scope
}

// RankingsResult is a ranked league for one week
type RankingsResult struct {
	LeagueID          string                    `json:"league_id"`
	LeagueName        string                    `json:"league_name"`
	Season            string                    `json:"season"`
	Week              int                       `json:"week"`
	FinalStandings    bool                      `json:"final_standings"`
	Scope             rankings.Scope            `json:"scope"`
	ScopeLabel        string                    `json:"scope_label"`
	ExpectedAvailable bool                      `json:"expected_available"`
	ExpectedReason    string                    `json:"expected_reason,omitempty"`
	Config            rankings.Config           `json:"config"`
	Rankings          []rankings.ManagerRanking `json:"rankings"`
}

// throughWeek is the explicit week, or the last week Sleeper has scored
func throughWeek(league *sleeper.League, week *int) int {
	if week != nil {
		return *week
	}
	if league.Settings.LastScoredLeg != nil {
		return *league.Settings.LastScoredLeg
	}
	return league.Settings.Leg
}

// Rankings computes the power ranking for a league season
func (s *Service) Rankings(ctx context.Context, req RankingsRequest) (*RankingsResult, error) {
	leagueID, err := s.resolveSeasonLeague(ctx, req.LeagueID, req.Season)
	if err != nil {
		return nil, err
	}

	data, err := s.loadSeason(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	maxWeek := throughWeek(data.league, req.Week)
	weeks, err := s.FetchMatchups(ctx, leagueID, maxWeek)
	if err != nil {
		return nil, err
	}

	var opts rankings.Options
	final := data.league.Status == sleeper.StatusComplete && req.Week == nil
	if final {
		placements, err := s.finalPlacements(ctx, leagueID, data.league)
		if err != nil {
			return nil, err
		}
		opts.FinalPlacements = placements
	}

	cfg := s.rankingConfig(leagueID)
	stats := rankings.AccumulateStats(data.rosters, weeks, maxWeek)
	ranked := rankings.ComputeRankings(stats, data.rosters, data.users, opts, cfg)

	expected := rankings.ComputeExpectedRecords(data.rosters, weeks, maxWeek, req.Scope)
	ranked = rankings.ApplyExpectedRecords(ranked, expected)

	s.logger.WithFields(logrus.Fields{
		"league_id":          leagueID,
		"week":               maxWeek,
		"final":              final,
		"teams":              len(ranked),
		"expected_available": expected.Available,
	}).Info("Computed power rankings")

	return &RankingsResult{
		LeagueID:          leagueID,
		LeagueName:        data.league.Name,
		Season:            data.league.Season,
		Week:              maxWeek,
		FinalStandings:    len(opts.FinalPlacements) > 0,
		Scope:             scopeOrDefault(req.Scope),
		ScopeLabel:        req.Scope.Label(),
		ExpectedAvailable: expected.Available,
		ExpectedReason:    expected.Reason,
		Config:            cfg,
		Rankings:          ranked,
	}, nil
}

func (s *Service) finalPlacements(ctx context.Context, leagueID string, league *sleeper.League) (map[int]int, error) {
	var winners, losers []sleeper.BracketMatchup

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		winners, err = s.client.GetWinnersBracket(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		losers, err = s.client.GetLosersBracket(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	playoffTeams := league.Settings.PlayoffTeams
	if playoffTeams <= 0 {
		playoffTeams = s.settings.PlayoffTeams(leagueID, s.playoffs)
	}
	return rankings.DeriveFinalPlacements(winners, losers, playoffTeams), nil
}

func (s *Service) rankingConfig(leagueID string) rankings.Config {
	cfg, err := s.settings.RankingConfig(leagueID, s.ranking)
	if err != nil {
		s.logger.WithError(err).WithField("league_id", leagueID).Warn("Ignoring invalid league ranking overrides")
	}
	return cfg
}

func scopeOrDefault(scope rankings.Scope) rankings.Scope {
	if scope == rankings.ScopeSelectedWeek {
		return scope
	}
	return rankings.ScopeSeasonToDate
}

// ExpectedEntry is one team's expected record alongside its identity
type ExpectedEntry struct {
	rankings.Identity
	rankings.RosterExpectation
}

// ExpectedResult is the all-play expected record view for a league
type ExpectedResult struct {
	LeagueID   string          `json:"league_id"`
	Season     string          `json:"season"`
	Week       int             `json:"week"`
	Scope      rankings.Scope  `json:"scope"`
	ScopeLabel string          `json:"scope_label"`
	Available  bool            `json:"available"`
	Reason     string          `json:"reason,omitempty"`
	Entries    []ExpectedEntry `json:"entries"`
}

// ExpectedRecords computes expected records alone, luckiest team first
func (s *Service) ExpectedRecords(ctx context.Context, req RankingsRequest) (*ExpectedResult, error) {
	leagueID, err := s.resolveSeasonLeague(ctx, req.LeagueID, req.Season)
	if err != nil {
		return nil, err
	}

	data, err := s.loadSeason(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	maxWeek := throughWeek(data.league, req.Week)
	weeks, err := s.FetchMatchups(ctx, leagueID, maxWeek)
	if err != nil {
		return nil, err
	}

	expected := rankings.ComputeExpectedRecords(data.rosters, weeks, maxWeek, req.Scope)

	identities := rankings.Identities(data.rosters, data.users)
	entries := make([]ExpectedEntry, 0, len(identities))
	for _, id := range identities {
		entries = append(entries, ExpectedEntry{Identity: id, RosterExpectation: expected.ByRoster[id.RosterID]})
	}
	if expected.Available {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].DeltaVsExpected > entries[j].DeltaVsExpected
		})
	}

	return &ExpectedResult{
		LeagueID:   leagueID,
		Season:     data.league.Season,
		Week:       maxWeek,
		Scope:      scopeOrDefault(req.Scope),
		ScopeLabel: req.Scope.Label(),
		Available:  expected.Available,
		Reason:     expected.Reason,
		Entries:    entries,
	}, nil
}
