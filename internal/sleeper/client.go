package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	BaseURL        = "https://api.sleeper.app/v1"
	CDNBaseURL     = "https://sleepercdn.com"
	DefaultTimeout = 10 * time.Second
)

// Client defines the interface for interacting with the Sleeper API
type Client interface {
	// League methods
	GetLeague(ctx context.Context, leagueID string) (*League, error)
	GetLeagueUsers(ctx context.Context, leagueID string) ([]User, error)
	GetLeagueRosters(ctx context.Context, leagueID string) ([]Roster, error)
	GetMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error)
	GetWinnersBracket(ctx context.Context, leagueID string) ([]BracketMatchup, error)
	GetLosersBracket(ctx context.Context, leagueID string) ([]BracketMatchup, error)

	// State methods
	GetNFLState(ctx context.Context) (*NFLState, error)
}

// HTTPClient implements the Client interface using HTTP requests
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// Option customises an HTTPClient
type Option func(*HTTPClient)

// WithBaseURL points the client at a different API root
func WithBaseURL(baseURL string) Option {
	return func(c *HTTPClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout overrides the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewHTTPClient creates a new HTTP client for the Sleeper API
func NewHTTPClient(logger *logrus.Logger, opts ...Option) Client {
	c := &HTTPClient{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// makeRequest performs an HTTP GET request to the Sleeper API
func (c *HTTPClient) makeRequest(ctx context.Context, endpoint string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	c.logger.WithField("url", url).Debug("Making API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("HTTP request failed")
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(body),
		}).Error("API request failed")

		return &SleeperError{
			Type:       "api_error",
			Message:    fmt.Sprintf("Sleeper API %s responded with %d", endpoint, resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		c.logger.WithError(err).WithField("body", string(body)).Error("Failed to unmarshal response")
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("API request completed successfully")
	return nil
}

// GetLeague retrieves comprehensive league information
func (c *HTTPClient) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	endpoint := fmt.Sprintf("/league/%s", leagueID)
	var league *League

	if err := c.makeRequest(ctx, endpoint, &league); err != nil {
		return nil, fmt.Errorf("failed to get league %s: %w", leagueID, err)
	}
	// Sleeper answers unknown ids with 200 and a null body
	if league == nil {
		return nil, &SleeperError{
			Type:       "not_found",
			Message:    fmt.Sprintf("league %s not found", leagueID),
			StatusCode: http.StatusNotFound,
			LeagueID:   leagueID,
		}
	}

	return league, nil
}

// GetLeagueUsers retrieves all users in a league
func (c *HTTPClient) GetLeagueUsers(ctx context.Context, leagueID string) ([]User, error) {
	endpoint := fmt.Sprintf("/league/%s/users", leagueID)
	var users []User

	if err := c.makeRequest(ctx, endpoint, &users); err != nil {
		return nil, fmt.Errorf("failed to get users for league %s: %w", leagueID, err)
	}

	return users, nil
}

// GetLeagueRosters retrieves all rosters in a league
func (c *HTTPClient) GetLeagueRosters(ctx context.Context, leagueID string) ([]Roster, error) {
	endpoint := fmt.Sprintf("/league/%s/rosters", leagueID)
	var rosters []Roster

	if err := c.makeRequest(ctx, endpoint, &rosters); err != nil {
		return nil, fmt.Errorf("failed to get rosters for league %s: %w", leagueID, err)
	}

	return rosters, nil
}

// GetMatchups retrieves matchups for a specific week
func (c *HTTPClient) GetMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error) {
	endpoint := fmt.Sprintf("/league/%s/matchups/%d", leagueID, week)
	var matchups []Matchup

	if err := c.makeRequest(ctx, endpoint, &matchups); err != nil {
		return nil, fmt.Errorf("failed to get matchups for league %s week %d: %w", leagueID, week, err)
	}

	return matchups, nil
}

// GetWinnersBracket retrieves the winners bracket for a league
func (c *HTTPClient) GetWinnersBracket(ctx context.Context, leagueID string) ([]BracketMatchup, error) {
	endpoint := fmt.Sprintf("/league/%s/winners_bracket", leagueID)
	var bracket []BracketMatchup

	if err := c.makeRequest(ctx, endpoint, &bracket); err != nil {
		return nil, fmt.Errorf("failed to get winners bracket: %w", err)
	}

	return bracket, nil
}

// GetLosersBracket retrieves the losers bracket for a league
func (c *HTTPClient) GetLosersBracket(ctx context.Context, leagueID string) ([]BracketMatchup, error) {
	endpoint := fmt.Sprintf("/league/%s/losers_bracket", leagueID)
	var bracket []BracketMatchup

	if err := c.makeRequest(ctx, endpoint, &bracket); err != nil {
		return nil, fmt.Errorf("failed to get losers bracket: %w", err)
	}

	return bracket, nil
}

// GetNFLState retrieves the current NFL season and week
func (c *HTTPClient) GetNFLState(ctx context.Context) (*NFLState, error) {
	var state NFLState

	if err := c.makeRequest(ctx, "/state/nfl", &state); err != nil {
		return nil, fmt.Errorf("failed to get nfl state: %w", err)
	}

	return &state, nil
}

// AvatarURL resolves a raw Sleeper avatar value to a full URL.
// Team logos are stored as full URLs, user avatars as bare ids.
func AvatarURL(raw string) *string {
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "http") {
		return &raw
	}
	url := fmt.Sprintf("%s/avatars/thumbs/%s", CDNBaseURL, raw)
	return &url
}
