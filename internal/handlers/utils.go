package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Conorjs98/fantasy-dashboard/internal/league"
	"github.com/Conorjs98/fantasy-dashboard/internal/rankings"
	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
	"github.com/Conorjs98/fantasy-dashboard/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// maxWeek is the last week Sleeper serves matchups for
const maxWeek = 18

var errTeamNotFound = errors.New("team not found")

// formatJSONResponse converts a response struct to a formatted JSON string
func formatJSONResponse(response interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(jsonBytes), nil
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: isError,
	}
}

// jsonResult renders a response envelope as the tool result
func jsonResult(logger *logrus.Logger, response sleeper.APIResponse) *mcp.CallToolResult {
	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		logger.WithError(err).Error("Failed to format response")
		return textResult(fmt.Sprintf("Error formatting response: %s", err.Error()), true)
	}
	return textResult(jsonResponse, !response.Success)
}

func successResult(logger *logrus.Logger, data interface{}, summary, leagueID, season string) *mcp.CallToolResult {
	return jsonResult(logger, sleeper.APIResponse{
		Success: true,
		Data:    data,
		Summary: summary,
		Metadata: sleeper.Metadata{
			Timestamp: time.Now(),
			Source:    "sleeper_api",
			LeagueID:  leagueID,
			Season:    season,
		},
	})
}

// errorResult reports a failed tool call. action reads as "Failed to <action>".
func errorResult(logger *logrus.Logger, action, leagueID string, err error) *mcp.CallToolResult {
	status := statusForError(err)
	logger.WithError(err).WithFields(logrus.Fields{
		"league_id": leagueID,
		"status":    status,
	}).Error("Failed to " + action)

	return jsonResult(logger, sleeper.APIResponse{
		Success: false,
		Summary: fmt.Sprintf("Failed to %s", action),
		Error:   err.Error(),
		Metadata: sleeper.Metadata{
			Timestamp:  time.Now(),
			Source:     "sleeper_api",
			StatusCode: status,
			LeagueID:   leagueID,
		},
	})
}

// statusForError maps an error to the HTTP status it would carry on a web API
func statusForError(err error) int {
	var sleeperErr *sleeper.SleeperError
	switch {
	case errors.Is(err, store.ErrRecapAlreadyPublished):
		return http.StatusConflict
	case errors.Is(err, store.ErrRecapNotFound),
		errors.Is(err, league.ErrSeasonNotFound),
		errors.Is(err, errTeamNotFound):
		return http.StatusNotFound
	case errors.As(err, &sleeperErr) && sleeperErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	case strings.Contains(strings.ToLower(err.Error()), "not found"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// leagueIDArg returns the league_id argument or the configured default league
func leagueIDArg(args map[string]interface{}, fallback string) (string, error) {
	if id := stringArg(args, "league_id"); id != "" {
		return id, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("league_id is required and must be a string")
}

// weekArg parses an optional week number in 1..maxWeek. JSON numbers arrive
// as float64.
func weekArg(args map[string]interface{}, required bool) (*int, error) {
	raw, present := args["week"]
	if !present || raw == nil {
		if required {
			return nil, fmt.Errorf("week is required and must be a number")
		}
		return nil, nil
	}

	weekFloat, ok := raw.(float64)
	if !ok || weekFloat != math.Trunc(weekFloat) {
		return nil, fmt.Errorf("week must be a whole number")
	}
	week := int(weekFloat)
	if week < 1 || week > maxWeek {
		return nil, fmt.Errorf("week must be between 1 and %d", maxWeek)
	}
	return &week, nil
}

func scopeArg(args map[string]interface{}) (rankings.Scope, error) {
	return rankings.ParseScope(stringArg(args, "scope"))
}

// leagueProperties are the arguments shared by league-scoped tools
func leagueProperties() map[string]interface{} {
	return map[string]interface{}{
		"league_id": map[string]interface{}{
			"type":        "string",
			"description": "The Sleeper league ID (defaults to the configured league)",
			"required":    false,
		},
		"season": map[string]interface{}{
			"type":        "string",
			"description": "Season year, e.g. 2023 (defaults to the newest season in the league's history)",
			"required":    false,
		},
	}
}
