package handlers

import (
	"context"
	"fmt"

	"github.com/Conorjs98/fantasy-dashboard/internal/league"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// RankingsHandler handles the power ranking and expected record tools
type RankingsHandler struct {
	service         *league.Service
	logger          *logrus.Logger
	defaultLeagueID string
}

// NewRankingsHandler creates a new rankings handler
func NewRankingsHandler(service *league.Service, logger *logrus.Logger, defaultLeagueID string) *RankingsHandler {
	return &RankingsHandler{
		service:         service,
		logger:          logger,
		defaultLeagueID: defaultLeagueID,
	}
}

func rankingProperties() map[string]interface{} {
	props := leagueProperties()
	props["week"] = map[string]interface{}{
		"type":        "number",
		"description": "Rank through this week (1-18). Defaults to the last scored week; completed seasons then use final playoff placements.",
		"required":    false,
	}
	props["scope"] = map[string]interface{}{
		"type":        "string",
		"description": "Expected record scope: 'season_to_date' (default) or 'selected_week'",
		"required":    false,
	}
	return props
}

func (h *RankingsHandler) parseRequest(args map[string]interface{}) (league.RankingsRequest, error) {
	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return league.RankingsRequest{}, err
	}
	week, err := weekArg(args, false)
	if err != nil {
		return league.RankingsRequest{}, err
	}
	scope, err := scopeArg(args)
	if err != nil {
		return league.RankingsRequest{}, err
	}
	return league.RankingsRequest{
		LeagueID: leagueID,
		Season:   stringArg(args, "season"),
		Week:     week,
		Scope:    scope,
	}, nil
}

// GetPowerRankingsTool returns the MCP tool definition for get_power_rankings
func (h *RankingsHandler) GetPowerRankingsTool() mcp.Tool {
	return mcp.Tool{
		Name: "get_power_rankings",
		Description: "Rank every team by record, points for and the points against tiebreaker, with a 0-100 power score " +
			"blending win percentage and points scored, and each team's all-play expected record",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: rankingProperties(),
		},
	}
}

// HandleGetPowerRankings handles the get_power_rankings tool call
func (h *RankingsHandler) HandleGetPowerRankings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_power_rankings")

	req, err := h.parseRequest(args)
	if err != nil {
		return nil, err
	}

	result, err := h.service.Rankings(ctx, req)
	if err != nil {
		return errorResult(h.logger, "get power rankings", req.LeagueID, err), nil
	}

	summary := fmt.Sprintf("Power rankings for '%s' (%s season) through week %d", result.LeagueName, result.Season, result.Week)
	if result.FinalStandings {
		summary = fmt.Sprintf("Final standings for '%s' (%s season) from playoff results", result.LeagueName, result.Season)
	}
	if len(result.Rankings) > 0 {
		top := result.Rankings[0]
		summary += fmt.Sprintf(": %s leads at %d-%d-%d", top.TeamName, top.Wins, top.Losses, top.Ties)
	}

	return successResult(h.logger, result, summary, result.LeagueID, result.Season), nil
}

// GetExpectedRecordsTool returns the MCP tool definition for get_expected_records
func (h *RankingsHandler) GetExpectedRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name: "get_expected_records",
		Description: "Play every team against every other team each week to get an expected record, " +
			"and compare it to actual wins to show who has been lucky or unlucky",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: rankingProperties(),
		},
	}
}

// HandleGetExpectedRecords handles the get_expected_records tool call
func (h *RankingsHandler) HandleGetExpectedRecords(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_expected_records")

	req, err := h.parseRequest(args)
	if err != nil {
		return nil, err
	}

	result, err := h.service.ExpectedRecords(ctx, req)
	if err != nil {
		return errorResult(h.logger, "get expected records", req.LeagueID, err), nil
	}

	summary := fmt.Sprintf("%s expected records for the %s season through week %d", result.ScopeLabel, result.Season, result.Week)
	switch {
	case !result.Available:
		summary = result.Reason
	case len(result.Entries) > 0:
		luckiest := result.Entries[0]
		summary += fmt.Sprintf(": %s is %+.1f wins versus expected", luckiest.TeamName, luckiest.DeltaVsExpected)
	}

	return successResult(h.logger, result, summary, result.LeagueID, result.Season), nil
}
