package handlers

import (
	"context"
	"fmt"

	"github.com/Conorjs98/fantasy-dashboard/internal/league"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// LeagueHandler handles league-related MCP tools
type LeagueHandler struct {
	service         *league.Service
	logger          *logrus.Logger
	defaultLeagueID string
}

// NewLeagueHandler creates a new league handler. defaultLeagueID is used
// when a call omits league_id.
func NewLeagueHandler(service *league.Service, logger *logrus.Logger, defaultLeagueID string) *LeagueHandler {
	return &LeagueHandler{
		service:         service,
		logger:          logger,
		defaultLeagueID: defaultLeagueID,
	}
}

// GetLeagueInfoTool returns the MCP tool definition for get_league_info
func (h *LeagueHandler) GetLeagueInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_league_info",
		Description: "Get league information for a season: name, status, current and total weeks, avatar and the seasons available in the league's history",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: leagueProperties(),
		},
	}
}

// HandleGetLeagueInfo handles the get_league_info tool call
func (h *LeagueHandler) HandleGetLeagueInfo(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_league_info")

	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return nil, err
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "get league information", leagueID, err), nil
	}

	info := lc.League
	summary := fmt.Sprintf("League '%s' (%s) - %s season, week %d of %d, %s status, %d seasons of history",
		info.Name, info.LeagueID, info.Season, info.CurrentWeek, info.TotalWeeks, info.Status, len(lc.AvailableSeasons))

	return successResult(h.logger, lc, summary, info.LeagueID, info.Season), nil
}

// GetLeagueMembersTool returns the MCP tool definition for get_league_members
func (h *LeagueHandler) GetLeagueMembersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_league_members",
		Description: "List every team in a league season with its owner, team name and avatar",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: leagueProperties(),
		},
	}
}

// HandleGetLeagueMembers handles the get_league_members tool call
func (h *LeagueHandler) HandleGetLeagueMembers(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_league_members")

	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return nil, err
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "get league members", leagueID, err), nil
	}

	summary := fmt.Sprintf("Found %d teams in league '%s' (%s season)", len(lc.Members), lc.League.Name, lc.League.Season)
	return successResult(h.logger, lc.Members, summary, lc.League.LeagueID, lc.League.Season), nil
}

// FindTeamTool returns the MCP tool definition for find_team
func (h *LeagueHandler) FindTeamTool() mcp.Tool {
	props := leagueProperties()
	props["query"] = map[string]interface{}{
		"type":        "string",
		"description": "Team name, manager display name or user ID. Partial names and small typos are accepted.",
		"required":    true,
	}
	return mcp.Tool{
		Name:        "find_team",
		Description: "Find a team in the league by name, manager or user ID",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
		},
	}
}

// HandleFindTeam handles the find_team tool call
func (h *LeagueHandler) HandleFindTeam(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling find_team")

	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return nil, err
	}
	query := stringArg(args, "query")
	if query == "" {
		return nil, fmt.Errorf("query is required and must be a string")
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "find team", leagueID, err), nil
	}

	member, ok := league.FindMember(lc.Members, query)
	if !ok {
		return errorResult(h.logger, "find team", leagueID, fmt.Errorf("%w: %q", errTeamNotFound, query)), nil
	}

	summary := fmt.Sprintf("'%s' matched %s (managed by %s, roster %d)", query, member.TeamName, member.DisplayName, member.RosterID)
	return successResult(h.logger, member, summary, lc.League.LeagueID, lc.League.Season), nil
}

// GetMatchupsTool returns the MCP tool definition for get_matchups
func (h *LeagueHandler) GetMatchupsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_matchups",
		Description: "Get a week's head-to-head matchups with scores, winners, byes and the closest game and biggest blowout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": map[string]interface{}{
					"type":        "string",
					"description": "The Sleeper league ID (defaults to the configured league)",
					"required":    false,
				},
				"week": map[string]interface{}{
					"type":        "number",
					"description": "Week number (1-18)",
					"required":    true,
				},
			},
		},
	}
}

// HandleGetMatchups handles the get_matchups tool call
func (h *LeagueHandler) HandleGetMatchups(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_matchups")

	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return nil, err
	}
	week, err := weekArg(args, true)
	if err != nil {
		return nil, err
	}

	view, err := h.service.Matchups(ctx, leagueID, *week)
	if err != nil {
		return errorResult(h.logger, "get matchups", leagueID, err), nil
	}

	summary := fmt.Sprintf("Found %d matchups for week %d", len(view.Pairings), *week)
	if len(view.Unpaired) > 0 {
		summary += fmt.Sprintf(" (%d teams without an opponent)", len(view.Unpaired))
	}
	return successResult(h.logger, view, summary, leagueID, ""), nil
}
