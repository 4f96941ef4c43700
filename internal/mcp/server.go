package mcp

import (
	"context"

	"github.com/Conorjs98/fantasy-dashboard/internal/handlers"
	"github.com/Conorjs98/fantasy-dashboard/internal/league"
	"github.com/Conorjs98/fantasy-dashboard/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

const (
	serverName    = "Fantasy Dashboard"
	serverVersion = "1.0.0"
)

// Dependencies are the services the tools are served from
type Dependencies struct {
	League          *league.Service
	Store           store.Store
	DefaultLeagueID string
}

// Tools lists every tool the server exposes
func Tools(leagueHandler *handlers.LeagueHandler, rankingsHandler *handlers.RankingsHandler, recapHandler *handlers.RecapHandler) []mcp.Tool {
	return []mcp.Tool{
		leagueHandler.GetLeagueInfoTool(),
		leagueHandler.GetLeagueMembersTool(),
		leagueHandler.FindTeamTool(),
		leagueHandler.GetMatchupsTool(),
		rankingsHandler.GetPowerRankingsTool(),
		rankingsHandler.GetExpectedRecordsTool(),
		recapHandler.GetManagerNotesTool(),
		recapHandler.UpdateManagerNoteTool(),
		recapHandler.GetWeeklyRecapTool(),
		recapHandler.SaveRecapDraftTool(),
		recapHandler.PublishRecapTool(),
	}
}

// NewFantasyMCPServer registers the dashboard tools on a stdio MCP server
func NewFantasyMCPServer(logger *logrus.Logger, deps Dependencies) *server.DefaultServer {
	leagueHandler := handlers.NewLeagueHandler(deps.League, logger, deps.DefaultLeagueID)
	rankingsHandler := handlers.NewRankingsHandler(deps.League, logger, deps.DefaultLeagueID)
	recapHandler := handlers.NewRecapHandler(deps.League, deps.Store, logger, deps.DefaultLeagueID)

	s := server.NewDefaultServer(serverName, serverVersion)
	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	tools := Tools(leagueHandler, rankingsHandler, recapHandler)
	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithFields(logrus.Fields{
			"tool": name,
			"args": arguments,
		}).Info("Tool called")

		switch name {
		case "get_league_info":
			return leagueHandler.HandleGetLeagueInfo(ctx, arguments)
		case "get_league_members":
			return leagueHandler.HandleGetLeagueMembers(ctx, arguments)
		case "find_team":
			return leagueHandler.HandleFindTeam(ctx, arguments)
		case "get_matchups":
			return leagueHandler.HandleGetMatchups(ctx, arguments)
		case "get_power_rankings":
			return rankingsHandler.HandleGetPowerRankings(ctx, arguments)
		case "get_expected_records":
			return rankingsHandler.HandleGetExpectedRecords(ctx, arguments)
		case "get_manager_notes":
			return recapHandler.HandleGetManagerNotes(ctx, arguments)
		case "update_manager_note":
			return recapHandler.HandleUpdateManagerNote(ctx, arguments)
		case "get_weekly_recap":
			return recapHandler.HandleGetWeeklyRecap(ctx, arguments)
		case "save_recap_draft":
			return recapHandler.HandleSaveRecapDraft(ctx, arguments)
		case "publish_recap":
			return recapHandler.HandlePublishRecap(ctx, arguments)
		default:
			logger.WithField("tool", name).Warn("Unknown tool called")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Type: "text",
						Text: "Unknown tool: " + name,
					},
				},
				IsError: true,
			}, nil
		}
	})

	logger.Info("All tools registered successfully")
	return s
}
