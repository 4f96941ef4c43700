package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/Conorjs98/fantasy-dashboard/internal/league"
	"github.com/Conorjs98/fantasy-dashboard/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// RecapHandler handles manager notes and the weekly recap draft/publish tools
type RecapHandler struct {
	service         *league.Service
	store           store.Store
	logger          *logrus.Logger
	defaultLeagueID string
}

// NewRecapHandler creates a new recap handler
func NewRecapHandler(service *league.Service, st store.Store, logger *logrus.Logger, defaultLeagueID string) *RecapHandler {
	return &RecapHandler{
		service:         service,
		store:           st,
		logger:          logger,
		defaultLeagueID: defaultLeagueID,
	}
}

// NoteEntry is a member alongside the notes kept about them
type NoteEntry struct {
	league.Member
	Notes     string     `json:"notes"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// GetManagerNotesTool returns the MCP tool definition for get_manager_notes
func (h *RecapHandler) GetManagerNotesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_manager_notes",
		Description: "Get the personality notes kept about each manager for a season, used to flavor weekly recaps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: leagueProperties(),
		},
	}
}

// HandleGetManagerNotes handles the get_manager_notes tool call
func (h *RecapHandler) HandleGetManagerNotes(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_manager_notes")

	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return nil, err
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "get manager notes", leagueID, err), nil
	}

	notes, err := h.store.ReadAllManagerNotes(ctx, lc.League.LeagueID, lc.League.Season)
	if err != nil {
		return errorResult(h.logger, "get manager notes", leagueID, err), nil
	}

	byUser := make(map[string]store.ManagerNote, len(notes))
	for _, n := range notes {
		byUser[n.UserID] = n
	}

	entries := make([]NoteEntry, 0, len(lc.Members))
	withNotes := 0
	for _, m := range lc.Members {
		entry := NoteEntry{Member: m}
		if n, ok := byUser[m.UserID]; ok && m.UserID != "" {
			entry.Notes = n.Notes
			entry.UpdatedAt = &n.UpdatedAt
			withNotes++
		}
		entries = append(entries, entry)
	}

	summary := fmt.Sprintf("%d of %d managers have notes for the %s season", withNotes, len(entries), lc.League.Season)
	return successResult(h.logger, entries, summary, lc.League.LeagueID, lc.League.Season), nil
}

// UpdateManagerNoteTool returns the MCP tool definition for update_manager_note
func (h *RecapHandler) UpdateManagerNoteTool() mcp.Tool {
	props := leagueProperties()
	props["manager"] = map[string]interface{}{
		"type":        "string",
		"description": "Manager to update: user ID, display name or team name",
		"required":    true,
	}
	props["notes"] = map[string]interface{}{
		"type":        "string",
		"description": "Replacement notes text. An empty string clears the notes.",
		"required":    true,
	}
	return mcp.Tool{
		Name:        "update_manager_note",
		Description: "Replace the personality notes kept about one manager for a season",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
		},
	}
}

// HandleUpdateManagerNote handles the update_manager_note tool call
func (h *RecapHandler) HandleUpdateManagerNote(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling update_manager_note")

	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return nil, err
	}
	manager := stringArg(args, "manager")
	if manager == "" {
		return nil, fmt.Errorf("manager is required and must be a string")
	}
	notes, ok := args["notes"].(string)
	if !ok {
		return nil, fmt.Errorf("notes is required and must be a string")
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "update manager note", leagueID, err), nil
	}

	member, found := league.FindMember(lc.Members, manager)
	if !found || member.UserID == "" {
		return errorResult(h.logger, "update manager note", leagueID, fmt.Errorf("%w: %q", errTeamNotFound, manager)), nil
	}

	saved, err := h.store.UpsertManagerNote(ctx, store.ManagerNote{
		LeagueID: lc.League.LeagueID,
		Season:   lc.League.Season,
		UserID:   member.UserID,
		Notes:    notes,
	})
	if err != nil {
		return errorResult(h.logger, "update manager note", leagueID, err), nil
	}

	summary := fmt.Sprintf("Updated notes for %s (%s)", member.DisplayName, member.TeamName)
	return successResult(h.logger, saved, summary, lc.League.LeagueID, lc.League.Season), nil
}

func recapProperties() map[string]interface{} {
	props := leagueProperties()
	props["week"] = map[string]interface{}{
		"type":        "number",
		"description": "Week number",
		"required":    true,
	}
	return props
}

func (h *RecapHandler) recapArgs(args map[string]interface{}) (string, int, error) {
	leagueID, err := leagueIDArg(args, h.defaultLeagueID)
	if err != nil {
		return "", 0, err
	}
	week, err := weekArg(args, true)
	if err != nil {
		return "", 0, err
	}
	return leagueID, *week, nil
}

// checkRecapWeek rejects weeks past the end of the league's schedule
func checkRecapWeek(info league.Info, week int) error {
	if last := max(info.TotalWeeks, info.CurrentWeek); week > last {
		return fmt.Errorf("week must be between 1 and %d", last)
	}
	return nil
}

// GetWeeklyRecapTool returns the MCP tool definition for get_weekly_recap
func (h *RecapHandler) GetWeeklyRecapTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_weekly_recap",
		Description: "Get the stored recap for a week with its state: NOT_GENERATED, DRAFT or PUBLISHED",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: recapProperties(),
		},
	}
}

// HandleGetWeeklyRecap handles the get_weekly_recap tool call
func (h *RecapHandler) HandleGetWeeklyRecap(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_weekly_recap")

	leagueID, week, err := h.recapArgs(args)
	if err != nil {
		return nil, err
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "get weekly recap", leagueID, err), nil
	}
	if err := checkRecapWeek(lc.League, week); err != nil {
		return nil, err
	}

	recap, err := store.ReadRecapOrEmpty(ctx, h.store, lc.League.LeagueID, lc.League.Season, week)
	if err != nil {
		return errorResult(h.logger, "get weekly recap", lc.League.LeagueID, err), nil
	}

	summary := fmt.Sprintf("Week %d recap for the %s season is %s", week, lc.League.Season, recap.State)
	return successResult(h.logger, recap, summary, lc.League.LeagueID, lc.League.Season), nil
}

// SaveRecapDraftTool returns the MCP tool definition for save_recap_draft
func (h *RecapHandler) SaveRecapDraftTool() mcp.Tool {
	props := recapProperties()
	props["week_summary"] = map[string]interface{}{
		"type":        "string",
		"description": "Recap of the whole week",
		"required":    true,
	}
	props["matchup_summaries"] = map[string]interface{}{
		"type":        "array",
		"description": "Per-matchup write-ups",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"matchup_id": map[string]interface{}{"type": "number"},
				"summary":    map[string]interface{}{"type": "string"},
			},
		},
		"required": false,
	}
	props["personality_notes"] = map[string]interface{}{
		"type":        "string",
		"description": "Manager notes the recap drew on",
		"required":    false,
	}
	return mcp.Tool{
		Name:        "save_recap_draft",
		Description: "Save a week's recap as a draft, replacing any existing draft or published recap for that week",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
		},
	}
}

// HandleSaveRecapDraft handles the save_recap_draft tool call
func (h *RecapHandler) HandleSaveRecapDraft(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling save_recap_draft")

	weekSummary := stringArg(args, "week_summary")
	if weekSummary == "" {
		return nil, fmt.Errorf("week_summary is required and must be a string")
	}
	summaries, err := matchupSummariesArg(args)
	if err != nil {
		return nil, err
	}

	leagueID, week, err := h.recapArgs(args)
	if err != nil {
		return nil, err
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "save recap draft", leagueID, err), nil
	}
	if err := checkRecapWeek(lc.League, week); err != nil {
		return nil, err
	}

	recap, err := h.store.WriteRecap(ctx, store.Recap{
		LeagueID:         lc.League.LeagueID,
		Season:           lc.League.Season,
		Week:             week,
		WeekSummary:      weekSummary,
		MatchupSummaries: summaries,
		PersonalityNotes: stringArg(args, "personality_notes"),
	})
	if err != nil {
		return errorResult(h.logger, "save recap draft", lc.League.LeagueID, err), nil
	}

	summary := fmt.Sprintf("Saved week %d recap draft with %d matchup summaries", week, len(recap.MatchupSummaries))
	return successResult(h.logger, recap, summary, lc.League.LeagueID, lc.League.Season), nil
}

// PublishRecapTool returns the MCP tool definition for publish_recap
func (h *RecapHandler) PublishRecapTool() mcp.Tool {
	return mcp.Tool{
		Name:        "publish_recap",
		Description: "Publish a week's draft recap. A published recap must be replaced by a new draft before publishing again.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: recapProperties(),
		},
	}
}

// HandlePublishRecap handles the publish_recap tool call
func (h *RecapHandler) HandlePublishRecap(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling publish_recap")

	leagueID, week, err := h.recapArgs(args)
	if err != nil {
		return nil, err
	}

	lc, err := h.service.Context(ctx, leagueID, stringArg(args, "season"))
	if err != nil {
		return errorResult(h.logger, "publish recap", leagueID, err), nil
	}
	if err := checkRecapWeek(lc.League, week); err != nil {
		return nil, err
	}

	recap, err := store.Publish(ctx, h.store, lc.League.LeagueID, lc.League.Season, week)
	if err != nil {
		return errorResult(h.logger, "publish recap", lc.League.LeagueID, err), nil
	}

	summary := fmt.Sprintf("Published week %d recap for the %s season", week, lc.League.Season)
	return successResult(h.logger, recap, summary, lc.League.LeagueID, lc.League.Season), nil
}

func matchupSummariesArg(args map[string]interface{}) ([]store.MatchupSummary, error) {
	raw, present := args["matchup_summaries"]
	if !present || raw == nil {
		return []store.MatchupSummary{}, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("matchup_summaries must be an array")
	}

	summaries := make([]store.MatchupSummary, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("matchup_summaries[%d] must be an object", i)
		}
		id, ok := obj["matchup_id"].(float64)
		if !ok || id < 1 || id != float64(int(id)) {
			return nil, fmt.Errorf("matchup_summaries[%d].matchup_id must be a positive whole number", i)
		}
		text, ok := obj["summary"].(string)
		if !ok {
			return nil, fmt.Errorf("matchup_summaries[%d].summary must be a string", i)
		}
		summaries = append(summaries, store.MatchupSummary{MatchupID: int(id), Summary: text})
	}
	return summaries, nil
}
