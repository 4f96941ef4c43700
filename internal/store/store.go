// Package store persists weekly recaps and per-manager notes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RecapState is where a weekly recap is in its draft/publish lifecycle
type RecapState string

const (
	RecapNotGenerated RecapState = "NOT_GENERATED"
	RecapDraft        RecapState = "DRAFT"
	RecapPublished    RecapState = "PUBLISHED"
)

var (
	ErrRecapNotFound         = errors.New("no recap found for this week, save a draft first")
	ErrRecapAlreadyPublished = errors.New("recap is already published, save a new draft to replace it")
	ErrNotConfigured         = errors.New("database not configured")
)

// MatchupSummary is the recap text for one matchup
type MatchupSummary struct {
	MatchupID int    `json:"matchupId"`
	Summary   string `json:"summary"`
}

// Recap is one week's written summary for a league season
type Recap struct {
	LeagueID         string           `json:"league_id"`
	Season           string           `json:"season"`
	Week             int              `json:"week"`
	State            RecapState       `json:"state"`
	WeekSummary      string           `json:"week_summary"`
	MatchupSummaries []MatchupSummary `json:"matchup_summaries"`
	PersonalityNotes string           `json:"personality_notes,omitempty"`
	GeneratedAt      *time.Time       `json:"generated_at"`
	PublishedAt      *time.Time       `json:"published_at"`
}

// ManagerNote is free text kept about one manager for a season
type ManagerNote struct {
	LeagueID  string    `json:"league_id"`
	Season    string    `json:"season"`
	UserID    string    `json:"user_id"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence layer behind the recap and notes tools
type Store interface {
	// ReadRecap returns ErrRecapNotFound when the week has no recap
	ReadRecap(ctx context.Context, leagueID, season string, week int) (*Recap, error)
	// WriteRecap saves a recap as a fresh draft, replacing any existing one
	WriteRecap(ctx context.Context, recap Recap) (*Recap, error)
	// PublishRecap marks a stored recap published without checking its state
	PublishRecap(ctx context.Context, leagueID, season string, week int) (*Recap, error)
	// ReadAllManagerNotes lists a season's notes ordered by user id
	ReadAllManagerNotes(ctx context.Context, leagueID, season string) ([]ManagerNote, error)
	UpsertManagerNote(ctx context.Context, note ManagerNote) (*ManagerNote, error)
	Close()
}

// ReadRecapOrEmpty returns the stored recap, or a NOT_GENERATED placeholder
// when the week has none.
func ReadRecapOrEmpty(ctx context.Context, st Store, leagueID, season string, week int) (*Recap, error) {
	recap, err := st.ReadRecap(ctx, leagueID, season, week)
	if errors.Is(err, ErrRecapNotFound) {
		return &Recap{
			LeagueID:         leagueID,
			Season:           season,
			Week:             week,
			State:            RecapNotGenerated,
			MatchupSummaries: []MatchupSummary{},
		}, nil
	}
	return recap, err
}

// Publish moves a draft recap to PUBLISHED. A published recap has to be
// replaced by a new draft before it can be published again.
func Publish(ctx context.Context, st Store, leagueID, season string, week int) (*Recap, error) {
	recap, err := st.ReadRecap(ctx, leagueID, season, week)
	if err != nil {
		return nil, err
	}
	if recap.State == RecapPublished {
		return nil, fmt.Errorf("week %d: %w", week, ErrRecapAlreadyPublished)
	}
	return st.PublishRecap(ctx, leagueID, season, week)
}
