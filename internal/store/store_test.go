package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestMemory() *Memory {
	m := NewMemory()
	clock := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return m
}

func TestMemory_RecapLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestMemory()

	if _, err := st.ReadRecap(ctx, "L", "2024", 3); !errors.Is(err, ErrRecapNotFound) {
		t.Fatalf("Expected ErrRecapNotFound, got %v", err)
	}

	draft, err := st.WriteRecap(ctx, Recap{
		LeagueID:         "L",
		Season:           "2024",
		Week:             3,
		State:            RecapPublished,
		WeekSummary:      "Chaos everywhere",
		MatchupSummaries: []MatchupSummary{{MatchupID: 1, Summary: "Nail-biter"}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if draft.State != RecapDraft || draft.GeneratedAt == nil || draft.PublishedAt != nil {
		t.Errorf("Expected a fresh draft, got %+v", draft)
	}

	published, err := Publish(ctx, st, "L", "2024", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if published.State != RecapPublished || published.PublishedAt == nil {
		t.Errorf("Expected published recap, got %+v", published)
	}
	if published.WeekSummary != "Chaos everywhere" || len(published.MatchupSummaries) != 1 {
		t.Errorf("Expected recap content kept, got %+v", published)
	}

	if _, err := Publish(ctx, st, "L", "2024", 3); !errors.Is(err, ErrRecapAlreadyPublished) {
		t.Errorf("Expected ErrRecapAlreadyPublished, got %v", err)
	}

	redraft, err := st.WriteRecap(ctx, Recap{LeagueID: "L", Season: "2024", Week: 3, WeekSummary: "Take two"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if redraft.State != RecapDraft || redraft.PublishedAt != nil || redraft.MatchupSummaries == nil {
		t.Errorf("Expected rewrite to reset to draft, got %+v", redraft)
	}
	if _, err := Publish(ctx, st, "L", "2024", 3); err != nil {
		t.Errorf("Expected new draft to publish, got %v", err)
	}
}

func TestPublish_Missing(t *testing.T) {
	_, err := Publish(context.Background(), newTestMemory(), "L", "2024", 9)
	if !errors.Is(err, ErrRecapNotFound) {
		t.Errorf("Expected ErrRecapNotFound, got %v", err)
	}
}

func TestReadRecapOrEmpty(t *testing.T) {
	ctx := context.Background()
	st := newTestMemory()

	empty, err := ReadRecapOrEmpty(ctx, st, "L", "2024", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if empty.State != RecapNotGenerated || empty.Week != 2 || empty.MatchupSummaries == nil {
		t.Errorf("Expected NOT_GENERATED placeholder, got %+v", empty)
	}

	if _, err := st.WriteRecap(ctx, Recap{LeagueID: "L", Season: "2024", Week: 2, WeekSummary: "ok"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stored, err := ReadRecapOrEmpty(ctx, st, "L", "2024", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stored.State != RecapDraft {
		t.Errorf("Expected stored draft, got %s", stored.State)
	}
}

func TestMemory_RecapIsolation(t *testing.T) {
	ctx := context.Background()
	st := newTestMemory()

	summaries := []MatchupSummary{{MatchupID: 1, Summary: "original"}}
	if _, err := st.WriteRecap(ctx, Recap{LeagueID: "L", Season: "2024", Week: 1, MatchupSummaries: summaries}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	summaries[0].Summary = "mutated"

	got, err := st.ReadRecap(ctx, "L", "2024", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.MatchupSummaries[0].Summary != "original" {
		t.Errorf("Expected stored recap unaffected by caller mutation, got %s", got.MatchupSummaries[0].Summary)
	}

	if _, err := st.ReadRecap(ctx, "L", "2023", 1); !errors.Is(err, ErrRecapNotFound) {
		t.Errorf("Expected other seasons to be separate, got %v", err)
	}
}

func TestMemory_ManagerNotes(t *testing.T) {
	ctx := context.Background()
	st := newTestMemory()

	notes, err := st.ReadAllManagerNotes(ctx, "L", "2024")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Errorf("Expected empty non-nil notes, got %v", notes)
	}

	for _, n := range []ManagerNote{
		{LeagueID: "L", Season: "2024", UserID: "u2", Notes: "trades too much"},
		{LeagueID: "L", Season: "2024", UserID: "u1", Notes: "never sets lineup"},
		{LeagueID: "L", Season: "2023", UserID: "u3", Notes: "last year"},
	} {
		if _, err := st.UpsertManagerNote(ctx, n); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	first, _ := st.ReadAllManagerNotes(ctx, "L", "2024")
	updated, err := st.UpsertManagerNote(ctx, ManagerNote{LeagueID: "L", Season: "2024", UserID: "u1", Notes: "reformed"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !updated.UpdatedAt.After(first[0].UpdatedAt) {
		t.Error("Expected upsert to bump updated_at")
	}

	notes, _ = st.ReadAllManagerNotes(ctx, "L", "2024")
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notes for 2024, got %d", len(notes))
	}
	if notes[0].UserID != "u1" || notes[1].UserID != "u2" {
		t.Errorf("Expected notes ordered by user id, got %s, %s", notes[0].UserID, notes[1].UserID)
	}
	if notes[0].Notes != "reformed" {
		t.Errorf("Expected upserted text, got %s", notes[0].Notes)
	}
}

func TestNewPostgres_NotConfigured(t *testing.T) {
	_, err := NewPostgres(context.Background(), "", nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
