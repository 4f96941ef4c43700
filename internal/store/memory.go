package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type recapKey struct {
	leagueID string
	season   string
	week     int
}

type noteKey struct {
	leagueID string
	season   string
	userID   string
}

// Memory is an in-process Store used when no database is configured
type Memory struct {
	mu     sync.RWMutex
	recaps map[recapKey]Recap
	notes  map[noteKey]ManagerNote
	now    func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		recaps: make(map[recapKey]Recap),
		notes:  make(map[noteKey]ManagerNote),
		now:    time.Now,
	}
}

func (m *Memory) ReadRecap(ctx context.Context, leagueID, season string, week int) (*Recap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recap, ok := m.recaps[recapKey{leagueID, season, week}]
	if !ok {
		return nil, ErrRecapNotFound
	}
	return cloneRecap(recap), nil
}

func (m *Memory) WriteRecap(ctx context.Context, recap Recap) (*Recap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	recap.State = RecapDraft
	recap.GeneratedAt = &now
	recap.PublishedAt = nil
	if recap.MatchupSummaries == nil {
		recap.MatchupSummaries = []MatchupSummary{}
	}
	m.recaps[recapKey{recap.LeagueID, recap.Season, recap.Week}] = *cloneRecap(recap)
	return cloneRecap(recap), nil
}

func (m *Memory) PublishRecap(ctx context.Context, leagueID, season string, week int) (*Recap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := recapKey{leagueID, season, week}
	recap, ok := m.recaps[key]
	if !ok {
		return nil, ErrRecapNotFound
	}
	now := m.now()
	recap.State = RecapPublished
	recap.PublishedAt = &now
	m.recaps[key] = recap
	return cloneRecap(recap), nil
}

func (m *Memory) ReadAllManagerNotes(ctx context.Context, leagueID, season string) ([]ManagerNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := []ManagerNote{}
	for key, note := range m.notes {
		if key.leagueID == leagueID && key.season == season {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UserID < notes[j].UserID })
	return notes, nil
}

func (m *Memory) UpsertManagerNote(ctx context.Context, note ManagerNote) (*ManagerNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	note.UpdatedAt = m.now()
	m.notes[noteKey{note.LeagueID, note.Season, note.UserID}] = note
	return &note, nil
}

func (m *Memory) Close() {}

func cloneRecap(r Recap) *Recap {
	r.MatchupSummaries = append([]MatchupSummary{}, r.MatchupSummaries...)
	return &r
}
