package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS recaps (
	id                BIGSERIAL PRIMARY KEY,
	league_id         TEXT NOT NULL,
	season            TEXT NOT NULL,
	week              INTEGER NOT NULL,
	state             TEXT NOT NULL DEFAULT 'DRAFT',
	week_summary      TEXT NOT NULL DEFAULT '',
	matchup_summaries JSONB NOT NULL DEFAULT '[]'::jsonb,
	personality_notes TEXT NOT NULL DEFAULT '',
	generated_at      TIMESTAMPTZ,
	published_at      TIMESTAMPTZ,
	UNIQUE (league_id, season, week)
);

CREATE TABLE IF NOT EXISTS manager_notes (
	id         BIGSERIAL PRIMARY KEY,
	league_id  TEXT NOT NULL,
	season     TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (league_id, season, user_id)
);
`

const recapColumns = `league_id, season, week, state, week_summary, matchup_summaries, personality_notes, generated_at, published_at`

// Postgres is a Store backed by a pgx connection pool
type Postgres struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

var _ Store = (*Postgres)(nil)

// NewPostgres connects to connString and checks the connection
func NewPostgres(ctx context.Context, connString string, logger *logrus.Logger) (*Postgres, error) {
	if connString == "" {
		return nil, ErrNotConfigured
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Postgres{pool: pool, logger: logger}, nil
}

// InitSchema creates the recap and notes tables if they do not exist
func (p *Postgres) InitSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	p.logger.Info("Database schema ready")
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func scanRecap(row pgx.Row) (*Recap, error) {
	var (
		r     Recap
		state string
		raw   []byte
	)
	if err := row.Scan(&r.LeagueID, &r.Season, &r.Week, &state, &r.WeekSummary, &raw,
		&r.PersonalityNotes, &r.GeneratedAt, &r.PublishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecapNotFound
		}
		return nil, err
	}
	r.State = RecapState(state)

	r.MatchupSummaries = []MatchupSummary{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &r.MatchupSummaries); err != nil {
			return nil, fmt.Errorf("failed to decode matchup summaries: %w", err)
		}
	}
	return &r, nil
}

func (p *Postgres) ReadRecap(ctx context.Context, leagueID, season string, week int) (*Recap, error) {
	q := `SELECT ` + recapColumns + `
		FROM recaps
		WHERE league_id = $1 AND season = $2 AND week = $3`
	return scanRecap(p.pool.QueryRow(ctx, q, leagueID, season, week))
}

func (p *Postgres) WriteRecap(ctx context.Context, recap Recap) (*Recap, error) {
	summaries := recap.MatchupSummaries
	if summaries == nil {
		summaries = []MatchupSummary{}
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode matchup summaries: %w", err)
	}

	q := `
		INSERT INTO recaps (league_id, season, week, state, week_summary, matchup_summaries, personality_notes, generated_at, published_at)
		VALUES ($1, $2, $3, 'DRAFT', $4, $5, $6, NOW(), NULL)
		ON CONFLICT (league_id, season, week) DO UPDATE SET
			state = 'DRAFT',
			week_summary = EXCLUDED.week_summary,
			matchup_summaries = EXCLUDED.matchup_summaries,
			personality_notes = EXCLUDED.personality_notes,
			generated_at = NOW(),
			published_at = NULL
		RETURNING ` + recapColumns

	saved, err := scanRecap(p.pool.QueryRow(ctx, q, recap.LeagueID, recap.Season, recap.Week,
		recap.WeekSummary, raw, recap.PersonalityNotes))
	if err != nil {
		return nil, fmt.Errorf("failed to write recap: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"league_id": recap.LeagueID,
		"season":    recap.Season,
		"week":      recap.Week,
	}).Info("Saved recap draft")
	return saved, nil
}

func (p *Postgres) PublishRecap(ctx context.Context, leagueID, season string, week int) (*Recap, error) {
	q := `
		UPDATE recaps
		SET state = 'PUBLISHED', published_at = NOW()
		WHERE league_id = $1 AND season = $2 AND week = $3
		RETURNING ` + recapColumns

	recap, err := scanRecap(p.pool.QueryRow(ctx, q, leagueID, season, week))
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"season":    season,
		"week":      week,
	}).Info("Published recap")
	return recap, nil
}

func (p *Postgres) ReadAllManagerNotes(ctx context.Context, leagueID, season string) ([]ManagerNote, error) {
	const q = `
		SELECT league_id, season, user_id, notes, updated_at
		FROM manager_notes
		WHERE league_id = $1 AND season = $2
		ORDER BY user_id ASC`

	rows, err := p.pool.Query(ctx, q, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to read manager notes: %w", err)
	}
	defer rows.Close()

	notes := []ManagerNote{}
	for rows.Next() {
		var n ManagerNote
		if err := rows.Scan(&n.LeagueID, &n.Season, &n.UserID, &n.Notes, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (p *Postgres) UpsertManagerNote(ctx context.Context, note ManagerNote) (*ManagerNote, error) {
	const q = `
		INSERT INTO manager_notes (league_id, season, user_id, notes, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (league_id, season, user_id) DO UPDATE SET
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING league_id, season, user_id, notes, updated_at`

	var n ManagerNote
	if err := p.pool.QueryRow(ctx, q, note.LeagueID, note.Season, note.UserID, note.Notes).
		Scan(&n.LeagueID, &n.Season, &n.UserID, &n.Notes, &n.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to save manager note: %w", err)
	}
	return &n, nil
}
