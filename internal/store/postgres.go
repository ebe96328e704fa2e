package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
    id TEXT PRIMARY KEY,
    nickname TEXT NOT NULL DEFAULT '',
    score INTEGER NOT NULL,
    rescues INTEGER NOT NULL DEFAULT 0,
    survival_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
`

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// SubmitScore inserts a finished run.
func (s *PostgresStore) SubmitScore(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (id, nickname, score, rescues, survival_seconds, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Nickname, e.Score, e.Rescues, e.SurvivalSeconds, e.CreatedAt)
	return err
}

// TopScores returns the best runs, highest score first.
func (s *PostgresStore) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, nickname, score, rescues, survival_seconds, created_at
		 FROM scores ORDER BY score DESC, created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Nickname, &e.Score, &e.Rescues, &e.SurvivalSeconds, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// BestScore returns a player's highest-scoring run, or nil if the player
// has no recorded runs.
func (s *PostgresStore) BestScore(ctx context.Context, nickname string) (*Entry, error) {
	var e Entry
	err := s.pool.QueryRow(ctx,
		`SELECT id, nickname, score, rescues, survival_seconds, created_at
		 FROM scores WHERE nickname = $1 ORDER BY score DESC, created_at ASC LIMIT 1`,
		nickname).Scan(&e.ID, &e.Nickname, &e.Score, &e.Rescues, &e.SurvivalSeconds, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
