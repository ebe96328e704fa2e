package store

import (
	"context"
	"time"
)

// Entry is one leaderboard row.
type Entry struct {
	ID              string    `json:"id"`
	Nickname        string    `json:"nickname"`
	Score           int       `json:"score"`
	Rescues         int       `json:"rescues"`
	SurvivalSeconds float64   `json:"survival_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store defines the interface for persistent leaderboard storage.
type Store interface {
	// SubmitScore inserts a finished run.
	SubmitScore(ctx context.Context, e *Entry) error
	// TopScores returns the best runs, highest score first.
	TopScores(ctx context.Context, limit int) ([]Entry, error)
	// BestScore returns a player's highest-scoring run, or nil if the
	// player has no recorded runs.
	BestScore(ctx context.Context, nickname string) (*Entry, error)
	// Close releases database resources.
	Close() error
}
