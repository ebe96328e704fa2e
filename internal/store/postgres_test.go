package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDatabaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}
	return url
}

func setupTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := getTestDatabaseURL(t)
	ctx := context.Background()

	s, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)

	// Clean up scores table for test isolation
	_, err = s.pool.Exec(ctx, "DELETE FROM scores")
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestPostgresStore_SubmitAndQuery(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	e := &Entry{
		ID:              uuid.NewString(),
		Nickname:        "newt-saver",
		Score:           450,
		Rescues:         4,
		SurvivalSeconds: 93.5,
	}
	require.NoError(t, s.SubmitScore(ctx, e))

	entries, err := s.TopScores(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, e.ID, entries[0].ID)
	assert.Equal(t, "newt-saver", entries[0].Nickname)
	assert.Equal(t, 450, entries[0].Score)
	assert.Equal(t, 4, entries[0].Rescues)
	assert.InDelta(t, 93.5, entries[0].SurvivalSeconds, 0.001)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestPostgresStore_TopScoresOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, score := range []int{100, 500, 300} {
		require.NoError(t, s.SubmitScore(ctx, &Entry{
			ID:       uuid.NewString(),
			Nickname: "runner",
			Score:    score,
		}))
	}

	entries, err := s.TopScores(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 500, entries[0].Score)
	assert.Equal(t, 300, entries[1].Score)
	assert.Equal(t, 100, entries[2].Score)
}

func TestPostgresStore_TopScoresLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SubmitScore(ctx, &Entry{
			ID:       uuid.NewString(),
			Nickname: "runner",
			Score:    i * 10,
		}))
	}

	entries, err := s.TopScores(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPostgresStore_BestScore(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	best, err := s.BestScore(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, best)

	for _, score := range []int{200, 700, 350} {
		require.NoError(t, s.SubmitScore(ctx, &Entry{
			ID:       uuid.NewString(),
			Nickname: "ghost",
			Score:    score,
		}))
	}
	require.NoError(t, s.SubmitScore(ctx, &Entry{
		ID:       uuid.NewString(),
		Nickname: "other",
		Score:    900,
	}))

	best, err = s.BestScore(ctx, "ghost")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 700, best.Score)
	assert.Equal(t, "ghost", best.Nickname)
}

func TestPostgresStore_EmptyLeaderboard(t *testing.T) {
	s := setupTestStore(t)

	entries, err := s.TopScores(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
