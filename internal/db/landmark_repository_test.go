package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawago/server/internal/model"
)

func TestLandmarkRepository_LoadAll(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewLandmarkRepository(pool)

	landmarks, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, landmarks, "seed data must contain landmarks")
	for _, l := range landmarks {
		assert.NotEmpty(t, l.Name)
		assert.Positive(t, l.XPReward)
	}
}

func TestLandmarkRepository_GetByID(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewLandmarkRepository(pool)
	ctx := context.Background()

	landmarks, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, landmarks)

	got, err := repo.GetByID(ctx, landmarks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, landmarks[0].Name, got.Name)

	_, err = repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, model.ErrLandmarkNotFound)
}

func TestLandmarkRepository_InsertVisit_OncePerUser(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewLandmarkRepository(pool)
	ctx := context.Background()

	landmarks, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(landmarks), 2)

	userID := uuid.New()
	require.NoError(t, repo.InsertVisit(ctx, userID, landmarks[0].ID))

	// A repeat check-in at the same landmark hits the uniqueness constraint.
	err = repo.InsertVisit(ctx, userID, landmarks[0].ID)
	assert.ErrorIs(t, err, model.ErrAlreadyVisited)

	// A different landmark, and a different user at the same landmark, both pass.
	require.NoError(t, repo.InsertVisit(ctx, userID, landmarks[1].ID))
	require.NoError(t, repo.InsertVisit(ctx, uuid.New(), landmarks[0].ID))

	ids, err := repo.VisitedIDs(ctx, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{landmarks[0].ID, landmarks[1].ID}, ids)

	count, err := repo.CountVisits(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
