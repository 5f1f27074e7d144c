package db

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawago/server/internal/model"
)

func TestProfileRepository_GetOrCreate(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.Get(ctx, userID)
	require.ErrorIs(t, err, model.ErrProfileNotFound)

	p, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, int32(1), p.Level)
	assert.Zero(t, p.CurrentXP)
	assert.Equal(t, int64(100), p.NextLevelXP)
	assert.Equal(t, model.RolePlayer, p.Role)
	assert.Equal(t, "Trainer", p.DisplayName)

	// Repeat calls return the existing row untouched.
	again, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, p.CreatedAt, again.CreatedAt)
}

func TestProfileRepository_UpdateProgress(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	updated, err := repo.UpdateProgress(ctx, userID, func(p *model.Profile) {
		p.Level = 2
		p.CurrentXP = 50
		p.NextLevelXP = 120
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), updated.Level)

	stored, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), stored.Level)
	assert.Equal(t, int64(50), stored.CurrentXP)
	assert.Equal(t, int64(120), stored.NextLevelXP)
}

func TestProfileRepository_UpdateProgress_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)

	_, err := repo.UpdateProgress(context.Background(), uuid.New(), func(p *model.Profile) {
		p.CurrentXP += 10
	})
	assert.ErrorIs(t, err, model.ErrProfileNotFound)
}

func TestProfileRepository_UpdateProgress_ConcurrentRewardsSerialize(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	// Ten concurrent +10 XP rewards must all land thanks to the row lock.
	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = repo.UpdateProgress(ctx, userID, func(p *model.Profile) {
				p.CurrentXP += 10
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	stored, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.CurrentXP)
}

func TestProfileRepository_UpdateDisplayName(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateDisplayName(ctx, userID, "Petualang"))

	stored, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Petualang", stored.DisplayName)

	err = repo.UpdateDisplayName(ctx, uuid.New(), "Nobody")
	assert.ErrorIs(t, err, model.ErrProfileNotFound)
}
