package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawago/server/internal/geo"
	"github.com/jawago/server/internal/model"
)

func TestCaptureRepository_ClaimSpawn(t *testing.T) {
	pool := setupTestDB(t)
	spawns := NewSpawnRepository(pool)
	captures := NewCaptureRepository(pool)
	ctx := context.Background()

	speciesID := seededSpeciesID(t, model.RarityCommon)
	inserted, err := spawns.InsertBatch(ctx, []model.SpawnDraw{
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.79, Lng: 110.37}},
	})
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, captures.ClaimSpawn(ctx, userID, speciesID, inserted[0].ID))

	count, err := captures.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = spawns.GetByID(ctx, inserted[0].ID)
	assert.ErrorIs(t, err, model.ErrSpawnGone, "claimed spawn must leave the live set")
}

func TestCaptureRepository_ClaimSpawn_GoneRollsBackCapture(t *testing.T) {
	pool := setupTestDB(t)
	captures := NewCaptureRepository(pool)
	ctx := context.Background()

	speciesID := seededSpeciesID(t, model.RarityCommon)
	userID := uuid.New()

	err := captures.ClaimSpawn(ctx, userID, speciesID, 424242)
	assert.ErrorIs(t, err, model.ErrSpawnGone)

	count, err := captures.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count, "losing claim must not leave a capture row behind")
}

func TestCaptureRepository_ClaimSpawn_ConcurrentSingleWinner(t *testing.T) {
	pool := setupTestDB(t)
	spawns := NewSpawnRepository(pool)
	captures := NewCaptureRepository(pool)
	ctx := context.Background()

	speciesID := seededSpeciesID(t, model.RarityRare)
	inserted, err := spawns.InsertBatch(ctx, []model.SpawnDraw{
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.79, Lng: 110.37}},
	})
	require.NoError(t, err)
	spawnID := inserted[0].ID

	const racers = 8
	results := make([]error, racers)
	users := make([]uuid.UUID, racers)

	var wg sync.WaitGroup
	for i := range racers {
		users[i] = uuid.New()
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = captures.ClaimSpawn(ctx, users[i], speciesID, spawnID)
		}()
	}
	wg.Wait()

	var winners int
	for i, err := range results {
		if err == nil {
			winners++
			continue
		}
		require.True(t, errors.Is(err, model.ErrSpawnGone), "racer %d: unexpected error %v", i, err)
	}
	assert.Equal(t, 1, winners, "exactly one racer must win the spawn")

	var total int64
	err = pool.QueryRow(ctx, `SELECT count(*) FROM captures`).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "losers must not persist capture rows")
}
