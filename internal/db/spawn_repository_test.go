package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawago/server/internal/geo"
	"github.com/jawago/server/internal/model"
)

// seededSpeciesID returns the ID of one seeded species of the given rarity.
func seededSpeciesID(t *testing.T, rarity model.Rarity) int32 {
	t.Helper()

	var id int32
	err := testPool.QueryRow(context.Background(),
		`SELECT id FROM species WHERE rarity = $1 ORDER BY id LIMIT 1`, rarity).Scan(&id)
	require.NoError(t, err, "seed data must contain a %s species", rarity)
	return id
}

func TestSpawnRepository_InsertBatch(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSpawnRepository(pool)
	ctx := context.Background()

	speciesID := seededSpeciesID(t, model.RarityCommon)
	draws := []model.SpawnDraw{
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.78, Lng: 110.36}},
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.80, Lng: 110.38}},
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.82, Lng: 110.40}},
	}

	inserted, err := repo.InsertBatch(ctx, draws)
	require.NoError(t, err)
	require.Len(t, inserted, 3)
	for i, s := range inserted {
		assert.NotZero(t, s.ID)
		assert.Equal(t, speciesID, s.SpeciesID)
		assert.Equal(t, draws[i].Location, s.Location)
		assert.False(t, s.CreatedAt.IsZero())
	}

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSpawnRepository_InsertBatch_Empty(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSpawnRepository(pool)

	inserted, err := repo.InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestSpawnRepository_GetByID(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSpawnRepository(pool)
	ctx := context.Background()

	speciesID := seededSpeciesID(t, model.RarityRare)
	inserted, err := repo.InsertBatch(ctx, []model.SpawnDraw{
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.79, Lng: 110.37}},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, inserted[0].ID)
	require.NoError(t, err)
	assert.Equal(t, inserted[0].ID, got.ID)
	assert.Equal(t, speciesID, got.SpeciesID)

	_, err = repo.GetByID(ctx, inserted[0].ID+1000)
	assert.ErrorIs(t, err, model.ErrSpawnGone)
}

func TestSpawnRepository_ListActive_JoinsSpecies(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSpawnRepository(pool)
	ctx := context.Background()

	speciesID := seededSpeciesID(t, model.RarityLegendary)
	_, err := repo.InsertBatch(ctx, []model.SpawnDraw{
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.79, Lng: 110.37}},
	})
	require.NoError(t, err)

	spawns, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, spawns, 1)
	assert.Equal(t, speciesID, spawns[0].Species.ID)
	assert.Equal(t, model.RarityLegendary, spawns[0].Species.Rarity)
	assert.NotEmpty(t, spawns[0].Species.Name)
}

func TestSpawnRepository_DeleteByID(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSpawnRepository(pool)
	ctx := context.Background()

	speciesID := seededSpeciesID(t, model.RarityCommon)
	inserted, err := repo.InsertBatch(ctx, []model.SpawnDraw{
		{SpeciesID: speciesID, Location: geo.Coordinate{Lat: -7.79, Lng: 110.37}},
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, inserted[0].ID))

	// The row is already gone, so the second delete reports the race loss.
	err = repo.DeleteByID(ctx, inserted[0].ID)
	assert.ErrorIs(t, err, model.ErrSpawnGone)
}
