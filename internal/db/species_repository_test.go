package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeciesRepository_LoadAll(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSpeciesRepository(pool)

	species, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, species, "seed data must contain species")

	for _, s := range species {
		assert.NotEmpty(t, s.Name)
		assert.True(t, s.Rarity.Valid(), "species %s has rarity %q", s.Name, s.Rarity)
		assert.Positive(t, s.XPReward)
	}
}
