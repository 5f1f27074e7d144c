package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jawago/server/internal/model"
)

// SpeciesRepository reads the immutable species reference data.
type SpeciesRepository struct {
	pool *pgxpool.Pool
}

// NewSpeciesRepository creates a new species repository.
func NewSpeciesRepository(pool *pgxpool.Pool) *SpeciesRepository {
	return &SpeciesRepository{pool: pool}
}

// LoadAll loads every species definition, ordered by ID.
func (r *SpeciesRepository) LoadAll(ctx context.Context) ([]model.Species, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, element, rarity, xp_reward, description, education, image_url
		FROM species
		ORDER BY id`)
	if err != nil {
		return nil, storeErr("loading species", err)
	}
	defer rows.Close()

	species := make([]model.Species, 0, 64)
	for rows.Next() {
		var s model.Species
		if err := rows.Scan(&s.ID, &s.Name, &s.Element, &s.Rarity, &s.XPReward,
			&s.Description, &s.Education, &s.ImageURL); err != nil {
			return nil, storeErr("scanning species row", err)
		}
		species = append(species, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating species rows", err)
	}

	return species, nil
}
