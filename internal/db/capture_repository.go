package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jawago/server/internal/model"
)

// CaptureRepository owns the insertion-only captures table and the atomic
// claim transaction.
type CaptureRepository struct {
	pool *pgxpool.Pool
}

// NewCaptureRepository creates a new capture repository.
func NewCaptureRepository(pool *pgxpool.Pool) *CaptureRepository {
	return &CaptureRepository{pool: pool}
}

// CountByUser returns the number of captures the user holds.
func (r *CaptureRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM captures WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, storeErr("counting captures", err)
	}
	return count, nil
}

// ClaimSpawn inserts the capture row and removes the spawn in a single
// transaction. The conditional delete is the linearization point: when it
// finds no row another request won the race, the whole transaction rolls
// back and model.ErrSpawnGone is returned. The capture row never outlives
// a spawn someone else claimed.
func (r *CaptureRepository) ClaimSpawn(ctx context.Context, userID uuid.UUID, speciesID int32, spawnID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storeErr("beginning claim transaction", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO captures (user_id, species_id) VALUES ($1, $2)`,
		userID, speciesID,
	)
	if err != nil {
		return storeErr(fmt.Sprintf("inserting capture of species %d", speciesID), err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM active_spawns WHERE id = $1`, spawnID)
	if err != nil {
		return storeErr(fmt.Sprintf("removing claimed spawn %d", spawnID), err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSpawnGone
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("committing claim transaction", err)
	}
	return nil
}
