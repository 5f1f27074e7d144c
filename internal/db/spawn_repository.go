package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jawago/server/internal/model"
)

// SpawnRepository owns the live-spawn set. No other component mutates it.
type SpawnRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnRepository creates a new spawn repository.
func NewSpawnRepository(pool *pgxpool.Pool) *SpawnRepository {
	return &SpawnRepository{pool: pool}
}

// CountActive returns the number of live spawns. The count is a snapshot
// and may be stale by the time a refill commits.
func (r *SpawnRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM active_spawns`).Scan(&count)
	if err != nil {
		return 0, storeErr("counting active spawns", err)
	}
	return count, nil
}

// GetByID loads a single live spawn. Returns model.ErrSpawnGone if the row
// no longer exists.
func (r *SpawnRepository) GetByID(ctx context.Context, spawnID int64) (*model.Spawn, error) {
	var s model.Spawn
	err := r.pool.QueryRow(ctx,
		`SELECT id, species_id, lat, lng, created_at FROM active_spawns WHERE id = $1`,
		spawnID,
	).Scan(&s.ID, &s.SpeciesID, &s.Location.Lat, &s.Location.Lng, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSpawnGone
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("loading spawn %d", spawnID), err)
	}
	return &s, nil
}

// ListActive returns all live spawns joined with their species entries.
func (r *SpawnRepository) ListActive(ctx context.Context) ([]model.ActiveSpawn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sp.id, sp.species_id, sp.lat, sp.lng, sp.created_at,
		       s.id, s.name, s.element, s.rarity, s.xp_reward, s.description, s.education, s.image_url
		FROM active_spawns sp
		JOIN species s ON s.id = sp.species_id
		ORDER BY sp.id`)
	if err != nil {
		return nil, storeErr("listing active spawns", err)
	}
	defer rows.Close()

	spawns := make([]model.ActiveSpawn, 0, 32)
	for rows.Next() {
		var a model.ActiveSpawn
		if err := rows.Scan(
			&a.ID, &a.SpeciesID, &a.Location.Lat, &a.Location.Lng, &a.CreatedAt,
			&a.Species.ID, &a.Species.Name, &a.Species.Element, &a.Species.Rarity,
			&a.Species.XPReward, &a.Species.Description, &a.Species.Education, &a.Species.ImageURL,
		); err != nil {
			return nil, storeErr("scanning active spawn row", err)
		}
		spawns = append(spawns, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating active spawn rows", err)
	}

	return spawns, nil
}

// InsertBatch persists all drawn spawns in one multi-row INSERT. The batch
// commits or fails as a whole, never partially. Returns the inserted
// records with their assigned IDs and timestamps.
func (r *SpawnRepository) InsertBatch(ctx context.Context, draws []model.SpawnDraw) ([]model.Spawn, error) {
	if len(draws) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO active_spawns (species_id, lat, lng) VALUES `)
	args := make([]any, 0, len(draws)*3)
	for i, d := range draws {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, d.SpeciesID, d.Location.Lat, d.Location.Lng)
	}
	sb.WriteString(` RETURNING id, species_id, lat, lng, created_at`)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, storeErr("inserting spawn batch", err)
	}
	defer rows.Close()

	inserted := make([]model.Spawn, 0, len(draws))
	for rows.Next() {
		var s model.Spawn
		if err := rows.Scan(&s.ID, &s.SpeciesID, &s.Location.Lat, &s.Location.Lng, &s.CreatedAt); err != nil {
			return nil, storeErr("scanning inserted spawn", err)
		}
		inserted = append(inserted, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating inserted spawns", err)
	}

	return inserted, nil
}

// DeleteByID removes exactly one spawn. The conditional delete is the
// linearization point for concurrent claims: the loser gets
// model.ErrSpawnGone.
func (r *SpawnRepository) DeleteByID(ctx context.Context, spawnID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM active_spawns WHERE id = $1`, spawnID)
	if err != nil {
		return storeErr(fmt.Sprintf("deleting spawn %d", spawnID), err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSpawnGone
	}
	return nil
}
