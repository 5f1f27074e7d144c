package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jawago/server/internal/model"
)

// ProfileRepository reads and updates player progression rows.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get loads a profile. Returns model.ErrProfileNotFound if the user has no
// profile row.
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var p model.Profile
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, display_name, level, current_xp, next_level_xp, role, created_at
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.DisplayName, &p.Level, &p.CurrentXP, &p.NextLevelXP, &p.Role, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("loading profile %s", userID), err)
	}
	return &p, nil
}

// UpdateProgress applies fn to the profile's (level, xp, threshold) triple
// under a row lock and persists the result in the same transaction. Two
// simultaneous rewards to the same user serialize on the lock; neither
// update is lost. Returns model.ErrProfileNotFound if no row exists.
func (r *ProfileRepository) UpdateProgress(ctx context.Context, userID uuid.UUID, fn func(p *model.Profile)) (*model.Profile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr("beginning progress transaction", err)
	}
	defer tx.Rollback(ctx)

	var p model.Profile
	err = tx.QueryRow(ctx,
		`SELECT user_id, display_name, level, current_xp, next_level_xp, role, created_at
		 FROM profiles WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&p.UserID, &p.DisplayName, &p.Level, &p.CurrentXP, &p.NextLevelXP, &p.Role, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("locking profile %s", userID), err)
	}

	fn(&p)

	_, err = tx.Exec(ctx,
		`UPDATE profiles SET level = $1, current_xp = $2, next_level_xp = $3 WHERE user_id = $4`,
		p.Level, p.CurrentXP, p.NextLevelXP, userID,
	)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("updating progress for %s", userID), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("committing progress transaction", err)
	}
	return &p, nil
}

// UpdateDisplayName renames the profile. Returns model.ErrProfileNotFound
// if no row exists.
func (r *ProfileRepository) UpdateDisplayName(ctx context.Context, userID uuid.UUID, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE profiles SET display_name = $1 WHERE user_id = $2`, name, userID)
	if err != nil {
		return storeErr(fmt.Sprintf("renaming profile %s", userID), err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// GetOrCreate returns the profile, provisioning a fresh level-1 row on
// first sight. Uses INSERT ... ON CONFLICT DO NOTHING so concurrent first
// requests cannot race.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("provisioning profile %s", userID), err)
	}
	return r.Get(ctx, userID)
}
