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

// LandmarkRepository reads landmark reference data and owns the
// insertion-only visit join table.
type LandmarkRepository struct {
	pool *pgxpool.Pool
}

// NewLandmarkRepository creates a new landmark repository.
func NewLandmarkRepository(pool *pgxpool.Pool) *LandmarkRepository {
	return &LandmarkRepository{pool: pool}
}

// LoadAll loads every landmark, ordered by ID.
func (r *LandmarkRepository) LoadAll(ctx context.Context) ([]model.Landmark, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, lat, lng, xp_reward, description, image_url
		FROM landmarks
		ORDER BY id`)
	if err != nil {
		return nil, storeErr("loading landmarks", err)
	}
	defer rows.Close()

	landmarks := make([]model.Landmark, 0, 16)
	for rows.Next() {
		var l model.Landmark
		if err := rows.Scan(&l.ID, &l.Name, &l.Location.Lat, &l.Location.Lng,
			&l.XPReward, &l.Description, &l.ImageURL); err != nil {
			return nil, storeErr("scanning landmark row", err)
		}
		landmarks = append(landmarks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating landmark rows", err)
	}

	return landmarks, nil
}

// GetByID loads a single landmark. Returns model.ErrLandmarkNotFound if the
// ID does not exist.
func (r *LandmarkRepository) GetByID(ctx context.Context, landmarkID int64) (*model.Landmark, error) {
	var l model.Landmark
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, lat, lng, xp_reward, description, image_url FROM landmarks WHERE id = $1`,
		landmarkID,
	).Scan(&l.ID, &l.Name, &l.Location.Lat, &l.Location.Lng, &l.XPReward, &l.Description, &l.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrLandmarkNotFound
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("loading landmark %d", landmarkID), err)
	}
	return &l, nil
}

// VisitedIDs returns the landmark IDs the user has checked in at.
func (r *LandmarkRepository) VisitedIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT landmark_id FROM landmark_visits WHERE user_id = $1 ORDER BY landmark_id`, userID)
	if err != nil {
		return nil, storeErr("loading visited landmarks", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scanning visit row", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating visit rows", err)
	}

	return ids, nil
}

// CountVisits returns the number of landmarks the user has checked in at.
func (r *LandmarkRepository) CountVisits(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM landmark_visits WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, storeErr("counting landmark visits", err)
	}
	return count, nil
}

// InsertVisit records a check-in. The (user_id, landmark_id) uniqueness
// constraint is the race-closing step: a duplicate insert returns
// model.ErrAlreadyVisited and credits nothing.
func (r *LandmarkRepository) InsertVisit(ctx context.Context, userID uuid.UUID, landmarkID int64) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO landmark_visits (user_id, landmark_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, landmark_id) DO NOTHING`,
		userID, landmarkID,
	)
	if err != nil {
		return storeErr(fmt.Sprintf("inserting visit for landmark %d", landmarkID), err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyVisited
	}
	return nil
}
