// Package claim orchestrates the capture transaction: validate proximity,
// persist the claim atomically, credit experience.
package claim

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jawago/server/internal/capture"
	"github.com/jawago/server/internal/catalog"
	"github.com/jawago/server/internal/geo"
	"github.com/jawago/server/internal/model"
	"github.com/jawago/server/internal/progress"
)

// defaultSpawnReward is credited when a spawn's species has no catalog
// entry.
const defaultSpawnReward = 100

// SpawnStore looks up live spawns.
type SpawnStore interface {
	GetByID(ctx context.Context, spawnID int64) (*model.Spawn, error)
}

// CaptureStore persists the atomic capture-and-remove transaction.
type CaptureStore interface {
	ClaimSpawn(ctx context.Context, userID uuid.UUID, speciesID int32, spawnID int64) error
}

// LandmarkStore looks up landmarks and records visits.
type LandmarkStore interface {
	GetByID(ctx context.Context, landmarkID int64) (*model.Landmark, error)
	InsertVisit(ctx context.Context, userID uuid.UUID, landmarkID int64) error
}

// Progression credits experience.
type Progression interface {
	AddExperience(ctx context.Context, userID uuid.UUID, reward int64) (progress.Result, error)
}

// Result reports a successful claim.
type Result struct {
	RewardXP       int64   `json:"reward_xp"`
	LeveledUp      bool    `json:"leveled_up"`
	NewLevel       int32   `json:"new_level"`
	NewXP          int64   `json:"new_xp"`
	DistanceMeters float64 `json:"distance_meters"`

	// XPCredited is false when the capture stood but the experience credit
	// failed; the credit may be retried out of band.
	XPCredited bool `json:"xp_credited"`
}

// Coordinator owns the claim consistency guarantee.
type Coordinator struct {
	spawns    SpawnStore
	captures  CaptureStore
	landmarks LandmarkStore
	progress  Progression
	catalog   *catalog.Catalog

	captureRadius  float64
	landmarkRadius float64
}

// NewCoordinator wires a claim coordinator.
func NewCoordinator(
	spawns SpawnStore,
	captures CaptureStore,
	landmarks LandmarkStore,
	prog Progression,
	cat *catalog.Catalog,
	captureRadiusMeters, landmarkRadiusMeters float64,
) *Coordinator {
	return &Coordinator{
		spawns:         spawns,
		captures:       captures,
		landmarks:      landmarks,
		progress:       prog,
		catalog:        cat,
		captureRadius:  captureRadiusMeters,
		landmarkRadius: landmarkRadiusMeters,
	}
}

// ClaimSpawn attempts to capture a spawn for the user. Failure points, in
// order: the spawn is gone (model.ErrSpawnGone), the user is outside the
// capture radius (*model.TooFarError), the claim race is lost
// (model.ErrSpawnGone). The capture insert and the conditional spawn
// removal commit in one store transaction; the removal is the
// linearization point, so at most one claimant ever succeeds. The XP
// credit runs after the capture is authoritative and is best-effort.
func (c *Coordinator) ClaimSpawn(ctx context.Context, userID uuid.UUID, spawnID int64, userCoord geo.Coordinate, role model.Role) (Result, error) {
	spawn, err := c.spawns.GetByID(ctx, spawnID)
	if err != nil {
		return Result{}, err
	}

	ok, distance := capture.ValidateProximity(userCoord, spawn.Location, c.captureRadius, role)
	if !ok {
		return Result{}, &model.TooFarError{DistanceMeters: distance, RadiusMeters: c.captureRadius}
	}

	if err := c.captures.ClaimSpawn(ctx, userID, spawn.SpeciesID, spawn.ID); err != nil {
		return Result{}, err
	}

	reward := int64(defaultSpawnReward)
	if species, found := c.catalog.Get(spawn.SpeciesID); found {
		reward = species.XPReward
	}

	res := Result{RewardXP: reward, DistanceMeters: distance}
	c.credit(ctx, userID, reward, &res)

	slog.Info("spawn claimed",
		"user", userID,
		"spawn", spawn.ID,
		"species", spawn.SpeciesID,
		"distance_m", int(distance),
		"reward_xp", reward,
		"leveled_up", res.LeveledUp)
	return res, nil
}

// ClaimLandmark attempts a check-in. The unique (user, landmark) insert is
// the sole race-closing step; landmarks are never consumed. A duplicate
// check-in fails with model.ErrAlreadyVisited and credits nothing.
func (c *Coordinator) ClaimLandmark(ctx context.Context, userID uuid.UUID, landmarkID int64, userCoord geo.Coordinate, role model.Role) (Result, error) {
	landmark, err := c.landmarks.GetByID(ctx, landmarkID)
	if err != nil {
		return Result{}, err
	}

	ok, distance := capture.ValidateProximity(userCoord, landmark.Location, c.landmarkRadius, role)
	if !ok {
		return Result{}, &model.TooFarError{DistanceMeters: distance, RadiusMeters: c.landmarkRadius}
	}

	if err := c.landmarks.InsertVisit(ctx, userID, landmark.ID); err != nil {
		return Result{}, err
	}

	res := Result{RewardXP: landmark.XPReward, DistanceMeters: distance}
	c.credit(ctx, userID, landmark.XPReward, &res)

	slog.Info("landmark claimed",
		"user", userID,
		"landmark", landmark.ID,
		"distance_m", int(distance),
		"reward_xp", landmark.XPReward,
		"leveled_up", res.LeveledUp)
	return res, nil
}

// credit applies the XP reward after the claim is authoritative. A failure
// here never undoes the claim; it is logged and reported for retry.
func (c *Coordinator) credit(ctx context.Context, userID uuid.UUID, reward int64, res *Result) {
	progRes, err := c.progress.AddExperience(ctx, userID, reward)
	if err != nil {
		slog.Error("xp credit failed after claim", "user", userID, "reward", reward, "error", err)
		res.XPCredited = false
		return
	}
	res.XPCredited = true
	res.LeveledUp = progRes.LeveledUp
	res.NewLevel = progRes.NewLevel
	res.NewXP = progRes.NewXP
}
