package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the expected outcomes of normal contention. Callers
// branch on these with errors.Is; they are results, not operational
// failures.
var (
	// ErrEmptyCatalog means the species catalog has zero entries and no
	// spawn can be drawn. Fatal for refill.
	ErrEmptyCatalog = errors.New("species catalog is empty")

	// ErrSpawnGone means the spawn was already claimed by a concurrent
	// request or expired. The caller should refresh its spawn list.
	ErrSpawnGone = errors.New("spawn no longer exists")

	// ErrProfileNotFound means the player has no profile row. Indicates an
	// upstream provisioning bug, surfaced as a server error.
	ErrProfileNotFound = errors.New("player profile not found")

	// ErrAlreadyVisited means the user has already checked in at the
	// landmark. Idempotent no-op from the caller's point of view.
	ErrAlreadyVisited = errors.New("landmark already visited")

	// ErrLandmarkNotFound means the landmark ID does not exist.
	ErrLandmarkNotFound = errors.New("landmark not found")

	// ErrStoreUnavailable wraps transient storage failures. Retryable with
	// backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// TooFarError reports a failed geofence check, carrying the measured
// distance for user feedback.
type TooFarError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("too far: %.0fm away, radius %.0fm", e.DistanceMeters, e.RadiusMeters)
}
