package model

import (
	"time"

	"github.com/google/uuid"
)

// Role gates the geofence bypass. Admins may claim from any distance.
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// Privileged reports whether the role bypasses proximity checks.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

// Profile is a player's progression state. Mutated only by the progression
// engine; XP never decreases except for the carry-over subtraction during a
// level-up roll-up.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Level       int32     `json:"level"`
	CurrentXP   int64     `json:"current_xp"`
	NextLevelXP int64     `json:"next_level_xp"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Capture records a user claiming a spawn of a given species. Insertion-only.
type Capture struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SpeciesID int32     `json:"species_id"`
	CaughtAt  time.Time `json:"caught_at"`
}

// PlayerStats are the collection counters shown on the profile card.
type PlayerStats struct {
	Captures       int64 `json:"captures"`
	LandmarkVisits int64 `json:"landmark_visits"`
}
