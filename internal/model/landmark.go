package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jawago/server/internal/geo"
)

// Landmark is a fixed check-in site. Static reference data; only the visit
// join rows change.
type Landmark struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Location    geo.Coordinate `json:"location"`
	XPReward    int64          `json:"xp_reward"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
}

// LandmarkVisit records a user checking in at a landmark. Insertion-only;
// (UserID, LandmarkID) is unique in the store.
type LandmarkVisit struct {
	UserID     uuid.UUID `json:"user_id"`
	LandmarkID int64     `json:"landmark_id"`
	VisitedAt  time.Time `json:"visited_at"`
}
