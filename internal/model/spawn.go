package model

import (
	"time"

	"github.com/jawago/server/internal/geo"
)

// Spawn is a live collectible instance anchored to a coordinate. Created by
// the pool refill, destroyed exactly once by a successful claim or expiry.
type Spawn struct {
	ID        int64          `json:"id"`
	SpeciesID int32          `json:"species_id"`
	Location  geo.Coordinate `json:"location"`
	CreatedAt time.Time      `json:"created_at"`
}

// SpawnDraw is a freshly drawn spawn awaiting persistence. The store
// assigns its ID and creation time.
type SpawnDraw struct {
	SpeciesID int32
	Location  geo.Coordinate
}

// ActiveSpawn is a live spawn joined with its species entry, the shape
// served to clients.
type ActiveSpawn struct {
	Spawn
	Species Species `json:"species"`
}
