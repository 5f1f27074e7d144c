// Package capture enforces the geofence on claim attempts. The privileged
// bypass lives here, in one named branch, so the spawn and landmark paths
// cannot drift apart.
package capture

import (
	"github.com/jawago/server/internal/geo"
	"github.com/jawago/server/internal/model"
)

// ValidateProximity reports whether a user at userCoord may claim a target
// at targetCoord within radiusMeters. The measured great-circle distance is
// always returned for feedback. A privileged role passes unconditionally
// regardless of distance.
func ValidateProximity(userCoord, targetCoord geo.Coordinate, radiusMeters float64, role model.Role) (bool, float64) {
	distance := geo.Distance(userCoord, targetCoord)
	if role.Privileged() {
		return true, distance
	}
	return distance <= radiusMeters, distance
}
