package geo

import (
	"math"
	"math/rand/v2"
	"time"
)

// earthRadius is the mean earth radius in meters (spherical approximation).
const earthRadius = 6371000.0

// avgSpeedKmh is the assumed travel speed for ETA estimates.
const avgSpeedKmh = 40.0

// Coordinate is a WGS84 point in degrees. Value type, passed by value.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance between two coordinates in
// meters, using the haversine formula on a spherical earth.
func Distance(a, b Coordinate) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// ETA estimates travel time for the given distance at 40 km/h, rounded up
// to whole minutes. Never returns less than one minute.
func ETA(distanceMeters float64) time.Duration {
	hours := (distanceMeters / 1000) / avgSpeedKmh
	minutes := math.Ceil(hours * 60)
	if minutes < 1 {
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}

// Bounds is a rectangular latitude/longitude box.
type Bounds struct {
	MinLat float64 `yaml:"min_lat" json:"min_lat"`
	MaxLat float64 `yaml:"max_lat" json:"max_lat"`
	MinLng float64 `yaml:"min_lng" json:"min_lng"`
	MaxLng float64 `yaml:"max_lng" json:"max_lng"`
}

// Contains reports whether c lies inside the box (inclusive).
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// RandomPoint draws a uniformly distributed coordinate inside the box.
// Safe for concurrent use (the shared rand source is).
func (b Bounds) RandomPoint() Coordinate {
	return Coordinate{
		Lat: b.MinLat + rand.Float64()*(b.MaxLat-b.MinLat),
		Lng: b.MinLng + rand.Float64()*(b.MaxLng-b.MinLng),
	}
}
