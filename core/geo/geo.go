// Package geo provides great-circle math on WGS 84 coordinates. All
// functions are pure; callers supply trusted data and only latitude and
// longitude range clamping is applied.
package geo

import (
	"math"

	"github.com/chargeway/chargeway/core/model"
)

const earthRadiusKm = 6371.0

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DistanceKm returns the Haversine great-circle distance between two
// coordinates in kilometers.
func DistanceKm(a, b model.Coordinate) float64 {
	lat1 := clamp(a.Lat, -90, 90) * math.Pi / 180
	lat2 := clamp(b.Lat, -90, 90) * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (clamp(b.Lon, -180, 180) - clamp(a.Lon, -180, 180)) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial compass bearing from a to b in degrees [0,360).
// It is used for corridor filtering when scoring intercity charging stops.
func Bearing(a, b model.Coordinate) float64 {
	lat1 := clamp(a.Lat, -90, 90) * math.Pi / 180
	lat2 := clamp(b.Lat, -90, 90) * math.Pi / 180
	dLon := (clamp(b.Lon, -180, 180) - clamp(a.Lon, -180, 180)) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
