// Package geo provides geographic utility functions for journey planning.
//
// All distance calculations use great-circle (Haversine) distance on WGS-84
// coordinates. Destinations and airports sit at arbitrary global positions,
// so no flat-earth approximation is used anywhere.
package geo

import (
	"math"
	"sort"

	"github.com/mira/skylink/internal/model"
)

// ─── Constants ──────────────────────────────────────────────

// EarthRadiusKm is the mean radius of Earth in kilometers.
const EarthRadiusKm = 6371.0

// ─── Distance ───────────────────────────────────────────────

// HaversineKm returns the great-circle distance between two points in kilometers.
//
// Complexity: O(1)
func HaversineKm(a, b model.Location) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// ─── Radius Search ──────────────────────────────────────────

// AirportDistance pairs an airport with its distance to a query point.
type AirportDistance struct {
	Airport    model.Airport `json:"airport"`
	DistanceKm float64       `json:"distance_km"`
}

// FindWithinRadius returns every airport within radiusKm of point, sorted
// ascending by distance. Equal distances keep input order.
//
// Airport sets are a few thousand rows at most, so a linear Haversine pass
// beats maintaining a spatial index per request.
//
// Complexity: O(N log N) where N = len(airports).
func FindWithinRadius(point model.Location, radiusKm float64, airports []model.Airport) []AirportDistance {
	within := make([]AirportDistance, 0, len(airports)/4)
	for _, a := range airports {
		d := HaversineKm(point, a.Location)
		if d <= radiusKm {
			within = append(within, AirportDistance{Airport: a, DistanceKm: d})
		}
	}

	sort.SliceStable(within, func(i, j int) bool {
		return within[i].DistanceKm < within[j].DistanceKm
	})
	return within
}

// Nearest returns the closest airport to a point and its distance, or
// false when the set is empty.
func Nearest(point model.Location, airports []model.Airport) (model.Airport, float64, bool) {
	if len(airports) == 0 {
		return model.Airport{}, 0, false
	}

	best := airports[0]
	bestDist := HaversineKm(point, airports[0].Location)
	for _, a := range airports[1:] {
		if d := HaversineKm(point, a.Location); d < bestDist {
			best = a
			bestDist = d
		}
	}
	return best, bestDist, true
}

// ─── Helpers ────────────────────────────────────────────────

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
