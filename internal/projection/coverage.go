package projection

import (
	"github.com/golang/geo/s2"

	"github.com/Lanszs/QuickDART/internal/models"
)

const earthRadiusKm = 6371.01

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * earthRadiusKm
}

// TeamsInRange returns the teams whose coverage circle contains the report's
// position, in collection order. Teams without a base position never match;
// a report without coordinates matches nothing.
func TeamsInRange(teams []models.Team, report models.Report) []models.Team {
	if !report.HasCoordinates() {
		return nil
	}

	out := make([]models.Team, 0)
	for _, t := range teams {
		if t.BaseLatitude == nil || t.BaseLongitude == nil || t.CoverageRadiusKm <= 0 {
			continue
		}
		d := DistanceKm(*t.BaseLatitude, *t.BaseLongitude, *report.Latitude, *report.Longitude)
		if d <= t.CoverageRadiusKm {
			out = append(out, t)
		}
	}
	return out
}
