package projection

import (
	"strings"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

// LabelCount is one bar or pie slice in the analytics view.
type LabelCount struct {
	Label string `json:"name"`
	Count int    `json:"count"`
}

// DamageSeverityCounts buckets reports by damage level for the severity
// chart. Unassessed reports land in the Pending bucket.
func DamageSeverityCounts(reports []models.Report) []LabelCount {
	counts := map[string]int{}
	for _, r := range reports {
		switch r.DamageLevel {
		case types.DamageMinor, types.DamageMajor, types.DamageDestroyed, types.DamageNone:
			counts[r.DamageLevel]++
		default:
			counts["Pending"]++
		}
	}

	labels := []string{types.DamageNone, types.DamageMinor, types.DamageMajor, types.DamageDestroyed, "Pending"}
	out := make([]LabelCount, 0, len(labels))
	for _, l := range labels {
		out = append(out, LabelCount{Label: l, Count: counts[l]})
	}
	return out
}

// AssetFleetStatus counts assets per fleet state for the utilization chart.
func AssetFleetStatus(assets []models.Asset) []LabelCount {
	deployed, available, maintenance := 0, 0, 0
	for _, a := range assets {
		switch a.Status {
		case types.AssetDeployed:
			deployed++
		case types.AssetAvailable:
			available++
		case types.AssetMaintenance:
			maintenance++
		}
	}
	return []LabelCount{
		{Label: types.AssetDeployed, Count: deployed},
		{Label: types.AssetAvailable, Count: available},
		{Label: types.AssetMaintenance, Count: maintenance},
	}
}

// IncidentTypeCounts buckets reports by detected incident type. Titles follow
// the "Public Report: Fire" convention; the part after the colon is the type,
// falling back to the whole title.
func IncidentTypeCounts(reports []models.Report) []LabelCount {
	index := make(map[string]int)
	out := make([]LabelCount, 0)

	for _, r := range reports {
		label := r.Title
		if _, after, found := strings.Cut(r.Title, ":"); found {
			if trimmed := strings.TrimSpace(after); trimmed != "" {
				label = trimmed
			}
		}

		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, LabelCount{Label: label})
		}
		out[i].Count++
	}

	return out
}

// CriticalDamageCount counts reports assessed Major or Destroyed.
func CriticalDamageCount(reports []models.Report) int {
	n := 0
	for _, r := range reports {
		if r.DamageLevel == types.DamageMajor || r.DamageLevel == types.DamageDestroyed {
			n++
		}
	}
	return n
}

// Marker is one pin on the incident map.
type Marker struct {
	ReportID  int     `json:"report_id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapMarkers projects coordinate-bearing reports onto map pins. Reports
// without coordinates are skipped, never defaulted.
func MapMarkers(reports []models.Report) []Marker {
	out := make([]Marker, 0, len(reports))
	for _, r := range reports {
		if !r.HasCoordinates() {
			continue
		}
		out = append(out, Marker{
			ReportID:  r.ID,
			Title:     r.Title,
			Status:    r.Status,
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		})
	}
	return out
}
