package models

// Team is a response unit. CurrentTask and CurrentReportID are only
// meaningful while the team is Deployed, but the server is not trusted to
// clear them; consumers render defensively.
type Team struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Department       string   `json:"department"`
	Status           string   `json:"status"`
	PersonnelCount   int      `json:"personnel_count"`
	CurrentTask      string   `json:"current_task,omitempty"`
	CurrentReportID  *int     `json:"current_report_id,omitempty"`
	BaseLatitude     *float64 `json:"base_latitude,omitempty"`
	BaseLongitude    *float64 `json:"base_longitude,omitempty"`
	CoverageRadiusKm float64  `json:"coverage_radius_km,omitempty"`
	Assets           []Asset  `json:"assets,omitempty"`
}

// Asset is a deployable piece of equipment. TeamID is nil for unassigned
// assets. Asset status and the owning team's status are only eventually
// consistent; transient mismatches are expected.
type Asset struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
	TeamID   *int   `json:"team_id,omitempty"`
}

// ResourceSet is the GET /resources response. Assets may arrive nested under
// teams, flat, or both; Flatten produces the canonical flat slice either way.
type ResourceSet struct {
	Teams  []Team  `json:"teams"`
	Assets []Asset `json:"assets"`
}

// Flatten returns the asset list, collecting nested team assets when the
// flat list is absent. Duplicates by identifier are dropped, first wins.
func (rs ResourceSet) Flatten() []Asset {
	seen := make(map[int]bool, len(rs.Assets))
	out := make([]Asset, 0, len(rs.Assets))

	for _, a := range rs.Assets {
		if !seen[a.ID] {
			seen[a.ID] = true
			out = append(out, a)
		}
	}

	for _, t := range rs.Teams {
		for _, a := range t.Assets {
			if !seen[a.ID] {
				seen[a.ID] = true
				out = append(out, a)
			}
		}
	}

	return out
}
