// Package projection derives per-screen views from canonical collections.
// Everything here is a pure function over snapshot copies: same input, same
// output, no retained state that could drift from the store.
package projection

import (
	"sort"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

// DamageRank is the fixed severity table used for ordering. Unset or unknown
// levels rank below everything assessed.
func DamageRank(level string) int {
	switch level {
	case types.DamageDestroyed:
		return 4
	case types.DamageMajor:
		return 3
	case types.DamageMinor:
		return 2
	case types.DamageNone:
		return 1
	default:
		return 0
	}
}

// ActiveIncidents hides Cleared reports from the live incident log.
func ActiveIncidents(reports []models.Report) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if r.Status != types.ReportCleared {
			out = append(out, r)
		}
	}
	return out
}

// ByStatus filters reports to a single status.
func ByStatus(reports []models.Report, status string) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// StatusGroup is one section of the damage assessment log.
type StatusGroup struct {
	Status  string
	Reports []models.Report
}

// statusOrder matches the assessment log layout: triage first, cleared last.
var statusOrder = []string{types.ReportPending, types.ReportActive, types.ReportCleared}

// GroupByStatus splits reports into the assessment log's sections, each
// sorted severity-descending. Empty sections are omitted.
func GroupByStatus(reports []models.Report) []StatusGroup {
	groups := make([]StatusGroup, 0, len(statusOrder))
	for _, status := range statusOrder {
		items := ByStatus(reports, status)
		if len(items) == 0 {
			continue
		}
		groups = append(groups, StatusGroup{
			Status:  status,
			Reports: SortBySeverity(items),
		})
	}
	return groups
}

// SortBySeverity orders reports severity-descending using DamageRank. The
// sort is stable: equal severities keep their collection (arrival) order.
// The input slice is not modified.
func SortBySeverity(reports []models.Report) []models.Report {
	out := append([]models.Report(nil), reports...)
	sort.SliceStable(out, func(i, j int) bool {
		return DamageRank(out[i].DamageLevel) > DamageRank(out[j].DamageLevel)
	})
	return out
}

// DepartmentGroup is one department's teams in the resources view.
type DepartmentGroup struct {
	Department string
	Teams      []models.Team
}

// GroupTeamsByDepartment groups teams by department, departments ordered by
// first appearance, teams in collection order.
func GroupTeamsByDepartment(teams []models.Team) []DepartmentGroup {
	index := make(map[string]int)
	groups := make([]DepartmentGroup, 0)

	for _, t := range teams {
		i, ok := index[t.Department]
		if !ok {
			i = len(groups)
			index[t.Department] = i
			groups = append(groups, DepartmentGroup{Department: t.Department})
		}
		groups[i].Teams = append(groups[i].Teams, t)
	}

	return groups
}
