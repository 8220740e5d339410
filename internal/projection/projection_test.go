package projection

import (
	"testing"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

func report(id int, title, status, damage string) models.Report {
	return models.Report{ID: id, Title: title, Status: status, DamageLevel: damage}
}

func TestDamageRank(t *testing.T) {
	cases := []struct {
		level string
		want  int
	}{
		{types.DamageDestroyed, 4},
		{types.DamageMajor, 3},
		{types.DamageMinor, 2},
		{types.DamageNone, 1},
		{"", 0},
		{"Catastrophic", 0},
	}
	for _, c := range cases {
		if got := DamageRank(c.level); got != c.want {
			t.Errorf("DamageRank(%q) = %d, want %d", c.level, got, c.want)
		}
	}
}

func TestSortBySeverityOrder(t *testing.T) {
	reports := []models.Report{
		report(1, "a", types.ReportPending, ""),
		report(2, "b", types.ReportPending, types.DamageMinor),
		report(3, "c", types.ReportPending, types.DamageDestroyed),
		report(4, "d", types.ReportPending, types.DamageMajor),
	}

	got := SortBySeverity(reports)

	wantOrder := []int{3, 4, 2, 1}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, got[i].ID, want)
		}
	}
	// Input untouched.
	if reports[0].ID != 1 {
		t.Error("SortBySeverity must not modify its input")
	}
}

func TestSortBySeverityStableTieBreak(t *testing.T) {
	reports := []models.Report{
		report(1, "a", types.ReportPending, types.DamageMajor),
		report(2, "b", types.ReportPending, types.DamageMajor),
		report(3, "c", types.ReportPending, types.DamageMajor),
	}

	got := SortBySeverity(reports)
	for i, want := range []int{1, 2, 3} {
		if got[i].ID != want {
			t.Fatalf("equal severities must keep collection order, got %v", got)
		}
	}
}

func TestActiveIncidentsHidesCleared(t *testing.T) {
	reports := []models.Report{
		report(1, "a", types.ReportPending, ""),
		report(2, "b", types.ReportCleared, ""),
		report(3, "c", types.ReportActive, ""),
	}

	got := ActiveIncidents(reports)
	if len(got) != 2 {
		t.Fatalf("expected 2 active incidents, got %d", len(got))
	}
	for _, r := range got {
		if r.Status == types.ReportCleared {
			t.Error("cleared report leaked into active incidents")
		}
	}
}

func TestGroupByStatus(t *testing.T) {
	reports := []models.Report{
		report(1, "a", types.ReportActive, types.DamageMinor),
		report(2, "b", types.ReportPending, types.DamageDestroyed),
		report(3, "c", types.ReportActive, types.DamageDestroyed),
		report(4, "d", types.ReportPending, ""),
	}

	groups := GroupByStatus(reports)

	if len(groups) != 2 {
		t.Fatalf("empty sections must be omitted, got %d groups", len(groups))
	}
	if groups[0].Status != types.ReportPending || groups[1].Status != types.ReportActive {
		t.Errorf("group order wrong: %s, %s", groups[0].Status, groups[1].Status)
	}
	if groups[0].Reports[0].ID != 2 {
		t.Error("sections must be sorted severity-descending")
	}
	if groups[1].Reports[0].ID != 3 {
		t.Error("sections must be sorted severity-descending")
	}
}

func TestGroupTeamsByDepartment(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Department: "Fire"},
		{ID: 2, Department: "Medical"},
		{ID: 3, Department: "Fire"},
	}

	groups := GroupTeamsByDepartment(teams)

	if len(groups) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(groups))
	}
	if groups[0].Department != "Fire" || len(groups[0].Teams) != 2 {
		t.Errorf("departments ordered by first appearance: %+v", groups)
	}
}

func TestDamageSeverityCounts(t *testing.T) {
	reports := []models.Report{
		report(1, "a", types.ReportPending, types.DamageMajor),
		report(2, "b", types.ReportPending, types.DamageMajor),
		report(3, "c", types.ReportPending, ""),
	}

	counts := DamageSeverityCounts(reports)

	byLabel := map[string]int{}
	for _, c := range counts {
		byLabel[c.Label] = c.Count
	}
	if byLabel[types.DamageMajor] != 2 {
		t.Errorf("Major count = %d, want 2", byLabel[types.DamageMajor])
	}
	if byLabel["Pending"] != 1 {
		t.Errorf("unassessed reports must land in Pending, got %d", byLabel["Pending"])
	}
}

func TestIncidentTypeCounts(t *testing.T) {
	reports := []models.Report{
		report(1, "Public Report: Fire", "", ""),
		report(2, "Public Report: Fire", "", ""),
		report(3, "Flooding downtown", "", ""),
	}

	counts := IncidentTypeCounts(reports)

	if len(counts) != 2 {
		t.Fatalf("expected 2 type buckets, got %d", len(counts))
	}
	if counts[0].Label != "Fire" || counts[0].Count != 2 {
		t.Errorf("colon convention not applied: %+v", counts[0])
	}
	if counts[1].Label != "Flooding downtown" {
		t.Errorf("titles without a colon fall back whole: %+v", counts[1])
	}
}

func TestCriticalDamageCount(t *testing.T) {
	reports := []models.Report{
		report(1, "a", "", types.DamageMajor),
		report(2, "b", "", types.DamageDestroyed),
		report(3, "c", "", types.DamageMinor),
	}
	if got := CriticalDamageCount(reports); got != 2 {
		t.Errorf("CriticalDamageCount = %d, want 2", got)
	}
}

func TestMapMarkersSkipMissingCoordinates(t *testing.T) {
	lat, lng := 14.6944, 120.9324
	reports := []models.Report{
		{ID: 1, Title: "Flood", Latitude: &lat, Longitude: &lng},
		{ID: 2, Title: "No position"},
	}

	markers := MapMarkers(reports)
	if len(markers) != 1 || markers[0].ReportID != 1 {
		t.Fatalf("reports without coordinates must be skipped, got %+v", markers)
	}
}

func TestTeamsInRange(t *testing.T) {
	centerLat, centerLng := 14.6944, 120.9324
	northLat, northLng := 14.7200, 120.9350

	near := models.Team{ID: 1, BaseLatitude: &centerLat, BaseLongitude: &centerLng, CoverageRadiusKm: 1.0}
	far := models.Team{ID: 2, BaseLatitude: &northLat, BaseLongitude: &northLng, CoverageRadiusKm: 1.0}
	wide := models.Team{ID: 3, BaseLatitude: &northLat, BaseLongitude: &northLng, CoverageRadiusKm: 10.0}
	noBase := models.Team{ID: 4, CoverageRadiusKm: 5.0}

	incident := models.Report{ID: 1, Latitude: &centerLat, Longitude: &centerLng}

	got := TeamsInRange([]models.Team{near, far, wide, noBase}, incident)

	if len(got) != 2 {
		t.Fatalf("expected teams 1 and 3 in range, got %+v", got)
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("wrong teams in range: %+v", got)
	}
}

func TestTeamsInRangeNoCoordinates(t *testing.T) {
	lat, lng := 14.6944, 120.9324
	team := models.Team{ID: 1, BaseLatitude: &lat, BaseLongitude: &lng, CoverageRadiusKm: 100}

	if got := TeamsInRange([]models.Team{team}, models.Report{ID: 1}); got != nil {
		t.Errorf("report without coordinates matches nothing, got %+v", got)
	}
}

func TestDistanceKm(t *testing.T) {
	// Center to north border of the demo area is roughly 2.8 km.
	d := DistanceKm(14.6944, 120.9324, 14.7200, 120.9350)
	if d < 2.0 || d > 4.0 {
		t.Errorf("DistanceKm = %f, want roughly 2.8", d)
	}
	if got := DistanceKm(14.0, 121.0, 14.0, 121.0); got != 0 {
		t.Errorf("zero distance expected, got %f", got)
	}
}
