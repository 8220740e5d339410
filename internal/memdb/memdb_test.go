package memdb

import (
	"testing"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

func TestAuthenticate(t *testing.T) {
	d := New()

	role, ok := d.Authenticate("Cmdr-001", "password123")
	if !ok || role != "Commander" {
		t.Errorf("expected Commander login to succeed, got ok=%v role=%q", ok, role)
	}

	if _, ok := d.Authenticate("Cmdr-001", "wrong"); ok {
		t.Error("wrong password must fail")
	}
	if _, ok := d.Authenticate("Nobody", "password123"); ok {
		t.Error("unknown agency must fail")
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	d := New()
	d.CreateReport(models.Report{Title: "first"})
	d.CreateReport(models.Report{Title: "second"})

	got := d.ListReports(0)
	if len(got) != 2 || got[0].Title != "second" {
		t.Errorf("expected newest-first, got %+v", got)
	}
}

func TestListReportsCoverageFilter(t *testing.T) {
	d := NewSeeded()

	// Team 1 (BFP) sits at the center with a 1 km radius: only the center
	// flood report is inside. Team 4 (Barangay) covers 10 km: everything.
	near := d.ListReports(1)
	if len(near) != 1 || near[0].Location != "Dampalit Center" {
		t.Errorf("1 km coverage should see only the center report, got %+v", near)
	}

	wide := d.ListReports(4)
	if len(wide) != 3 {
		t.Errorf("10 km coverage should see all seeded reports, got %d", len(wide))
	}

	// Unknown team falls back to the unfiltered list.
	if got := d.ListReports(99); len(got) != 3 {
		t.Errorf("unknown team id should not filter, got %d", len(got))
	}
}

func TestUpdateReportPartial(t *testing.T) {
	d := New()
	r := d.CreateReport(models.Report{Title: "Flood", Status: types.ReportPending, DamageLevel: types.DamageMinor})

	status := types.ReportActive
	updated, ok := d.UpdateReport(r.ID, &status, nil)
	if !ok {
		t.Fatal("report vanished")
	}
	if updated.Status != types.ReportActive || updated.DamageLevel != types.DamageMinor {
		t.Errorf("nil fields must stay untouched: %+v", updated)
	}

	if _, ok := d.UpdateReport(999, &status, nil); ok {
		t.Error("unknown report must not update")
	}
}

func TestDeployTeamClearsTaskOnStandDown(t *testing.T) {
	d := New()
	team := d.CreateTeam(models.Team{Name: "BFP", Department: "Fire"})
	asset := d.CreateAsset(models.Asset{Name: "Truck", Type: "Vehicle", TeamID: &team.ID})

	reportID := 7
	deployed, ok := d.DeployTeam(team.ID, types.TeamDeployed, "Flood response", &reportID)
	if !ok {
		t.Fatal("team vanished")
	}
	if deployed.CurrentTask != "Flood response" || deployed.CurrentReportID == nil {
		t.Errorf("deploy did not record task: %+v", deployed)
	}
	if got, _ := d.Asset(asset.ID); got.Status != types.AssetDeployed {
		t.Errorf("owned asset should follow deployment, got %q", got.Status)
	}

	idle, _ := d.DeployTeam(team.ID, types.TeamIdle, "", nil)
	if idle.CurrentTask != "" || idle.CurrentReportID != nil {
		t.Errorf("stand-down must clear task and report link: %+v", idle)
	}
	if got, _ := d.Asset(asset.ID); got.Status != types.AssetAvailable {
		t.Errorf("owned asset should return to Available, got %q", got.Status)
	}
}

func TestDeployTeamSparesAssetsInMaintenance(t *testing.T) {
	d := New()
	team := d.CreateTeam(models.Team{Name: "EMS", Department: "Medical"})
	asset := d.CreateAsset(models.Asset{Name: "Ambulance", Type: "Vehicle", TeamID: &team.ID})
	d.DeployAsset(asset.ID, types.AssetMaintenance, "")

	d.DeployTeam(team.ID, types.TeamDeployed, "Rescue", nil)

	if got, _ := d.Asset(asset.ID); got.Status != types.AssetMaintenance {
		t.Errorf("asset in maintenance must not auto-deploy, got %q", got.Status)
	}
}

func TestDeleteTeamOrphansAssets(t *testing.T) {
	d := New()
	team := d.CreateTeam(models.Team{Name: "PNP", Department: "Police"})
	asset := d.CreateAsset(models.Asset{Name: "Patrol Car", Type: "Vehicle", TeamID: &team.ID})

	if !d.DeleteTeam(team.ID) {
		t.Fatal("delete failed")
	}

	got, ok := d.Asset(asset.ID)
	if !ok {
		t.Fatal("asset must survive its team")
	}
	if got.TeamID != nil {
		t.Error("asset must be unassigned after team deletion")
	}
}

func TestChatHistoryPerRoom(t *testing.T) {
	d := New()
	d.AppendMessage(models.ChatMessage{TargetRoom: "team_1", Message: "a"})
	d.AppendMessage(models.ChatMessage{TargetRoom: "team_2", Message: "b"})
	d.AppendMessage(models.ChatMessage{TargetRoom: "team_1", Message: "c"})

	got := d.History("team_1")
	if len(got) != 2 || got[0].Message != "a" || got[1].Message != "c" {
		t.Errorf("room transcript wrong: %+v", got)
	}
	if got[0].ID == got[1].ID {
		t.Error("messages must get distinct ids")
	}
}
