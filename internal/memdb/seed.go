package memdb

import (
	"time"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

// Demo geography: Dampalit, Malabon. One cluster of stations around the
// barangay center plus border zones north and south, sized so the 1 km
// coverage circles separate cleanly and the 10 km one sees everything.
const (
	centerLat = 14.6944
	centerLng = 120.9324
	northLat  = 14.7200
	northLng  = 120.9350
	southLat  = 14.6600
	southLng  = 120.9300
)

// NewSeeded returns a database preloaded with the demo agencies, teams,
// assets, and zone reports.
func NewSeeded() *Database {
	d := New()

	bfp := d.CreateTeam(models.Team{
		Name:             "BFP Station 1 (Alpha)",
		Department:       "Fire",
		Status:           types.TeamIdle,
		PersonnelCount:   8,
		BaseLatitude:     ptr(centerLat),
		BaseLongitude:    ptr(centerLng),
		CoverageRadiusKm: 1.0,
	})
	pnp := d.CreateTeam(models.Team{
		Name:             "PNP SWAT Unit",
		Department:       "Police",
		Status:           types.TeamIdle,
		PersonnelCount:   6,
		BaseLatitude:     ptr(northLat),
		BaseLongitude:    ptr(northLng),
		CoverageRadiusKm: 1.0,
	})
	ems := d.CreateTeam(models.Team{
		Name:             "EMS Medic Team Alpha",
		Department:       "Medical",
		Status:           types.TeamIdle,
		PersonnelCount:   4,
		BaseLatitude:     ptr(southLat),
		BaseLongitude:    ptr(southLng),
		CoverageRadiusKm: 1.0,
	})
	d.CreateTeam(models.Team{
		Name:             "Barangay Rescue Squad",
		Department:       "Barangay",
		Status:           types.TeamIdle,
		PersonnelCount:   12,
		BaseLatitude:     ptr(centerLat),
		BaseLongitude:    ptr(centerLng),
		CoverageRadiusKm: 10.0,
	})

	d.CreateAsset(models.Asset{
		Name: "Fire Truck 01", Type: "Vehicle",
		Status: types.AssetAvailable, Location: "BFP Station 1", TeamID: ptr(bfp.ID),
	})
	d.CreateAsset(models.Asset{
		Name: "Rescue Boat Alpha", Type: "Vehicle",
		Status: types.AssetAvailable, Location: "Dampalit Dock", TeamID: ptr(bfp.ID),
	})
	d.CreateAsset(models.Asset{
		Name: "Patrol Car 7", Type: "Vehicle",
		Status: types.AssetAvailable, Location: "North Checkpoint", TeamID: ptr(pnp.ID),
	})
	d.CreateAsset(models.Asset{
		Name: "Ambulance 2", Type: "Vehicle",
		Status: types.AssetAvailable, Location: "South Clinic", TeamID: ptr(ems.ID),
	})
	d.CreateAsset(models.Asset{
		Name: "Recon Drone 1", Type: "Drone",
		Status: types.AssetAvailable, Location: "Command Post",
	})
	d.CreateAsset(models.Asset{
		Name: "Trauma Kit A", Type: "Medical Kit",
		Status: types.AssetAvailable, Location: "Command Post",
	})

	now := time.Now().UTC()
	d.CreateReport(models.Report{
		Title:       "Flood: Dampalit Center",
		Description: "Knee-deep flooding along the main road, residents requesting evacuation.",
		Status:      types.ReportPending,
		DamageLevel: types.DamageMajor,
		Location:    "Dampalit Center",
		Latitude:    ptr(centerLat),
		Longitude:   ptr(centerLng),
		Timestamp:   now.Add(-30 * time.Minute),
	})
	d.CreateReport(models.Report{
		Title:       "Fire: North Border",
		Description: "Structure fire near the fishpond warehouses, spreading fast.",
		Status:      types.ReportPending,
		DamageLevel: types.DamageDestroyed,
		Location:    "North Border",
		Latitude:    ptr(northLat),
		Longitude:   ptr(northLng),
		Timestamp:   now.Add(-20 * time.Minute),
	})
	d.CreateReport(models.Report{
		Title:       "Accident: South Highway",
		Description: "Two-vehicle collision blocking one lane.",
		Status:      types.ReportPending,
		DamageLevel: types.DamageMinor,
		Location:    "South Highway",
		Latitude:    ptr(southLat),
		Longitude:   ptr(southLng),
		Timestamp:   now.Add(-10 * time.Minute),
	})

	return d
}

func ptr[T any](v T) *T { return &v }
