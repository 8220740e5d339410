// Package memdb is the in-memory state behind the stub collaboration
// server. The production backend owns real persistence; this exists so the
// console and the integration tests can run against the full wire contract
// without a database.
package memdb

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/projection"
	"github.com/Lanszs/QuickDART/internal/types"
)

type agent struct {
	passwordHash []byte
	role         string
}

type Database struct {
	mu sync.RWMutex

	nextReportID  int
	nextTeamID    int
	nextAssetID   int
	nextMessageID int

	reports  []models.Report // insertion order, oldest first
	teams    []models.Team
	assets   []models.Asset
	messages []models.ChatMessage

	agents map[string]agent
}

var DB *Database

// Init replaces the global database with a freshly seeded one.
func Init() {
	DB = NewSeeded()
}

// New returns an empty database with only the mock agents registered.
func New() *Database {
	d := &Database{
		nextReportID:  1,
		nextTeamID:    1,
		nextAssetID:   1,
		nextMessageID: 1,
		agents:        make(map[string]agent),
	}
	d.registerAgent("Cmdr-001", "password123", "Commander")
	d.registerAgent("Agent-47", "fieldpass", "FieldAgent")
	d.registerAgent("Analyst-A", "secure", "DataAnalyst")
	return d
}

func (d *Database) registerAgent(agencyID, password, role string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	d.agents[agencyID] = agent{passwordHash: hash, role: role}
}

// Authenticate checks agent credentials and returns the granted role.
func (d *Database) Authenticate(agencyID, password string) (string, bool) {
	d.mu.RLock()
	a, ok := d.agents[agencyID]
	d.mu.RUnlock()

	if !ok {
		return "", false
	}
	if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
		return "", false
	}
	return a.role, true
}

// ListReports returns reports newest-first. A positive teamID narrows the
// list to reports inside that team's coverage circle.
func (d *Database) ListReports(teamID int) []models.Report {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var team *models.Team
	if teamID > 0 {
		if i := d.teamIndex(teamID); i >= 0 {
			team = &d.teams[i]
		}
	}

	out := make([]models.Report, 0, len(d.reports))
	for i := len(d.reports) - 1; i >= 0; i-- {
		r := d.reports[i]
		if team != nil && !inCoverage(*team, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func inCoverage(t models.Team, r models.Report) bool {
	if t.BaseLatitude == nil || t.BaseLongitude == nil || t.CoverageRadiusKm <= 0 || !r.HasCoordinates() {
		return false
	}
	d := projection.DistanceKm(*t.BaseLatitude, *t.BaseLongitude, *r.Latitude, *r.Longitude)
	return d <= t.CoverageRadiusKm
}

func (d *Database) CreateReport(r models.Report) models.Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	r.ID = d.nextReportID
	d.nextReportID++
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	d.reports = append(d.reports, r)
	return r
}

// UpdateReport applies a partial update (nil means untouched) and returns
// the full updated record.
func (d *Database) UpdateReport(id int, status, damageLevel *string) (models.Report, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.reports {
		if d.reports[i].ID != id {
			continue
		}
		if status != nil {
			d.reports[i].Status = *status
		}
		if damageLevel != nil {
			d.reports[i].DamageLevel = *damageLevel
		}
		return d.reports[i], true
	}
	return models.Report{}, false
}

// Resources returns teams with their assets nested plus the flat asset
// list, matching the shape the real backend serves.
func (d *Database) Resources() models.ResourceSet {
	d.mu.RLock()
	defer d.mu.RUnlock()

	teams := make([]models.Team, len(d.teams))
	for i, t := range d.teams {
		t.Assets = d.assetsOfLocked(t.ID)
		teams[i] = t
	}

	return models.ResourceSet{
		Teams:  teams,
		Assets: append([]models.Asset(nil), d.assets...),
	}
}

func (d *Database) assetsOfLocked(teamID int) []models.Asset {
	var out []models.Asset
	for _, a := range d.assets {
		if a.TeamID != nil && *a.TeamID == teamID {
			out = append(out, a)
		}
	}
	return out
}

func (d *Database) Team(id int) (models.Team, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.teamIndex(id); i >= 0 {
		t := d.teams[i]
		t.Assets = d.assetsOfLocked(t.ID)
		return t, true
	}
	return models.Team{}, false
}

func (d *Database) CreateTeam(t models.Team) models.Team {
	d.mu.Lock()
	defer d.mu.Unlock()

	t.ID = d.nextTeamID
	d.nextTeamID++
	if t.Status == "" {
		t.Status = types.TeamIdle
	}
	t.Assets = nil
	d.teams = append(d.teams, t)
	return t
}

func (d *Database) DeleteTeam(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.teamIndex(id)
	if i < 0 {
		return false
	}
	d.teams = append(d.teams[:i], d.teams[i+1:]...)

	// Orphan the team's assets rather than deleting equipment.
	for j := range d.assets {
		if d.assets[j].TeamID != nil && *d.assets[j].TeamID == id {
			d.assets[j].TeamID = nil
		}
	}
	return true
}

// DeployTeam moves a team between deployment states. Task and report link
// are cleared on any non-Deployed state, and owned assets follow the team's
// state so the fleet view stays plausible.
func (d *Database) DeployTeam(id int, status, task string, reportID *int) (models.Team, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.teamIndex(id)
	if i < 0 {
		return models.Team{}, false
	}

	d.teams[i].Status = status
	if status == types.TeamDeployed {
		d.teams[i].CurrentTask = task
		d.teams[i].CurrentReportID = reportID
	} else {
		d.teams[i].CurrentTask = ""
		d.teams[i].CurrentReportID = nil
	}

	for j := range d.assets {
		if d.assets[j].TeamID == nil || *d.assets[j].TeamID != id {
			continue
		}
		if d.assets[j].Status == types.AssetMaintenance {
			continue
		}
		if status == types.TeamDeployed {
			d.assets[j].Status = types.AssetDeployed
		} else {
			d.assets[j].Status = types.AssetAvailable
		}
	}

	t := d.teams[i]
	t.Assets = d.assetsOfLocked(id)
	return t, true
}

func (d *Database) Asset(id int) (models.Asset, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.assetIndex(id); i >= 0 {
		return d.assets[i], true
	}
	return models.Asset{}, false
}

func (d *Database) CreateAsset(a models.Asset) models.Asset {
	d.mu.Lock()
	defer d.mu.Unlock()

	a.ID = d.nextAssetID
	d.nextAssetID++
	if a.Status == "" {
		a.Status = types.AssetAvailable
	}
	d.assets = append(d.assets, a)
	return a
}

func (d *Database) DeleteAsset(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.assetIndex(id)
	if i < 0 {
		return false
	}
	d.assets = append(d.assets[:i], d.assets[i+1:]...)
	return true
}

func (d *Database) DeployAsset(id int, status, location string) (models.Asset, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.assetIndex(id)
	if i < 0 {
		return models.Asset{}, false
	}
	d.assets[i].Status = status
	if location != "" {
		d.assets[i].Location = location
	}
	return d.assets[i], true
}

// AppendMessage stores a chat message with server-assigned id and time and
// returns the stored record.
func (d *Database) AppendMessage(m models.ChatMessage) models.ChatMessage {
	d.mu.Lock()
	defer d.mu.Unlock()

	m.ID = d.nextMessageID
	d.nextMessageID++
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	d.messages = append(d.messages, m)
	return m
}

// History returns a room's transcript in arrival order.
func (d *Database) History(room string) []models.ChatMessage {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []models.ChatMessage
	for _, m := range d.messages {
		if m.TargetRoom == room {
			out = append(out, m)
		}
	}
	return out
}

func (d *Database) teamIndex(id int) int {
	for i := range d.teams {
		if d.teams[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Database) assetIndex(id int) int {
	for i := range d.assets {
		if d.assets[i].ID == id {
			return i
		}
	}
	return -1
}
