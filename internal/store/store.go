// Package store holds the client's canonical collections and the merge rules
// that keep them consistent across push events and poll refreshes. Every
// mutation goes through a merge method here; views never write fields
// directly.
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

type Store struct {
	mu       sync.RWMutex
	reports  []models.Report
	teams    []models.Team
	assets   []models.Asset
	messages map[string][]models.ChatMessage // room -> transcript, arrival order
}

func New() *Store {
	return &Store{
		messages: make(map[string][]models.ChatMessage),
	}
}

// ApplyNewReport merges a new_report push. Duplicate deliveries (reconnect
// races) are no-ops; otherwise the report is prepended so the incident log
// stays newest-first.
func (s *Store) ApplyNewReport(r models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOfReport(s.reports, r.ID) >= 0 {
		return
	}
	s.reports = append([]models.Report{r}, s.reports...)
}

// ApplyReportUpdate merges a report_updated push: last-write-wins full
// replacement when the report is known, implicit create when it is not.
// The implicit create covers entities transitioning into visibility (e.g.
// Pending to Active) that this client never saw created.
func (s *Store) ApplyReportUpdate(r models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOfReport(s.reports, r.ID); i >= 0 {
		s.reports[i] = r
		return
	}
	s.reports = append([]models.Report{r}, s.reports...)
}

// ReplaceReports applies a poll refresh. The fetched set is authoritative:
// entries absent from it are dropped even if a push added them moments ago.
func (s *Store) ReplaceReports(reports []models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append([]models.Report(nil), reports...)
}

// Reports returns a snapshot copy of the report collection.
func (s *Store) Reports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Report(nil), s.reports...)
}

// Report looks up a cached report by identifier.
func (s *Store) Report(id int) (models.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOfReport(s.reports, id); i >= 0 {
		return s.reports[i], true
	}
	return models.Report{}, false
}

// ApplyResourceUpdate merges a resource_updated push for either kind.
// Unknown kinds and undecodable payloads are errors for the caller to log;
// the collections are left untouched.
func (s *Store) ApplyResourceUpdate(ev types.ResourceUpdatedEvent) error {
	switch ev.Type {
	case types.ResourceTeam:
		if ev.Action == types.ActionDeleted {
			var ref struct {
				ID int `json:"id"`
			}
			if err := json.Unmarshal(ev.Data, &ref); err != nil {
				return fmt.Errorf("decode team deletion: %w", err)
			}
			s.removeTeam(ref.ID)
			return nil
		}

		var team models.Team
		if err := json.Unmarshal(ev.Data, &team); err != nil {
			return fmt.Errorf("decode team payload: %w", err)
		}
		s.applyTeam(team, ev.Action)
		return nil

	case types.ResourceAsset:
		if ev.Action == types.ActionDeleted {
			var ref struct {
				ID int `json:"id"`
			}
			if err := json.Unmarshal(ev.Data, &ref); err != nil {
				return fmt.Errorf("decode asset deletion: %w", err)
			}
			s.removeAsset(ref.ID)
			return nil
		}

		var asset models.Asset
		if err := json.Unmarshal(ev.Data, &asset); err != nil {
			return fmt.Errorf("decode asset payload: %w", err)
		}
		s.applyAsset(asset, ev.Action)
		return nil

	default:
		return fmt.Errorf("unknown resource kind %q", ev.Type)
	}
}

func (s *Store) applyTeam(t models.Team, action types.ResourceAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfTeam(s.teams, t.ID)
	if action == types.ActionCreated && i >= 0 {
		return
	}
	if i >= 0 {
		s.teams[i] = t
		return
	}
	s.teams = append(s.teams, t)
}

func (s *Store) applyAsset(a models.Asset, action types.ResourceAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfAsset(s.assets, a.ID)
	if action == types.ActionCreated && i >= 0 {
		return
	}
	if i >= 0 {
		s.assets[i] = a
		return
	}
	s.assets = append(s.assets, a)
}

func (s *Store) removeTeam(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOfTeam(s.teams, id); i >= 0 {
		s.teams = append(s.teams[:i], s.teams[i+1:]...)
	}
}

func (s *Store) removeAsset(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOfAsset(s.assets, id); i >= 0 {
		s.assets = append(s.assets[:i], s.assets[i+1:]...)
	}
}

// ReplaceResources applies a poll refresh of GET /resources. Nested team
// assets are flattened into the canonical asset collection when the flat
// list is absent.
func (s *Store) ReplaceResources(rs models.ResourceSet) {
	flat := rs.Flatten()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = append([]models.Team(nil), rs.Teams...)
	s.assets = flat
}

func (s *Store) Teams() []models.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Team(nil), s.teams...)
}

func (s *Store) Team(id int) (models.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOfTeam(s.teams, id); i >= 0 {
		return s.teams[i], true
	}
	return models.Team{}, false
}

func (s *Store) Assets() []models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Asset(nil), s.assets...)
}

// AppendMessage appends to a room transcript. Messages are never
// deduplicated: two identical texts seconds apart are distinct entries, and
// arrival order is the transcript order.
func (s *Store) AppendMessage(m models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[m.TargetRoom] = append(s.messages[m.TargetRoom], m)
}

// ReplaceHistory applies a chat history fetch for one room, replacing the
// cached transcript the same way a poll refresh replaces a collection.
func (s *Store) ReplaceHistory(room string, msgs []models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[room] = append([]models.ChatMessage(nil), msgs...)
}

// Messages returns a snapshot copy of one room's transcript.
func (s *Store) Messages(room string) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.ChatMessage(nil), s.messages[room]...)
}

func indexOfReport(reports []models.Report, id int) int {
	for i := range reports {
		if reports[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfTeam(teams []models.Team, id int) int {
	for i := range teams {
		if teams[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfAsset(assets []models.Asset, id int) int {
	for i := range assets {
		if assets[i].ID == id {
			return i
		}
	}
	return -1
}
