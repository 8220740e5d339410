// Package session wires the sync layer together for one signed-in client:
// REST client, channel connection, canonical store, and pollers. It replaces
// the module-level mutable state of earlier dashboard builds; the store's
// merge methods are the only mutation path.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Lanszs/QuickDART/internal/api"
	"github.com/Lanszs/QuickDART/internal/channel"
	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/poller"
	"github.com/Lanszs/QuickDART/internal/store"
	"github.com/Lanszs/QuickDART/internal/types"
)

// Poll job names, also the view keys for ActivateView.
const (
	PollReports   = "reports"
	PollResources = "resources"
)

type Config struct {
	APIBaseURL string // e.g. http://127.0.0.1:5000
	ChannelURL string // e.g. ws://127.0.0.1:5000/api/v1/ws

	// Poll intervals; zero values get defaults. Reports poll tighter than
	// resources because the incident log is the critical view.
	ReportsInterval   time.Duration
	ResourcesInterval time.Duration
}

type Session struct {
	client *api.Client
	conn   *channel.Manager
	store  *store.Store
	polls  *poller.Poller

	mu       sync.Mutex
	agencyID string
	role     string
	started  bool
	removals []func()
}

func New(cfg Config) *Session {
	if cfg.ReportsInterval <= 0 {
		cfg.ReportsInterval = 5 * time.Second
	}
	if cfg.ResourcesInterval <= 0 {
		cfg.ResourcesInterval = 15 * time.Second
	}

	s := &Session{
		client: api.NewClient(cfg.APIBaseURL),
		conn:   channel.NewManager(cfg.ChannelURL),
		store:  store.New(),
		polls:  poller.New(),
	}

	// Jobs are registered up front; Start begins the ticking.
	if err := s.polls.Add(PollReports, cfg.ReportsInterval, s.fetchReports); err != nil {
		log.Printf("Failed to schedule report polling: %v", err)
	}
	if err := s.polls.Add(PollResources, cfg.ResourcesInterval, s.fetchResources); err != nil {
		log.Printf("Failed to schedule resource polling: %v", err)
	}

	return s
}

// Login authenticates and records the granted role.
func (s *Session) Login(ctx context.Context, agencyID, password string) error {
	resp, err := s.client.Login(ctx, agencyID, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.agencyID = agencyID
	s.role = resp.Role
	s.mu.Unlock()
	return nil
}

// Start connects the channel, registers the reducers as event handlers,
// joins the admin room, warms the store with one synchronous refresh of each
// collection, and begins polling. Safe to call once per session.
func (s *Session) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	removals := []func(){
		s.conn.On(types.EventNewReport, func(data json.RawMessage) {
			var r models.Report
			if err := json.Unmarshal(data, &r); err != nil {
				log.Printf("Dropping malformed new_report: %v", err)
				return
			}
			s.store.ApplyNewReport(r)
		}),
		s.conn.On(types.EventReportUpdated, func(data json.RawMessage) {
			var r models.Report
			if err := json.Unmarshal(data, &r); err != nil {
				log.Printf("Dropping malformed report_updated: %v", err)
				return
			}
			s.store.ApplyReportUpdate(r)
		}),
		s.conn.On(types.EventResourceUpdated, func(data json.RawMessage) {
			var ev types.ResourceUpdatedEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				log.Printf("Dropping malformed resource_updated: %v", err)
				return
			}
			if err := s.store.ApplyResourceUpdate(ev); err != nil {
				log.Printf("Dropping resource_updated: %v", err)
			}
		}),
		s.conn.On(types.EventReceiveMessage, func(data json.RawMessage) {
			var m models.ChatMessage
			if err := json.Unmarshal(data, &m); err != nil {
				log.Printf("Dropping malformed receive_message: %v", err)
				return
			}
			s.store.AppendMessage(m)
		}),
	}

	s.mu.Lock()
	s.removals = removals
	s.mu.Unlock()

	s.conn.JoinRoom(types.AdminRoom)
	s.conn.Connect()

	s.polls.RefreshNow(PollReports)
	s.polls.RefreshNow(PollResources)
	s.polls.Start()
}

// Stop unwinds the session: polling halts, handlers are removed, the
// channel closes. In-flight fetches finish and their results are discarded
// by nobody reading them; nothing is force-aborted.
func (s *Session) Stop() {
	s.polls.Stop()

	s.mu.Lock()
	removals := s.removals
	s.removals = nil
	s.mu.Unlock()

	for _, remove := range removals {
		remove()
	}
	s.conn.Close()
}

// JoinTeamRoom subscribes to a team's room and backfills its transcript.
func (s *Session) JoinTeamRoom(ctx context.Context, teamID int) {
	room := types.TeamRoom(teamID)
	s.conn.JoinRoom(room)

	history, err := s.client.ChatHistory(ctx, room)
	if err != nil {
		log.Printf("Failed to fetch chat history for %s: %v", room, err)
		return
	}
	s.store.ReplaceHistory(room, history)
}

// SendMessage emits a chat message to a room. The local transcript is not
// touched here; the server's receive_message echo is the append, keeping
// one code path for own and foreign messages.
func (s *Session) SendMessage(room, text string) error {
	s.mu.Lock()
	sender := s.agencyID
	s.mu.Unlock()

	return s.conn.Emit(types.EmitSendMessage, models.ChatMessage{
		Sender:     sender,
		TargetRoom: room,
		Message:    text,
		Timestamp:  time.Now().UTC(),
	})
}

// ActivateView triggers the immediate off-schedule refresh a view switch
// demands, so a newly shown screen never waits a full poll interval.
func (s *Session) ActivateView(view string) {
	s.polls.Refresh(view)
}

func (s *Session) Store() *store.Store       { return s.store }
func (s *Session) Client() *api.Client       { return s.client }
func (s *Session) Channel() *channel.Manager { return s.conn }

func (s *Session) Connected() bool { return s.conn.Connected() }

func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

func (s *Session) fetchReports() error {
	reports, err := s.client.Reports(context.Background(), 0)
	if err != nil {
		return err
	}
	s.store.ReplaceReports(reports)
	return nil
}

func (s *Session) fetchResources() error {
	rs, err := s.client.Resources(context.Background())
	if err != nil {
		return err
	}
	s.store.ReplaceResources(rs)
	return nil
}
