package session

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lanszs/QuickDART/internal/api"
	"github.com/Lanszs/QuickDART/internal/auth"
	"github.com/Lanszs/QuickDART/internal/memdb"
	"github.com/Lanszs/QuickDART/internal/router"
	"github.com/Lanszs/QuickDART/internal/types"
)

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.SetJWTSecret("test-secret")
	memdb.Init()

	ts := httptest.NewServer(router.NewRouter())
	t.Cleanup(ts.Close)
	return ts
}

func newSession(t *testing.T, ts *httptest.Server) *Session {
	t.Helper()
	s := New(Config{
		APIBaseURL: ts.URL,
		ChannelURL: "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws",
		// Long intervals: these tests exercise the push path, not polling.
		ReportsInterval:   time.Hour,
		ResourcesInterval: time.Hour,
	})
	t.Cleanup(s.Stop)
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartWarmsStore(t *testing.T) {
	ts := newStub(t)
	s := newSession(t, ts)

	if err := s.Login(context.Background(), "Cmdr-001", "password123"); err != nil {
		t.Fatal(err)
	}
	if s.Role() != "Commander" {
		t.Errorf("role = %q, want Commander", s.Role())
	}

	s.Start()

	if got := len(s.Store().Reports()); got != 3 {
		t.Errorf("expected 3 seeded reports after warmup, got %d", got)
	}
	if got := len(s.Store().Teams()); got != 4 {
		t.Errorf("expected 4 seeded teams after warmup, got %d", got)
	}
	if got := len(s.Store().Assets()); got != 6 {
		t.Errorf("expected 6 seeded assets after warmup, got %d", got)
	}
}

func TestPushedReportReachesStore(t *testing.T) {
	ts := newStub(t)
	s := newSession(t, ts)

	if err := s.Login(context.Background(), "Cmdr-001", "password123"); err != nil {
		t.Fatal(err)
	}
	s.Start()

	waitFor(t, "channel connect", s.Connected)

	created, err := s.Client().CreateReport(context.Background(), api.CreateReportRequest{
		Title:    "Public Report: Landslide",
		Status:   types.ReportPending,
		Location: "Hillside",
	})
	if err != nil {
		t.Fatal(err)
	}

	waitFor(t, "new_report merge", func() bool {
		_, ok := s.Store().Report(created.ID)
		return ok
	})

	// The push prepends: the incident log stays newest-first without a poll.
	if reports := s.Store().Reports(); reports[0].ID != created.ID {
		t.Errorf("new report should lead the log, got id %d first", reports[0].ID)
	}
}

func TestChatThroughSession(t *testing.T) {
	ts := newStub(t)
	s := newSession(t, ts)

	ctx := context.Background()
	if err := s.Login(ctx, "Agent-47", "fieldpass"); err != nil {
		t.Fatal(err)
	}
	s.Start()

	waitFor(t, "channel connect", s.Connected)

	s.JoinTeamRoom(ctx, 1)
	room := types.TeamRoom(1)

	// Registration is processed by the server read loop; emit after a beat.
	time.Sleep(100 * time.Millisecond)

	if err := s.SendMessage(room, "approaching the flood zone"); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "receive_message echo", func() bool {
		return len(s.Store().Messages(room)) == 1
	})

	got := s.Store().Messages(room)[0]
	if got.Sender != "Agent-47" || got.Message != "approaching the flood zone" {
		t.Errorf("unexpected transcript entry: %+v", got)
	}
}
