// The quickdart console signs in to a QuickDART backend, keeps a live local
// copy of reports, resources, and chat via the realtime channel with polling
// as backstop, and prints a dashboard summary as events arrive.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/projection"
	"github.com/Lanszs/QuickDART/internal/session"
	"github.com/Lanszs/QuickDART/internal/types"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := session.Config{
		APIBaseURL: envOr("QUICKDART_API_URL", "http://127.0.0.1:5000"),
		ChannelURL: envOr("QUICKDART_WS_URL", "ws://127.0.0.1:5000/api/v1/ws"),
	}

	agencyID := envOr("QUICKDART_AGENCY_ID", "Cmdr-001")
	password := envOr("QUICKDART_PASSWORD", "password123")

	s := session.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Login(ctx, agencyID, password); err != nil {
		log.Fatalf("Login failed for %s: %v", agencyID, err)
	}
	log.Printf("Signed in as %s (%s)", agencyID, s.Role())

	// Live feed printers run alongside the store reducers.
	s.Channel().On(types.EventNewReport, func(data json.RawMessage) {
		var r models.Report
		if json.Unmarshal(data, &r) == nil {
			log.Printf("NEW REPORT #%d %s [%s/%s]", r.ID, r.Title, r.Status, r.DamageLevel)
		}
	})
	s.Channel().On(types.EventReportUpdated, func(data json.RawMessage) {
		var r models.Report
		if json.Unmarshal(data, &r) == nil {
			log.Printf("REPORT #%d -> %s/%s", r.ID, r.Status, r.DamageLevel)
		}
	})
	s.Channel().On(types.EventReceiveMessage, func(data json.RawMessage) {
		var m models.ChatMessage
		if json.Unmarshal(data, &m) == nil {
			log.Printf("[%s] %s: %s", m.TargetRoom, m.Sender, m.Message)
		}
	})

	s.Start()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			printSummary(s)
		case <-quit:
			log.Println("Shutting down")
			s.Stop()
			return
		}
	}
}

func printSummary(s *session.Session) {
	st := s.Store()

	reports := st.Reports()
	active := projection.ActiveIncidents(reports)
	critical := projection.CriticalDamageCount(reports)

	log.Printf("Summary: %d reports (%d active, %d critical damage), %d teams, %d assets, connected=%v",
		len(reports), len(active), critical, len(st.Teams()), len(st.Assets()), s.Connected())

	for _, group := range projection.GroupByStatus(active) {
		log.Printf("  %s: %d", group.Status, len(group.Reports))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
