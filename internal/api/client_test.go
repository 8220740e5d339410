package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

func TestLoginInstallsToken(t *testing.T) {
	var sawAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var req LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatal(err)
			}
			if req.AgencyID != "Cmdr-001" || req.Password != "password123" {
				t.Errorf("unexpected credentials: %+v", req)
			}
			json.NewEncoder(w).Encode(types.LoginResponse{Token: "tok-123", Role: "Commander"})
		case "/api/v1/reports":
			sawAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]models.Report{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL)

	resp, err := c.Login(context.Background(), "Cmdr-001", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Role != "Commander" {
		t.Errorf("role = %q, want Commander", resp.Role)
	}

	if _, err := c.Reports(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if sawAuth != "Bearer tok-123" {
		t.Errorf("token not installed, Authorization = %q", sawAuth)
	}
}

func TestReportsTeamFilter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("team_id"); got != "3" {
			t.Errorf("team_id = %q, want 3", got)
		}
		json.NewEncoder(w).Encode([]models.Report{{ID: 1, Title: "Flood"}})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	reports, err := c.Reports(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].Title != "Flood" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestErrorBodyPropagated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Report not found"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	status := "Active"
	_, err := c.UpdateReport(context.Background(), 99, UpdateReportRequest{Status: &status})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	want := "api: Report not found (status 404)"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestResourcesDecodesNestedAndFlat(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"teams":[{"id":1,"name":"BFP","assets":[{"id":10,"name":"Fire Truck","team_id":1}]}],
			"assets":[{"id":11,"name":"Drone"}]
		}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	rs, err := c.Resources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Teams) != 1 || len(rs.Teams[0].Assets) != 1 {
		t.Errorf("nested assets lost: %+v", rs.Teams)
	}
	if flat := rs.Flatten(); len(flat) != 2 {
		t.Errorf("expected 2 flattened assets, got %+v", flat)
	}
}

func TestChatHistoryPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/history/team_4" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]models.ChatMessage{{ID: 1, Message: "hello"}})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	msgs, err := c.ChatHistory(context.Background(), "team_4")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Message != "hello" {
		t.Errorf("unexpected history: %+v", msgs)
	}
}
