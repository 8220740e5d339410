package types

import (
	"fmt"
	"os"
	"strings"
)

const ContextAgentKey = "agent"

// Report lifecycle statuses.
const (
	ReportPending  = "Pending"
	ReportActive   = "Active"
	ReportCritical = "Critical"
	ReportCleared  = "Cleared"
)

// Damage classification labels returned by the analysis service. An empty
// damage level means the assessment is still pending.
const (
	DamageNone      = "No Damage"
	DamageMinor     = "Minor"
	DamageMajor     = "Major"
	DamageDestroyed = "Destroyed"
)

// Team statuses.
const (
	TeamIdle     = "Idle"
	TeamDeployed = "Deployed"
	TeamResting  = "Resting"
)

// Asset statuses.
const (
	AssetAvailable   = "Available"
	AssetDeployed    = "Deployed"
	AssetMaintenance = "Maintenance"
)

// Channel event names. The server pushes the Event* names; clients emit the
// Emit* names.
const (
	EventNewReport       = "new_report"
	EventReportUpdated   = "report_updated"
	EventResourceUpdated = "resource_updated"
	EventReceiveMessage  = "receive_message"

	EmitJoinRoom    = "join_room"
	EmitSendMessage = "send_message"
)

// AdminRoom receives every operational broadcast. Team rooms are scoped per
// response team, e.g. team_1.
const AdminRoom = "admin_room"

// TeamRoom returns the channel room key for a team identifier.
func TeamRoom(teamID int) string {
	return fmt.Sprintf("team_%d", teamID)
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
