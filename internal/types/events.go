package types

import "encoding/json"

// Envelope is the wire frame for every channel message, in both directions.
// Data carries the event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ResourceKind string

const (
	ResourceTeam  ResourceKind = "team"
	ResourceAsset ResourceKind = "asset"
)

type ResourceAction string

const (
	ActionCreated ResourceAction = "created"
	ActionUpdated ResourceAction = "updated"
	ActionDeleted ResourceAction = "deleted"
)

// ResourceUpdatedEvent is the payload of a resource_updated push. Data holds
// the full team or asset snapshot, or just {"id": n} for deletions.
type ResourceUpdatedEvent struct {
	Type   ResourceKind    `json:"type"`
	Action ResourceAction  `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// JoinRoomPayload is emitted with join_room.
type JoinRoomPayload struct {
	Room string `json:"room"`
}
