package socket

import (
	"encoding/json"

	"socketBoard/internal/models"
)

// BoardSocketEvent is the wire envelope for every message exchanged with a
// whiteboard room, in both directions. Payload stays raw so drawing events
// pass through uninterpreted.
type BoardSocketEvent struct {
	Event        string          `json:"event"`
	WhiteboardID uint            `json:"whiteboard_id"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// JoinAckPayload is delivered to a joiner only, before any broadcast reaches
// that connection.
type JoinAckPayload struct {
	Snapshot     models.ContentBlob           `json:"snapshot"`
	Participants []models.ParticipantResponse `json:"participants"`
}

type ParticipantPayload struct {
	UserID uint `json:"user_id"`
}

type RoleChangedPayload struct {
	UserID  uint   `json:"user_id"`
	NewRole string `json:"new_role"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
