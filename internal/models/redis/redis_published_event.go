package redis

import "encoding/json"

const REDIS_CHANNEL_WHITEBOARD = "whiteboard_channel"

// RedisPublishedEvent carries a room event across server instances. Origin is
// the publishing connection's id so redelivery can exclude the sender;
// SenderID is the acting user for role bookkeeping on the receiving side.
type RedisPublishedEvent struct {
	Event        string          `json:"event"`
	WhiteboardID uint            `json:"whiteboard_id"`
	Origin       string          `json:"origin"`
	SenderID     uint            `json:"sender_id"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// RoleChangedWire is the payload of a role_changed fan-out event. The role
// travels as its integer value; clients get the string form.
type RoleChangedWire struct {
	UserID  uint `json:"user_id"`
	NewRole int  `json:"new_role"`
}

// ParticipantWire is the payload of a participant removal fan-out event.
type ParticipantWire struct {
	UserID uint `json:"user_id"`
}
