package enums

const (
	SOCKET_EVENT_JOIN_ACK           = "join_ack"
	SOCKET_EVENT_MUTATE             = "mutate"
	SOCKET_EVENT_ROLE_CHANGED       = "role_changed"
	SOCKET_EVENT_PARTICIPANT_JOINED = "participant_joined"
	SOCKET_EVENT_PARTICIPANT_LEFT   = "participant_left"
	SOCKET_EVENT_WHITEBOARD_REMOVED = "whiteboard_removed"
	SOCKET_EVENT_ERROR              = "error"
)
