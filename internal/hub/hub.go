package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"socketBoard/internal/enums"
	"socketBoard/internal/models"
	redisModels "socketBoard/internal/models/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BoardStore is the slice of the document store the room manager consumes:
// snapshot reads on join, role reads on cache misses, and checkpoint writes.
type BoardStore interface {
	FindWhiteboardByID(id uint) (*models.Whiteboard, error)
	GetParticipantRole(whiteboardID, userID uint) (enums.Role, error)
	ReplaceContent(whiteboardID uint, content models.ContentBlob) error
}

// Publisher is the cross-instance fan-out channel. Every relayed room event
// passes through it so rooms for the same whiteboard on different instances
// stay in sync.
type Publisher interface {
	Publish(event *redisModels.RedisPublishedEvent) error
}

// Hub is the explicit whiteboard-to-room table. The map is the only shared
// state, guarded by mu; everything inside a room is owned by that room's
// goroutine.
type Hub struct {
	mu    sync.Mutex
	rooms map[uint]*Room

	store     BoardStore
	publisher Publisher

	checkpointEvents   int
	checkpointInterval time.Duration
}

type Option func(*Hub)

func WithCheckpoint(events int, interval time.Duration) Option {
	return func(h *Hub) {
		h.checkpointEvents = events
		h.checkpointInterval = interval
	}
}

func NewHub(store BoardStore, publisher Publisher, opts ...Option) *Hub {
	h := &Hub{
		rooms:              make(map[uint]*Room),
		store:              store,
		publisher:          publisher,
		checkpointEvents:   25,
		checkpointInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Join admits conn to the whiteboard's room, creating the room on first
// join. On success the returned client is registered and has already been
// handed its snapshot; on error no room resources are held.
func (h *Hub) Join(whiteboardID, userID uint, conn Conn) (*Client, error) {
	client := newClient(uuid.NewString(), userID, conn)

	room := h.roomForJoin(whiteboardID)
	reply := make(chan error, 1)
	room.commands <- joinCmd{client: client, reply: reply}
	err := <-reply
	h.release(room)

	if err != nil {
		return nil, err
	}
	return client, nil
}

func (h *Hub) roomForJoin(whiteboardID uint) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[whiteboardID]
	if !ok {
		room = newRoom(whiteboardID, h)
		h.rooms[whiteboardID] = room
		go room.run()
	}
	room.refs++
	return room
}

// Mutate relays a drawing event from client into its room. Validation and
// fan-out happen on the room goroutine; the sender gets no ack.
func (h *Hub) Mutate(whiteboardID uint, client *Client, payload json.RawMessage) {
	h.send(whiteboardID, mutateCmd{clientID: client.ID, payload: payload})
}

// Leave deregisters the client, however the connection ended.
func (h *Hub) Leave(whiteboardID uint, client *Client) {
	h.send(whiteboardID, leaveCmd{clientID: client.ID})
}

// NotifyRoleChanged is pushed after a successful role change so every
// instance refreshes its cached role for the user's live connections.
func (h *Hub) NotifyRoleChanged(whiteboardID, userID uint, newRole enums.Role) {
	payload, _ := json.Marshal(redisModels.RoleChangedWire{UserID: userID, NewRole: int(newRole)})
	h.publish(&redisModels.RedisPublishedEvent{
		Event:        enums.SOCKET_EVENT_ROLE_CHANGED,
		WhiteboardID: whiteboardID,
		Payload:      payload,
	})
}

// NotifyParticipantRemoved kicks the removed user's live connections.
func (h *Hub) NotifyParticipantRemoved(whiteboardID, userID uint) {
	payload, _ := json.Marshal(redisModels.ParticipantWire{UserID: userID})
	h.publish(&redisModels.RedisPublishedEvent{
		Event:        enums.SOCKET_EVENT_PARTICIPANT_LEFT,
		WhiteboardID: whiteboardID,
		Payload:      payload,
	})
}

// NotifyWhiteboardRemoved evicts the live room after the owner deleted the
// whiteboard; every member receives whiteboard_removed once.
func (h *Hub) NotifyWhiteboardRemoved(whiteboardID uint) {
	h.publish(&redisModels.RedisPublishedEvent{
		Event:        enums.SOCKET_EVENT_WHITEBOARD_REMOVED,
		WhiteboardID: whiteboardID,
	})
}

func (h *Hub) publishMutate(whiteboardID uint, origin string, senderID uint, payload json.RawMessage) error {
	return h.publisher.Publish(&redisModels.RedisPublishedEvent{
		Event:        enums.SOCKET_EVENT_MUTATE,
		WhiteboardID: whiteboardID,
		Origin:       origin,
		SenderID:     senderID,
		Payload:      payload,
	})
}

func (h *Hub) publish(event *redisModels.RedisPublishedEvent) {
	if err := h.publisher.Publish(event); err != nil {
		log.Printf("Error publishing %s event: %v", event.Event, err)
	}
}

// Dispatch applies a fan-out event to the local room for its whiteboard, if
// one exists. Unknown whiteboards are ignored: with no live room there is
// nobody to tell.
func (h *Hub) Dispatch(event *redisModels.RedisPublishedEvent) {
	switch event.Event {
	case enums.SOCKET_EVENT_MUTATE:
		h.send(event.WhiteboardID, remoteMutateCmd{
			origin:   event.Origin,
			senderID: event.SenderID,
			payload:  event.Payload,
		})
	case enums.SOCKET_EVENT_ROLE_CHANGED:
		var wire redisModels.RoleChangedWire
		if err := json.Unmarshal(event.Payload, &wire); err != nil {
			log.Printf("Error unmarshalling role change: %v", err)
			return
		}
		h.send(event.WhiteboardID, roleChangedCmd{
			userID:  wire.UserID,
			newRole: enums.Role(wire.NewRole),
		})
	case enums.SOCKET_EVENT_PARTICIPANT_LEFT:
		var wire redisModels.ParticipantWire
		if err := json.Unmarshal(event.Payload, &wire); err != nil {
			log.Printf("Error unmarshalling participant removal: %v", err)
			return
		}
		h.send(event.WhiteboardID, removeUserCmd{userID: wire.UserID})
	case enums.SOCKET_EVENT_WHITEBOARD_REMOVED:
		h.send(event.WhiteboardID, boardRemovedCmd{})
	default:
		log.Printf("Unknown fan-out event: %v", event.Event)
	}
}

func (h *Hub) send(whiteboardID uint, cmd interface{}) {
	h.mu.Lock()
	room, ok := h.rooms[whiteboardID]
	if ok {
		room.refs++
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	room.commands <- cmd
	h.release(room)
}

// release drops a ref taken for a command handoff. The room re-checks its
// exit condition only after processing a command, so when the last ref goes
// it gets nudged; a room whose only visitor was denied would otherwise idle
// forever.
func (h *Hub) release(room *Room) {
	h.mu.Lock()
	room.refs--
	last := room.refs == 0
	h.mu.Unlock()
	if last {
		select {
		case room.commands <- exitCheckCmd{}:
		default:
		}
	}
}

// Shutdown closes every connection in every room.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		room.refs++
		rooms = append(rooms, room)
	}
	h.mu.Unlock()

	for _, room := range rooms {
		room.commands <- shutdownCmd{}
		h.release(room)
	}
}

// RedisPublisher adapts a redis client to the fan-out channel.
type RedisPublisher struct {
	ctx   context.Context
	redis *redis.Client
}

func NewRedisPublisher(ctx context.Context, redisClient *redis.Client) *RedisPublisher {
	return &RedisPublisher{ctx: ctx, redis: redisClient}
}

func (p *RedisPublisher) Publish(event *redisModels.RedisPublishedEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.redis.Publish(p.ctx, redisModels.REDIS_CHANNEL_WHITEBOARD, message).Err()
}

// HandleRedisMessages pumps fan-out events from the shared channel into
// local rooms. Runs until the subscription's context ends.
func (h *Hub) HandleRedisMessages(ctx context.Context, redisClient *redis.Client) {
	pubsub := redisClient.Subscribe(ctx, redisModels.REDIS_CHANNEL_WHITEBOARD)
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Fatalf("Could not subscribe to channel: %v", err)
	}
	for msg := range pubsub.Channel() {
		var event redisModels.RedisPublishedEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling message: %v", err)
			continue
		}
		h.Dispatch(&event)
	}
}
