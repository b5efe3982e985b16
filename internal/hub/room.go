package hub

import (
	"encoding/json"
	"log"
	"time"

	"socketBoard/internal/access"
	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	socketModels "socketBoard/internal/models/socket"
)

// Room is the live set of connections subscribed to one whiteboard. All room
// state is owned by the single goroutine running run(), so join, leave,
// mutate and role changes for one whiteboard form one observable order.
// Rooms on different whiteboards never contend.
type Room struct {
	whiteboardID uint
	hub          *Hub
	commands     chan interface{}

	clients map[string]*Client
	content models.ContentBlob

	// refs counts joins handed to the command channel but not yet
	// processed; guarded by hub.mu together with the rooms map so the
	// room never exits while a join is in flight.
	refs int

	pendingEvents int
}

type joinCmd struct {
	client *Client
	reply  chan error
}

type leaveCmd struct {
	clientID string
}

type mutateCmd struct {
	clientID string
	payload  json.RawMessage
}

type remoteMutateCmd struct {
	origin   string
	senderID uint
	payload  json.RawMessage
}

type roleChangedCmd struct {
	userID  uint
	newRole enums.Role
}

type removeUserCmd struct {
	userID uint
}

type boardRemovedCmd struct{}

type shutdownCmd struct{}

// exitCheckCmd wakes the room loop with no state change, so it re-evaluates
// its exit condition after the last ref is released.
type exitCheckCmd struct{}

func newRoom(whiteboardID uint, h *Hub) *Room {
	return &Room{
		whiteboardID: whiteboardID,
		hub:          h,
		commands:     make(chan interface{}, 256),
		clients:      make(map[string]*Client),
	}
}

func (r *Room) run() {
	checkpointTicker := time.NewTicker(r.hub.checkpointInterval)
	defer checkpointTicker.Stop()

	for {
		select {
		case cmd := <-r.commands:
			r.dispatch(cmd)
			if r.tryExit() {
				return
			}
		case <-checkpointTicker.C:
			r.checkpoint()
		}
	}
}

func (r *Room) dispatch(cmd interface{}) {
	switch c := cmd.(type) {
	case joinCmd:
		c.reply <- r.handleJoin(c.client)
	case leaveCmd:
		r.handleLeave(c.clientID)
	case mutateCmd:
		r.handleMutate(c.clientID, c.payload)
	case remoteMutateCmd:
		r.handleRemoteMutate(c.origin, c.senderID, c.payload)
	case roleChangedCmd:
		r.handleRoleChanged(c.userID, c.newRole)
	case removeUserCmd:
		r.handleRemoveUser(c.userID)
	case boardRemovedCmd:
		r.handleBoardRemoved()
	case shutdownCmd:
		r.handleShutdown()
	case exitCheckCmd:
	default:
		log.Printf("Unknown room command: %T", cmd)
	}
}

// handleJoin admits the client: access is re-checked against the store, the
// current snapshot is delivered to the joiner only, and the rest of the room
// learns about the new participant. A denied join leaves no trace in the
// room.
func (r *Room) handleJoin(client *Client) error {
	role, err := r.hub.store.GetParticipantRole(r.whiteboardID, client.UserID)
	if err != nil {
		return err
	}
	if err := access.CheckRole(role, access.ActionView); err != nil {
		return err
	}

	whiteboard, err := r.hub.store.FindWhiteboardByID(r.whiteboardID)
	if err != nil {
		return err
	}
	if r.content == nil {
		r.content = whiteboard.Content
	}

	client.role = role
	r.clients[client.ID] = client
	go client.writePump()

	participants := make([]models.ParticipantResponse, 0, len(whiteboard.Participants))
	for i := range whiteboard.Participants {
		participants = append(participants, whiteboard.Participants[i].ToParticipantResponse())
	}

	// The snapshot goes into the joiner's send queue before the joiner is
	// reachable by any broadcast, so no mutate can overtake it.
	ack, err := json.Marshal(socketModels.JoinAckPayload{
		Snapshot:     r.content,
		Participants: participants,
	})
	if err != nil {
		delete(r.clients, client.ID)
		client.close()
		return err
	}
	client.enqueue(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_JOIN_ACK,
		WhiteboardID: r.whiteboardID,
		Payload:      ack,
	})

	joined, _ := json.Marshal(socketModels.ParticipantPayload{UserID: client.UserID})
	r.broadcast(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_PARTICIPANT_JOINED,
		WhiteboardID: r.whiteboardID,
		Payload:      joined,
	}, client.ID)

	return nil
}

func (r *Room) handleLeave(clientID string) {
	client, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)
	client.close()

	left, _ := json.Marshal(socketModels.ParticipantPayload{UserID: client.UserID})
	r.broadcast(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_PARTICIPANT_LEFT,
		WhiteboardID: r.whiteboardID,
		Payload:      left,
	}, clientID)
}

// handleMutate validates the sender's cached role and relays the event. The
// cache is an optimization, not a security boundary: a denying cache entry is
// re-validated against the store before the mutate is rejected, so a
// concurrent promotion is honored.
func (r *Room) handleMutate(clientID string, payload json.RawMessage) {
	client, ok := r.clients[clientID]
	if !ok {
		return
	}

	if err := access.CheckRole(client.role, access.ActionMutateContent); err != nil {
		role, storeErr := r.hub.store.GetParticipantRole(r.whiteboardID, client.UserID)
		if storeErr != nil {
			client.SendError(r.whiteboardID, storeErr.Error())
			return
		}
		client.role = role
		if err := access.CheckRole(role, access.ActionMutateContent); err != nil {
			client.SendError(r.whiteboardID, err.Error())
			return
		}
	}

	// Fold by arrival order: the event carries the updated element list
	// and becomes the room's working snapshot (last write wins).
	r.content = models.ContentBlob(payload)
	r.pendingEvents++
	if r.pendingEvents >= r.hub.checkpointEvents {
		r.checkpoint()
	}

	if err := r.hub.publishMutate(r.whiteboardID, clientID, client.UserID, payload); err != nil {
		log.Printf("Error publishing mutate event: %v", err)
	}
}

// handleRemoteMutate delivers a relayed event arriving from the fan-out
// channel to every local connection except its originator.
func (r *Room) handleRemoteMutate(origin string, senderID uint, payload json.RawMessage) {
	if _, local := r.clients[origin]; !local {
		// The sender lives on another instance; keep our working
		// snapshot current for late joiners served from this room.
		r.content = models.ContentBlob(payload)
	}
	r.broadcast(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_MUTATE,
		WhiteboardID: r.whiteboardID,
		Payload:      payload,
	}, origin)
}

func (r *Room) handleRoleChanged(userID uint, newRole enums.Role) {
	for _, client := range r.clients {
		if client.UserID == userID {
			client.role = newRole
		}
	}
	payload, _ := json.Marshal(socketModels.RoleChangedPayload{
		UserID:  userID,
		NewRole: newRole.String(),
	})
	r.broadcast(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_ROLE_CHANGED,
		WhiteboardID: r.whiteboardID,
		Payload:      payload,
	}, "")
}

func (r *Room) handleRemoveUser(userID uint) {
	for id, client := range r.clients {
		if client.UserID == userID {
			client.SendError(r.whiteboardID, errs.ErrNotAParticipant.Error())
			delete(r.clients, id)
			client.close()
		}
	}
	left, _ := json.Marshal(socketModels.ParticipantPayload{UserID: userID})
	r.broadcast(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_PARTICIPANT_LEFT,
		WhiteboardID: r.whiteboardID,
		Payload:      left,
	}, "")
}

func (r *Room) handleBoardRemoved() {
	r.broadcast(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_WHITEBOARD_REMOVED,
		WhiteboardID: r.whiteboardID,
	}, "")
	for id, client := range r.clients {
		delete(r.clients, id)
		client.close()
	}
	r.pendingEvents = 0
}

func (r *Room) handleShutdown() {
	for id, client := range r.clients {
		delete(r.clients, id)
		client.close()
	}
}

func (r *Room) broadcast(event socketModels.BoardSocketEvent, excludeClientID string) {
	var dropped []*Client
	for id, client := range r.clients {
		if id == excludeClientID {
			continue
		}
		if !client.enqueue(event) {
			delete(r.clients, id)
			dropped = append(dropped, client)
		}
	}

	// A consumer evicted for a full buffer has left the room whether it
	// knows it or not; the rest of the room is told like any other leave.
	for _, client := range dropped {
		left, _ := json.Marshal(socketModels.ParticipantPayload{UserID: client.UserID})
		r.broadcast(socketModels.BoardSocketEvent{
			Event:        enums.SOCKET_EVENT_PARTICIPANT_LEFT,
			WhiteboardID: r.whiteboardID,
			Payload:      left,
		}, "")
	}
}

// checkpoint folds the accumulated events into the durable snapshot. The
// write happens off the room goroutine with a single retry; losing one
// checkpoint is tolerated, the next one replaces it wholesale.
func (r *Room) checkpoint() {
	if r.pendingEvents == 0 {
		return
	}
	r.pendingEvents = 0
	content := r.content
	whiteboardID := r.whiteboardID
	store := r.hub.store
	go func() {
		if err := store.ReplaceContent(whiteboardID, content); err != nil {
			log.Printf("Error persisting whiteboard %d snapshot, retrying: %v", whiteboardID, err)
			if err := store.ReplaceContent(whiteboardID, content); err != nil {
				log.Printf("Error persisting whiteboard %d snapshot: %v", whiteboardID, err)
			}
		}
	}()
}

// tryExit destroys the room once the last connection is gone. The check runs
// under the hub lock so a concurrent join either finds the room alive or
// recreates it from durable storage.
func (r *Room) tryExit() bool {
	if len(r.clients) > 0 {
		return false
	}
	r.hub.mu.Lock()
	if r.refs > 0 {
		r.hub.mu.Unlock()
		return false
	}
	delete(r.hub.rooms, r.whiteboardID)
	r.hub.mu.Unlock()

	r.checkpoint()
	return true
}
