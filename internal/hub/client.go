package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"socketBoard/internal/enums"
	socketModels "socketBoard/internal/models/socket"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write an event to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer. A silent
	// connection is treated as gone after this, which bounds disconnect
	// detection without an explicit close message.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Per-connection outbound buffer. A client that cannot drain this is
	// dropped rather than allowed to stall the room.
	sendBufferSize = 64
)

// Conn is the subset of *websocket.Conn the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live connection inside a room, tagged with the user it
// belongs to and the role observed at join time. The role field is owned by
// the room goroutine.
type Client struct {
	ID     string
	UserID uint

	conn Conn
	send chan socketModels.BoardSocketEvent
	done chan struct{}
	stop sync.Once

	role enums.Role
}

func newClient(id string, userID uint, conn Conn) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		conn:   conn,
		send:   make(chan socketModels.BoardSocketEvent, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// writePump owns all writes to the connection, draining the send channel and
// keeping the heartbeat alive. It runs for the lifetime of the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Printf("Error writing json: %v", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			// Flush whatever the room queued before closing, so a
			// farewell event (kick, board removal) still reaches the
			// peer.
			for {
				select {
				case event := <-c.send:
					if err := c.conn.WriteJSON(event); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

// enqueue hands an event to the client's writer without ever blocking the
// room. A full buffer marks the client dead.
func (c *Client) enqueue(event socketModels.BoardSocketEvent) bool {
	select {
	case c.send <- event:
		return true
	case <-c.done:
		return false
	default:
		c.close()
		return false
	}
}

// SendError queues an error event for this connection only, serialized with
// the write pump.
func (c *Client) SendError(whiteboardID uint, message string) {
	payload, err := json.Marshal(socketModels.ErrorPayload{Error: message})
	if err != nil {
		return
	}
	c.enqueue(socketModels.BoardSocketEvent{
		Event:        enums.SOCKET_EVENT_ERROR,
		WhiteboardID: whiteboardID,
		Payload:      payload,
	})
}

func (c *Client) close() {
	c.stop.Do(func() {
		close(c.done)
	})
}
