package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/hub"
	"socketBoard/internal/models"
	socketModels "socketBoard/internal/models/socket"
	"socketBoard/internal/msgs"
	"socketBoard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const pongWait = 60 * time.Second

type SocketBoardHandler struct {
	upgrader websocket.Upgrader
	boardHub *hub.Hub
}

func NewSocketBoardHandler(boardHub *hub.Hub) *SocketBoardHandler {
	return &SocketBoardHandler{
		boardHub: boardHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (sbh *SocketBoardHandler) HandleSocketBoardRoute(ctx *gin.Context) {
	userInfo, err := sbh.authorize(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	whiteboardID, err := sbh.getWhiteboardIdFromQuery(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidWhiteboardId},
		})
		return
	}

	sbh.handleConnection(ctx, userInfo, whiteboardID)
}

func (sbh *SocketBoardHandler) authorize(ctx *gin.Context) (*models.Claims, error) {
	jwtToken := ctx.Request.Header.Get("Authorization")
	if jwtToken == "" {
		// Browser websocket clients cannot set headers; accept the
		// token as a query parameter too.
		jwtToken = ctx.Query("token")
	}
	if strings.Contains(jwtToken, "Bearer") {
		jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
	}
	if jwtToken == "" {
		return nil, errs.ErrUnauthorized
	}
	return utils.VerifyToken(jwtToken, utils.GetJwtKey())
}

func (sbh *SocketBoardHandler) getWhiteboardIdFromQuery(ctx *gin.Context) (uint, error) {
	whiteboardIdStr := ctx.Query("whiteboardId")
	if whiteboardIdStr == "" {
		return 0, errs.ErrInvalidWhiteboardId
	}
	whiteboardIdInt, err := strconv.Atoi(whiteboardIdStr)
	if err != nil || whiteboardIdInt <= 0 {
		return 0, errs.ErrInvalidWhiteboardId
	}
	return uint(whiteboardIdInt), nil
}

func (sbh *SocketBoardHandler) handleConnection(ctx *gin.Context, userInfo *models.Claims, whiteboardID uint) {
	ws, err := sbh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	// Bound disconnect detection: the writer pings, a missing pong trips
	// the read deadline and the read loop exits into Leave.
	if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Error setting read deadline: %v", err)
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	client, err := sbh.boardHub.Join(whiteboardID, userInfo.ID, ws)
	if err != nil {
		// A denied join holds no room resources; tell the client and
		// drop the connection.
		writeErr := ws.WriteJSON(socketModels.BoardSocketEvent{
			Event:        enums.SOCKET_EVENT_ERROR,
			WhiteboardID: whiteboardID,
			Payload:      errorPayload(err),
		})
		if writeErr != nil {
			log.Printf("Error writing json: %v", writeErr)
		}
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
		return
	}

	sbh.readLoop(ws, client, whiteboardID)
}

// readLoop pumps incoming events from one connection into the room. It is
// the only reader of the connection and exits on any transport error, which
// counts as an ordinary leave.
func (sbh *SocketBoardHandler) readLoop(ws *websocket.Conn, client *hub.Client, whiteboardID uint) {
	defer sbh.boardHub.Leave(whiteboardID, client)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("readLoop / Error reading message: %v", err)
			}
			return
		}

		// Only transport errors end the connection; a frame that does
		// not decode is answered and skipped.
		var event socketModels.BoardSocketEvent
		if err := json.Unmarshal(data, &event); err != nil {
			client.SendError(whiteboardID, errs.ErrMalformedEvent.Error())
			continue
		}

		switch event.Event {
		case enums.SOCKET_EVENT_MUTATE:
			if len(event.Payload) == 0 {
				client.SendError(whiteboardID, errs.ErrMalformedEvent.Error())
				continue
			}
			sbh.boardHub.Mutate(whiteboardID, client, event.Payload)
		default:
			// Bad input from one connection never takes the room
			// down; reply to the offender only.
			log.Printf("Unknown event: %v", event.Event)
			client.SendError(whiteboardID, errs.ErrMalformedEvent.Error())
		}
	}
}

func errorPayload(err error) json.RawMessage {
	payload, marshalErr := json.Marshal(socketModels.ErrorPayload{Error: err.Error()})
	if marshalErr != nil {
		return nil
	}
	return payload
}
