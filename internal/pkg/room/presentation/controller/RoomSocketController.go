package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"giftroom/internal/infrastructure/realtime"
	room "giftroom/internal/pkg/room/application/domain"
	"giftroom/internal/pkg/room/application/usecase"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// RoomSocketController upgrades participants to a websocket feed of roster
// events (user_joined, user_removed, room_closed). The socket is read-mostly:
// clients listen; the only inbound frames are keepalives.
type RoomSocketController struct {
	router    *realtime.Router
	getRoomUC *usecase.GetRoomUseCase
}

func NewRoomSocketController(repo repository.RoomRepository, router *realtime.Router) *RoomSocketController {
	return &RoomSocketController{
		router:    router,
		getRoomUC: usecase.NewGetRoomUseCase(repo),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

type ackFrame struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

const socketReadTimeout = 60 * time.Second

// Handle authenticates the participant by their private code, subscribes the
// connection to their room and keeps reading until the client disconnects.
func (ctl *RoomSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCode := c.Query("userCode")
		if userCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userCode is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		rm, err := ctl.getRoomUC.Execute(ctx, usecase.GetRoomInput{UserCode: room.UserCode(userCode)})
		cancel()
		if err != nil {
			writeFailure(c, err)
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing more to do.
			return
		}

		conn := realtime.NewConnection(userCode, ws)
		ctl.router.Attach(conn)
		ctl.router.Join(string(rm.Code), conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(4 << 10) // events only; inbound frames stay tiny
		_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected", Room: string(rm.Code)}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					ctl.replyError(conn, "read_error", err.Error())
				}
				return
			}

			var frame struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "ping":
				if payload, err := json.Marshal(ackFrame{Type: "pong"}); err == nil {
					_ = conn.Send(payload)
				}
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *RoomSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
