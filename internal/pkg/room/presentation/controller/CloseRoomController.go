package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	queueport "giftroom/internal/infrastructure/queue/port"
	"giftroom/internal/infrastructure/realtime"
	room "giftroom/internal/pkg/room/application/domain"
	"giftroom/internal/pkg/room/application/task"
	"giftroom/internal/pkg/room/application/usecase"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// CloseRoomController handles the close-room endpoint (one controller per
// endpoint). A successful close enqueues the draw notification task and tells
// connected participants the room is sealed.
type CloseRoomController struct {
	UC *usecase.CloseRoomUseCase
	Q  queueport.Client
	rt *realtime.Router
}

func NewCloseRoomController(repo repository.RoomRepository, client queueport.Client, rt *realtime.Router) *CloseRoomController {
	return &CloseRoomController{UC: usecase.NewCloseRoomUseCase(repo), Q: client, rt: rt}
}

type closeRoomRequest struct {
	UserCode string `json:"user_code" binding:"required"`
}

func (h *CloseRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req closeRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		rm, err := h.UC.Execute(ctx, usecase.CloseRoomInput{UserCode: room.UserCode(req.UserCode)})
		if err != nil {
			writeFailure(c, err)
			return
		}

		h.enqueueNotify(ctx, rm)
		h.broadcastClosed(rm)
		c.JSON(http.StatusOK, roomResponse(rm))
	}
}

// enqueueNotify schedules the draw fan-out. The close is already durable, so
// a queue hiccup is logged rather than failing the request.
func (h *CloseRoomController) enqueueNotify(ctx context.Context, rm *room.Room) {
	if h.Q == nil {
		return
	}
	payload, err := json.Marshal(task.NotifyClosedTaskPayload{RoomCode: string(rm.Code)})
	if err != nil {
		return
	}
	opts := queueport.EnqueueOption{Queue: "room", MaxRetry: 20, UniqueTTL: time.Minute}
	if _, err := h.Q.Enqueue(ctx, queueport.Task{Type: task.NotifyClosedTaskType, Payload: payload}, opts); err != nil {
		logrus.WithError(err).WithField("room_code", rm.Code).Warn("failed to enqueue close notification")
	}
}

func (h *CloseRoomController) broadcastClosed(rm *room.Room) {
	if h.rt == nil {
		return
	}
	payload, err := json.Marshal(gin.H{
		"type":      "room_closed",
		"room":      rm.Code,
		"closed_on": rm.ClosedOn,
	})
	if err != nil {
		return
	}
	h.rt.Broadcast(string(rm.Code), payload, "")
}
