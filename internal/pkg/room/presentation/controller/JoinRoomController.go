package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"giftroom/internal/infrastructure/realtime"
	room "giftroom/internal/pkg/room/application/domain"
	"giftroom/internal/pkg/room/application/usecase"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// JoinRoomController handles the join-room endpoint (one controller per
// endpoint). The joiner receives their private code exactly once, in this
// response.
type JoinRoomController struct {
	UC *usecase.JoinRoomUseCase
	rt *realtime.Router
}

func NewJoinRoomController(repo repository.RoomRepository, rt *realtime.Router) *JoinRoomController {
	return &JoinRoomController{UC: usecase.NewJoinRoomUseCase(repo), rt: rt}
}

type joinRoomRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Wish       string `json:"wish"`
}

func (h *JoinRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req joinRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.JoinRoomInput{
			InviteCode: room.InviteCode(req.InviteCode),
			Name:       req.Name,
			Wish:       req.Wish,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		rm, code, err := h.UC.Execute(ctx, in)
		if err != nil {
			writeFailure(c, err)
			return
		}

		h.broadcastJoin(rm, string(code))
		c.JSON(http.StatusCreated, gin.H{
			"user_code": code,
			"room":      roomResponse(rm),
		})
	}
}

func (h *JoinRoomController) broadcastJoin(rm *room.Room, joinerCode string) {
	if h.rt == nil {
		return
	}
	joiner, ok := rm.UserByCode(room.UserCode(joinerCode))
	if !ok {
		return
	}
	payload, err := json.Marshal(gin.H{
		"type":    "user_joined",
		"room":    rm.Code,
		"user_id": joiner.ID,
		"name":    joiner.Name,
	})
	if err != nil {
		return
	}
	h.rt.Broadcast(string(rm.Code), payload, joinerCode)
}
