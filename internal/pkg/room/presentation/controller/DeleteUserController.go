package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"giftroom/internal/infrastructure/realtime"
	room "giftroom/internal/pkg/room/application/domain"
	"giftroom/internal/pkg/room/application/usecase"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// DeleteUserController handles the delete-participant endpoint (one controller
// per endpoint). The requester authorizes with their own code; the frontend
// shows a confirmation dialog before calling this.
type DeleteUserController struct {
	UC *usecase.DeleteUserUseCase
	rt *realtime.Router
}

func NewDeleteUserController(repo repository.RoomRepository, rt *realtime.Router) *DeleteUserController {
	return &DeleteUserController{UC: usecase.NewDeleteUserUseCase(repo), rt: rt}
}

// Handle removes the target participant and returns the refreshed room.
func (h *DeleteUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCode := c.Query("userCode")
		if userCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userCode is required"})
			return
		}
		targetID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
		if err != nil || targetID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId must be a positive integer"})
			return
		}

		in := usecase.DeleteUserInput{
			UserCode:     room.UserCode(userCode),
			TargetUserID: targetID,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		rm, err := h.UC.Execute(ctx, in)
		if err != nil {
			writeFailure(c, err)
			return
		}

		h.broadcastRemoval(rm, targetID, userCode)
		c.JSON(http.StatusOK, roomResponse(rm))
	}
}

// broadcastRemoval tells connected participants the roster shrank. Best effort:
// a closed or absent socket never fails the HTTP request.
func (h *DeleteUserController) broadcastRemoval(rm *room.Room, removedID int64, requesterCode string) {
	if h.rt == nil {
		return
	}
	payload, err := json.Marshal(gin.H{
		"type":    "user_removed",
		"room":    rm.Code,
		"user_id": removedID,
	})
	if err != nil {
		return
	}
	h.rt.Broadcast(string(rm.Code), payload, requesterCode)
}
