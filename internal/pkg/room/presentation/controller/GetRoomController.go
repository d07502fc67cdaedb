package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	room "giftroom/internal/pkg/room/application/domain"
	"giftroom/internal/pkg/room/application/usecase"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// GetRoomController handles the read endpoint (one controller per endpoint).
// The repository is shared with the write endpoints, so when it is the caching
// decorator, every write invalidates what this read path serves.
type GetRoomController struct {
	UC *usecase.GetRoomUseCase
}

func NewGetRoomController(repo repository.RoomRepository) *GetRoomController {
	return &GetRoomController{UC: usecase.NewGetRoomUseCase(repo)}
}

func (h *GetRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCode := c.Query("userCode")
		if userCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userCode is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		rm, err := h.UC.Execute(ctx, usecase.GetRoomInput{UserCode: room.UserCode(userCode)})
		if err != nil {
			writeFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, roomResponse(rm))
	}
}
