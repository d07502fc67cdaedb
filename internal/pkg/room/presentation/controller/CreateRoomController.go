package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"giftroom/internal/pkg/room/application/usecase"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// CreateRoomController handles the room creation endpoint
// One controller per endpoint
type CreateRoomController struct {
	UC *usecase.CreateRoomUseCase
}

func NewCreateRoomController(repo repository.RoomRepository) *CreateRoomController {
	return &CreateRoomController{UC: usecase.NewCreateRoomUseCase(repo)}
}

type createRoomRequest struct {
	AdminName string `json:"admin_name" binding:"required"`
	AdminWish string `json:"admin_wish"`
}

func (h *CreateRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.CreateRoomInput{AdminName: req.AdminName, AdminWish: req.AdminWish}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		rm, err := h.UC.Execute(ctx, in)
		if err != nil {
			writeFailure(c, err)
			return
		}

		c.JSON(http.StatusCreated, roomResponse(rm))
	}
}
