package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	room "giftroom/internal/pkg/room/application/domain"
)

// statusFor maps a validation failure kind to its HTTP status.
func statusFor(kind room.FailureKind) int {
	switch kind {
	case room.FailureNotFound:
		return http.StatusNotFound
	case room.FailureNotAuthorized:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// writeFailure renders a use case error. Use cases only emit typed validation
// failures, so the untyped branch is a safety net for programming mistakes.
func writeFailure(c *gin.Context, err error) {
	var verr *room.ValidationError
	if errors.As(err, &verr) {
		c.JSON(statusFor(verr.Kind), gin.H{
			"kind":   verr.Kind.String(),
			"errors": verr.Failures,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// roomResponse serializes the aggregate for caller-facing responses.
func roomResponse(rm *room.Room) gin.H {
	users := make([]gin.H, 0, len(rm.Users))
	for i := range rm.Users {
		u := &rm.Users[i]
		users = append(users, gin.H{
			"id":        u.ID,
			"name":      u.Name,
			"wish":      u.Wish,
			"auth_code": u.AuthCode,
			"is_admin":  u.IsAdmin,
			"giftee_id": u.GifteeID,
		})
	}
	return gin.H{
		"code":      rm.Code,
		"closed_on": rm.ClosedOn,
		"users":     users,
	}
}
