package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "giftroom/internal/infrastructure/cache/port"
	qport "giftroom/internal/infrastructure/queue/port"
	"giftroom/internal/infrastructure/realtime"
	httpHandler "giftroom/internal/pkg/room/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, cache cacheport.Cache, client qport.Client, router *realtime.Router) {
	v1 := r.Group("/api/v1")
	// Pass infrastructure down to the HTTP layer
	httpHandler.RegisterRoutes(v1, pool, cache, client, router)
}
