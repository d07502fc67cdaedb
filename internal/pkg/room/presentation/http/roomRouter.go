package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "giftroom/internal/infrastructure/cache/port"
	qport "giftroom/internal/infrastructure/queue/port"
	"giftroom/internal/infrastructure/realtime"
	"giftroom/internal/pkg/room/persistence/repository/adapter"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
	"giftroom/internal/pkg/room/presentation/controller"
)

// newRoomRepository builds the one repository every endpoint shares. With a
// cache present, reads go through the decorator and writes invalidate the
// same keys; a split would let writes bypass the read path's cache.
func newRoomRepository(pool *pgxpool.Pool, cache cacheport.Cache) repository.RoomRepository {
	var repo repository.RoomRepository = adapter.NewPgRoomRepository(pool)
	if cache != nil {
		repo = adapter.NewCachedRoomRepository(repo, cache)
	}
	return repo
}

// RegisterRoutes registers room-related HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, cache cacheport.Cache, client qport.Client, router *realtime.Router) {
	repo := newRoomRepository(pool, cache)
	createCtl := controller.NewCreateRoomController(repo)
	joinCtl := controller.NewJoinRoomController(repo, router)
	getCtl := controller.NewGetRoomController(repo)
	deleteCtl := controller.NewDeleteUserController(repo, router)
	closeCtl := controller.NewCloseRoomController(repo, client, router)
	socketCtl := controller.NewRoomSocketController(repo, router)

	// POST /api/v1/room -> create a room (creator becomes admin)
	g.POST("/room", createCtl.Handle())

	// POST /api/v1/room/join -> join an open room by invite code
	g.POST("/room/join", joinCtl.Handle())

	// GET /api/v1/room?userCode=... -> fetch the caller's room
	g.GET("/room", getCtl.Handle())

	// DELETE /api/v1/room/users/:userId?userCode=... -> remove a participant
	g.DELETE("/room/users/:userId", deleteCtl.Handle())

	// POST /api/v1/room/close -> close the room and run the draw
	g.POST("/room/close", closeCtl.Handle())

	// GET /api/v1/room/ws?userCode=... -> websocket feed of roster events
	g.GET("/room/ws", socketCtl.Handle())
}
