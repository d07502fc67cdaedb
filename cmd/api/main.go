package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	cacheAdapter "giftroom/internal/infrastructure/cache/adapter"
	cacheport "giftroom/internal/infrastructure/cache/port"
	"giftroom/internal/infrastructure/database"
	queueAdapter "giftroom/internal/infrastructure/queue/adapter"
	qport "giftroom/internal/infrastructure/queue/port"
	"giftroom/internal/infrastructure/realtime"
	"giftroom/internal/pkg/room/application/task"

	v1 "giftroom/cmd/api/router/v1"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Warn(".env file not found or could not be loaded")
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	cancel()
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	// Redis-backed cache and queue are optional: without them the API serves
	// straight from Postgres and skips draw notifications.
	var cache cacheport.Cache
	if rc, err := cacheAdapter.NewRedisAdapter(); err != nil {
		logrus.WithError(err).Warn("room cache disabled")
	} else {
		cache = rc
		defer rc.Close()
	}

	var qclient qport.Client
	if qc, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		logrus.WithError(err).Warn("task queue disabled")
	} else {
		qclient = qc
		defer qc.Close()
	}

	// Run the task worker in-process when the queue is available.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if qclient != nil {
		srv, err := queueAdapter.NewAsynqServer()
		if err != nil {
			logrus.WithError(err).Warn("task worker disabled")
		} else {
			task.RegisterNotifyClosedTask(srv, pool)
			go func() {
				if err := srv.Run(workerCtx); err != nil {
					logrus.WithError(err).Error("task worker stopped")
				}
			}()
		}
	}

	rtRouter := realtime.NewRouter()
	defer rtRouter.Close()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, pool, cache, qclient, rtRouter)

	// Start HTTP server (blocks until shutdown)
	if err := r.Run(); err != nil {
		logrus.WithError(err).Fatal("http server exited")
	}
}
