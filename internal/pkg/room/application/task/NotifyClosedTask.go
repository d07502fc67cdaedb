package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	qport "giftroom/internal/infrastructure/queue/port"
	room "giftroom/internal/pkg/room/application/domain"
	repoAdapter "giftroom/internal/pkg/room/persistence/repository/adapter"
)

// NotifyClosedTaskType is the queue task name for fanning out draw results
// after a room is closed.
const NotifyClosedTaskType = "room:notify_closed"

// NotifyClosedTaskPayload is the JSON payload transported via the queue.
// Only the invite code travels; the worker re-reads the room so it always
// notifies from durable state.
type NotifyClosedTaskPayload struct {
	RoomCode string `json:"roomCode"`
}

// RegisterNotifyClosedTask binds the task handler to the provided server.
// The handler loads the closed room and notifies every participant of their
// giftee.
func RegisterNotifyClosedTask(srv qport.Server, pool *pgxpool.Pool) {
	srv.Register(NotifyClosedTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyClosedTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		repo := repoAdapter.NewPgRoomRepository(pool)
		rm, err := repo.GetByInviteCode(ctx, room.InviteCode(p.RoomCode))
		if err != nil {
			return err
		}

		logCtx := logrus.WithField("room_code", p.RoomCode)
		if !rm.IsClosed() {
			// Room reopened or the close never became durable; nothing to send.
			logCtx.Warn("notify_closed: room is not closed, skipping")
			return nil
		}

		for i := range rm.Users {
			u := &rm.Users[i]
			if u.GifteeID == nil {
				continue
			}
			giftee, ok := rm.UserByID(*u.GifteeID)
			if !ok {
				logCtx.WithField("user_id", u.ID).Warn("notify_closed: giftee missing from room")
				continue
			}
			// TODO: hand off to a mail/push provider once one is chosen;
			// until then the draw is only observable through the API.
			logCtx.WithFields(logrus.Fields{
				"user_id":     u.ID,
				"giftee_name": giftee.Name,
			}).Info("draw result ready for participant")
		}
		return nil
	})
}
