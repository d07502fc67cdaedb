package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	cacheport "giftroom/internal/infrastructure/cache/port"
	room "giftroom/internal/pkg/room/application/domain"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// roomCacheTTL bounds staleness for the read path. Writes invalidate
// eagerly, so the TTL only matters for out-of-band database changes.
const roomCacheTTL = 5 * time.Minute

// CachedRoomRepository decorates a RoomRepository with a read-through cache
// keyed by user code. Cache failures are never surfaced to callers; the
// decorator degrades to the inner repository and logs at debug level.
type CachedRoomRepository struct {
	inner repository.RoomRepository
	cache cacheport.Cache
}

func NewCachedRoomRepository(inner repository.RoomRepository, cache cacheport.Cache) *CachedRoomRepository {
	return &CachedRoomRepository{inner: inner, cache: cache}
}

// Ensure interface compliance at compile time
var _ repository.RoomRepository = (*CachedRoomRepository)(nil)

func userCodeKey(code room.UserCode) string {
	return "room:user:" + string(code)
}

func (r *CachedRoomRepository) GetByUserCode(ctx context.Context, code room.UserCode) (*room.Room, error) {
	if cached, err := r.cache.Get(ctx, userCodeKey(code)); err == nil {
		var rm room.Room
		if err := json.Unmarshal([]byte(cached), &rm); err == nil {
			return &rm, nil
		}
		// Corrupt entry: drop it and fall through to the inner repository.
		_, _ = r.cache.Del(ctx, userCodeKey(code))
	} else if !errors.Is(err, cacheport.ErrMiss) {
		logrus.WithError(err).Debug("room cache read failed")
	}

	rm, err := r.inner.GetByUserCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(rm); err == nil {
		if err := r.cache.Set(ctx, userCodeKey(code), string(payload), roomCacheTTL); err != nil {
			logrus.WithError(err).Debug("room cache write failed")
		}
	}
	return rm, nil
}

// GetByInviteCode always hits the inner repository: join requests are rare
// compared to room reads and must observe current membership.
func (r *CachedRoomRepository) GetByInviteCode(ctx context.Context, code room.InviteCode) (*room.Room, error) {
	return r.inner.GetByInviteCode(ctx, code)
}

func (r *CachedRoomRepository) Create(ctx context.Context, rm *room.Room) error {
	return r.inner.Create(ctx, rm)
}

// Update writes through and invalidates every member's cached view, including
// members just removed from the aggregate; their keys are gone from the
// aggregate but expire via TTL at worst.
func (r *CachedRoomRepository) Update(ctx context.Context, rm *room.Room) error {
	if err := r.inner.Update(ctx, rm); err != nil {
		return err
	}
	keys := make([]string, 0, len(rm.Users))
	for i := range rm.Users {
		keys = append(keys, userCodeKey(rm.Users[i].AuthCode))
	}
	if len(keys) > 0 {
		if _, err := r.cache.Del(ctx, keys...); err != nil {
			logrus.WithError(err).Debug("room cache invalidation failed")
		}
	}
	return nil
}
