package repository

import (
	"context"
	"errors"

	room "giftroom/internal/pkg/room/application/domain"
)

// ErrRoomNotFound signals a lookup miss in a typed way so callers can
// distinguish "no such room" from transport or storage failures.
var ErrRoomNotFound = errors.New("repository: room not found")

// RoomRepository defines persistence operations for the room domain.
// The repository is the sole arbiter of consistency between concurrent
// requests; adapters are expected to make Update an atomic write of the
// whole aggregate (room row plus membership).
type RoomRepository interface {
	// GetByUserCode resolves the room containing the participant whose
	// private authorization code matches. Returns ErrRoomNotFound on miss.
	GetByUserCode(ctx context.Context, code room.UserCode) (*room.Room, error)

	// GetByInviteCode resolves a room by its shareable join code.
	// Returns ErrRoomNotFound on miss.
	GetByInviteCode(ctx context.Context, code room.InviteCode) (*room.Room, error)

	// Create persists a new room and its initial membership, filling in
	// storage-generated identifiers on the passed aggregate.
	Create(ctx context.Context, r *room.Room) error

	// Update writes the aggregate back, replacing the stored membership
	// with the aggregate's current one.
	Update(ctx context.Context, r *room.Room) error
}
