package usecase

import (
	"context"
	"errors"
	"time"

	room "giftroom/internal/pkg/room/application/domain"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// CloseRoomInput carries a request to close the exchange and run the draw.
// Only the admin's own code authorizes closing.
type CloseRoomInput struct {
	UserCode room.UserCode
}

// CloseRoomUseCase closes a room: it runs the giftee draw, stamps ClosedOn
// and persists the result. After closing, no membership mutation is possible.
type CloseRoomUseCase struct {
	Repo repository.RoomRepository

	// Now is the clock used to stamp ClosedOn; defaults to time.Now.
	Now func() time.Time
}

func NewCloseRoomUseCase(repo repository.RoomRepository) *CloseRoomUseCase {
	return &CloseRoomUseCase{Repo: repo, Now: time.Now}
}

func (uc *CloseRoomUseCase) Execute(ctx context.Context, in CloseRoomInput) (*room.Room, error) {
	rm, err := uc.Repo.GetByUserCode(ctx, in.UserCode)
	if err != nil {
		return nil, room.NewNotFound("userCode", "User with such code not found")
	}

	if rm.IsClosed() {
		return nil, room.NewBadRequest("closedOn", "Room is already closed.")
	}

	admin, ok := rm.Admin()
	if !ok {
		return nil, room.NewBadRequest("room", room.ErrNoAdmin.Error())
	}
	if admin.AuthCode != in.UserCode {
		return nil, room.NewNotAuthorized("userCode", "Only room admin can close the room.")
	}

	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	if err := rm.Close(now()); err != nil {
		if errors.Is(err, room.ErrTooFewUsers) {
			return nil, room.NewBadRequest("users", "At least two participants are required to close the room.")
		}
		return nil, room.NewBadRequest("room", err.Error())
	}

	if err := uc.Repo.Update(ctx, rm); err != nil {
		return nil, room.NewBadRequest("room", err.Error())
	}

	updated, err := uc.Repo.GetByUserCode(ctx, in.UserCode)
	if err != nil {
		return nil, room.NewBadRequest("room", err.Error())
	}
	return updated, nil
}
