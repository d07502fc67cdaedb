package usecase

import (
	"context"

	room "giftroom/internal/pkg/room/application/domain"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// GetRoomInput wraps the caller's private code to fetch their room.
type GetRoomInput struct {
	UserCode room.UserCode
}

// GetRoomUseCase resolves the room a participant belongs to.
type GetRoomUseCase struct {
	Repo repository.RoomRepository
}

func NewGetRoomUseCase(repo repository.RoomRepository) *GetRoomUseCase {
	return &GetRoomUseCase{Repo: repo}
}

func (uc *GetRoomUseCase) Execute(ctx context.Context, in GetRoomInput) (*room.Room, error) {
	if in.UserCode == "" {
		return nil, room.NewBadRequest("userCode", "User code is required.")
	}

	rm, err := uc.Repo.GetByUserCode(ctx, in.UserCode)
	if err != nil {
		return nil, room.NewNotFound("userCode", "User with such code not found")
	}
	return rm, nil
}
