package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	room "giftroom/internal/pkg/room/application/domain"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// CreateRoomInput carries the data to open a new gift-exchange room.
// The creator becomes the room's single admin.
type CreateRoomInput struct {
	AdminName string
	AdminWish string
}

// CreateRoomUseCase opens a room with a generated invite code and one admin
// member holding a freshly generated authorization code.
// Hexagonal: depends on repository port only.
type CreateRoomUseCase struct {
	Repo repository.RoomRepository
}

func NewCreateRoomUseCase(repo repository.RoomRepository) *CreateRoomUseCase {
	return &CreateRoomUseCase{Repo: repo}
}

// Execute persists the new room and returns it with storage-assigned ids.
// The admin's authorization code is part of the returned aggregate; callers
// should surface it to the creator exactly once.
func (uc *CreateRoomUseCase) Execute(ctx context.Context, in CreateRoomInput) (*room.Room, error) {
	if strings.TrimSpace(in.AdminName) == "" {
		return nil, room.NewBadRequest("adminName", "Admin name is required.")
	}

	rm := &room.Room{
		Code: room.InviteCode(newOpaqueCode()),
		Users: []room.User{{
			Name:     strings.TrimSpace(in.AdminName),
			Wish:     in.AdminWish,
			AuthCode: room.UserCode(newOpaqueCode()),
			IsAdmin:  true,
		}},
	}

	if err := uc.Repo.Create(ctx, rm); err != nil {
		return nil, room.NewBadRequest("room", err.Error())
	}
	return rm, nil
}

// newOpaqueCode produces an unguessable token used for both invite codes and
// per-user authorization codes. Hyphens are stripped so the code survives
// copy/paste through messengers that split on punctuation.
func newOpaqueCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
