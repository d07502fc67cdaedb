package usecase

import (
	"context"
	"strings"

	room "giftroom/internal/pkg/room/application/domain"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// JoinRoomInput carries a request to enter an open room via its invite code.
type JoinRoomInput struct {
	InviteCode room.InviteCode
	Name       string
	Wish       string
}

// JoinRoomUseCase adds a non-admin participant to an open room.
type JoinRoomUseCase struct {
	Repo repository.RoomRepository
}

func NewJoinRoomUseCase(repo repository.RoomRepository) *JoinRoomUseCase {
	return &JoinRoomUseCase{Repo: repo}
}

// Execute appends the new member, persists the aggregate and returns the
// durable room state together with the member's freshly generated code.
func (uc *JoinRoomUseCase) Execute(ctx context.Context, in JoinRoomInput) (*room.Room, room.UserCode, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, "", room.NewBadRequest("name", "Name is required.")
	}

	rm, err := uc.Repo.GetByInviteCode(ctx, in.InviteCode)
	if err != nil {
		return nil, "", room.NewNotFound("inviteCode", "Room with such code not found")
	}

	newCode := room.UserCode(newOpaqueCode())
	member := room.User{
		Name:     strings.TrimSpace(in.Name),
		Wish:     in.Wish,
		AuthCode: newCode,
	}
	if err := rm.AddUser(member); err != nil {
		return nil, "", room.NewBadRequest("closedOn", "Cannot join closed room.")
	}

	if err := uc.Repo.Update(ctx, rm); err != nil {
		return nil, "", room.NewBadRequest("room", err.Error())
	}

	// Re-read so the caller observes the storage-assigned member id.
	updated, err := uc.Repo.GetByUserCode(ctx, newCode)
	if err != nil {
		return nil, "", room.NewBadRequest("room", err.Error())
	}
	return updated, newCode, nil
}
