package usecase

import (
	"context"

	room "giftroom/internal/pkg/room/application/domain"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// DeleteUserInput carries one authorized request to remove a participant.
// UserCode identifies and authorizes the requester at the same time: the
// caller proves who they are by presenting their own private code.
type DeleteUserInput struct {
	UserCode     room.UserCode
	TargetUserID int64
}

// DeleteUserUseCase sequences the authorization checks and the membership
// mutation for removing a participant from a room.
//
// The guard chain is evaluated in a fixed order because later checks assume
// earlier ones hold, and because the most specific error must win: existence
// before self-deletion, self-deletion before admin protection, admin
// protection before the generic authorization failure. The admin can never be
// removed; when the admin targets themselves the self-deletion guard answers
// first.
type DeleteUserUseCase struct {
	Repo repository.RoomRepository
}

func NewDeleteUserUseCase(repo repository.RoomRepository) *DeleteUserUseCase {
	return &DeleteUserUseCase{Repo: repo}
}

// Execute removes the target participant and returns the refreshed room.
// On any failure it returns a *room.ValidationError and the stored room is
// left untouched; the in-memory mutation only becomes durable once the
// repository write succeeds.
func (uc *DeleteUserUseCase) Execute(ctx context.Context, in DeleteUserInput) (*room.Room, error) {
	rm, err := uc.Repo.GetByUserCode(ctx, in.UserCode)
	if err != nil {
		// Any lookup failure, miss or transport, reads as an unresolvable
		// code to the caller.
		return nil, room.NewNotFound("userCode", "User with such code not found")
	}

	if rm.IsClosed() {
		return nil, room.NewBadRequest("closedOn", "Cannot delete user from closed room.")
	}

	target, ok := rm.UserByID(in.TargetUserID)
	if !ok {
		return nil, room.NewNotFound("userId", "User with such Id not found in the room.")
	}

	if target.AuthCode == in.UserCode {
		return nil, room.NewBadRequest("userId", "User cannot delete himself from the room.")
	}

	admin, ok := rm.Admin()
	if !ok {
		// A room without an admin is a stored-state inconsistency.
		return nil, room.NewBadRequest("room", room.ErrNoAdmin.Error())
	}
	if admin.ID == target.ID {
		return nil, room.NewBadRequest("userId", "Room admin cannot be deleted.")
	}

	if admin.AuthCode != in.UserCode {
		return nil, room.NewNotAuthorized("userCode", "Only room admin can delete users.")
	}

	if err := rm.DeleteUser(in.TargetUserID); err != nil {
		return nil, room.NewBadRequest("userId", err.Error())
	}

	if err := uc.Repo.Update(ctx, rm); err != nil {
		return nil, room.NewBadRequest("room", err.Error())
	}

	// Return the durable post-write state rather than the in-memory copy.
	updated, err := uc.Repo.GetByUserCode(ctx, in.UserCode)
	if err != nil {
		return nil, room.NewBadRequest("room", err.Error())
	}
	return updated, nil
}
