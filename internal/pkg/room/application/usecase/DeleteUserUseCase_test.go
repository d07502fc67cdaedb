package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	room "giftroom/internal/pkg/room/application/domain"
	"giftroom/internal/pkg/room/application/usecase"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// twoUserRoom mirrors the canonical fixture: admin Ann (id 1, code "A") and
// member Bob (id 2, code "B") in open room "R1".
func twoUserRoom() *room.Room {
	return &room.Room{
		ID:   7,
		Code: "R1",
		Users: []room.User{
			{ID: 1, Name: "Ann", AuthCode: "A", IsAdmin: true},
			{ID: 2, Name: "Bob", AuthCode: "B"},
		},
	}
}

func requireValidation(t *testing.T, err error, kind room.FailureKind, field string) *room.ValidationError {
	t.Helper()
	var verr *room.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, kind, verr.Kind)
	require.Len(t, verr.Failures, 1)
	assert.Equal(t, field, verr.Failures[0].Field)
	return verr
}

func TestDeleteUser_RoomNotFound(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("missing")).
		Return(nil, repository.ErrRoomNotFound).Once()

	rm, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "missing", TargetUserID: 2})

	assert.Nil(t, rm)
	verr := requireValidation(t, err, room.FailureNotFound, "userCode")
	assert.Equal(t, "User with such code not found", verr.Failures[0].Message)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser_RepositoryFailureReadsAsNotFound(t *testing.T) {
	// A transport failure on the lookup is indistinguishable from a miss to
	// the caller: same kind, field and message as an unknown code.
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).
		Return(nil, errors.New("connection reset")).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 2})

	verr := requireValidation(t, err, room.FailureNotFound, "userCode")
	assert.Equal(t, "User with such code not found", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser_ClosedRoom(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	rm := twoUserRoom()
	closedOn := time.Now()
	rm.ClosedOn = &closedOn
	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(rm, nil).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 2})

	verr := requireValidation(t, err, room.FailureBadRequest, "closedOn")
	assert.Equal(t, "Cannot delete user from closed room.", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser_TargetNotInRoom(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 42})

	verr := requireValidation(t, err, room.FailureNotFound, "userId")
	assert.Equal(t, "User with such Id not found in the room.", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser_SelfDeletion(t *testing.T) {
	// Bob tries to remove Bob: his own code matches the target's.
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("B")).Return(twoUserRoom(), nil).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "B", TargetUserID: 2})

	verr := requireValidation(t, err, room.FailureBadRequest, "userId")
	assert.Equal(t, "User cannot delete himself from the room.", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser_SelfDeletion_EvenForAdmin(t *testing.T) {
	// The self-deletion guard precedes admin protection: the admin removing
	// themselves gets the self-deletion message, not the admin one.
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 1})

	verr := requireValidation(t, err, room.FailureBadRequest, "userId")
	assert.Equal(t, "User cannot delete himself from the room.", verr.Failures[0].Message)
}

func TestDeleteUser_AdminTarget_FiresBeforeAuthorization(t *testing.T) {
	// Bob (not authorized) targets the admin: the admin-protection guard
	// answers before the authorization check would.
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("B")).Return(twoUserRoom(), nil).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "B", TargetUserID: 1})

	verr := requireValidation(t, err, room.FailureBadRequest, "userId")
	assert.Equal(t, "Room admin cannot be deleted.", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser_NotAuthorized(t *testing.T) {
	// Bob targets Cid: target exists, is not Bob and not the admin, but Bob
	// does not hold the admin code.
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	rm := twoUserRoom()
	rm.Users = append(rm.Users, room.User{ID: 3, Name: "Cid", AuthCode: "C"})
	repo.On("GetByUserCode", ctx, room.UserCode("B")).Return(rm, nil).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "B", TargetUserID: 3})

	verr := requireValidation(t, err, room.FailureNotAuthorized, "userCode")
	assert.Equal(t, "Only room admin can delete users.", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser_Success(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	refreshed := &room.Room{
		ID:    7,
		Code:  "R1",
		Users: []room.User{{ID: 1, Name: "Ann", AuthCode: "A", IsAdmin: true}},
	}

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(rm *room.Room) bool {
		// the aggregate handed to the write already lacks the target
		if len(rm.Users) != 1 {
			return false
		}
		return rm.Users[0].ID == 1
	})).Return(nil).Once()
	// post-write re-read returns the durable state
	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(refreshed, nil).Once()

	rm, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 2})

	require.NoError(t, err)
	require.NotNil(t, rm)
	assert.Same(t, refreshed, rm, "success returns the re-read room, not the in-memory copy")
	assert.Len(t, rm.Users, 1)
	_, ok := rm.UserByID(2)
	assert.False(t, ok)

	repo.AssertExpectations(t)
}

func TestDeleteUser_RepeatAfterSuccessIsNotFound(t *testing.T) {
	// Idempotence: once removed, the same request reports the target missing.
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	afterRemoval := &room.Room{
		ID:    7,
		Code:  "R1",
		Users: []room.User{{ID: 1, Name: "Ann", AuthCode: "A", IsAdmin: true}},
	}
	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(afterRemoval, nil).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 2})

	requireValidation(t, err, room.FailureNotFound, "userId")
}

func TestDeleteUser_UpdateFailure(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*room.Room")).
		Return(errors.New("write conflict")).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 2})

	verr := requireValidation(t, err, room.FailureBadRequest, "room")
	assert.Equal(t, "write conflict", verr.Failures[0].Message)
	// no re-read after a failed write
	repo.AssertNumberOfCalls(t, "GetByUserCode", 1)
}

func TestDeleteUser_RereadFailure(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewDeleteUserUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*room.Room")).Return(nil).Once()
	repo.On("GetByUserCode", ctx, room.UserCode("A")).
		Return(nil, errors.New("connection reset")).Once()

	_, err := uc.Execute(ctx, usecase.DeleteUserInput{UserCode: "A", TargetUserID: 2})

	// The write is durable; the failed re-read still surfaces typed.
	verr := requireValidation(t, err, room.FailureBadRequest, "room")
	assert.Equal(t, "connection reset", verr.Failures[0].Message)
}
