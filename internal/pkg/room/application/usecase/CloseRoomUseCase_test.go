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

func TestCloseRoom_Success(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	closedAt := time.Date(2026, 12, 24, 18, 0, 0, 0, time.UTC)
	uc.Now = func() time.Time { return closedAt }
	ctx := context.Background()

	refreshed := twoUserRoom()
	refreshed.ClosedOn = &closedAt

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(rm *room.Room) bool {
		if rm.ClosedOn == nil || !rm.ClosedOn.Equal(closedAt) {
			return false
		}
		for _, u := range rm.Users {
			if u.GifteeID == nil {
				return false
			}
		}
		return true
	})).Return(nil).Once()
	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(refreshed, nil).Once()

	rm, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "A"})

	require.NoError(t, err)
	assert.Same(t, refreshed, rm)
	repo.AssertExpectations(t)
}

func TestCloseRoom_NotFound(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("missing")).
		Return(nil, repository.ErrRoomNotFound).Once()

	_, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "missing"})

	requireValidation(t, err, room.FailureNotFound, "userCode")
}

func TestCloseRoom_AlreadyClosed(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	ctx := context.Background()

	rm := twoUserRoom()
	closedOn := time.Now()
	rm.ClosedOn = &closedOn
	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(rm, nil).Once()

	_, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "A"})

	requireValidation(t, err, room.FailureBadRequest, "closedOn")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCloseRoom_NonAdminRejected(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("B")).Return(twoUserRoom(), nil).Once()

	_, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "B"})

	verr := requireValidation(t, err, room.FailureNotAuthorized, "userCode")
	assert.Equal(t, "Only room admin can close the room.", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCloseRoom_TooFewUsers(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	ctx := context.Background()

	rm := &room.Room{ID: 7, Code: "R1", Users: []room.User{
		{ID: 1, Name: "Ann", AuthCode: "A", IsAdmin: true},
	}}
	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(rm, nil).Once()

	_, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "A"})

	requireValidation(t, err, room.FailureBadRequest, "users")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCloseRoom_UpdateFailure(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*room.Room")).
		Return(errors.New("write conflict")).Once()

	_, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "A"})

	requireValidation(t, err, room.FailureBadRequest, "room")
	repo.AssertNumberOfCalls(t, "GetByUserCode", 1)
}

func TestCloseRoom_RepositoryFailureReadsAsNotFound(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).
		Return(nil, errors.New("connection reset")).Once()

	_, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "A"})

	verr := requireValidation(t, err, room.FailureNotFound, "userCode")
	assert.Equal(t, "User with such code not found", verr.Failures[0].Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCloseRoom_RereadFailure(t *testing.T) {
	repo := new(mockRoomRepository)
	uc := usecase.NewCloseRoomUseCase(repo)
	ctx := context.Background()

	repo.On("GetByUserCode", ctx, room.UserCode("A")).Return(twoUserRoom(), nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*room.Room")).Return(nil).Once()
	repo.On("GetByUserCode", ctx, room.UserCode("A")).
		Return(nil, errors.New("connection reset")).Once()

	_, err := uc.Execute(ctx, usecase.CloseRoomInput{UserCode: "A"})

	verr := requireValidation(t, err, room.FailureBadRequest, "room")
	assert.Equal(t, "connection reset", verr.Failures[0].Message)
}
