package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	room "giftroom/internal/pkg/room/application/domain"
)

// mockRoomRepository is a testify mock of the repository port shared by the
// use case tests in this package.
type mockRoomRepository struct {
	mock.Mock
}

func (m *mockRoomRepository) GetByUserCode(ctx context.Context, code room.UserCode) (*room.Room, error) {
	args := m.Called(ctx, code)
	var rm *room.Room
	if v := args.Get(0); v != nil {
		rm = v.(*room.Room)
	}
	return rm, args.Error(1)
}

func (m *mockRoomRepository) GetByInviteCode(ctx context.Context, code room.InviteCode) (*room.Room, error) {
	args := m.Called(ctx, code)
	var rm *room.Room
	if v := args.Get(0); v != nil {
		rm = v.(*room.Room)
	}
	return rm, args.Error(1)
}

func (m *mockRoomRepository) Create(ctx context.Context, rm *room.Room) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func (m *mockRoomRepository) Update(ctx context.Context, rm *room.Room) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}
