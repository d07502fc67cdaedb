package room

import (
	"errors"
	"math/rand"
	"time"
)

// Domain-level errors for room behaviors
var (
	ErrUserNotInRoom = errors.New("room: user with such id is not a member")
	ErrRoomClosed    = errors.New("room: room is closed")
	ErrAlreadyClosed = errors.New("room: room is already closed")
	ErrTooFewUsers   = errors.New("room: at least two participants are required to close")
	ErrNoAdmin       = errors.New("room: room has no admin")
)

// Room is the aggregate for one gift-exchange group.
//
// Notes:
//   - The aggregate is in-memory only; the application layer hydrates it via
//     the repository before invoking its behaviors and persists it afterwards.
//   - Membership mutations are pure state transitions here. Nothing is durable
//     until the caller writes the aggregate back through the repository.
//   - Once ClosedOn is set, no membership mutation is permitted.
type Room struct {
	ID       int64      `db:"id"`
	Code     InviteCode `db:"code"`
	ClosedOn *time.Time `db:"closed_on"`
	Users    []User
}

// IsClosed reports whether the exchange has been closed and drawn.
func (r *Room) IsClosed() bool {
	return r != nil && r.ClosedOn != nil
}

// UserByID returns the member with the given id, if present.
func (r *Room) UserByID(id int64) (*User, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Users {
		if r.Users[i].ID == id {
			return &r.Users[i], true
		}
	}
	return nil, false
}

// UserByCode returns the member holding the given authorization code.
func (r *Room) UserByCode(code UserCode) (*User, bool) {
	if r == nil || code == "" {
		return nil, false
	}
	for i := range r.Users {
		if r.Users[i].AuthCode == code {
			return &r.Users[i], true
		}
	}
	return nil, false
}

// Admin returns the designated admin member.
func (r *Room) Admin() (*User, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Users {
		if r.Users[i].IsAdmin {
			return &r.Users[i], true
		}
	}
	return nil, false
}

// DeleteUser removes the member with the given id from the membership set.
//
// Authorization is the caller's concern (see the delete-user use case); this
// method only guards structural consistency: the member must exist. On success
// the membership shrinks by exactly one element and no other attribute changes.
func (r *Room) DeleteUser(id int64) error {
	if r == nil {
		return ErrUserNotInRoom
	}
	for i := range r.Users {
		if r.Users[i].ID == id {
			r.Users = append(r.Users[:i], r.Users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotInRoom
}

// AddUser appends a new member. Rejected once the room is closed.
func (r *Room) AddUser(u User) error {
	if r.IsClosed() {
		return ErrRoomClosed
	}
	r.Users = append(r.Users, u)
	return nil
}

// Close marks the exchange closed as of now and draws giftee assignments.
//
// The draw places all members on a single shuffled cycle, so every member
// gifts exactly one other member and nobody drafts themselves. Requires at
// least two members. Calling Close on a closed room is an error.
func (r *Room) Close(now time.Time) error {
	if r.IsClosed() {
		return ErrAlreadyClosed
	}
	if len(r.Users) < 2 {
		return ErrTooFewUsers
	}

	order := rand.Perm(len(r.Users))
	for i := range order {
		giver := order[i]
		receiver := order[(i+1)%len(order)]
		gifteeID := r.Users[receiver].ID
		r.Users[giver].GifteeID = &gifteeID
	}

	closedOn := now.UTC()
	r.ClosedOn = &closedOn
	return nil
}
