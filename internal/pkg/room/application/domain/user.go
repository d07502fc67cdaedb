package room

// UserCode is a participant's private authorization code. It proves identity
// for every operation on the room and is also the key callers use to look up
// their own room. Never exposed to other participants through logs.
type UserCode string

// InviteCode is the room's shareable join code. It carries no authority beyond
// letting a new participant enter an open room.
type InviteCode string

// User is a room participant record, not an account. Exactly one user per
// room has IsAdmin set; that flag is assigned at room creation and never moves.
type User struct {
	ID       int64    `db:"id"`
	Name     string   `db:"name"`
	Wish     string   `db:"wish"`
	AuthCode UserCode `db:"auth_code"`
	IsAdmin  bool     `db:"is_admin"`
	GifteeID *int64   `db:"giftee_id"` // filled by the close draw
}
