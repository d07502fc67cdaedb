package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	room "giftroom/internal/pkg/room/application/domain"
	repository "giftroom/internal/pkg/room/persistence/repository/port"
)

// PgRoomRepository persists room aggregates in Postgres via pgx.
// The aggregate spans two tables: gift.room and gift.room_user. Update
// rewrites the membership inside one transaction so concurrent requests
// always observe a consistent aggregate.
type PgRoomRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoomRepository(pool *pgxpool.Pool) *PgRoomRepository {
	return &PgRoomRepository{pool: pool}
}

// Ensure interface compliance at compile time
var _ repository.RoomRepository = (*PgRoomRepository)(nil)

func (r *PgRoomRepository) GetByUserCode(ctx context.Context, code room.UserCode) (*room.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRoomRepository: nil pool")
	}
	var rm room.Room
	err := r.pool.QueryRow(ctx, `
		SELECT rm.id, rm.code, rm.closed_on
		FROM gift.room rm
		JOIN gift.room_user ru ON ru.room_id = rm.id
		WHERE ru.auth_code = $1
	`, string(code)).Scan(&rm.ID, &rm.Code, &rm.ClosedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, err
	}
	if err := r.loadUsers(ctx, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *PgRoomRepository) GetByInviteCode(ctx context.Context, code room.InviteCode) (*room.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRoomRepository: nil pool")
	}
	var rm room.Room
	err := r.pool.QueryRow(ctx,
		"SELECT id, code, closed_on FROM gift.room WHERE code = $1",
		string(code),
	).Scan(&rm.ID, &rm.Code, &rm.ClosedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, err
	}
	if err := r.loadUsers(ctx, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *PgRoomRepository) Create(ctx context.Context, rm *room.Room) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		"INSERT INTO gift.room (code, closed_on) VALUES ($1, $2) RETURNING id",
		string(rm.Code), rm.ClosedOn,
	).Scan(&rm.ID)
	if err != nil {
		return err
	}

	for i := range rm.Users {
		if err := insertUser(ctx, tx, rm.ID, &rm.Users[i]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PgRoomRepository) Update(ctx context.Context, rm *room.Room) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		"UPDATE gift.room SET closed_on = $2 WHERE id = $1",
		rm.ID, rm.ClosedOn,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrRoomNotFound
	}

	// Drop members removed from the aggregate, then upsert the rest.
	keep := make([]int64, 0, len(rm.Users))
	for i := range rm.Users {
		if rm.Users[i].ID != 0 {
			keep = append(keep, rm.Users[i].ID)
		}
	}
	if _, err := tx.Exec(ctx,
		"DELETE FROM gift.room_user WHERE room_id = $1 AND id <> ALL($2)",
		rm.ID, keep,
	); err != nil {
		return err
	}

	for i := range rm.Users {
		u := &rm.Users[i]
		if u.ID == 0 {
			if err := insertUser(ctx, tx, rm.ID, u); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE gift.room_user
			SET name = $3, wish = $4, auth_code = $5, is_admin = $6, giftee_id = $7
			WHERE room_id = $1 AND id = $2
		`, rm.ID, u.ID, u.Name, u.Wish, string(u.AuthCode), u.IsAdmin, u.GifteeID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertUser(ctx context.Context, tx pgx.Tx, roomID int64, u *room.User) error {
	return tx.QueryRow(ctx, `
		INSERT INTO gift.room_user (room_id, name, wish, auth_code, is_admin, giftee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, roomID, u.Name, u.Wish, string(u.AuthCode), u.IsAdmin, u.GifteeID).Scan(&u.ID)
}

func (r *PgRoomRepository) loadUsers(ctx context.Context, rm *room.Room) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, wish, auth_code, is_admin, giftee_id
		FROM gift.room_user
		WHERE room_id = $1
		ORDER BY id
	`, rm.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u room.User
		var authCode string
		if err := rows.Scan(&u.ID, &u.Name, &u.Wish, &authCode, &u.IsAdmin, &u.GifteeID); err != nil {
			return err
		}
		u.AuthCode = room.UserCode(authCode)
		rm.Users = append(rm.Users, u)
	}
	return rows.Err()
}
