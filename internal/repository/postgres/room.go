package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/skillswap/internal/models"
)

type RoomStore struct {
	db DBTX
}

func NewRoomStore(db DBTX) *RoomStore {
	return &RoomStore{db: db}
}

const roomColumns = `id, name, description, creator_id, is_public, room_code, created_at`

func scanRoom(row pgx.Row) (*models.Room, error) {
	var r models.Room
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Description,
		&r.CreatorID,
		&r.IsPublic,
		&r.Code,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts the room. A code collision is reported as false instead of
// a unique-violation error, which would abort the surrounding transaction.
func (s *RoomStore) Create(ctx context.Context, r *models.Room) (bool, error) {
	query := `
		INSERT INTO rooms (id, name, description, creator_id, is_public, room_code, created_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5, now())
		ON CONFLICT (room_code) DO NOTHING
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, r.Name, r.Description, r.CreatorID, r.IsPublic, r.Code).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert room: %w", err)
	}
	return true, nil
}

func (s *RoomStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return s.getOne(ctx, "get room", `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
}

// LockByID is used by Delete and Leave so a room cannot disappear between
// the guard check and the write.
func (s *RoomStore) LockByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return s.getOne(ctx, "lock room", `SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, id)
}

func (s *RoomStore) GetByCode(ctx context.Context, code string) (*models.Room, error) {
	return s.getOne(ctx, "get room by code", `SELECT `+roomColumns+` FROM rooms WHERE room_code = $1`, code)
}

func (s *RoomStore) getOne(ctx context.Context, op, query string, arg any) (*models.Room, error) {
	r, err := scanRoom(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

func (s *RoomStore) ListPublic(ctx context.Context) ([]models.Room, error) {
	return s.list(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE is_public
		ORDER BY created_at DESC`)
}

func (s *RoomStore) ListForMember(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	return s.list(ctx, `
		SELECT r.id, r.name, r.description, r.creator_id, r.is_public, r.room_code, r.created_at
		FROM rooms r
		JOIN room_members m ON m.room_id = r.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at DESC, r.name`, userID)
}

func (s *RoomStore) list(ctx context.Context, query string, args ...any) ([]models.Room, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]models.Room, 0)
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return rooms, nil
}

// Delete removes only the room row. Callers delete messages and memberships
// first in the same transaction; the foreign keys reject anything else.
func (s *RoomStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
