package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
)

type MembershipStore struct {
	db DBTX
}

func NewMembershipStore(db DBTX) *MembershipStore {
	return &MembershipStore{db: db}
}

// Add leans on the (room_id, user_id) primary key. Two concurrent joins for
// the same pair both run the INSERT; one affects a row, the other affects
// none and reports "already a member".
func (s *MembershipStore) Add(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO room_members (room_id, user_id, joined_at)
		VALUES ($1, $2, now())
		ON CONFLICT (room_id, user_id) DO NOTHING`

	tag, err := s.db.Exec(ctx, query, roomID, userID)
	if err != nil {
		return false, fmt.Errorf("add member: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *MembershipStore) Remove(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM room_members
		WHERE room_id = $1 AND user_id = $2`

	tag, err := s.db.Exec(ctx, query, roomID, userID)
	if err != nil {
		return false, fmt.Errorf("remove member: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *MembershipStore) ListMembers(ctx context.Context, roomID uuid.UUID) ([]models.RoomMember, error) {
	query := `
		SELECT room_id, user_id, joined_at
		FROM room_members
		WHERE room_id = $1
		ORDER BY joined_at`

	rows, err := s.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]models.RoomMember, 0)
	for rows.Next() {
		var m models.RoomMember
		if err := rows.Scan(&m.RoomID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

// IsMember is the hot-path check before every message post and WS subscribe.
// EXISTS stops at the first match.
func (s *MembershipStore) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM room_members
			WHERE room_id = $1 AND user_id = $2
		)`

	var exists bool
	err := s.db.QueryRow(ctx, query, roomID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}

func (s *MembershipStore) DeleteByRoom(ctx context.Context, roomID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM room_members WHERE room_id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("delete room members: %w", err)
	}
	return nil
}
