package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
)

type MessageStore struct {
	db DBTX
}

func NewMessageStore(db DBTX) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Create(ctx context.Context, roomID, authorID uuid.UUID, text string) (*models.RoomMessage, error) {
	// bigserial ID, so Postgres generates it and RETURNING hands it back.
	query := `
		INSERT INTO room_messages (room_id, author_id, body, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, room_id, author_id, body, created_at`

	var msg models.RoomMessage
	err := s.db.QueryRow(ctx, query, roomID, authorID, text).Scan(
		&msg.ID,
		&msg.RoomID,
		&msg.AuthorID,
		&msg.Text,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// ListByRoom pages backwards through a room:
// before=0 returns the newest messages, before=42 those older than ID 42.
func (s *MessageStore) ListByRoom(ctx context.Context, roomID uuid.UUID, before int64, limit int) ([]models.RoomMessage, error) {
	var query string
	var args []any

	if before > 0 {
		query = `
			SELECT id, room_id, author_id, body, created_at
			FROM room_messages
			WHERE room_id = $1 AND id < $2
			ORDER BY id DESC
			LIMIT $3`
		args = []any{roomID, before, limit}
	} else {
		query = `
			SELECT id, room_id, author_id, body, created_at
			FROM room_messages
			WHERE room_id = $1
			ORDER BY id DESC
			LIMIT $2`
		args = []any{roomID, limit}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.RoomMessage, 0)
	for rows.Next() {
		var msg models.RoomMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.RoomID,
			&msg.AuthorID,
			&msg.Text,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (s *MessageStore) DeleteByRoom(ctx context.Context, roomID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM room_messages WHERE room_id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("delete room messages: %w", err)
	}
	return nil
}
