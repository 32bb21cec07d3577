package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
)

type BroadcastStore struct {
	db DBTX
}

func NewBroadcastStore(db DBTX) *BroadcastStore {
	return &BroadcastStore{db: db}
}

func (s *BroadcastStore) Create(ctx context.Context, adminID uuid.UUID, title, body string) (*models.PlatformMessage, error) {
	query := `
		INSERT INTO platform_messages (admin_id, title, body, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, admin_id, title, body, created_at`

	var m models.PlatformMessage
	err := s.db.QueryRow(ctx, query, adminID, title, body).Scan(
		&m.ID,
		&m.AdminID,
		&m.Title,
		&m.Body,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert platform message: %w", err)
	}
	return &m, nil
}

func (s *BroadcastStore) List(ctx context.Context, limit int) ([]models.PlatformMessage, error) {
	query := `
		SELECT id, admin_id, title, body, created_at
		FROM platform_messages
		ORDER BY id DESC
		LIMIT $1`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list platform messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]models.PlatformMessage, 0)
	for rows.Next() {
		var m models.PlatformMessage
		if err := rows.Scan(&m.ID, &m.AdminID, &m.Title, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan platform message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate platform messages: %w", err)
	}
	return msgs, nil
}
