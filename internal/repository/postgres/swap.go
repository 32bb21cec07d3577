package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
)

type SwapStore struct {
	db DBTX
}

func NewSwapStore(db DBTX) *SwapStore {
	return &SwapStore{db: db}
}

const swapColumns = `id, requester_id, provider_id, offered_skill_id, wanted_skill, message, status, created_at, updated_at`

func scanSwap(row pgx.Row) (*models.SwapRequest, error) {
	var r models.SwapRequest
	err := row.Scan(
		&r.ID,
		&r.RequesterID,
		&r.ProviderID,
		&r.OfferedSkillID,
		&r.WantedSkillText,
		&r.Message,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SwapStore) Create(ctx context.Context, r *models.SwapRequest) error {
	query := `
		INSERT INTO swap_requests (requester_id, provider_id, offered_skill_id, wanted_skill, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		r.RequesterID, r.ProviderID, r.OfferedSkillID, r.WantedSkillText, r.Message, r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert swap request: %w", err)
	}
	return nil
}

func (s *SwapStore) GetByID(ctx context.Context, id int64) (*models.SwapRequest, error) {
	return s.getOne(ctx, "get swap request", `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1`, id)
}

// LockByID takes a row lock so two concurrent Decide calls serialise: the
// second one sees the status the first one committed.
func (s *SwapStore) LockByID(ctx context.Context, id int64) (*models.SwapRequest, error) {
	return s.getOne(ctx, "lock swap request", `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1 FOR UPDATE`, id)
}

func (s *SwapStore) getOne(ctx context.Context, op, query string, id int64) (*models.SwapRequest, error) {
	r, err := scanSwap(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

func (s *SwapStore) UpdateStatus(ctx context.Context, id int64, status models.SwapStatus) (*models.SwapRequest, error) {
	query := `
		UPDATE swap_requests SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + swapColumns

	r, err := scanSwap(s.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update swap status: %w", err)
	}
	return r, nil
}

func (s *SwapStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM swap_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}
	return nil
}

func (s *SwapStore) ListForUser(ctx context.Context, userID uuid.UUID, filter repository.SwapFilter) ([]models.SwapRequest, error) {
	var party string
	switch filter.Direction {
	case repository.SwapIncoming:
		party = `provider_id = $1`
	case repository.SwapOutgoing:
		party = `requester_id = $1`
	default:
		party = `(requester_id = $1 OR provider_id = $1)`
	}

	// $2 = '' disables the status filter.
	query := `
		SELECT ` + swapColumns + `
		FROM swap_requests
		WHERE ` + party + ` AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, userID, string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	swaps := make([]models.SwapRequest, 0)
	for rows.Next() {
		r, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		swaps = append(swaps, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap requests: %w", err)
	}
	return swaps, nil
}
