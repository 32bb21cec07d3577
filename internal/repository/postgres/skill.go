package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/skillswap/internal/models"
)

type SkillStore struct {
	db DBTX
}

func NewSkillStore(db DBTX) *SkillStore {
	return &SkillStore{db: db}
}

const offeredColumns = `id, user_id, name, description, is_approved, created_at`

func (s *SkillStore) CreateOffered(ctx context.Context, sk *models.OfferedSkill) error {
	query := `
		INSERT INTO skills_offered (user_id, name, description, is_approved, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, sk.OwnerID, sk.Name, sk.Description, sk.IsApproved).
		Scan(&sk.ID, &sk.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert offered skill: %w", err)
	}
	return nil
}

func (s *SkillStore) CreateWanted(ctx context.Context, sk *models.WantedSkill) error {
	query := `
		INSERT INTO skills_wanted (user_id, name, description, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, sk.OwnerID, sk.Name, sk.Description).
		Scan(&sk.ID, &sk.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert wanted skill: %w", err)
	}
	return nil
}

func (s *SkillStore) GetOffered(ctx context.Context, id int64) (*models.OfferedSkill, error) {
	query := `SELECT ` + offeredColumns + ` FROM skills_offered WHERE id = $1`

	var sk models.OfferedSkill
	err := s.db.QueryRow(ctx, query, id).Scan(
		&sk.ID,
		&sk.OwnerID,
		&sk.Name,
		&sk.Description,
		&sk.IsApproved,
		&sk.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offered skill: %w", err)
	}
	return &sk, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *SkillStore) ListBrowse(ctx context.Context, search string) ([]models.BrowseEntry, error) {
	// An empty search matches every row: ILIKE '%%' is always true.
	// Wildcards typed by the user are escaped and match literally.
	query := `
		SELECT so.id, so.user_id, so.name, so.description, so.is_approved, so.created_at,
		       u.name, u.location
		FROM skills_offered so
		JOIN users u ON so.user_id = u.id
		WHERE u.is_public AND NOT u.is_banned AND so.is_approved
		  AND (so.name ILIKE $1 ESCAPE '\' OR so.description ILIKE $1 ESCAPE '\')
		ORDER BY so.created_at DESC, so.id DESC`

	rows, err := s.db.Query(ctx, query, "%"+likeEscaper.Replace(search)+"%")
	if err != nil {
		return nil, fmt.Errorf("browse skills: %w", err)
	}
	defer rows.Close()

	entries := make([]models.BrowseEntry, 0)
	for rows.Next() {
		var e models.BrowseEntry
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Name,
			&e.Description,
			&e.IsApproved,
			&e.CreatedAt,
			&e.OwnerName,
			&e.OwnerLocation,
		); err != nil {
			return nil, fmt.Errorf("scan browse entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate browse entries: %w", err)
	}
	return entries, nil
}

func (s *SkillStore) ListOfferedByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.OfferedSkill, error) {
	return s.listOffered(ctx, `
		SELECT `+offeredColumns+` FROM skills_offered
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, ownerID)
}

func (s *SkillStore) ListUnapproved(ctx context.Context) ([]models.OfferedSkill, error) {
	return s.listOffered(ctx, `
		SELECT `+offeredColumns+` FROM skills_offered
		WHERE NOT is_approved
		ORDER BY created_at DESC, id DESC`)
}

func (s *SkillStore) listOffered(ctx context.Context, query string, args ...any) ([]models.OfferedSkill, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offered skills: %w", err)
	}
	defer rows.Close()

	skills := make([]models.OfferedSkill, 0)
	for rows.Next() {
		var sk models.OfferedSkill
		if err := rows.Scan(
			&sk.ID,
			&sk.OwnerID,
			&sk.Name,
			&sk.Description,
			&sk.IsApproved,
			&sk.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan offered skill: %w", err)
		}
		skills = append(skills, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offered skills: %w", err)
	}
	return skills, nil
}

func (s *SkillStore) ListWantedByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.WantedSkill, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM skills_wanted
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wanted skills: %w", err)
	}
	defer rows.Close()

	skills := make([]models.WantedSkill, 0)
	for rows.Next() {
		var sk models.WantedSkill
		if err := rows.Scan(&sk.ID, &sk.OwnerID, &sk.Name, &sk.Description, &sk.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wanted skill: %w", err)
		}
		skills = append(skills, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wanted skills: %w", err)
	}
	return skills, nil
}

func (s *SkillStore) SetApproved(ctx context.Context, id int64, approved bool) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE skills_offered SET is_approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return false, fmt.Errorf("set skill approval: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteOffered removes the skill. swap_requests.offered_skill_id is
// ON DELETE SET NULL, so request history survives.
func (s *SkillStore) DeleteOffered(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM skills_offered WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete offered skill: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
