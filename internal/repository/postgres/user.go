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

type UserStore struct {
	db DBTX
}

func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, name, location, is_public, is_admin, is_banned, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Location,
		&u.IsPublic,
		&u.IsAdmin,
		&u.IsBanned,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row. Postgres generates the UUID and timestamp.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, name, location, is_public, is_admin, is_banned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Name, u.Location, u.IsPublic, u.IsAdmin, u.IsBanned,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserStore) LockByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, "lock user", `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// GetByUsername is what login and invites look up.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getOne(ctx, "get user by username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserStore) getOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *UserStore) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET is_banned = $2 WHERE id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	return nil
}

func (s *UserStore) SetPublic(ctx context.Context, id uuid.UUID, public bool) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET is_public = $2 WHERE id = $1`, id, public)
	if err != nil {
		return fmt.Errorf("set public: %w", err)
	}
	return nil
}

func (s *UserStore) ListOverview(ctx context.Context) ([]models.UserOverview, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.name, u.location,
		       u.is_public, u.is_admin, u.is_banned, u.created_at,
		       COALESCE(AVG(r.score), 0)::float8, COUNT(r.id)
		FROM users u
		LEFT JOIN ratings r ON r.rated_id = u.id
		WHERE NOT u.is_admin
		GROUP BY u.id
		ORDER BY u.created_at DESC, u.username`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.UserOverview, 0)
	for rows.Next() {
		var o models.UserOverview
		u := &o.User
		err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Location,
			&u.IsPublic, &u.IsAdmin, &u.IsBanned, &u.CreatedAt,
			&o.Rating.Average, &o.Rating.Count,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user overview: %w", err)
		}
		o.Rating.UserID = u.ID
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}
