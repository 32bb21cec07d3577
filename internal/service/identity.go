package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/auth"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Registration is the input of IdentityService.Register.
type Registration struct {
	Username string
	Email    string
	Password string
	Name     string
	Location string
	IsPublic bool
}

// Profile is a user as another user sees it.
type Profile struct {
	User    models.User           `json:"user"`
	Rating  models.RatingSummary  `json:"rating"`
	Offered []models.OfferedSkill `json:"skills_offered"`
	Wanted  []models.WantedSkill  `json:"skills_wanted"`
}

type IdentityService struct {
	store    repository.Store
	logger   *zap.Logger
	hashCost int
}

func NewIdentityService(store repository.Store, logger *zap.Logger) *IdentityService {
	return &IdentityService{store: store, logger: logger, hashCost: bcrypt.DefaultCost}
}

// Register creates a user with a bcrypt password hash.
func (s *IdentityService) Register(ctx context.Context, in Registration) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, apperr.ErrInvalidRegistration
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.InvalidArg("password must be at least 8 characters")
	}

	return s.createUser(ctx, in, false)
}

func (s *IdentityService) createUser(ctx context.Context, in Registration, admin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "hash password", err)
	}

	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Location:     strings.TrimSpace(in.Location),
		IsPublic:     in.IsPublic,
		IsAdmin:      admin,
	}
	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.Users().Create(ctx, u)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("username", u.Username),
		zap.Bool("admin", admin),
	)
	return u, nil
}

// Authenticate checks a username and password. Banned accounts are refused
// even with the right password.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var u *models.User
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		u, err = tx.Users().GetByUsername(ctx, strings.TrimSpace(username))
		return err
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if u.IsBanned {
		s.logger.Warn("banned user tried to log in", zap.String("user_id", u.ID.String()))
		return nil, apperr.ErrAccountBanned
	}
	return u, nil
}

// ResolveActor loads the current state of the user a token was issued to.
// A token for a user that no longer exists is treated as invalid.
func (s *IdentityService) ResolveActor(ctx context.Context, userID uuid.UUID) (auth.Actor, error) {
	var u *models.User
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		u, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return auth.Actor{}, err
	}
	if u == nil {
		return auth.Actor{}, apperr.Unauthorized("unknown user")
	}
	return auth.ActorFromUser(u), nil
}

// GetProfile returns a user's profile with skills and rating summary.
// Private or banned profiles look missing to everyone but the owner and
// admins.
func (s *IdentityService) GetProfile(ctx context.Context, viewer auth.Actor, userID uuid.UUID) (*Profile, error) {
	var p *Profile
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil || !canSeeProfile(u, viewer.UserID, viewer.IsAdmin) {
			return apperr.ErrProfilePrivate
		}

		sum, err := tx.Ratings().SummaryFor(ctx, userID)
		if err != nil {
			return err
		}
		offered, err := tx.Skills().ListOfferedByOwner(ctx, userID)
		if err != nil {
			return err
		}
		wanted, err := tx.Skills().ListWantedByOwner(ctx, userID)
		if err != nil {
			return err
		}
		p = &Profile{User: *u, Rating: sum, Offered: offered, Wanted: wanted}
		return nil
	})
	return p, err
}

// SetVisibility switches the actor's profile between public and private.
// Private profiles drop out of skill browsing.
func (s *IdentityService) SetVisibility(ctx context.Context, actorID uuid.UUID, public bool) error {
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		u, err := tx.Users().LockByID(ctx, actorID)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.ErrUserNotFound
		}
		return tx.Users().SetPublic(ctx, actorID, public)
	})
	if err != nil {
		return err
	}
	s.logger.Info("profile visibility changed", zap.String("user_id", actorID.String()), zap.Bool("public", public))
	return nil
}

// EnsureAdmin creates the bootstrap admin account on first start. An
// existing user with the same username is left alone.
func (s *IdentityService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		s.logger.Warn("admin bootstrap skipped, ADMIN_USERNAME or ADMIN_PASSWORD is empty")
		return nil
	}

	var existing *models.User
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		existing, err = tx.Users().GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin {
			s.logger.Warn("admin username belongs to a regular user", zap.String("username", username))
		}
		return nil
	}

	_, err = s.createUser(ctx, Registration{
		Username: username,
		Email:    strings.ToLower(email),
		Password: password,
		Name:     "Administrator",
		IsPublic: false,
	}, true)
	if errors.Is(err, apperr.ErrUsernameTaken) {
		// Another instance won the race.
		return nil
	}
	return err
}
