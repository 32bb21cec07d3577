package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
)

// Every method takes context.Context first: anything touching the store can
// be cancelled with the request that started it.
//
// Lookups return nil, nil when the row does not exist. Callers decide what
// "missing" means for their operation (NotFound, InvalidTarget, silent no-op).

// ErrDuplicate is returned when an insert hits a unique constraint that the
// caller is expected to handle (username/email taken).
var ErrDuplicate = errors.New("duplicate key")

// Store runs units of work. All guard reads and writes of one operation go
// through a single WithTx call so they commit or roll back together.
type Store interface {
	// WithTx runs fn inside one transaction. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Users() UserRepository
	Skills() SkillRepository
	Swaps() SwapRepository
	Ratings() RatingRepository
	Rooms() RoomRepository
	Memberships() MembershipRepository
	Messages() MessageRepository
	Broadcasts() BroadcastRepository
}

// UserRepository handles user identity rows.
type UserRepository interface {
	// Create inserts the user and fills ID and CreatedAt.
	// Returns ErrDuplicate if the username or email is taken.
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// LockByID is GetByID plus a row lock held until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
	SetPublic(ctx context.Context, id uuid.UUID, public bool) error
	// ListOverview returns every non-admin user with their rating summary,
	// newest first. Private and banned users are included.
	ListOverview(ctx context.Context) ([]models.UserOverview, error)
}

// SkillRepository handles offered and wanted skill listings.
type SkillRepository interface {
	CreateOffered(ctx context.Context, s *models.OfferedSkill) error
	CreateWanted(ctx context.Context, s *models.WantedSkill) error
	GetOffered(ctx context.Context, id int64) (*models.OfferedSkill, error)

	// ListBrowse returns approved skills of public, non-banned owners,
	// newest first. A non-empty search matches name or description,
	// case-insensitively.
	ListBrowse(ctx context.Context, search string) ([]models.BrowseEntry, error)
	ListOfferedByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.OfferedSkill, error)
	ListWantedByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.WantedSkill, error)
	ListUnapproved(ctx context.Context) ([]models.OfferedSkill, error)

	// SetApproved and DeleteOffered report whether the skill existed.
	SetApproved(ctx context.Context, id int64, approved bool) (bool, error)
	DeleteOffered(ctx context.Context, id int64) (bool, error)
}

// SwapDirection selects which side of a swap request a listing is for.
type SwapDirection string

const (
	SwapIncoming SwapDirection = "incoming"
	SwapOutgoing SwapDirection = "outgoing"
	SwapAll      SwapDirection = "all"
)

// SwapFilter narrows ListForUser. An empty Status matches every status.
type SwapFilter struct {
	Direction SwapDirection
	Status    models.SwapStatus
}

// SwapRepository handles swap request rows.
type SwapRepository interface {
	// Create inserts a request and fills ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, r *models.SwapRequest) error
	GetByID(ctx context.Context, id int64) (*models.SwapRequest, error)
	LockByID(ctx context.Context, id int64) (*models.SwapRequest, error)
	// UpdateStatus sets the status and refreshes updated_at.
	UpdateStatus(ctx context.Context, id int64, status models.SwapStatus) (*models.SwapRequest, error)
	Delete(ctx context.Context, id int64) error
	ListForUser(ctx context.Context, userID uuid.UUID, filter SwapFilter) ([]models.SwapRequest, error)
}

// RatingRepository is the rating ledger.
type RatingRepository interface {
	// Create inserts the rating unless one already exists for
	// (SwapRequestID, RaterID). Returns false in that case.
	Create(ctx context.Context, r *models.Rating) (bool, error)
	Exists(ctx context.Context, swapID int64, raterID uuid.UUID) (bool, error)
	SummaryFor(ctx context.Context, userID uuid.UUID) (models.RatingSummary, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Rating, error)
}

// RoomRepository handles room rows.
type RoomRepository interface {
	// Create inserts the room and fills ID and CreatedAt. Returns false,
	// without touching the transaction state, if the code is already used.
	Create(ctx context.Context, r *models.Room) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	// GetByCode expects an already normalised code.
	GetByCode(ctx context.Context, code string) (*models.Room, error)
	ListPublic(ctx context.Context) ([]models.Room, error)
	ListForMember(ctx context.Context, userID uuid.UUID) ([]models.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipRepository handles who belongs to which room.
type MembershipRepository interface {
	// Add reports false if the membership already existed.
	Add(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	// Remove reports false if there was nothing to remove.
	Remove(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, roomID uuid.UUID) ([]models.RoomMember, error)
	DeleteByRoom(ctx context.Context, roomID uuid.UUID) error
}

// MessageRepository handles room chat messages.
type MessageRepository interface {
	Create(ctx context.Context, roomID, authorID uuid.UUID, text string) (*models.RoomMessage, error)
	// ListByRoom returns messages newest first. before=0 starts from the latest.
	ListByRoom(ctx context.Context, roomID uuid.UUID, before int64, limit int) ([]models.RoomMessage, error)
	DeleteByRoom(ctx context.Context, roomID uuid.UUID) error
}

// BroadcastRepository handles platform-wide admin messages.
type BroadcastRepository interface {
	Create(ctx context.Context, adminID uuid.UUID, title, body string) (*models.PlatformMessage, error)
	List(ctx context.Context, limit int) ([]models.PlatformMessage, error)
}
