package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered member of the platform.
//
// Users are never hard-deleted. Moderation flips IsBanned instead, and the
// browse/invite rules read that flag on every call.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Location     string    `json:"location,omitempty"`
	IsPublic     bool      `json:"is_public"`
	IsAdmin      bool      `json:"is_admin"`
	IsBanned     bool      `json:"is_banned"`
	CreatedAt    time.Time `json:"created_at"`
}

// OfferedSkill is something a user can teach.
//
// It shows up in browse results only when the owner is public, the owner is
// not banned, and IsApproved is set.
type OfferedSkill struct {
	ID          int64     `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsApproved  bool      `json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// WantedSkill is something a user would like to learn. No approval gate.
type WantedSkill struct {
	ID          int64     `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BrowseEntry is an offered skill joined with the public parts of its owner.
type BrowseEntry struct {
	OfferedSkill
	OwnerName     string `json:"owner_name"`
	OwnerLocation string `json:"owner_location,omitempty"`
}

// SwapStatus is the lifecycle state of a swap request.
type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapAccepted SwapStatus = "accepted"
	SwapRejected SwapStatus = "rejected"
)

// Terminal reports whether no further status transition is allowed.
func (s SwapStatus) Terminal() bool {
	return s == SwapAccepted || s == SwapRejected
}

// SwapRequest asks the provider to trade the offered skill for something the
// requester describes in WantedSkillText.
//
// OfferedSkillID is nil once moderation has removed the skill; the request
// itself is kept so ratings stay attached to it.
type SwapRequest struct {
	ID              int64      `json:"id"`
	RequesterID     uuid.UUID  `json:"requester_id"`
	ProviderID      uuid.UUID  `json:"provider_id"`
	OfferedSkillID  *int64     `json:"offered_skill_id"`
	WantedSkillText string     `json:"wanted_skill"`
	Message         string     `json:"message"`
	Status          SwapStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Rating is one party's score of the other after an accepted swap.
// At most one row exists per (SwapRequestID, RaterID).
type Rating struct {
	ID            int64     `json:"id"`
	SwapRequestID int64     `json:"swap_request_id"`
	RaterID       uuid.UUID `json:"rater_id"`
	RatedID       uuid.UUID `json:"rated_id"`
	Score         int       `json:"score"`
	Feedback      string    `json:"feedback"`
	CreatedAt     time.Time `json:"created_at"`
}

// RatingSummary aggregates the ratings a user has received.
type RatingSummary struct {
	UserID  uuid.UUID `json:"user_id"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}

// UserOverview is one row of the admin user listing.
type UserOverview struct {
	User   User          `json:"user"`
	Rating RatingSummary `json:"rating"`
}

// Room is a group chat space. Public rooms can be joined from the listing;
// private rooms only through their code or a creator invite.
type Room struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   uuid.UUID `json:"creator_id"`
	IsPublic    bool      `json:"is_public"`
	Code        string    `json:"room_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomMember is the join row between rooms and users. The creator always has one.
type RoomMember struct {
	RoomID   uuid.UUID `json:"room_id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomMessage is a chat line in a room. Immutable once stored.
//
// IDs are bigserial so a higher ID is always a newer message, which the
// before/limit pagination relies on.
type RoomMessage struct {
	ID        int64     `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PlatformMessage is an announcement an admin sends to everyone.
type PlatformMessage struct {
	ID        int64     `json:"id"`
	AdminID   uuid.UUID `json:"admin_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AccessRevocation tells realtime subscribers that someone can no longer
// watch a room. A nil RoomID covers every room, a nil UserID every user.
type AccessRevocation struct {
	RoomID uuid.UUID `json:"room_id"`
	UserID uuid.UUID `json:"user_id"`
}
