package auth

import (
	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
)

// Actor is the authenticated caller of one request. It is resolved once per
// request from the token subject plus a fresh user lookup, and passed down
// explicitly; nothing about the caller is kept between requests.
type Actor struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
	IsBanned bool      `json:"is_banned"`
}

// ActorFromUser builds the request actor from a freshly loaded user row.
func ActorFromUser(u *models.User) Actor {
	return Actor{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		IsBanned: u.IsBanned,
	}
}
