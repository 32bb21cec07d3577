package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
)

// The rules below are the whole authorization model. Each one is a plain
// predicate over rows read inside the current transaction; none of them is
// cached, so a concurrent ban or ownership change is seen by the next call.

// canDecide: only the provider may accept or reject a request.
func canDecide(sw *models.SwapRequest, actorID uuid.UUID) bool {
	return sw.ProviderID == actorID
}

// canDeleteSwap: only the requester, and only while the request is pending.
func canDeleteSwap(sw *models.SwapRequest, actorID uuid.UUID) bool {
	return sw.RequesterID == actorID && sw.Status == models.SwapPending
}

func isSwapParty(sw *models.SwapRequest, actorID uuid.UUID) bool {
	return sw.RequesterID == actorID || sw.ProviderID == actorID
}

// canRate: either party, once the swap has been accepted.
func canRate(sw *models.SwapRequest, actorID uuid.UUID) bool {
	return sw.Status == models.SwapAccepted && isSwapParty(sw, actorID)
}

// counterpart returns the party of sw that is not actorID.
func counterpart(sw *models.SwapRequest, actorID uuid.UUID) uuid.UUID {
	if sw.RequesterID == actorID {
		return sw.ProviderID
	}
	return sw.RequesterID
}

func validScore(score int) bool {
	return score >= 1 && score <= 5
}

func isRoomCreator(room *models.Room, actorID uuid.UUID) bool {
	return room.CreatorID == actorID
}

// canViewRoom: members always, everyone else only for public rooms.
func canViewRoom(room *models.Room, isMember bool) bool {
	return isMember || room.IsPublic
}

// canJoinPublic: the listing join path only opens public rooms. Private
// rooms are reachable through their code or an invite.
func canJoinPublic(room *models.Room) bool {
	return room.IsPublic
}

// canBeInvited: invitees must exist and not be banned.
func canBeInvited(u *models.User) bool {
	return u != nil && !u.IsBanned
}

func isActiveAdmin(u *models.User) bool {
	return u != nil && u.IsAdmin && !u.IsBanned
}

// canSeeProfile: public, non-banned profiles are visible to everyone;
// the owner and admins always see it.
func canSeeProfile(u *models.User, viewerID uuid.UUID, viewerIsAdmin bool) bool {
	if u.ID == viewerID || viewerIsAdmin {
		return true
	}
	return u.IsPublic && !u.IsBanned
}

// NormalizeRoomCode trims and upper-cases a code typed by a user.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
