package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
)

// ---------------------------------------------------------------
// users
// ---------------------------------------------------------------

type userRepo struct{ t *txScope }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.t.st.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = r.t.now()
	r.t.st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.t.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.t.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.t.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) SetBanned(_ context.Context, id uuid.UUID, banned bool) error {
	if u, ok := r.t.st.users[id]; ok {
		u.IsBanned = banned
		r.t.st.users[id] = u
	}
	return nil
}

func (r userRepo) SetPublic(_ context.Context, id uuid.UUID, public bool) error {
	if u, ok := r.t.st.users[id]; ok {
		u.IsPublic = public
		r.t.st.users[id] = u
	}
	return nil
}

func (r userRepo) ListOverview(ctx context.Context) ([]models.UserOverview, error) {
	ratings := ratingRepo{r.t}
	out := make([]models.UserOverview, 0)
	for _, u := range r.t.st.users {
		if u.IsAdmin {
			continue
		}
		sum, err := ratings.SummaryFor(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.UserOverview{User: u, Rating: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].User, out[j].User
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.Username < b.Username
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

// ---------------------------------------------------------------
// skills
// ---------------------------------------------------------------

type skillRepo struct{ t *txScope }

func (r skillRepo) CreateOffered(_ context.Context, sk *models.OfferedSkill) error {
	if _, ok := r.t.st.users[sk.OwnerID]; !ok {
		return fmt.Errorf("insert offered skill: %w", ErrConstraint)
	}
	r.t.st.seqOffered++
	sk.ID = r.t.st.seqOffered
	sk.CreatedAt = r.t.now()
	r.t.st.offered[sk.ID] = *sk
	return nil
}

func (r skillRepo) CreateWanted(_ context.Context, sk *models.WantedSkill) error {
	if _, ok := r.t.st.users[sk.OwnerID]; !ok {
		return fmt.Errorf("insert wanted skill: %w", ErrConstraint)
	}
	r.t.st.seqWanted++
	sk.ID = r.t.st.seqWanted
	sk.CreatedAt = r.t.now()
	r.t.st.wanted[sk.ID] = *sk
	return nil
}

func (r skillRepo) GetOffered(_ context.Context, id int64) (*models.OfferedSkill, error) {
	sk, ok := r.t.st.offered[id]
	if !ok {
		return nil, nil
	}
	return &sk, nil
}

func (r skillRepo) ListBrowse(_ context.Context, search string) ([]models.BrowseEntry, error) {
	needle := strings.ToLower(search)
	entries := make([]models.BrowseEntry, 0)
	for _, sk := range r.t.st.offered {
		owner, ok := r.t.st.users[sk.OwnerID]
		if !ok || !owner.IsPublic || owner.IsBanned || !sk.IsApproved {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(sk.Name), needle) &&
			!strings.Contains(strings.ToLower(sk.Description), needle) {
			continue
		}
		entries = append(entries, models.BrowseEntry{
			OfferedSkill:  sk,
			OwnerName:     owner.Name,
			OwnerLocation: owner.Location,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries, nil
}

func (r skillRepo) ListOfferedByOwner(_ context.Context, ownerID uuid.UUID) ([]models.OfferedSkill, error) {
	return r.filterOffered(func(sk models.OfferedSkill) bool { return sk.OwnerID == ownerID }), nil
}

func (r skillRepo) ListUnapproved(_ context.Context) ([]models.OfferedSkill, error) {
	return r.filterOffered(func(sk models.OfferedSkill) bool { return !sk.IsApproved }), nil
}

func (r skillRepo) filterOffered(keep func(models.OfferedSkill) bool) []models.OfferedSkill {
	skills := make([]models.OfferedSkill, 0)
	for _, sk := range r.t.st.offered {
		if keep(sk) {
			skills = append(skills, sk)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID > skills[j].ID })
	return skills
}

func (r skillRepo) ListWantedByOwner(_ context.Context, ownerID uuid.UUID) ([]models.WantedSkill, error) {
	skills := make([]models.WantedSkill, 0)
	for _, sk := range r.t.st.wanted {
		if sk.OwnerID == ownerID {
			skills = append(skills, sk)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID > skills[j].ID })
	return skills, nil
}

func (r skillRepo) SetApproved(_ context.Context, id int64, approved bool) (bool, error) {
	sk, ok := r.t.st.offered[id]
	if !ok {
		return false, nil
	}
	sk.IsApproved = approved
	r.t.st.offered[id] = sk
	return true, nil
}

// DeleteOffered mirrors ON DELETE SET NULL on swap_requests.offered_skill_id.
func (r skillRepo) DeleteOffered(_ context.Context, id int64) (bool, error) {
	if _, ok := r.t.st.offered[id]; !ok {
		return false, nil
	}
	delete(r.t.st.offered, id)
	for sid, sw := range r.t.st.swaps {
		if sw.OfferedSkillID != nil && *sw.OfferedSkillID == id {
			sw.OfferedSkillID = nil
			r.t.st.swaps[sid] = sw
		}
	}
	return true, nil
}

// ---------------------------------------------------------------
// swap requests
// ---------------------------------------------------------------

type swapRepo struct{ t *txScope }

func copySwap(sw models.SwapRequest) *models.SwapRequest {
	if sw.OfferedSkillID != nil {
		id := *sw.OfferedSkillID
		sw.OfferedSkillID = &id
	}
	return &sw
}

func (r swapRepo) Create(_ context.Context, sw *models.SwapRequest) error {
	_, okReq := r.t.st.users[sw.RequesterID]
	_, okProv := r.t.st.users[sw.ProviderID]
	if !okReq || !okProv || sw.RequesterID == sw.ProviderID {
		return fmt.Errorf("insert swap request: %w", ErrConstraint)
	}
	r.t.st.seqSwap++
	sw.ID = r.t.st.seqSwap
	sw.CreatedAt = r.t.now()
	sw.UpdatedAt = sw.CreatedAt
	r.t.st.swaps[sw.ID] = *copySwap(*sw)
	return nil
}

func (r swapRepo) GetByID(_ context.Context, id int64) (*models.SwapRequest, error) {
	sw, ok := r.t.st.swaps[id]
	if !ok {
		return nil, nil
	}
	return copySwap(sw), nil
}

func (r swapRepo) LockByID(ctx context.Context, id int64) (*models.SwapRequest, error) {
	return r.GetByID(ctx, id)
}

func (r swapRepo) UpdateStatus(_ context.Context, id int64, status models.SwapStatus) (*models.SwapRequest, error) {
	sw, ok := r.t.st.swaps[id]
	if !ok {
		return nil, nil
	}
	sw.Status = status
	sw.UpdatedAt = r.t.now()
	r.t.st.swaps[id] = sw
	return copySwap(sw), nil
}

func (r swapRepo) Delete(_ context.Context, id int64) error {
	for _, rt := range r.t.st.ratings {
		if rt.SwapRequestID == id {
			return fmt.Errorf("delete swap request: %w", ErrConstraint)
		}
	}
	delete(r.t.st.swaps, id)
	return nil
}

func (r swapRepo) ListForUser(_ context.Context, userID uuid.UUID, filter repository.SwapFilter) ([]models.SwapRequest, error) {
	swaps := make([]models.SwapRequest, 0)
	for _, sw := range r.t.st.swaps {
		var party bool
		switch filter.Direction {
		case repository.SwapIncoming:
			party = sw.ProviderID == userID
		case repository.SwapOutgoing:
			party = sw.RequesterID == userID
		default:
			party = sw.ProviderID == userID || sw.RequesterID == userID
		}
		if !party || (filter.Status != "" && sw.Status != filter.Status) {
			continue
		}
		swaps = append(swaps, *copySwap(sw))
	}
	sort.Slice(swaps, func(i, j int) bool { return swaps[i].ID > swaps[j].ID })
	return swaps, nil
}

// ---------------------------------------------------------------
// ratings
// ---------------------------------------------------------------

type ratingRepo struct{ t *txScope }

func (r ratingRepo) Create(_ context.Context, rt *models.Rating) (bool, error) {
	if _, ok := r.t.st.swaps[rt.SwapRequestID]; !ok {
		return false, fmt.Errorf("insert rating: %w", ErrConstraint)
	}
	if rt.Score < 1 || rt.Score > 5 {
		return false, fmt.Errorf("insert rating: %w", ErrConstraint)
	}
	for _, existing := range r.t.st.ratings {
		if (ratingKey{existing.SwapRequestID, existing.RaterID}) == (ratingKey{rt.SwapRequestID, rt.RaterID}) {
			return false, nil
		}
	}
	r.t.st.seqRating++
	rt.ID = r.t.st.seqRating
	rt.CreatedAt = r.t.now()
	r.t.st.ratings[rt.ID] = *rt
	return true, nil
}

func (r ratingRepo) Exists(_ context.Context, swapID int64, raterID uuid.UUID) (bool, error) {
	for _, rt := range r.t.st.ratings {
		if rt.SwapRequestID == swapID && rt.RaterID == raterID {
			return true, nil
		}
	}
	return false, nil
}

func (r ratingRepo) SummaryFor(_ context.Context, userID uuid.UUID) (models.RatingSummary, error) {
	sum := models.RatingSummary{UserID: userID}
	total := 0
	for _, rt := range r.t.st.ratings {
		if rt.RatedID == userID {
			sum.Count++
			total += rt.Score
		}
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return sum, nil
}

func (r ratingRepo) ListReceived(_ context.Context, userID uuid.UUID) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0)
	for _, rt := range r.t.st.ratings {
		if rt.RatedID == userID {
			ratings = append(ratings, rt)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID > ratings[j].ID })
	return ratings, nil
}

// ---------------------------------------------------------------
// rooms, memberships, messages
// ---------------------------------------------------------------

type roomRepo struct{ t *txScope }

func (r roomRepo) Create(_ context.Context, room *models.Room) (bool, error) {
	if _, ok := r.t.st.users[room.CreatorID]; !ok {
		return false, fmt.Errorf("insert room: %w", ErrConstraint)
	}
	for _, existing := range r.t.st.rooms {
		if existing.Code == room.Code {
			return false, nil
		}
	}
	room.ID = uuid.New()
	room.CreatedAt = r.t.now()
	r.t.st.rooms[room.ID] = *room
	return true, nil
}

func (r roomRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	room, ok := r.t.st.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r roomRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return r.GetByID(ctx, id)
}

func (r roomRepo) GetByCode(_ context.Context, code string) (*models.Room, error) {
	for _, room := range r.t.st.rooms {
		if room.Code == code {
			return &room, nil
		}
	}
	return nil, nil
}

func (r roomRepo) ListPublic(_ context.Context) ([]models.Room, error) {
	rooms := make([]models.Room, 0)
	for _, room := range r.t.st.rooms {
		if room.IsPublic {
			rooms = append(rooms, room)
		}
	}
	sortRooms(rooms)
	return rooms, nil
}

// ListForMember orders by join time, newest first, like the Postgres store.
func (r roomRepo) ListForMember(_ context.Context, userID uuid.UUID) ([]models.Room, error) {
	joined := make([]models.RoomMember, 0)
	for key, m := range r.t.st.members {
		if key.userID == userID {
			joined = append(joined, m)
		}
	}
	sort.Slice(joined, func(i, j int) bool {
		a, b := joined[i], joined[j]
		if a.JoinedAt.Equal(b.JoinedAt) {
			return r.t.st.rooms[a.RoomID].Name < r.t.st.rooms[b.RoomID].Name
		}
		return a.JoinedAt.After(b.JoinedAt)
	})

	rooms := make([]models.Room, 0, len(joined))
	for _, m := range joined {
		rooms = append(rooms, r.t.st.rooms[m.RoomID])
	}
	return rooms, nil
}

func sortRooms(rooms []models.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].Name < rooms[j].Name
		}
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
}

// Delete refuses to orphan rows, like the room_members and room_messages
// foreign keys do.
func (r roomRepo) Delete(_ context.Context, id uuid.UUID) error {
	for key := range r.t.st.members {
		if key.roomID == id {
			return fmt.Errorf("delete room: %w", ErrConstraint)
		}
	}
	for _, msg := range r.t.st.messages {
		if msg.RoomID == id {
			return fmt.Errorf("delete room: %w", ErrConstraint)
		}
	}
	delete(r.t.st.rooms, id)
	return nil
}

type membershipRepo struct{ t *txScope }

func (r membershipRepo) Add(_ context.Context, roomID, userID uuid.UUID) (bool, error) {
	_, okRoom := r.t.st.rooms[roomID]
	_, okUser := r.t.st.users[userID]
	if !okRoom || !okUser {
		return false, fmt.Errorf("add member: %w", ErrConstraint)
	}
	key := memberKey{roomID, userID}
	if _, ok := r.t.st.members[key]; ok {
		return false, nil
	}
	r.t.st.members[key] = models.RoomMember{RoomID: roomID, UserID: userID, JoinedAt: r.t.now()}
	return true, nil
}

func (r membershipRepo) Remove(_ context.Context, roomID, userID uuid.UUID) (bool, error) {
	key := memberKey{roomID, userID}
	if _, ok := r.t.st.members[key]; !ok {
		return false, nil
	}
	delete(r.t.st.members, key)
	return true, nil
}

func (r membershipRepo) IsMember(_ context.Context, roomID, userID uuid.UUID) (bool, error) {
	_, ok := r.t.st.members[memberKey{roomID, userID}]
	return ok, nil
}

func (r membershipRepo) ListMembers(_ context.Context, roomID uuid.UUID) ([]models.RoomMember, error) {
	members := make([]models.RoomMember, 0)
	for key, m := range r.t.st.members {
		if key.roomID == roomID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].JoinedAt.Before(members[j].JoinedAt) })
	return members, nil
}

func (r membershipRepo) DeleteByRoom(_ context.Context, roomID uuid.UUID) error {
	for key := range r.t.st.members {
		if key.roomID == roomID {
			delete(r.t.st.members, key)
		}
	}
	return nil
}

type messageRepo struct{ t *txScope }

func (r messageRepo) Create(_ context.Context, roomID, authorID uuid.UUID, text string) (*models.RoomMessage, error) {
	_, okRoom := r.t.st.rooms[roomID]
	_, okUser := r.t.st.users[authorID]
	if !okRoom || !okUser {
		return nil, fmt.Errorf("insert message: %w", ErrConstraint)
	}
	r.t.st.seqMessage++
	msg := models.RoomMessage{
		ID:        r.t.st.seqMessage,
		RoomID:    roomID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: r.t.now(),
	}
	r.t.st.messages[msg.ID] = msg
	return &msg, nil
}

func (r messageRepo) ListByRoom(_ context.Context, roomID uuid.UUID, before int64, limit int) ([]models.RoomMessage, error) {
	msgs := make([]models.RoomMessage, 0)
	for _, msg := range r.t.st.messages {
		if msg.RoomID == roomID && (before <= 0 || msg.ID < before) {
			msgs = append(msgs, msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID > msgs[j].ID })
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (r messageRepo) DeleteByRoom(_ context.Context, roomID uuid.UUID) error {
	for id, msg := range r.t.st.messages {
		if msg.RoomID == roomID {
			delete(r.t.st.messages, id)
		}
	}
	return nil
}

// ---------------------------------------------------------------
// platform messages
// ---------------------------------------------------------------

type broadcastRepo struct{ t *txScope }

func (r broadcastRepo) Create(_ context.Context, adminID uuid.UUID, title, body string) (*models.PlatformMessage, error) {
	if _, ok := r.t.st.users[adminID]; !ok {
		return nil, fmt.Errorf("insert platform message: %w", ErrConstraint)
	}
	r.t.st.seqBroadcast++
	m := models.PlatformMessage{
		ID:        r.t.st.seqBroadcast,
		AdminID:   adminID,
		Title:     title,
		Body:      body,
		CreatedAt: r.t.now(),
	}
	r.t.st.broadcasts[m.ID] = m
	return &m, nil
}

func (r broadcastRepo) List(_ context.Context, limit int) ([]models.PlatformMessage, error) {
	msgs := make([]models.PlatformMessage, 0, len(r.t.st.broadcasts))
	for _, m := range r.t.st.broadcasts {
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID > msgs[j].ID })
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}
