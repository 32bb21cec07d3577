package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/skillswap/internal/repository"
)

// DBTX is the subset of pgx.Tx the stores need. Every store is bound to one
// transaction, never to the pool, so guard reads and writes share a snapshot.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements repository.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// WithTx runs fn in a READ COMMITTED transaction. Guarded rows are locked
// explicitly with SELECT ... FOR UPDATE by the LockByID methods.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback(ctx)

	if err := fn(newTxScope(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txScope struct {
	users       *UserStore
	skills      *SkillStore
	swaps       *SwapStore
	ratings     *RatingStore
	rooms       *RoomStore
	memberships *MembershipStore
	messages    *MessageStore
	broadcasts  *BroadcastStore
}

func newTxScope(db DBTX) *txScope {
	return &txScope{
		users:       NewUserStore(db),
		skills:      NewSkillStore(db),
		swaps:       NewSwapStore(db),
		ratings:     NewRatingStore(db),
		rooms:       NewRoomStore(db),
		memberships: NewMembershipStore(db),
		messages:    NewMessageStore(db),
		broadcasts:  NewBroadcastStore(db),
	}
}

func (t *txScope) Users() repository.UserRepository             { return t.users }
func (t *txScope) Skills() repository.SkillRepository           { return t.skills }
func (t *txScope) Swaps() repository.SwapRepository             { return t.swaps }
func (t *txScope) Ratings() repository.RatingRepository         { return t.ratings }
func (t *txScope) Rooms() repository.RoomRepository             { return t.rooms }
func (t *txScope) Memberships() repository.MembershipRepository { return t.memberships }
func (t *txScope) Messages() repository.MessageRepository       { return t.messages }
func (t *txScope) Broadcasts() repository.BroadcastRepository   { return t.broadcasts }

// isUniqueViolation reports whether err is Postgres error 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Compile-time proof that the stores satisfy the repository contracts.
var (
	_ repository.Store                = (*Store)(nil)
	_ repository.UserRepository       = (*UserStore)(nil)
	_ repository.SkillRepository      = (*SkillStore)(nil)
	_ repository.SwapRepository       = (*SwapStore)(nil)
	_ repository.RatingRepository     = (*RatingStore)(nil)
	_ repository.RoomRepository       = (*RoomStore)(nil)
	_ repository.MembershipRepository = (*MembershipStore)(nil)
	_ repository.MessageRepository    = (*MessageStore)(nil)
	_ repository.BroadcastRepository  = (*BroadcastStore)(nil)
)
