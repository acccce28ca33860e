package store

import (
	"context"
	"errors"

	"bingo-arena/internal/shared"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room id already taken")
	ErrConflict       = errors.New("room changed since read")
	ErrNoPair         = errors.New("not enough queued players")
	ErrEntryNotFound  = errors.New("queue entry not found")
	ErrTicketNotFound = errors.New("match ticket not found")
)

// WatchFunc receives the full room snapshot after every committed change.
// A nil room means the room was deleted.
type WatchFunc func(*shared.Room)

// Store is the external watchable key-value store the coordination engine
// runs against. Rooms are read with a version token and written back with
// CommitRoom, which fails with ErrConflict if anyone else committed in
// between; callers own the retry loop.
type Store interface {
	GetRoom(ctx context.Context, id string) (*shared.Room, uint64, error)
	CreateRoom(ctx context.Context, r *shared.Room) error
	CommitRoom(ctx context.Context, r *shared.Room, version uint64) error
	DeleteRoom(ctx context.Context, id string) error
	ListRooms(ctx context.Context) ([]*shared.Room, error)

	// WatchRoom registers fn for every change to the room until the returned
	// cancel func is called or ctx ends.
	WatchRoom(ctx context.Context, id string, fn WatchFunc) (func(), error)

	// Matchmaking queue. ClaimMatchPair removes the two oldest entries as one
	// atomic step so no third party can claim half of a matched pair.
	Enqueue(ctx context.Context, e *shared.QueueEntry) error
	RemoveQueueEntry(ctx context.Context, playerID string) error
	ClaimMatchPair(ctx context.Context) (*shared.QueueEntry, *shared.QueueEntry, error)

	// Match tickets notify a queued player of the room they were placed in.
	PutMatchTicket(ctx context.Context, t *shared.MatchTicket) error
	GetMatchTicket(ctx context.Context, playerID string) (*shared.MatchTicket, error)
	DeleteMatchTicket(ctx context.Context, playerID string) error
	WatchMatchTicket(ctx context.Context, playerID string, fn func(*shared.MatchTicket)) (func(), error)

	// Public listing of discoverable waiting rooms.
	PutPublicRoom(ctx context.Context, p *shared.PublicRoom) error
	RemovePublicRoom(ctx context.Context, roomID string) error
	ListPublicRooms(ctx context.Context) ([]*shared.PublicRoom, error)
}
