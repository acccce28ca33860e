// Package session gives each connected client an explicit handle that owns
// its store subscription, so teardown always unsubscribes instead of leaking
// listeners in some ambient registry.
package session

import (
	"context"
	"sync"

	"bingo-arena/internal/shared"
	"bingo-arena/internal/store"
)

type Session struct {
	RoomID   string
	PlayerID string

	store store.Store

	mu      sync.Mutex
	cancels []func()
	closed  bool
}

func New(s store.Store, roomID, playerID string) *Session {
	return &Session{RoomID: roomID, PlayerID: playerID, store: s}
}

// Watch subscribes fn to room snapshots for the life of the session.
// fn receives nil when the room is deleted.
func (s *Session) Watch(ctx context.Context, fn func(*shared.Room)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return context.Canceled
	}
	s.mu.Unlock()

	cancel, err := s.store.WatchRoom(ctx, s.RoomID, fn)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		cancel()
		return context.Canceled
	}
	s.cancels = append(s.cancels, cancel)
	return nil
}

// Snapshot fetches the current room state once.
func (s *Session) Snapshot(ctx context.Context) (*shared.Room, error) {
	r, _, err := s.store.GetRoom(ctx, s.RoomID)
	return r, err
}

// Close tears down every subscription the session owns. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.closed = true
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
