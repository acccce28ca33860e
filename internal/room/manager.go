package room

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"bingo-arena/internal/config"
	"bingo-arena/internal/game"
	"bingo-arena/internal/shared"
	"bingo-arena/internal/store"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Manager owns room lifecycle and turn application against the shared store.
// Every mutation is a read-validate-commit cycle conditioned on the room not
// having changed since the read; conflicting commits are retried a bounded
// number of times and then surfaced as ErrTxnConflict.
type Manager struct {
	store store.Store
	cfg   config.Config

	mu       sync.Mutex
	cleanups map[string]*time.Timer
}

func NewManager(s store.Store, cfg config.Config) *Manager {
	return &Manager{
		store:    s,
		cfg:      cfg,
		cleanups: map[string]*time.Timer{},
	}
}

func (m *Manager) Store() store.Store { return m.store }

// update runs one bounded read-validate-commit cycle for a room. mutate sees
// a private snapshot; returning an error aborts without writing anything.
func (m *Manager) update(ctx context.Context, roomID string, mutate func(*shared.Room) error) (*shared.Room, error) {
	for attempt := 0; attempt < m.cfg.TxnAttempts; attempt++ {
		r, version, err := m.store.GetRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, store.ErrRoomNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		if err := mutate(r); err != nil {
			return nil, err
		}
		err = m.store.CommitRoom(ctx, r, version)
		if err == nil {
			return r, nil
		}
		if errors.Is(err, store.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		log.WithFields(log.Fields{"room": roomID, "attempt": attempt + 1}).
			Debug("commit conflicted, retrying")
	}
	return nil, ErrTxnConflict
}

// CreateRoom creates a waiting room with the host as its only player and the
// turn already assigned to the host. Room codes are retried on collision.
func (m *Manager) CreateRoom(ctx context.Context, hostName string, maxPlayers int) (*shared.Room, error) {
	return m.CreateRoomWithHost(ctx, uuid.NewString(), hostName, maxPlayers)
}

// CreateRoomWithHost is CreateRoom with a caller-chosen host id. Matchmaking
// uses it so a queued player keeps the same id inside the room.
func (m *Manager) CreateRoomWithHost(ctx context.Context, hostID, hostName string, maxPlayers int) (*shared.Room, error) {
	if maxPlayers < 2 {
		maxPlayers = 2
	}
	now := time.Now().UnixMilli()

	for attempt := 0; attempt < m.cfg.TxnAttempts; attempt++ {
		r := &shared.Room{
			ID:         randCode(6),
			HostID:     hostID,
			MaxPlayers: maxPlayers,
			Status:     shared.StatusWaiting,
			CreatedAt:  now,
			Players: map[string]*shared.Player{
				hostID: {
					ID:          hostID,
					Name:        hostName,
					IsHost:      true,
					JoinedAt:    now,
					Board:       game.NewBoard(),
					MarkedCells: []int{},
				},
			},
			GameState: shared.GameState{
				CurrentTurn:   hostID,
				CalledNumbers: []int{},
			},
		}
		err := m.store.CreateRoom(ctx, r)
		if errors.Is(err, store.ErrRoomExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"room": r.ID, "host": hostID}).Info("room created")
		return r, nil
	}
	return nil, ErrTxnConflict
}

// CreateMatchRoom creates a two-player room already in play for a matched
// queue pair. The earlier enqueuer hosts and holds the first turn.
func (m *Manager) CreateMatchRoom(ctx context.Context, host, guest *shared.QueueEntry) (*shared.Room, error) {
	now := time.Now().UnixMilli()

	for attempt := 0; attempt < m.cfg.TxnAttempts; attempt++ {
		r := &shared.Room{
			ID:         randCode(6),
			HostID:     host.ID,
			MaxPlayers: 2,
			Status:     shared.StatusPlaying,
			CreatedAt:  now,
			Players: map[string]*shared.Player{
				host.ID: {
					ID:          host.ID,
					Name:        host.Name,
					IsHost:      true,
					JoinedAt:    now,
					Board:       game.NewBoard(),
					MarkedCells: []int{},
				},
				guest.ID: {
					ID:          guest.ID,
					Name:        guest.Name,
					JoinedAt:    now + 1,
					Board:       game.NewBoard(),
					MarkedCells: []int{},
				},
			},
			GameState: shared.GameState{
				CurrentTurn:   host.ID,
				CalledNumbers: []int{},
				GameStarted:   true,
			},
		}
		err := m.store.CreateRoom(ctx, r)
		if errors.Is(err, store.ErrRoomExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"room": r.ID, "host": host.ID, "guest": guest.ID}).
			Info("match room created")
		return r, nil
	}
	return nil, ErrTxnConflict
}

// JoinRoom adds a new player with a fresh board to a waiting room.
func (m *Manager) JoinRoom(ctx context.Context, roomID, playerName string) (*shared.Room, string, error) {
	playerID := uuid.NewString()
	r, err := m.update(ctx, roomID, func(r *shared.Room) error {
		if len(r.Players) >= r.MaxPlayers {
			return ErrRoomFull
		}
		if r.Status != shared.StatusWaiting {
			return ErrGameInProgress
		}
		r.Players[playerID] = &shared.Player{
			ID:          playerID,
			Name:        playerName,
			JoinedAt:    time.Now().UnixMilli(),
			Board:       game.NewBoard(),
			MarkedCells: []int{},
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	log.WithFields(log.Fields{"room": roomID, "player": playerID}).Info("player joined")
	m.refreshPublicListing(ctx, r)
	return r, playerID, nil
}

// StartGame flips a waiting room to playing. Host only. The turn goes to the
// first player in join order.
func (m *Manager) StartGame(ctx context.Context, roomID, callerID string) (*shared.Room, error) {
	r, err := m.update(ctx, roomID, func(r *shared.Room) error {
		caller, ok := r.Players[callerID]
		if !ok {
			return ErrPlayerNotFound
		}
		if !caller.IsHost {
			return ErrNotHost
		}
		order := r.PlayerOrder()
		r.Status = shared.StatusPlaying
		r.GameState.GameStarted = true
		r.GameState.CurrentTurn = order[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithField("room", roomID).Info("game started")
	// a started room is no longer joinable, stop advertising it
	if err := m.store.RemovePublicRoom(ctx, roomID); err != nil {
		log.WithError(err).WithField("room", roomID).Warn("remove public listing")
	}
	return r, nil
}

// LeaveRoom removes the player; the last player leaving deletes the room.
// If the departing player held the turn it is intentionally not reassigned;
// clients handle a stalled turn the same way they always have.
func (m *Manager) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	for attempt := 0; attempt < m.cfg.TxnAttempts; attempt++ {
		r, version, err := m.store.GetRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, store.ErrRoomNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if _, ok := r.Players[playerID]; !ok {
			return ErrPlayerNotFound
		}
		delete(r.Players, playerID)

		if len(r.Players) == 0 {
			if err := m.removeRoom(ctx, roomID); err != nil && !errors.Is(err, store.ErrRoomNotFound) {
				return err
			}
			log.WithField("room", roomID).Info("last player left, room deleted")
			return nil
		}

		err = m.store.CommitRoom(ctx, r, version)
		if err == nil {
			log.WithFields(log.Fields{"room": roomID, "player": playerID}).Info("player left")
			m.refreshPublicListing(ctx, r)
			return nil
		}
		if errors.Is(err, store.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
	}
	return ErrTxnConflict
}

// DeleteRoom removes a room and all its state. Host only.
func (m *Manager) DeleteRoom(ctx context.Context, roomID, callerID string) error {
	r, _, err := m.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	caller, ok := r.Players[callerID]
	if !ok || !caller.IsHost {
		return ErrNotHost
	}
	if err := m.removeRoom(ctx, roomID); err != nil && !errors.Is(err, store.ErrRoomNotFound) {
		return err
	}
	log.WithField("room", roomID).Info("room deleted by host")
	return nil
}

// GetRoom returns the current snapshot of a room.
func (m *Manager) GetRoom(ctx context.Context, roomID string) (*shared.Room, error) {
	r, _, err := m.store.GetRoom(ctx, roomID)
	if errors.Is(err, store.ErrRoomNotFound) {
		return nil, ErrRoomNotFound
	}
	return r, err
}

// ListExpired returns ids of rooms older than the room TTL. The registry
// does not schedule the sweep itself; a periodic caller does.
func (m *Manager) ListExpired(ctx context.Context, now time.Time) ([]string, error) {
	rooms, err := m.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := now.Add(-m.cfg.RoomTTL).UnixMilli()
	var ids []string
	for _, r := range rooms {
		if r.CreatedAt < cutoff {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

// SweepExpired deletes every expired room and reports how many went away.
func (m *Manager) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := m.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, id := range ids {
		if err := m.removeRoom(ctx, id); err != nil {
			if errors.Is(err, store.ErrRoomNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		log.WithField("rooms", removed).Info("expired rooms swept")
	}
	return removed, nil
}

// scheduleCleanup arms the post-win room deletion timer.
func (m *Manager) scheduleCleanup(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cleanups[roomID]; ok {
		return
	}
	m.cleanups[roomID] = time.AfterFunc(m.cfg.FinishedRoomLinger, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.removeRoom(ctx, roomID); err != nil && !errors.Is(err, store.ErrRoomNotFound) {
			log.WithError(err).WithField("room", roomID).Warn("finished room cleanup")
		}
	})
}

// removeRoom deletes the room, its public listing and any pending cleanup.
func (m *Manager) removeRoom(ctx context.Context, roomID string) error {
	m.mu.Lock()
	if t, ok := m.cleanups[roomID]; ok {
		t.Stop()
		delete(m.cleanups, roomID)
	}
	m.mu.Unlock()
	if err := m.store.RemovePublicRoom(ctx, roomID); err != nil {
		log.WithError(err).WithField("room", roomID).Warn("remove public listing")
	}
	return m.store.DeleteRoom(ctx, roomID)
}

// refreshPublicListing keeps an advertised waiting room's player count
// current. Best effort: rooms that were never advertised are left alone.
func (m *Manager) refreshPublicListing(ctx context.Context, r *shared.Room) {
	listed, err := m.store.ListPublicRooms(ctx)
	if err != nil {
		log.WithError(err).Warn("list public rooms")
		return
	}
	for _, p := range listed {
		if p.RoomID == r.ID {
			p.PlayersCount = len(r.Players)
			if err := m.store.PutPublicRoom(ctx, p); err != nil {
				log.WithError(err).WithField("room", r.ID).Warn("update public listing")
			}
			return
		}
	}
}

func randCode(n int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[r.Intn(len(codeAlphabet))]
	}
	return string(b)
}
