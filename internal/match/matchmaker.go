package match

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"bingo-arena/internal/config"
	"bingo-arena/internal/room"
	"bingo-arena/internal/shared"
	"bingo-arena/internal/store"
)

// Matchmaker pairs anonymous searchers into fresh two-player rooms. Pairing
// claims both queue entries in one store transaction, so two instances
// racing over the same pair leaves exactly one winner; the loser sees
// ErrNoPair and keeps waiting. A lone searcher falls back to a public
// waiting room after the configured timeout.
type Matchmaker struct {
	store store.Store
	rooms *room.Manager
	cfg   config.Config

	mu      sync.Mutex
	waiters map[string]*waiter
}

type waiter struct {
	name    string
	notify  func(shared.MatchTicket)
	timer   *time.Timer
	cancels []func()
	done    bool
}

func NewMatchmaker(s store.Store, rooms *room.Manager, cfg config.Config) *Matchmaker {
	return &Matchmaker{
		store:   s,
		rooms:   rooms,
		cfg:     cfg,
		waiters: map[string]*waiter{},
	}
}

// Enqueue registers a searcher and returns their player id. notify fires
// exactly once, when a ticket names the room the player ended up in.
func (m *Matchmaker) Enqueue(ctx context.Context, name string, notify func(shared.MatchTicket)) (string, error) {
	playerID := uuid.NewString()
	w := &waiter{name: name, notify: notify}

	m.mu.Lock()
	m.waiters[playerID] = w
	m.mu.Unlock()

	// Poll-only callers read their ticket over HTTP instead; watching it
	// here would consume it before they ever see it.
	if notify != nil {
		// the watch outlives the enqueue call, not the request context
		cancelTicket, err := m.store.WatchMatchTicket(context.Background(), playerID, func(t *shared.MatchTicket) {
			m.deliver(playerID, t)
		})
		if err != nil {
			m.drop(playerID)
			return "", err
		}
		m.mu.Lock()
		w.cancels = append(w.cancels, cancelTicket)
		m.mu.Unlock()
	}

	m.mu.Lock()
	w.timer = time.AfterFunc(m.cfg.MatchWait, func() { m.fallback(playerID) })
	m.mu.Unlock()

	entry := &shared.QueueEntry{
		ID:        playerID,
		Name:      name,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := m.store.Enqueue(ctx, entry); err != nil {
		m.drop(playerID)
		return "", err
	}
	log.WithField("player", playerID).Info("searching for match")

	m.tryPair(ctx)
	return playerID, nil
}

// Cancel withdraws a searcher. No-op if they were already matched.
func (m *Matchmaker) Cancel(ctx context.Context, playerID string) {
	m.drop(playerID)
	if err := m.store.RemoveQueueEntry(ctx, playerID); err != nil && !errors.Is(err, store.ErrEntryNotFound) {
		log.WithError(err).WithField("player", playerID).Warn("remove queue entry")
	}
}

// Ticket is the poll fallback for clients without a live subscription.
func (m *Matchmaker) Ticket(ctx context.Context, playerID string) (*shared.MatchTicket, error) {
	return m.store.GetMatchTicket(ctx, playerID)
}

// tryPair claims the two oldest entries and builds their room. Both players
// learn about it through their tickets, whichever instance they enqueued on.
func (m *Matchmaker) tryPair(ctx context.Context) {
	first, second, err := m.store.ClaimMatchPair(ctx)
	if errors.Is(err, store.ErrNoPair) {
		return
	}
	if err != nil {
		log.WithError(err).Warn("claim match pair")
		return
	}

	r, err := m.rooms.CreateMatchRoom(ctx, first, second)
	if err != nil {
		log.WithError(err).Error("create match room")
		// put the pair back so they are not silently lost
		m.store.Enqueue(ctx, first)
		m.store.Enqueue(ctx, second)
		return
	}

	for _, e := range []*shared.QueueEntry{first, second} {
		t := &shared.MatchTicket{PlayerID: e.ID, RoomID: r.ID, Started: true}
		if err := m.store.PutMatchTicket(ctx, t); err != nil {
			log.WithError(err).WithField("player", e.ID).Error("put match ticket")
		}
	}
	log.WithFields(log.Fields{"room": r.ID, "first": first.ID, "second": second.ID}).
		Info("players matched")
}

// fallback runs when the solo timeout fires: the searcher leaves the queue
// and opens a public two-seat waiting room that auto-starts on the second
// join.
func (m *Matchmaker) fallback(playerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m.mu.Lock()
	w, ok := m.waiters[playerID]
	if !ok || w.done {
		m.mu.Unlock()
		return
	}
	name := w.name
	m.mu.Unlock()

	if err := m.store.RemoveQueueEntry(ctx, playerID); err != nil {
		// entry already claimed: the match ticket is on its way
		m.mu.Lock()
		if w, ok := m.waiters[playerID]; ok && w.notify == nil {
			// poll-only searcher, nothing left to wait for
			delete(m.waiters, playerID)
		}
		m.mu.Unlock()
		return
	}

	r, err := m.rooms.CreateRoomWithHost(ctx, playerID, name, 2)
	if err != nil {
		log.WithError(err).WithField("player", playerID).Error("create waiting room")
		return
	}
	pub := &shared.PublicRoom{
		RoomID:       r.ID,
		HostName:     name,
		CreatedAt:    r.CreatedAt,
		PlayersCount: len(r.Players),
		MaxPlayers:   r.MaxPlayers,
	}
	if err := m.store.PutPublicRoom(ctx, pub); err != nil {
		log.WithError(err).WithField("room", r.ID).Warn("advertise waiting room")
	}

	m.watchAutoStart(r.ID, playerID)

	t := &shared.MatchTicket{PlayerID: playerID, RoomID: r.ID}
	if err := m.store.PutMatchTicket(ctx, t); err != nil {
		log.WithError(err).WithField("player", playerID).Error("put waiting ticket")
	}
	log.WithFields(log.Fields{"room": r.ID, "player": playerID}).
		Info("no match found, opened public waiting room")
}

// watchAutoStart starts the waiting room once a second player arrives.
func (m *Matchmaker) watchAutoStart(roomID, hostID string) {
	var (
		mu          sync.Mutex
		cancelWatch func()
		stopped     bool
	)
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if cancelWatch != nil {
			cancelWatch()
			cancelWatch = nil
		}
	}
	cancel, err := m.store.WatchRoom(context.Background(), roomID, func(r *shared.Room) {
		if r == nil {
			stop()
			return
		}
		if r.Status == shared.StatusWaiting && len(r.Players) >= r.MaxPlayers {
			ctx, cancelCtx := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelCtx()
			if _, err := m.rooms.StartGame(ctx, roomID, hostID); err != nil && !errors.Is(err, room.ErrRoomNotFound) {
				log.WithError(err).WithField("room", roomID).Warn("auto start")
				return
			}
			stop()
		}
	})
	if err != nil {
		log.WithError(err).WithField("room", roomID).Warn("watch waiting room")
		return
	}
	mu.Lock()
	if stopped {
		mu.Unlock()
		cancel()
		return
	}
	cancelWatch = cancel
	mu.Unlock()
}

// deliver hands a ticket to the local waiter, if any. Each ticket key is
// also watched by the instance the player enqueued on, so remote matches
// arrive the same way.
func (m *Matchmaker) deliver(playerID string, t *shared.MatchTicket) {
	m.mu.Lock()
	w, ok := m.waiters[playerID]
	if !ok || w.done {
		m.mu.Unlock()
		return
	}
	w.done = true
	if w.timer != nil {
		w.timer.Stop()
	}
	cancels := w.cancels
	notify := w.notify
	delete(m.waiters, playerID)
	m.mu.Unlock()

	for _, c := range cancels {
		c()
	}
	if notify != nil {
		notify(*t)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.DeleteMatchTicket(ctx, playerID); err != nil {
		log.WithError(err).WithField("player", playerID).Debug("delete ticket")
	}
}

// drop forgets a waiter without notifying it.
func (m *Matchmaker) drop(playerID string) {
	m.mu.Lock()
	w, ok := m.waiters[playerID]
	if ok {
		if w.timer != nil {
			w.timer.Stop()
		}
		delete(m.waiters, playerID)
	}
	m.mu.Unlock()
	if ok {
		for _, c := range w.cancels {
			c()
		}
	}
}
