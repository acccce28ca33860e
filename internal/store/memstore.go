package store

import (
	"context"
	"sort"
	"sync"

	"bingo-arena/internal/shared"
)

type roomEntry struct {
	room    *shared.Room
	version uint64
}

// MemoryStore keeps everything in process memory. It implements the same
// conditional-commit and watch semantics as the Redis backend, which makes it
// the default for local runs and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	rooms         map[string]*roomEntry
	queue         map[string]*shared.QueueEntry
	tickets       map[string]*shared.MatchTicket
	public        map[string]*shared.PublicRoom
	roomWatch     map[string]map[int]WatchFunc
	ticketWatch   map[string]map[int]func(*shared.MatchTicket)
	nextWatcherID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:       map[string]*roomEntry{},
		queue:       map[string]*shared.QueueEntry{},
		tickets:     map[string]*shared.MatchTicket{},
		public:      map[string]*shared.PublicRoom{},
		roomWatch:   map[string]map[int]WatchFunc{},
		ticketWatch: map[string]map[int]func(*shared.MatchTicket){},
	}
}

func (m *MemoryStore) GetRoom(ctx context.Context, id string) (*shared.Room, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.rooms[id]
	if !ok {
		return nil, 0, ErrRoomNotFound
	}
	return e.room.Clone(), e.version, nil
}

func (m *MemoryStore) CreateRoom(ctx context.Context, r *shared.Room) error {
	m.mu.Lock()
	if _, ok := m.rooms[r.ID]; ok {
		m.mu.Unlock()
		return ErrRoomExists
	}
	m.rooms[r.ID] = &roomEntry{room: r.Clone(), version: 1}
	fns := m.roomWatchers(r.ID)
	m.mu.Unlock()

	m.notifyRoom(fns, r)
	return nil
}

func (m *MemoryStore) CommitRoom(ctx context.Context, r *shared.Room, version uint64) error {
	m.mu.Lock()
	e, ok := m.rooms[r.ID]
	if !ok {
		m.mu.Unlock()
		return ErrRoomNotFound
	}
	if e.version != version {
		m.mu.Unlock()
		return ErrConflict
	}
	e.room = r.Clone()
	e.version++
	fns := m.roomWatchers(r.ID)
	m.mu.Unlock()

	m.notifyRoom(fns, r)
	return nil
}

func (m *MemoryStore) DeleteRoom(ctx context.Context, id string) error {
	m.mu.Lock()
	if _, ok := m.rooms[id]; !ok {
		m.mu.Unlock()
		return ErrRoomNotFound
	}
	delete(m.rooms, id)
	fns := m.roomWatchers(id)
	m.mu.Unlock()

	m.notifyRoom(fns, nil)
	return nil
}

func (m *MemoryStore) ListRooms(ctx context.Context) ([]*shared.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*shared.Room, 0, len(m.rooms))
	for _, e := range m.rooms {
		out = append(out, e.room.Clone())
	}
	return out, nil
}

func (m *MemoryStore) WatchRoom(ctx context.Context, id string, fn WatchFunc) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roomWatch[id] == nil {
		m.roomWatch[id] = map[int]WatchFunc{}
	}
	m.nextWatcherID++
	wid := m.nextWatcherID
	m.roomWatch[id][wid] = fn
	return func() {
		m.mu.Lock()
		delete(m.roomWatch[id], wid)
		m.mu.Unlock()
	}, nil
}

// roomWatchers must be called with mu held.
func (m *MemoryStore) roomWatchers(id string) []WatchFunc {
	fns := make([]WatchFunc, 0, len(m.roomWatch[id]))
	for _, fn := range m.roomWatch[id] {
		fns = append(fns, fn)
	}
	return fns
}

func (m *MemoryStore) notifyRoom(fns []WatchFunc, r *shared.Room) {
	for _, fn := range fns {
		go fn(r.Clone())
	}
}

func (m *MemoryStore) Enqueue(ctx context.Context, e *shared.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.queue[e.ID] = &cp
	return nil
}

func (m *MemoryStore) RemoveQueueEntry(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.queue[playerID]; !ok {
		return ErrEntryNotFound
	}
	delete(m.queue, playerID)
	return nil
}

func (m *MemoryStore) ClaimMatchPair(ctx context.Context) (*shared.QueueEntry, *shared.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) < 2 {
		return nil, nil, ErrNoPair
	}
	entries := make([]*shared.QueueEntry, 0, len(m.queue))
	for _, e := range m.queue {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp < entries[j].Timestamp
		}
		return entries[i].ID < entries[j].ID
	})
	a, b := entries[0], entries[1]
	delete(m.queue, a.ID)
	delete(m.queue, b.ID)
	return a, b, nil
}

func (m *MemoryStore) PutMatchTicket(ctx context.Context, t *shared.MatchTicket) error {
	m.mu.Lock()
	cp := *t
	m.tickets[t.PlayerID] = &cp
	fns := make([]func(*shared.MatchTicket), 0, len(m.ticketWatch[t.PlayerID]))
	for _, fn := range m.ticketWatch[t.PlayerID] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		tc := cp
		go fn(&tc)
	}
	return nil
}

func (m *MemoryStore) GetMatchTicket(ctx context.Context, playerID string) (*shared.MatchTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tickets[playerID]
	if !ok {
		return nil, ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) DeleteMatchTicket(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tickets, playerID)
	return nil
}

func (m *MemoryStore) WatchMatchTicket(ctx context.Context, playerID string, fn func(*shared.MatchTicket)) (func(), error) {
	m.mu.Lock()
	if m.ticketWatch[playerID] == nil {
		m.ticketWatch[playerID] = map[int]func(*shared.MatchTicket){}
	}
	m.nextWatcherID++
	wid := m.nextWatcherID
	m.ticketWatch[playerID][wid] = fn
	existing := m.tickets[playerID]
	m.mu.Unlock()

	// Deliver an already-present ticket so late watchers never miss a match.
	if existing != nil {
		cp := *existing
		go fn(&cp)
	}
	return func() {
		m.mu.Lock()
		delete(m.ticketWatch[playerID], wid)
		m.mu.Unlock()
	}, nil
}

func (m *MemoryStore) PutPublicRoom(ctx context.Context, p *shared.PublicRoom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.public[p.RoomID] = &cp
	return nil
}

func (m *MemoryStore) RemovePublicRoom(ctx context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.public, roomID)
	return nil
}

func (m *MemoryStore) ListPublicRooms(ctx context.Context) ([]*shared.PublicRoom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*shared.PublicRoom, 0, len(m.public))
	for _, p := range m.public {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}
