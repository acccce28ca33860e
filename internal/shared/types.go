package shared

import "sort"

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Room is the persisted unit of game state. Field names mirror the store
// schema exactly so the backend stays a drop-in replacement for existing
// clients reading the same paths.
type Room struct {
	ID         string             `json:"id"`
	HostID     string             `json:"hostId"`
	MaxPlayers int                `json:"maxPlayers"`
	Status     string             `json:"status"` // waiting, playing, finished
	CreatedAt  int64              `json:"createdAt"`
	Players    map[string]*Player `json:"players"`
	GameState  GameState          `json:"gameState"`
}

type Player struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	IsHost        bool     `json:"isHost"`
	JoinedAt      int64    `json:"joinedAt"`
	Board         []int    `json:"board"`
	MarkedCells   []int    `json:"markedCells"`
	BingoProgress Progress `json:"bingoProgress"`
}

type GameState struct {
	CurrentTurn   string  `json:"currentTurn"`
	CalledNumbers []int   `json:"calledNumbers"`
	Winner        *string `json:"winner"`
	GameStarted   bool    `json:"gameStarted"`
}

// Progress tracks earned BINGO letters. Letters are assigned by line
// discovery order, not by row/column identity.
type Progress struct {
	B bool `json:"B"`
	I bool `json:"I"`
	N bool `json:"N"`
	G bool `json:"G"`
	O bool `json:"O"`
}

func (p Progress) Won() bool {
	return p.B && p.I && p.N && p.G && p.O
}

// QueueEntry is a player waiting in the matchmaking queue.
type QueueEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// PublicRoom advertises a waiting room open to random joiners.
type PublicRoom struct {
	RoomID       string `json:"roomId"`
	HostName     string `json:"hostName"`
	CreatedAt    int64  `json:"createdAt"`
	PlayersCount int    `json:"playersCount"`
	MaxPlayers   int    `json:"maxPlayers"`
}

// MatchTicket tells a queued player which room they ended up in.
type MatchTicket struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
	Started  bool   `json:"started"`
}

// PlayerOrder returns player ids sorted by join time, ties broken by id.
// Turn rotation and winner tie-breaks both use this ordering.
func (r *Room) PlayerOrder() []string {
	ids := make([]string, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.Players[ids[i]], r.Players[ids[j]]
		if a.JoinedAt != b.JoinedAt {
			return a.JoinedAt < b.JoinedAt
		}
		return a.ID < b.ID
	})
	return ids
}

// NextTurn returns the player after current in cyclic join order. If current
// is no longer present the first player is returned.
func (r *Room) NextTurn(current string) string {
	order := r.PlayerOrder()
	if len(order) == 0 {
		return ""
	}
	for i, id := range order {
		if id == current {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Players = make(map[string]*Player, len(r.Players))
	for id, p := range r.Players {
		pc := *p
		pc.Board = append([]int(nil), p.Board...)
		pc.MarkedCells = append([]int(nil), p.MarkedCells...)
		cp.Players[id] = &pc
	}
	cp.GameState.CalledNumbers = append([]int(nil), r.GameState.CalledNumbers...)
	if r.GameState.Winner != nil {
		w := *r.GameState.Winner
		cp.GameState.Winner = &w
	}
	return &cp
}

// HasCell reports whether value is on the player's board and at which index.
func (p *Player) HasCell(value int) (int, bool) {
	for i, v := range p.Board {
		if v == value {
			return i, true
		}
	}
	return -1, false
}

func (p *Player) IsMarked(index int) bool {
	for _, c := range p.MarkedCells {
		if c == index {
			return true
		}
	}
	return false
}
