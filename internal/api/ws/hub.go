package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"bingo-arena/internal/session"
	"bingo-arena/internal/shared"
)

// RoomService is the slice of the room manager the hub needs.
type RoomService interface {
	ApplyMove(ctx context.Context, roomID, playerID string, cellIndex, cellValue int) (*shared.Room, error)
	LeaveRoom(ctx context.Context, roomID, playerID string) error
}

// Hub upgrades clients, opens one session per connection and forwards every
// committed room snapshot to the socket. Client actions come back on the
// same socket and are routed to the room manager.
type Hub struct {
	rooms    RoomService
	sessions func(roomID, playerID string) *session.Session
}

func NewHub(rooms RoomService, sessions func(roomID, playerID string) *session.Session) *Hub {
	return &Hub{rooms: rooms, sessions: sessions}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

type frame struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

type moveAction struct {
	CellIndex int `json:"cellIndex"`
	CellValue int `json:"cellValue"`
}

func (h *Hub) HandleWS(c *gin.Context) {
	roomID := c.Query("room_id")
	playerID := c.Query("player_id")
	if roomID == "" || playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id and player_id required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	sess := h.sessions(roomID, playerID)
	defer sess.Close()

	// writes are serialized: snapshots arrive from watcher goroutines while
	// action replies come from the read loop
	var writeMu sync.Mutex
	send := func(f frame) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(f); err != nil {
			log.WithError(err).WithField("room", roomID).Debug("websocket write")
		}
	}

	ctx := c.Request.Context()
	if err := sess.Watch(ctx, func(r *shared.Room) {
		if r == nil {
			send(frame{Action: "room_deleted"})
			return
		}
		send(frame{Action: "room_state", Data: r})
	}); err != nil {
		log.WithError(err).WithField("room", roomID).Warn("room watch")
		return
	}

	// initial snapshot so the client does not wait for the next mutation
	if r, err := sess.Snapshot(ctx); err == nil {
		send(frame{Action: "room_state", Data: r})
	}

	for {
		var msg struct {
			Action string          `json:"action"`
			Data   json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			log.WithFields(log.Fields{"room": roomID, "player": playerID}).
				Debug("websocket closed")
			return
		}

		switch msg.Action {
		case "move":
			var mv moveAction
			if err := json.Unmarshal(msg.Data, &mv); err != nil {
				send(frame{Action: "error", Data: gin.H{"error": "invalid move payload"}})
				continue
			}
			if _, err := h.rooms.ApplyMove(ctx, roomID, playerID, mv.CellIndex, mv.CellValue); err != nil {
				send(frame{Action: "error", Data: gin.H{"error": err.Error()}})
			}
		case "leave":
			if err := h.rooms.LeaveRoom(ctx, roomID, playerID); err != nil {
				send(frame{Action: "error", Data: gin.H{"error": err.Error()}})
			}
			return
		default:
			log.WithField("action", msg.Action).Debug("unknown ws action")
		}
	}
}
