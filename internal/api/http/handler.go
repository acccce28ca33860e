package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bingo-arena/internal/match"
	"bingo-arena/internal/room"
	"bingo-arena/internal/store"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, room.ErrPlayerNotFound),
		errors.Is(err, store.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, room.ErrRoomFull),
		errors.Is(err, room.ErrGameInProgress),
		errors.Is(err, room.ErrNotYourTurn),
		errors.Is(err, room.ErrNumberAlreadyCalled),
		errors.Is(err, room.ErrCellAlreadyMarked),
		errors.Is(err, room.ErrTxnConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// @Summary Create new room
// @Description Create a room with the caller as host and a fresh board
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.CreateRoomRequest true "Host info"
// @Success 200 {object} map[string]interface{}
// @Router /create-room [post]
func CreateRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRoomRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerName required"})
			return
		}
		r, err := rm.CreateRoom(c.Request.Context(), req.PlayerName, req.MaxPlayers)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomId": r.ID, "playerId": r.HostID, "room": r})
	}
}

// @Summary Join an existing room
// @Description Add the caller to a waiting room with a fresh board
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.JoinRoomRequest true "Join info"
// @Success 200 {object} map[string]interface{}
// @Router /join-room [post]
func JoinRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinRoomRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId and playerName required"})
			return
		}
		r, playerID, err := rm.JoinRoom(c.Request.Context(), req.RoomID, req.PlayerName)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomId": r.ID, "playerId": playerID, "room": r})
	}
}

// @Summary Start the game
// @Description Host flips the room to playing; turn goes to the first joiner
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.StartGameRequest true "Room and caller"
// @Success 200 {object} map[string]interface{}
// @Router /start-game [post]
func StartGameHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartGameRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId and playerId required"})
			return
		}
		r, err := rm.StartGame(c.Request.Context(), req.RoomID, req.PlayerID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": r})
	}
}

// @Summary Call a number
// @Description Active player calls a board value; all matching boards mark it
// @Tags Game
// @Accept json
// @Produce json
// @Param request body http.MoveRequest true "Move data"
// @Success 200 {object} map[string]interface{}
// @Router /move [post]
func MoveHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		r, err := rm.ApplyMove(c.Request.Context(), req.RoomID, req.PlayerID, req.CellIndex, req.CellValue)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": r, "winner": r.GameState.Winner})
	}
}

// @Summary Leave a room
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.LeaveRoomRequest true "Room and player"
// @Success 200 {object} map[string]interface{}
// @Router /leave-room [post]
func LeaveRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LeaveRoomRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId and playerId required"})
			return
		}
		if err := rm.LeaveRoom(c.Request.Context(), req.RoomID, req.PlayerID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// @Summary Delete a room
// @Description Host removes the room and all its state
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.DeleteRoomRequest true "Room and caller"
// @Success 200 {object} map[string]interface{}
// @Router /delete-room [post]
func DeleteRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteRoomRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId and playerId required"})
			return
		}
		if err := rm.DeleteRoom(c.Request.Context(), req.RoomID, req.PlayerID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// @Summary Get a room snapshot
// @Tags Room
// @Produce json
// @Param roomId query string true "Room ID"
// @Success 200 {object} map[string]interface{}
// @Router /room [get]
func GetRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Query("roomId")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId required"})
			return
		}
		r, err := rm.GetRoom(c.Request.Context(), roomID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": r})
	}
}

// @Summary List public waiting rooms
// @Tags Match
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /public-rooms [get]
func PublicRoomsHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, err := s.ListPublicRooms(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	}
}

// @Summary Search for a random match
// @Description Enqueue the caller; the resulting room arrives on the ticket
// @Tags Match
// @Accept json
// @Produce json
// @Param request body http.SearchMatchRequest true "Player info"
// @Success 200 {object} map[string]interface{}
// @Router /match/search [post]
func SearchMatchHandler(mm *match.Matchmaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchMatchRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerName required"})
			return
		}
		playerID, err := mm.Enqueue(c.Request.Context(), req.PlayerName, nil)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"playerId": playerID})
	}
}

// @Summary Cancel a match search
// @Tags Match
// @Accept json
// @Produce json
// @Param request body http.CancelMatchRequest true "Player info"
// @Success 200 {object} map[string]interface{}
// @Router /match/cancel [post]
func CancelMatchHandler(mm *match.Matchmaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelMatchRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerId required"})
			return
		}
		mm.Cancel(c.Request.Context(), req.PlayerID)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// @Summary Poll the match ticket
// @Description Returns the room a queued player was placed in, once matched
// @Tags Match
// @Produce json
// @Param playerId query string true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Router /match/ticket [get]
func MatchTicketHandler(mm *match.Matchmaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.Query("playerId")
		if playerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerId required"})
			return
		}
		t, err := mm.Ticket(c.Request.Context(), playerID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticket": t})
	}
}
