package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bingo-arena/internal/api/ws"
	"bingo-arena/internal/match"
	"bingo-arena/internal/room"
	"bingo-arena/internal/store"
)

func NewRouter(rm *room.Manager, mm *match.Matchmaker, s store.Store, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	// WebSocket for live room snapshots
	r.GET("/ws", hub.HandleWS)

	// --- ROOM ENDPOINTS ---
	r.POST("/create-room", CreateRoomHandler(rm))
	r.POST("/join-room", JoinRoomHandler(rm))
	r.POST("/start-game", StartGameHandler(rm))
	r.POST("/leave-room", LeaveRoomHandler(rm))
	r.POST("/delete-room", DeleteRoomHandler(rm))
	r.GET("/room", GetRoomHandler(rm))

	// --- GAME ENDPOINTS ---
	r.POST("/move", MoveHandler(rm))

	// --- MATCHMAKING ENDPOINTS ---
	r.GET("/public-rooms", PublicRoomsHandler(s))
	r.POST("/match/search", SearchMatchHandler(mm))
	r.POST("/match/cancel", CancelMatchHandler(mm))
	r.GET("/match/ticket", MatchTicketHandler(mm))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
