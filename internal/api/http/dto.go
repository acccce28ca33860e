package http

type CreateRoomRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
	MaxPlayers int    `json:"maxPlayers"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId" binding:"required"`
	PlayerName string `json:"playerName" binding:"required"`
}

type StartGameRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	PlayerID string `json:"playerId" binding:"required"`
}

type MoveRequest struct {
	RoomID    string `json:"roomId" binding:"required"`
	PlayerID  string `json:"playerId" binding:"required"`
	CellIndex int    `json:"cellIndex"`
	CellValue int    `json:"cellValue" binding:"required"`
}

type LeaveRoomRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	PlayerID string `json:"playerId" binding:"required"`
}

type DeleteRoomRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	PlayerID string `json:"playerId" binding:"required"`
}

type SearchMatchRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
}

type CancelMatchRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}
