package model

import (
	"time"

	"github.com/google/uuid"
)

type PlayerResult struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Result is the persisted record of one finished game. Room state itself is
// ephemeral; only the outcome survives the process.
type Result struct {
	ID         string         `json:"id"`
	RoomCode   string         `json:"room_code"`
	Winner     string         `json:"winner"`
	Players    []PlayerResult `json:"players"`
	Rounds     int            `json:"rounds"`
	FinishedAt time.Time      `json:"finished_at"`
}

func NewResult(roomCode string) Result {
	return Result{
		ID:         uuid.New().String(),
		RoomCode:   roomCode,
		FinishedAt: time.Now(),
	}
}
