package scrawl

import (
	"encoding/json"

	"github.com/scrawl-games/scrawl/internal/match"
)

// inbound event names, as clients send them
const (
	eventCreateRoom  = "create_room"
	eventJoinRoom    = "join_room"
	eventStartGame   = "start_game"
	eventDrawStroke  = "draw_stroke"
	eventClearCanvas = "clear_canvas"
	eventSendGuess   = "send_guess"
	eventSendMessage = "send_message"
)

const (
	defaultPlayerName  = "Player"
	defaultStrokeColor = "#000000"
	defaultStrokeWidth = 3
)

// Envelope is the wire frame for every inbound message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type createRoomData struct {
	RoomCode   string `json:"room_code"`
	Username   string `json:"username"`
	MaxPlayers int    `json:"max_players"`
}

type joinRoomData struct {
	RoomCode string `json:"room_code"`
	Username string `json:"username"`
}

type roomOnlyData struct {
	RoomCode string `json:"room_code"`
}

type drawStrokeData struct {
	RoomCode string        `json:"room_code"`
	Points   []match.Point `json:"points"`
	Color    string        `json:"color"`
	Width    float64       `json:"width"`
}

// stroke fills in the canvas defaults for omitted fields.
func (d drawStrokeData) stroke() match.Stroke {
	s := match.Stroke{Points: d.Points, Color: d.Color, Width: d.Width}
	if s.Color == "" {
		s.Color = defaultStrokeColor
	}
	if s.Width <= 0 {
		s.Width = defaultStrokeWidth
	}
	return s
}

type guessData struct {
	RoomCode string `json:"room_code"`
	Guess    string `json:"guess"`
}

type messageData struct {
	RoomCode string `json:"room_code"`
	Message  string `json:"message"`
}

// ErrorPayload carries a user-facing failure text back to one client.
type ErrorPayload struct {
	Message string `json:"message"`
}

type connectedPayload struct {
	SID string `json:"sid"`
}

func playerName(username string) string {
	if username == "" {
		return defaultPlayerName
	}
	return username
}
