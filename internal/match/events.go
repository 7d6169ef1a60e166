package match

// Named events delivered through the gateway. The set is closed: the
// transport rejects anything it cannot map onto one of these.
const (
	EventConnected     = "connected"
	EventRoomCreated   = "room_created"
	EventRoomJoined    = "room_joined"
	EventPlayerJoined  = "player_joined"
	EventGameStarted   = "game_started"
	EventNewRound      = "new_round"
	EventStrokeDrawn   = "stroke_drawn"
	EventCanvasCleared = "canvas_cleared"
	EventCorrectGuess  = "correct_guess"
	EventGuessResult   = "guess_result"
	EventChatMessage   = "chat_message"
	EventRoundEnd      = "round_end"
	EventGameEnd       = "game_end"
	EventPlayerLeft    = "player_left"
	EventError         = "error"
)

// Emitter is the broadcast gateway contract the session relies on. Delivery
// is fire and forget: implementations must never block the caller.
type Emitter interface {
	SendTo(connID string, event string, payload interface{})
	BroadcastToRoom(code string, event string, payload interface{}, exclude ...string)
}

type RosterPayload struct {
	RoomCode string   `json:"room_code,omitempty"`
	Players  []Player `json:"players"`
}

// NewRoundPayload carries the full secret to the drawer and the underscore
// mask of equal length to everyone else.
type NewRoundPayload struct {
	Round      int    `json:"round"`
	Drawer     string `json:"drawer"`
	DrawerID   string `json:"drawer_id"`
	Word       string `json:"word"`
	WordLength int    `json:"word_length"`
}

type CorrectGuessPayload struct {
	Player string `json:"player"`
	Points int    `json:"points"`
}

type GuessResultPayload struct {
	Correct bool `json:"correct"`
	Points  int  `json:"points,omitempty"`
}

type ChatMessagePayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type RoundEndPayload struct {
	Word    string   `json:"word"`
	Players []Player `json:"players"`
}

type GameEndPayload struct {
	Players []Player `json:"players"`
}

type EmptyPayload struct{}
