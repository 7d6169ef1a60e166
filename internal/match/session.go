// Package match implements the per-room round state machine: roster, drawer
// rotation, word assignment, stroke relay, guess evaluation, scoring and
// timeout-driven advancement.
package match

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/scrawl-games/scrawl/internal/guess"
	"github.com/scrawl-games/scrawl/internal/wordbank"
)

const (
	guesserRoundBonus = 100
	drawerRoundBonus  = 50
)

var (
	ErrRoomFull            = fmt.Errorf("room is full")
	ErrGameAlreadyStarted  = fmt.Errorf("game already started")
	ErrNotHost             = fmt.Errorf("only the host can start the game")
	ErrInsufficientPlayers = fmt.Errorf("not enough players")
	ErrRoomClosed          = fmt.Errorf("room closed")
)

type RoomInfo struct {
	Code        string `json:"room_code"`
	PlayerCount int    `json:"players"`
	MaxPlayers  int    `json:"max_players"`
	Started     bool   `json:"game_started"`
}

// NewSession creates a room holding only its host. The host keeps IsHost for
// the lifetime of the room.
func NewSession(config Config, bank *wordbank.Bank, emitter Emitter, hostID, hostName string) *Session {
	config.withDefaults()
	return &Session{
		Code:      config.Code,
		CreatedAt: time.Now(),
		config:    config,
		bank:      bank,
		emitter:   emitter,
		sched:     &scheduler{},
		players:   []*Player{{ID: hostID, Username: hostName, IsHost: true}},
		guessed:   map[string]struct{}{},
	}
}

// Session is a single game room. Every read and mutation of room state runs
// under mtx, so the room behaves as one logical actor; distinct rooms share
// no state. Nothing executed under the lock blocks on I/O: the emitter only
// enqueues.
type Session struct {
	Code      string
	CreatedAt time.Time

	config  Config
	bank    *wordbank.Bank
	emitter Emitter
	sched   *scheduler

	mtx       sync.Mutex
	players   []*Player
	started   bool
	currRound int
	drawerIdx int
	// secret of the active round, empty outside one
	word string
	// id of the player drawing the active round
	drawerID   string
	strokes    []Stroke
	guessed    map[string]struct{}
	roundStart time.Time
	// incremented on every round start; deferred timers re-check it so a
	// superseded timer can never fire into a later round
	generation uint64
	closed     bool
}

// AddPlayer appends a joining player, preserving join order, and announces
// the new roster to the room.
func (r *Session) AddPlayer(id, username string) ([]Player, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed {
		return nil, ErrRoomClosed
	}
	if r.started {
		return nil, ErrGameAlreadyStarted
	}
	if len(r.players) >= r.config.MaxPlayers {
		return nil, ErrRoomFull
	}

	r.players = append(r.players, &Player{ID: id, Username: username})
	roster := r.rosterLocked()
	r.emitter.BroadcastToRoom(r.Code, EventPlayerJoined, RosterPayload{Players: roster})

	return roster, nil
}

// StartGame moves the room from lobby to the first round. Only the host may
// start, and only with at least two players.
func (r *Session) StartGame(playerID string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed {
		return ErrRoomClosed
	}

	player, ok := r.findPlayerLocked(playerID)
	if !ok || !player.IsHost {
		return ErrNotHost
	}
	if r.started {
		return ErrGameAlreadyStarted
	}
	if len(r.players) < minPlayers {
		return ErrInsufficientPlayers
	}

	r.started = true
	r.currRound = 1
	r.emitter.BroadcastToRoom(r.Code, EventGameStarted, EmptyPayload{})
	r.startRoundLocked()

	return nil
}

// Guess evaluates a submitted guess. The drawer, players who already guessed
// and unknown senders are silently ignored. A miss is relayed to the room as
// ordinary chat.
func (r *Session) Guess(playerID, text string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed || !r.started || r.word == "" {
		return
	}
	if r.drawerID == playerID {
		return
	}
	if _, ok := r.guessed[playerID]; ok {
		return
	}

	player, ok := r.findPlayerLocked(playerID)
	if !ok {
		return
	}

	if !guess.Matches(text, r.word) {
		r.emitter.BroadcastToRoom(r.Code, EventChatMessage, ChatMessagePayload{Username: player.Username, Message: text})
		r.emitter.SendTo(playerID, EventGuessResult, GuessResultPayload{Correct: false})
		return
	}

	r.guessed[playerID] = struct{}{}
	points := guess.Score(time.Since(r.roundStart))
	player.Score += points

	r.emitter.BroadcastToRoom(r.Code, EventCorrectGuess, CorrectGuessPayload{Player: player.Username, Points: points})
	r.emitter.SendTo(playerID, EventGuessResult, GuessResultPayload{Correct: true, Points: points})

	// every non-drawer has guessed, the round ends ahead of the deadline
	if len(r.guessed) == len(r.players)-1 {
		r.endRoundLocked()
	}
}

// DrawStroke relays a stroke from the drawer to everyone else. Non-drawers
// are silently ignored.
func (r *Session) DrawStroke(playerID string, stroke Stroke) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed || !r.started || r.word == "" {
		return
	}
	if r.drawerID != playerID {
		return
	}

	r.strokes = append(r.strokes, stroke)
	r.emitter.BroadcastToRoom(r.Code, EventStrokeDrawn, stroke, playerID)
}

// ClearCanvas empties the stroke list. Drawer only.
func (r *Session) ClearCanvas(playerID string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed || !r.started || r.word == "" {
		return
	}
	if r.drawerID != playerID {
		return
	}

	r.strokes = nil
	r.emitter.BroadcastToRoom(r.Code, EventCanvasCleared, EmptyPayload{})
}

// SendMessage relays plain chat from any known room member.
func (r *Session) SendMessage(playerID, text string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed {
		return
	}

	player, ok := r.findPlayerLocked(playerID)
	if !ok {
		return
	}

	r.emitter.BroadcastToRoom(r.Code, EventChatMessage, ChatMessagePayload{Username: player.Username, Message: text})
}

// RoundTimeout is the deadline timer re-entry point. A stale generation means
// the round already ended some other way, so the firing is a no-op.
func (r *Session) RoundTimeout(generation uint64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed || !r.started || r.word == "" || generation != r.generation {
		return
	}

	r.endRoundLocked()
}

// RemovePlayer drops a player from the roster. The second return reports the
// roster having become empty, in which case the registry must destroy the
// room. If the active drawer leaves mid-round the round is force-ended.
func (r *Session) RemovePlayer(playerID string) (removed, empty bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed {
		return false, false
	}

	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, false
	}

	wasDrawer := r.started && r.word != "" && playerID == r.drawerID

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	delete(r.guessed, playerID)

	if len(r.players) == 0 {
		r.closeLocked()
		return true, true
	}

	// keep the drawer pointer on the same player when someone earlier in
	// join order leaves, then clamp into the new bounds
	if idx < r.drawerIdx {
		r.drawerIdx--
	}
	if r.drawerIdx >= len(r.players) {
		r.drawerIdx = 0
	}

	r.emitter.BroadcastToRoom(r.Code, EventPlayerLeft, RosterPayload{RoomCode: r.Code, Players: r.rosterLocked()})

	if wasDrawer {
		r.endRoundLocked()
	} else if r.started && r.word != "" && len(r.guessed) > 0 && len(r.guessed) == len(r.players)-1 {
		// the leaver was the last non-drawer still guessing
		r.endRoundLocked()
	}

	return true, false
}

// Close cancels pending timers and marks the room dead. Every later
// operation and timer firing becomes a no-op.
func (r *Session) Close() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.closeLocked()
}

func (r *Session) Info() RoomInfo {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return RoomInfo{
		Code:        r.Code,
		PlayerCount: len(r.players),
		MaxPlayers:  r.config.MaxPlayers,
		Started:     r.started,
	}
}

// Players returns a copy of the roster in join order.
func (r *Session) Players() []Player {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.rosterLocked()
}

func (r *Session) startRoundLocked() {
	if r.drawerIdx >= len(r.players) {
		r.drawerIdx = 0
	}
	drawer := r.players[r.drawerIdx]

	r.word = r.bank.Random()
	r.drawerID = drawer.ID
	r.strokes = nil
	r.guessed = map[string]struct{}{}
	r.roundStart = time.Now()
	r.generation++
	generation := r.generation

	payload := NewRoundPayload{
		Round:      r.currRound,
		Drawer:     drawer.Username,
		DrawerID:   drawer.ID,
		Word:       r.word,
		WordLength: len([]rune(r.word)),
	}
	r.emitter.SendTo(drawer.ID, EventNewRound, payload)

	payload.Word = wordbank.Mask(r.word)
	for _, p := range r.players {
		if p.ID != drawer.ID {
			r.emitter.SendTo(p.ID, EventNewRound, payload)
		}
	}

	r.sched.scheduleDeadline(r.config.RoundTime, func() {
		r.RoundTimeout(generation)
	})
}

func (r *Session) endRoundLocked() {
	r.sched.cancelDeadline()

	for id := range r.guessed {
		if p, ok := r.findPlayerLocked(id); ok {
			p.Score += guesserRoundBonus
		}
	}
	// no drawer bonus when the drawer has already left the room
	if len(r.guessed) > 0 {
		if drawer, ok := r.findPlayerLocked(r.drawerID); ok {
			drawer.Score += drawerRoundBonus
		}
	}

	word := r.word
	r.word = ""
	r.drawerID = ""
	r.emitter.BroadcastToRoom(r.Code, EventRoundEnd, RoundEndPayload{Word: word, Players: r.rosterLocked()})

	r.drawerIdx = (r.drawerIdx + 1) % len(r.players)
	if r.drawerIdx == 0 {
		r.currRound++
	}

	if r.currRound > r.config.MaxRounds {
		r.endGameLocked()
		return
	}

	generation := r.generation
	r.sched.scheduleDelay(r.config.InterRoundDelay, func() {
		r.resumeRound(generation)
	})
}

func (r *Session) endGameLocked() {
	board := r.rosterLocked()
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	r.emitter.BroadcastToRoom(r.Code, EventGameEnd, GameEndPayload{Players: board})

	// back to lobby: roster kept, everything else reset
	r.started = false
	r.currRound = 0
	r.drawerIdx = 0
	r.generation++
	r.sched.cancel()
	for _, p := range r.players {
		p.Score = 0
	}

	if r.config.DoneFn != nil {
		go r.config.DoneFn(r.Code, board)
	}
}

// resumeRound is the inter-round delay re-entry point, guarded the same way
// as RoundTimeout.
func (r *Session) resumeRound(generation uint64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed || !r.started || generation != r.generation {
		return
	}

	r.startRoundLocked()
}

func (r *Session) closeLocked() {
	r.closed = true
	r.generation++
	r.sched.cancel()
}

func (r *Session) findPlayerLocked(playerID string) (*Player, bool) {
	for _, p := range r.players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

func (r *Session) rosterLocked() []Player {
	roster := make([]Player, len(r.players))
	for i, p := range r.players {
		roster[i] = *p
	}
	return roster
}
