// Package scrawl wires the room registry, the inbound event surface and the
// websocket gateway together.
package scrawl

import (
	"fmt"
	"strings"
	"sync"

	"github.com/scrawl-games/scrawl/internal/database/result/database"
	"github.com/scrawl-games/scrawl/internal/database/result/model"
	"github.com/scrawl-games/scrawl/internal/logging"
	"github.com/scrawl-games/scrawl/internal/match"
	"github.com/scrawl-games/scrawl/internal/wordbank"
)

var (
	ErrRoomExists       = fmt.Errorf("room already exists")
	ErrRoomNotFound     = fmt.Errorf("room not found")
	ErrRoomCodeRequired = fmt.Errorf("room code required")
	ErrAlreadyInRoom    = fmt.Errorf("already in a room")
)

// Gateway is what the registry needs from the transport: the emitter
// contract plus room membership bookkeeping.
type Gateway interface {
	match.Emitter
	EnterRoom(code, connID string)
	LeaveRoom(code, connID string)
	CloseRoom(code string)
}

func NewManager(config *Config, bank *wordbank.Bank, gateway Gateway, resultDb *database.DB) *manager {
	return &manager{
		config:   config,
		bank:     bank,
		gateway:  gateway,
		resultDb: resultDb,
		rooms:    map[string]*match.Session{},
		conns:    map[string]string{},
	}
}

// manager is the process-wide room registry. Its lock guards only the two
// maps; room state is mutated under each session's own lock, so rooms with
// different codes never serialize against each other.
type manager struct {
	mtx sync.RWMutex

	config   *Config
	bank     *wordbank.Bank
	gateway  Gateway
	resultDb *database.DB
	// key: normalized room code
	rooms map[string]*match.Session
	// key: connection id of a joined player
	conns map[string]string
}

// NormalizeCode folds a room code to its canonical uppercase form. The
// normalization is stable for the lifetime of the code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom registers a room under the normalized code with a single host
// player. A connection occupies at most one room at a time, so a busy
// connection is rejected: a dangling conns entry would leave a ghost roster
// member behind on disconnect.
func (m *manager) CreateRoom(connID, code, username string, maxPlayers int) (*match.Session, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrRoomCodeRequired
	}
	if maxPlayers <= 0 {
		maxPlayers = m.config.MaxPlayers
	}

	session := match.NewSession(match.Config{
		Code:            code,
		MaxPlayers:      maxPlayers,
		MaxRounds:       m.config.MaxRounds,
		RoundTime:       m.config.RoundTime,
		InterRoundDelay: m.config.InterRoundDelay,
		DoneFn:          m.gameDone,
	}, m.bank, m.gateway, connID, username)

	m.mtx.Lock()
	if _, ok := m.conns[connID]; ok {
		m.mtx.Unlock()
		return nil, ErrAlreadyInRoom
	}
	if _, ok := m.rooms[code]; ok {
		m.mtx.Unlock()
		return nil, ErrRoomExists
	}
	m.rooms[code] = session
	m.conns[connID] = code
	m.mtx.Unlock()

	m.gateway.EnterRoom(code, connID)

	return session, nil
}

// JoinRoom appends a player to an existing lobby, preserving join order.
// Like CreateRoom, it rejects a connection that already occupies a room.
func (m *manager) JoinRoom(connID, code, username string) (*match.Session, []match.Player, error) {
	code = NormalizeCode(code)

	m.mtx.RLock()
	_, busy := m.conns[connID]
	session, ok := m.rooms[code]
	m.mtx.RUnlock()

	if busy {
		return nil, nil, ErrAlreadyInRoom
	}
	if !ok {
		return nil, nil, ErrRoomNotFound
	}

	// membership first so the joiner sees its own player_joined, the way
	// socket.io rooms behaved
	m.gateway.EnterRoom(code, connID)

	roster, err := session.AddPlayer(connID, username)
	if err != nil {
		m.gateway.LeaveRoom(code, connID)
		if err == match.ErrRoomClosed {
			// lost the race against the room's destruction
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	m.mtx.Lock()
	m.conns[connID] = code
	m.mtx.Unlock()

	return session, roster, nil
}

// Disconnect removes the connection's player from its room, destroying the
// room when the roster becomes empty. Unknown connections are a no-op.
func (m *manager) Disconnect(connID string) {
	m.mtx.Lock()
	code, ok := m.conns[connID]
	delete(m.conns, connID)
	session := m.rooms[code]
	m.mtx.Unlock()

	if !ok || session == nil {
		return
	}

	m.gateway.LeaveRoom(code, connID)

	if _, empty := session.RemovePlayer(connID); empty {
		m.destroyRoom(code, session)
	}
}

// ListRooms returns a read-only snapshot of every registered room.
func (m *manager) ListRooms() []match.RoomInfo {
	m.mtx.RLock()
	sessions := make([]*match.Session, 0, len(m.rooms))
	for _, session := range m.rooms {
		sessions = append(sessions, session)
	}
	m.mtx.RUnlock()

	infos := make([]match.RoomInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, session.Info())
	}
	return infos
}

func (m *manager) room(code string) (*match.Session, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	session, ok := m.rooms[code]
	return session, ok
}

// destroyRoom deregisters one specific session. The gateway room is closed
// inside the registry critical section: a destroy racing a CreateRoom for the
// same code must never wipe the recreated room's membership, so the map
// delete and the CloseRoom happen atomically, and only when the registered
// session is still the one being destroyed.
func (m *manager) destroyRoom(code string, session *match.Session) {
	m.mtx.Lock()
	if m.rooms[code] == session {
		delete(m.rooms, code)
		m.gateway.CloseRoom(code)
	}
	m.mtx.Unlock()

	session.Close()
}

// gameDone persists the final scoreboard. It runs on its own goroutine, off
// any room lock.
func (m *manager) gameDone(code string, board []match.Player) {
	logger := logging.DefaultLogger().Named("scrawl.gameDone")

	if m.resultDb == nil {
		return
	}

	result := model.NewResult(code)
	result.Rounds = m.config.MaxRounds
	if len(board) > 0 {
		result.Winner = board[0].Username
	}
	result.Players = make([]model.PlayerResult, len(board))
	for i, p := range board {
		result.Players[i] = model.PlayerResult{Username: p.Username, Score: p.Score}
	}

	if err := m.resultDb.Add(result); err != nil {
		logger.Errorf("append result for room %s: %v", code, err)
		return
	}

	logger.Infof("game finished, room: %s, winner: %s", code, result.Winner)
}
