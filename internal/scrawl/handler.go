package scrawl

import (
	"context"
	"encoding/json"

	"github.com/scrawl-games/scrawl/internal/logging"
	"github.com/scrawl-games/scrawl/internal/match"
	"github.com/scrawl-games/scrawl/internal/resource"
)

// Dispatch routes one inbound envelope to the operation it names. Lobby
// failures are reported back to the sender as error events; in-game turn and
// state violations are dropped by the session itself.
func (m *manager) Dispatch(ctx context.Context, connID string, envelope Envelope) {
	switch envelope.Event {
	case eventCreateRoom:
		m.handleCreateRoom(ctx, connID, envelope.Data)
	case eventJoinRoom:
		m.handleJoinRoom(ctx, connID, envelope.Data)
	case eventStartGame:
		m.handleStartGame(ctx, connID, envelope.Data)
	case eventDrawStroke:
		m.handleDrawStroke(connID, envelope.Data)
	case eventClearCanvas:
		m.handleClearCanvas(connID, envelope.Data)
	case eventSendGuess:
		m.handleSendGuess(connID, envelope.Data)
	case eventSendMessage:
		m.handleSendMessage(connID, envelope.Data)
	default:
		m.sendError(connID, resource.TextUnknownEventMsg+": "+envelope.Event)
	}
}

func (m *manager) handleCreateRoom(ctx context.Context, connID string, data json.RawMessage) {
	var payload createRoomData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, resource.TextMalformedPayloadMsg)
		return
	}

	session, err := m.CreateRoom(connID, payload.RoomCode, playerName(payload.Username), payload.MaxPlayers)
	if err != nil {
		m.sendError(connID, errorText(err))
		return
	}

	logging.FromContext(ctx).Infof("room created, code: %s, host: %s", session.Code, connID)
	m.gateway.SendTo(connID, match.EventRoomCreated, match.RosterPayload{
		RoomCode: session.Code,
		Players:  session.Players(),
	})
}

func (m *manager) handleJoinRoom(ctx context.Context, connID string, data json.RawMessage) {
	var payload joinRoomData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, resource.TextMalformedPayloadMsg)
		return
	}

	session, roster, err := m.JoinRoom(connID, payload.RoomCode, playerName(payload.Username))
	if err != nil {
		m.sendError(connID, errorText(err))
		return
	}

	logging.FromContext(ctx).Infof("player joined, room: %s, conn: %s", session.Code, connID)
	m.gateway.SendTo(connID, match.EventRoomJoined, match.RosterPayload{
		RoomCode: session.Code,
		Players:  roster,
	})
}

func (m *manager) handleStartGame(ctx context.Context, connID string, data json.RawMessage) {
	var payload roomOnlyData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, resource.TextMalformedPayloadMsg)
		return
	}

	session, ok := m.room(NormalizeCode(payload.RoomCode))
	if !ok {
		m.sendError(connID, resource.TextRoomNotFoundMsg)
		return
	}

	if err := session.StartGame(connID); err != nil {
		m.sendError(connID, errorText(err))
		return
	}

	logging.FromContext(ctx).Infof("game started, room: %s", session.Code)
}

func (m *manager) handleDrawStroke(connID string, data json.RawMessage) {
	var payload drawStrokeData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, resource.TextMalformedPayloadMsg)
		return
	}

	if session, ok := m.room(NormalizeCode(payload.RoomCode)); ok {
		session.DrawStroke(connID, payload.stroke())
	}
}

func (m *manager) handleClearCanvas(connID string, data json.RawMessage) {
	var payload roomOnlyData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, resource.TextMalformedPayloadMsg)
		return
	}

	if session, ok := m.room(NormalizeCode(payload.RoomCode)); ok {
		session.ClearCanvas(connID)
	}
}

func (m *manager) handleSendGuess(connID string, data json.RawMessage) {
	var payload guessData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, resource.TextMalformedPayloadMsg)
		return
	}

	if session, ok := m.room(NormalizeCode(payload.RoomCode)); ok {
		session.Guess(connID, payload.Guess)
	}
}

func (m *manager) handleSendMessage(connID string, data json.RawMessage) {
	var payload messageData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, resource.TextMalformedPayloadMsg)
		return
	}

	if session, ok := m.room(NormalizeCode(payload.RoomCode)); ok {
		session.SendMessage(connID, payload.Message)
	}
}

func (m *manager) sendError(connID, text string) {
	m.gateway.SendTo(connID, match.EventError, ErrorPayload{Message: text})
}

// errorText maps operation errors to their user-facing texts.
func errorText(err error) string {
	switch err {
	case ErrRoomExists:
		return resource.TextRoomExistsMsg
	case ErrRoomNotFound:
		return resource.TextRoomNotFoundMsg
	case ErrRoomCodeRequired:
		return resource.TextRoomCodeRequiredMsg
	case ErrAlreadyInRoom:
		return resource.TextAlreadyInRoomMsg
	case match.ErrRoomFull:
		return resource.TextRoomFullMsg
	case match.ErrGameAlreadyStarted:
		return resource.TextGameAlreadyStartedMsg
	case match.ErrNotHost:
		return resource.TextNotHostMsg
	case match.ErrInsufficientPlayers:
		return resource.TextInsufficientPlayersMsg
	}
	return err.Error()
}
