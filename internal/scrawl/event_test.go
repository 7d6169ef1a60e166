package scrawl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/scrawl-games/scrawl/internal/match"
)

func dispatch(t *testing.T, m *manager, connID, event, data string) {
	t.Helper()
	m.Dispatch(context.Background(), connID, Envelope{Event: event, Data: json.RawMessage(data)})
}

func TestDispatchCreateAndJoin(t *testing.T) {
	t.Parallel()
	m, gw := newTestManager(t, testManagerConfig())

	dispatch(t, m, "host", eventCreateRoom, `{"room_code":"room","username":"alice"}`)
	if last, ok := gw.lastTo("host"); !ok || last.event != match.EventRoomCreated {
		t.Fatalf("host last event = %+v, want room_created", last)
	}

	dispatch(t, m, "c1", eventJoinRoom, `{"room_code":"ROOM","username":"bob"}`)
	if last, ok := gw.lastTo("c1"); !ok || last.event != match.EventRoomJoined {
		t.Fatalf("joiner last event = %+v, want room_joined", last)
	}
}

func TestDispatchUnknownEvent(t *testing.T) {
	t.Parallel()
	m, gw := newTestManager(t, testManagerConfig())

	dispatch(t, m, "c1", "warp_drive", `{}`)
	if last, ok := gw.lastTo("c1"); !ok || last.event != match.EventError {
		t.Fatalf("last event = %+v, want error", last)
	}
}

func TestDispatchMalformedPayload(t *testing.T) {
	t.Parallel()
	m, gw := newTestManager(t, testManagerConfig())

	dispatch(t, m, "c1", eventCreateRoom, `{"room_code":42}`)
	if last, ok := gw.lastTo("c1"); !ok || last.event != match.EventError {
		t.Fatalf("last event = %+v, want error", last)
	}
}

func TestDispatchLobbyErrors(t *testing.T) {
	t.Parallel()
	m, gw := newTestManager(t, testManagerConfig())

	dispatch(t, m, "c1", eventJoinRoom, `{"room_code":"NONE","username":"bob"}`)
	if last, ok := gw.lastTo("c1"); !ok || last.event != match.EventError {
		t.Fatalf("join miss: last event = %+v, want error", last)
	}

	dispatch(t, m, "c1", eventStartGame, `{"room_code":"NONE"}`)
	if last, ok := gw.lastTo("c1"); !ok || last.event != match.EventError {
		t.Fatalf("start miss: last event = %+v, want error", last)
	}

	// game ops against a missing room stay silent
	before := len(gw.events)
	dispatch(t, m, "c1", eventSendGuess, `{"room_code":"NONE","guess":"cat"}`)
	dispatch(t, m, "c1", eventDrawStroke, `{"room_code":"NONE","points":[]}`)
	if len(gw.events) != before {
		t.Fatalf("game ops on missing room emitted events")
	}
}

func TestDispatchGuessFlow(t *testing.T) {
	t.Parallel()
	m, gw := newTestManager(t, testManagerConfig())

	dispatch(t, m, "host", eventCreateRoom, `{"room_code":"ROOM","username":"alice"}`)
	dispatch(t, m, "c1", eventJoinRoom, `{"room_code":"ROOM","username":"bob"}`)
	dispatch(t, m, "host", eventStartGame, `{"room_code":"ROOM"}`)

	session, ok := m.room("ROOM")
	if !ok {
		t.Fatalf("room missing after create")
	}
	t.Cleanup(session.Close)

	// the single word pool makes the guess deterministic
	dispatch(t, m, "c1", eventSendGuess, `{"room_code":"ROOM","guess":"CAT "}`)
	if last, ok := gw.lastTo("c1"); !ok || last.event != match.EventGuessResult {
		t.Fatalf("guesser last event = %+v, want guess_result", last)
	}
}

func TestDefaultPlayerName(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, testManagerConfig())

	dispatch(t, m, "host", eventCreateRoom, `{"room_code":"ROOM"}`)
	session, ok := m.room("ROOM")
	if !ok {
		t.Fatalf("room missing after create")
	}
	if got := session.Players()[0].Username; got != "Player" {
		t.Fatalf("host name = %q, want Player", got)
	}
}

func TestStrokeDefaults(t *testing.T) {
	t.Parallel()

	s := drawStrokeData{Points: []match.Point{{X: 1, Y: 2}}}.stroke()
	if s.Color != "#000000" || s.Width != 3 {
		t.Fatalf("defaults = %q/%v, want #000000/3", s.Color, s.Width)
	}

	s = drawStrokeData{Color: "#ff0000", Width: 7.5}.stroke()
	if s.Color != "#ff0000" || s.Width != 7.5 {
		t.Fatalf("explicit values overridden: %q/%v", s.Color, s.Width)
	}
}
