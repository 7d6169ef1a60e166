package scrawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	resultdb "github.com/scrawl-games/scrawl/internal/database/result/database"
	"github.com/scrawl-games/scrawl/internal/match"
	"github.com/scrawl-games/scrawl/internal/server"
)

// Router assembles the HTTP surface: health check, lobby REST and the
// websocket endpoint. The REST routes carry allow-all CORS so browser
// clients served from anywhere can reach the lobby.
func Router(ctx context.Context, m *manager, gateway *WsGateway) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	r.Method(http.MethodGet, "/health", server.HandleHealth(ctx))
	r.Get("/api/rooms", m.HandleRooms())
	r.Get("/api/results/{code}", m.HandleResults())
	r.Get("/ws", gateway.Handle(ctx, m))
	return r
}

// HandleRooms lists every open room for the lobby browser.
func (m *manager) HandleRooms() http.HandlerFunc {
	type response struct {
		Rooms []match.RoomInfo `json:"rooms"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response{Rooms: m.ListRooms()})
	}
}

// HandleResults returns the persisted scoreboards of finished games for one
// room code.
func (m *manager) HandleResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := NormalizeCode(chi.URLParam(r, "code"))
		if code == "" {
			http.Error(w, "room code required", http.StatusBadRequest)
			return
		}

		results, err := m.resultDb.FetchByCode(code)
		if err != nil {
			if errors.Is(err, resultdb.ErrNotFound) {
				http.Error(w, "no results for room", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(results)
	}
}
