package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"darevote/internal/challenge"
	"darevote/internal/game"
)

// RouterConfig holds the transport settings taken from the environment.
type RouterConfig struct {
	CORSOrigins []string
	BaseURL     string
}

// NewRouter mounts every HTTP, SSE and WebSocket route for store.
func NewRouter(store *game.Store, catalog *challenge.Catalog, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(cfg.CORSOrigins))

	actions := NewActions(store, catalog)
	NewHomeHandler(actions, catalog, cfg.BaseURL).RegisterRoutes(r)
	NewGameHandler(store, actions).RegisterRoutes(r)
	r.Handle("/ws", NewSocketHandler(store, actions, cfg.CORSOrigins))
	return r
}
