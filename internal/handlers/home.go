package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"darevote/internal/challenge"
	"darevote/internal/viewmodel"
)

type HomeHandler struct {
	actions *Actions
	catalog *challenge.Catalog
	baseURL string
}

func NewHomeHandler(actions *Actions, catalog *challenge.Catalog, baseURL string) *HomeHandler {
	return &HomeHandler{actions: actions, catalog: catalog, baseURL: baseURL}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/challenges", h.challenges)
	r.Post("/games", h.createGame)
}

func (h *HomeHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewmodel.Health{OK: true})
}

func (h *HomeHandler) challenges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewmodel.Challenges{Challenges: h.catalog.All()})
}

func (h *HomeHandler) createGame(w http.ResponseWriter, r *http.Request) {
	var req viewmodel.CreateGame
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.actions.Create(req.Nickname)
	if err != nil {
		writeError(w, r, err)
		return
	}
	room.InviteURL = buildInviteURL(r, h.baseURL, room.State.Code)
	writeJSON(w, http.StatusCreated, room)
}

func buildInviteURL(r *http.Request, baseURL, code string) string {
	if baseURL != "" {
		return baseURL + "/games/" + code
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/games/" + code
}
