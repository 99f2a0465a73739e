package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"darevote/internal/dare"
	"darevote/internal/game"
	"darevote/internal/viewmodel"
	"darevote/internal/views"
)

const (
	requestTimeout  = 15 * time.Second
	keepAlivePeriod = 25 * time.Second
)

// EventScoreboard carries the rendered scoreboard fragment on the SSE stream.
const EventScoreboard = "scoreboard"

type GameHandler struct {
	store   *game.Store
	actions *Actions
	now     func() time.Time
}

func NewGameHandler(store *game.Store, actions *Actions) *GameHandler {
	return &GameHandler{store: store, actions: actions, now: time.Now}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/games/{code}", func(r chi.Router) {
		r.Get("/stream", h.stream)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/", h.room)
			r.Get("/board", h.board)
			r.Post("/join", h.join)
			r.Post("/start", h.start)
			r.Post("/rounds", h.startRound)
			r.Post("/votes", h.vote)
			r.Post("/finalize", h.finalize)
			r.Post("/performances", h.performances)
		})
	})
}

func (h *GameHandler) room(w http.ResponseWriter, r *http.Request) {
	room, err := h.actions.Rejoin(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *GameHandler) join(w http.ResponseWriter, r *http.Request) {
	var req viewmodel.JoinGame
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.actions.Join(chi.URLParam(r, "code"), req.Nickname)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *GameHandler) start(w http.ResponseWriter, r *http.Request) {
	room, err := h.actions.Start(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *GameHandler) startRound(w http.ResponseWriter, r *http.Request) {
	var req viewmodel.StartRound
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.actions.StartRound(chi.URLParam(r, "code"), req.ChallengeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *GameHandler) vote(w http.ResponseWriter, r *http.Request) {
	var req viewmodel.SubmitVote
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.PlayerID == "" {
		writeError(w, r, badRequest("playerId required"))
		return
	}
	room, err := h.actions.Vote(chi.URLParam(r, "code"), req.PlayerID, req.Choice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *GameHandler) finalize(w http.ResponseWriter, r *http.Request) {
	var req viewmodel.Performances
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.actions.Finalize(chi.URLParam(r, "code"), req.Performances)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *GameHandler) performances(w http.ResponseWriter, r *http.Request) {
	var req viewmodel.Performances
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.actions.ConfirmPerformances(chi.URLParam(r, "code"), req.Performances)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *GameHandler) board(w http.ResponseWriter, r *http.Request) {
	view, err := h.store.Get(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render(w, r, views.Scoreboard(buildScoreboard(view, h.now())))
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	hub, ok := h.store.Broadcaster(code)
	if !ok {
		writeError(w, r, dare.ErrRoomNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Subscribe before the first snapshot so nothing in between is lost.
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	view, err := h.store.Get(code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendState := func(view game.View) {
		writeSSE(w, viewmodel.EventGameState, string(newEvent(viewmodel.EventGameState, toRoom(view, "")).Data))
		writeSSE(w, EventScoreboard, renderToString(r, views.Scoreboard(buildScoreboard(view, h.now()))))
	}
	sendState(view)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAlivePeriod)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}
			writeSSE(w, event.Name, string(event.Data))
			if event.Name == viewmodel.EventGameState {
				if view, err := h.store.Get(code); err == nil {
					writeSSE(w, EventScoreboard, renderToString(r, views.Scoreboard(buildScoreboard(view, h.now()))))
				}
			}
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func buildScoreboard(view game.View, now time.Time) viewmodel.Scoreboard {
	data := viewmodel.Scoreboard{
		Code:   view.State.Code,
		Status: string(view.State.Status),
		Round:  view.State.Round,
		Rows:   make([]viewmodel.ScoreRow, 0, len(view.State.Players)),
	}
	if rc := view.RoundContext; rc != nil {
		data.Challenge = rc.Challenge.Text
		if left := rc.ExpiresAt.Sub(now); left > 0 {
			data.SecondsLeft = int((left + time.Second - 1) / time.Second)
		}
	}
	if o := view.LastOutcome; o != nil {
		data.Notes = o.Notes
	}
	for _, p := range view.State.Players {
		row := viewmodel.ScoreRow{
			Name:       p.Name,
			Score:      p.Score,
			Eliminated: p.Eliminated,
			Host:       p.ID == view.State.HostID,
			Winner:     p.ID == view.State.WinnerID,
		}
		if view.RoundContext != nil {
			_, row.Voted = view.RoundContext.Votes[p.ID]
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
