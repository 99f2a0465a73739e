package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"darevote/internal/game"
	"darevote/internal/viewmodel"
	"darevote/pkg/realtime"
)

// Socket commands accepted from clients.
const (
	CommandCreateGame    = "create_game"
	CommandJoinGame      = "join_game"
	CommandStartGame     = "start_game"
	CommandStartRound    = "start_round"
	CommandSubmitVote    = "submit_vote"
	CommandConfirmResult = "round_confirm_challenge_result"
	CommandRejoinGame    = "rejoin_game"
)

const (
	socketReadLimit = 32 << 10
	writeTimeout    = 5 * time.Second
)

// SocketHandler accepts WebSocket clients. A client follows one room at a time:
// the last one it created, joined or rejoined.
type SocketHandler struct {
	store   *game.Store
	actions *Actions
	accept  websocket.AcceptOptions
}

func NewSocketHandler(store *game.Store, actions *Actions, origins []string) *SocketHandler {
	return &SocketHandler{store: store, actions: actions, accept: acceptOptions(origins)}
}

func acceptOptions(origins []string) websocket.AcceptOptions {
	var opts websocket.AcceptOptions
	for _, origin := range origins {
		if origin == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			opts.OriginPatterns = append(opts.OriginPatterns, u.Host)
		} else {
			opts.OriginPatterns = append(opts.OriginPatterns, origin)
		}
	}
	return opts
}

func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &h.accept)
	if err != nil {
		log.Printf("socket accept failed remote=%s err=%v", r.RemoteAddr, err)
		return
	}
	conn.SetReadLimit(socketReadLimit)

	s := &socketSession{conn: conn, store: h.store, actions: h.actions}
	err = s.run(r.Context())
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		_ = conn.Close(websocket.StatusNormalClosure, "")
	default:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("socket closed remote=%s err=%v", r.RemoteAddr, err)
		}
		_ = conn.Close(websocket.StatusInternalError, "")
	}
}

type socketSession struct {
	conn    *websocket.Conn
	store   *game.Store
	actions *Actions

	mu     sync.Mutex
	code   string
	cancel context.CancelFunc
}

func (s *socketSession) run(ctx context.Context) error {
	defer s.unfollow()
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return err
		}
		var msg viewmodel.Message[json.RawMessage]
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(ctx, badRequest("invalid message"))
			continue
		}
		s.dispatch(ctx, msg)
	}
}

func (s *socketSession) dispatch(ctx context.Context, msg viewmodel.Message[json.RawMessage]) {
	var err error
	switch msg.Type {
	case CommandCreateGame:
		var req viewmodel.CreateGame
		if err = decodeData(msg.Data, &req); err != nil {
			break
		}
		var room viewmodel.Room
		if room, err = s.actions.Create(req.Nickname); err == nil {
			s.follow(ctx, room.State.Code)
			s.send(ctx, viewmodel.EventGameState, room)
		}
	case CommandJoinGame:
		var req viewmodel.JoinGame
		if err = decodeData(msg.Data, &req); err != nil {
			break
		}
		var room viewmodel.Room
		if room, err = s.actions.Join(req.Code, req.Nickname); err == nil {
			s.follow(ctx, room.State.Code)
			s.send(ctx, viewmodel.EventGameState, room)
		}
	case CommandStartGame:
		var req viewmodel.RoomRef
		if err = decodeData(msg.Data, &req); err == nil {
			_, err = s.actions.Start(req.Code)
		}
	case CommandStartRound:
		var req viewmodel.StartRound
		if err = decodeData(msg.Data, &req); err == nil {
			_, err = s.actions.StartRound(req.Code, req.ChallengeID)
		}
	case CommandSubmitVote:
		var req viewmodel.SubmitVote
		if err = decodeData(msg.Data, &req); err == nil {
			_, err = s.actions.Vote(req.Code, req.PlayerID, req.Choice)
		}
	case CommandConfirmResult:
		var req viewmodel.Performances
		if err = decodeData(msg.Data, &req); err == nil {
			_, err = s.actions.ConfirmPerformances(req.Code, req.Performances)
		}
	case CommandRejoinGame:
		var req viewmodel.RoomRef
		if err = decodeData(msg.Data, &req); err != nil {
			break
		}
		var room viewmodel.Room
		if room, err = s.actions.Rejoin(req.Code); err == nil {
			s.follow(ctx, room.State.Code)
			s.send(ctx, viewmodel.EventGameState, room)
		}
	default:
		err = badRequest("unknown command " + msg.Type)
	}
	if err != nil {
		s.sendError(ctx, err)
	}
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return badRequest("invalid message data")
	}
	return nil
}

// follow switches the session's subscription to code's room.
func (s *socketSession) follow(ctx context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == code {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	hub, ok := s.store.Broadcaster(code)
	if !ok {
		s.code = ""
		return
	}
	sub := hub.Subscribe()
	fctx, cancel := context.WithCancel(ctx)
	s.code = code
	s.cancel = cancel
	go s.forward(fctx, hub, sub)
}

func (s *socketSession) unfollow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.code = ""
}

func (s *socketSession) forward(ctx context.Context, hub *realtime.Broadcaster, sub chan realtime.Event) {
	defer hub.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}
			if err := s.write(ctx, event); err != nil {
				return
			}
		}
	}
}

func (s *socketSession) send(ctx context.Context, name string, payload any) {
	_ = s.write(ctx, newEvent(name, payload))
}

func (s *socketSession) sendError(ctx context.Context, err error) {
	s.send(ctx, viewmodel.EventError, errorPayload(err))
}

func (s *socketSession) write(ctx context.Context, event realtime.Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, s.conn, viewmodel.Message[json.RawMessage]{
		Type: event.Name,
		Data: json.RawMessage(event.Data),
	})
}
