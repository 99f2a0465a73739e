package game

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"darevote/internal/challenge"
	"darevote/internal/dare"
	"darevote/pkg/realtime"
)

const (
	// DefaultRoundDuration is how long a round stays open for votes.
	DefaultRoundDuration = 40 * time.Second
	// DefaultGraceWindow is the lock-in pause once every active player has voted.
	DefaultGraceWindow = 10 * time.Second

	codeAttempts = 64
)

// ChallengeProvider supplies the dare for a round when none is given.
type ChallengeProvider interface {
	Pick(excludeID string) dare.Challenge
}

// RoundNotifier receives rounds that resolved without an explicit Finalize:
// the timer expired, or the last vote arrived inside the grace window.
type RoundNotifier func(view View, outcome dare.Outcome)

// Options configures a Store. Zero values take the defaults.
type Options struct {
	RoundDuration time.Duration
	GraceWindow   time.Duration
	Challenges    ChallengeProvider
	Codes         CodeGenerator
	// Selectors breaks ties in the outcome engine. Nil selects uniformly at random.
	Selectors *dare.Selectors
	Now       func() time.Time
	NewID     func() string
}

// Store is the room directory and owns every room's round lifecycle.
type Store struct {
	r    *realtime.RoomStore[*Game]
	opts Options
	sel  dare.Selectors

	mu     sync.RWMutex
	notify RoundNotifier
}

// NewStore creates an in-memory store.
func NewStore(opts Options) *Store {
	if opts.RoundDuration <= 0 {
		opts.RoundDuration = DefaultRoundDuration
	}
	if opts.GraceWindow <= 0 {
		opts.GraceWindow = DefaultGraceWindow
	}
	if opts.Challenges == nil {
		opts.Challenges = challenge.Default()
	}
	if opts.Codes == nil {
		opts.Codes = RandomCodes{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	sel := dare.RandomSelectors()
	if opts.Selectors != nil {
		sel = *opts.Selectors
	}
	return &Store{
		r:    realtime.NewRoomStore[*Game](),
		opts: opts,
		sel:  sel,
	}
}

// OnRoundResolved registers the sink for automatically resolved rounds.
func (s *Store) OnRoundResolved(fn RoundNotifier) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Game holds one room's state. All fields are guarded by mu.
type Game struct {
	mu              sync.Mutex
	state           dare.Snapshot
	round           *dare.RoundContext
	lastOutcome     *dare.Outcome
	lastChallengeID string
	deadline        realtime.Deadline
}

// View is a consistent copy of a room, safe to encode and share.
type View struct {
	State        dare.Snapshot      `json:"state"`
	RoundContext *dare.RoundContext `json:"roundContext,omitempty"`
	LastOutcome  *dare.Outcome      `json:"lastOutcome,omitempty"`
}

func (g *Game) viewLocked() View {
	v := View{State: g.state.Clone()}
	if g.round != nil {
		rc := g.round.Clone()
		v.RoundContext = &rc
	}
	if g.lastOutcome != nil {
		o := g.lastOutcome.Clone()
		v.LastOutcome = &o
	}
	return v
}

func (g *Game) allVotedLocked() bool {
	for _, p := range g.state.Players {
		if p.Eliminated {
			continue
		}
		if _, ok := g.round.Votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

// Create opens a lobby with the host as its only player.
func (s *Store) Create(hostName string) (View, error) {
	host := dare.Player{ID: s.opts.NewID(), Name: hostName}
	room, err := s.r.CreateUnique(s.opts.Codes.Generate, codeAttempts, func(code string) *Game {
		return &Game{state: dare.Snapshot{
			ID:      s.opts.NewID(),
			Code:    code,
			HostID:  host.ID,
			Status:  dare.StatusLobby,
			Players: []dare.Player{host},
		}}
	})
	if err != nil {
		return View{}, fmt.Errorf("create game: %w", err)
	}
	g := room.State
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewLocked(), nil
}

// Get returns the current view of a room.
func (s *Store) Get(code string) (View, error) {
	g, err := s.lookup(code)
	if err != nil {
		return View{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewLocked(), nil
}

// Broadcaster returns the event hub of a room.
func (s *Store) Broadcaster(code string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(NormalizeCode(code))
}

// Publish sends an event to a room's subscribers.
func (s *Store) Publish(code string, event realtime.Event) {
	s.r.Publish(NormalizeCode(code), event)
}

// Join appends a player while the room is in the lobby.
func (s *Store) Join(code, name string) (View, dare.Player, error) {
	g, err := s.lookup(code)
	if err != nil {
		return View{}, dare.Player{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Status != dare.StatusLobby {
		return View{}, dare.Player{}, dare.NewError(dare.CodeInvalidState, "cannot join once the game has started")
	}
	player := dare.Player{
		ID:        s.opts.NewID(),
		Name:      name,
		JoinOrder: len(g.state.Players),
	}
	g.state.Players = append(g.state.Players, player)
	return g.viewLocked(), player, nil
}

// Start moves the room from lobby to round one.
func (s *Store) Start(code string) (View, error) {
	g, err := s.lookup(code)
	if err != nil {
		return View{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Status != dare.StatusLobby {
		return View{}, dare.NewError(dare.CodeInvalidState, "game already started")
	}
	if len(g.state.Players) < dare.MinPlayers {
		return View{}, dare.NewError(dare.CodeInsufficientPlayers,
			fmt.Sprintf("game requires at least %d players to start", dare.MinPlayers))
	}
	g.state.Status = dare.StatusInProgress
	g.state.Round = 1
	return g.viewLocked(), nil
}

// StartRound opens voting on ch, or on a provider pick when ch is nil. Any
// round already open is discarded along with its timer.
func (s *Store) StartRound(code string, ch *dare.Challenge) (View, error) {
	g, err := s.lookup(code)
	if err != nil {
		return View{}, err
	}
	normalized := NormalizeCode(code)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Status != dare.StatusInProgress {
		return View{}, dare.NewError(dare.CodeInvalidState, "game must be in progress to start a round")
	}

	picked := dare.Challenge{}
	if ch != nil {
		picked = *ch
	} else {
		picked = s.opts.Challenges.Pick(g.lastChallengeID)
	}

	now := s.opts.Now()
	g.deadline.Start(now, s.opts.RoundDuration, s.expireFunc(normalized))
	g.round = &dare.RoundContext{
		Challenge: picked,
		Votes:     make(map[string]dare.Vote),
		StartedAt: g.deadline.StartedAt,
		ExpiresAt: g.deadline.ExpiresAt,
	}
	g.lastOutcome = nil
	g.lastChallengeID = picked.ID
	return g.viewLocked(), nil
}

// SubmitVote records or changes a vote. When the last active player votes, the
// deadline shrinks to the grace window; if no more than that remains, the round
// resolves at once and the notifier is called.
func (s *Store) SubmitVote(code, playerID string, choice dare.Vote) (View, error) {
	g, err := s.lookup(code)
	if err != nil {
		return View{}, err
	}
	normalized := NormalizeCode(code)
	g.mu.Lock()
	if g.round == nil {
		g.mu.Unlock()
		return View{}, dare.ErrRoundNotActive
	}
	if !choice.Valid() {
		g.mu.Unlock()
		return View{}, dare.ErrInvalidVote
	}
	player, ok := g.state.Player(playerID)
	if !ok {
		g.mu.Unlock()
		return View{}, dare.ErrPlayerNotFound
	}
	if player.Eliminated {
		g.mu.Unlock()
		return View{}, dare.NewError(dare.CodeInvalidState, "eliminated players cannot vote")
	}

	g.round.Votes[playerID] = choice
	if !g.allVotedLocked() {
		view := g.viewLocked()
		g.mu.Unlock()
		return view, nil
	}

	if g.deadline.ShortenTo(s.opts.Now(), s.opts.GraceWindow, s.expireFunc(normalized)) {
		g.round.ExpiresAt = g.deadline.ExpiresAt
		view := g.viewLocked()
		g.mu.Unlock()
		return view, nil
	}

	outcome := s.finalizeLocked(g, nil)
	view := g.viewLocked()
	g.mu.Unlock()
	log.Printf("round resolved game=%s round=%d rule=%s trigger=votes", normalized, view.State.Round-1, outcome.Rule)
	s.publishResolved(view, outcome)
	return view, nil
}

// Finalize resolves the open round now. ok is false, with no error, when no
// round is open.
func (s *Store) Finalize(code string, performances dare.Performances) (view View, outcome dare.Outcome, ok bool, err error) {
	g, err := s.lookup(code)
	if err != nil {
		return View{}, dare.Outcome{}, false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.round == nil {
		return g.viewLocked(), dare.Outcome{}, false, nil
	}
	outcome = s.finalizeLocked(g, performances)
	return g.viewLocked(), outcome, true, nil
}

// ApplyPerformanceResults eliminates performers of the last outcome judged as
// failed and recomputes the winner. Without a last outcome it changes nothing.
func (s *Store) ApplyPerformanceResults(code string, performances dare.Performances) (View, error) {
	g, err := s.lookup(code)
	if err != nil {
		return View{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastOutcome == nil {
		return g.viewLocked(), nil
	}
	next := g.state.Clone()
	next.Players = dare.Eliminate(next.Players, g.lastOutcome.Performers, performances)
	g.state = dare.Settle(next)
	return g.viewLocked(), nil
}

func (s *Store) finalizeLocked(g *Game, performances dare.Performances) dare.Outcome {
	g.deadline.Clear()
	outcome := dare.Resolve(g.state.ActivePlayers(), g.round.Votes, s.sel)
	g.state = dare.Apply(g.state, outcome, performances)
	g.round = nil
	g.lastOutcome = &outcome
	return outcome.Clone()
}

func (s *Store) expireFunc(code string) func(gen uint64) {
	return func(gen uint64) {
		s.expire(code, gen)
	}
}

func (s *Store) expire(code string, gen uint64) {
	room, ok := s.r.Get(code)
	if !ok {
		return
	}
	g := room.State
	g.mu.Lock()
	if !g.deadline.Current(gen) || g.round == nil {
		g.mu.Unlock()
		return
	}
	outcome := s.finalizeLocked(g, nil)
	view := g.viewLocked()
	g.mu.Unlock()
	log.Printf("round resolved game=%s round=%d rule=%s trigger=timer", code, view.State.Round-1, outcome.Rule)
	s.publishResolved(view, outcome)
}

func (s *Store) publishResolved(view View, outcome dare.Outcome) {
	s.mu.RLock()
	notify := s.notify
	s.mu.RUnlock()
	if notify != nil {
		notify(view, outcome)
	}
}

func (s *Store) lookup(code string) (*Game, error) {
	room, ok := s.r.Get(NormalizeCode(code))
	if !ok {
		return nil, dare.ErrRoomNotFound
	}
	return room.State, nil
}
