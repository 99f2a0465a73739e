package viewmodel

import (
	"time"

	"darevote/internal/dare"
)

// Event names pushed to room subscribers and socket clients.
const (
	EventGameState    = "game_state"
	EventPlayerJoined = "player_joined"
	EventRoundStarted = "round_started"
	EventVoteUpdate   = "vote_update"
	EventRoundResult  = "round_result"
	EventGameFinished = "game_finished"
	EventError        = "error_message"
)

// Message is the socket frame envelope in both directions.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Room is the full room payload. PlayerID is set only on the reply to the
// client that created or joined.
type Room struct {
	State        dare.Snapshot      `json:"state"`
	RoundContext *dare.RoundContext `json:"roundContext,omitempty"`
	LastOutcome  *dare.Outcome      `json:"lastOutcome,omitempty"`
	PlayerID     string             `json:"playerId,omitempty"`
	InviteURL    string             `json:"inviteUrl,omitempty"`
}

type PlayerJoined struct {
	Player dare.Player `json:"player"`
}

type RoundStarted struct {
	Round     int            `json:"round"`
	Challenge dare.Challenge `json:"challenge"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type VoteUpdate struct {
	Votes     map[string]dare.Vote `json:"votes"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

type RoundResult struct {
	Outcome dare.Outcome  `json:"outcome"`
	State   dare.Snapshot `json:"state"`
}

type GameFinished struct {
	WinnerID string `json:"winnerId"`
}

// Finalized answers an explicit finalize. Outcome is nil when no round was open.
type Finalized struct {
	Room
	Outcome *dare.Outcome `json:"outcome"`
}

// Error is the body of failed requests and error_message frames.
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type Challenges struct {
	Challenges []dare.Challenge `json:"challenges"`
}

type Health struct {
	OK bool `json:"ok"`
}

// Requests.

type CreateGame struct {
	Nickname string `json:"nickname"`
}

type JoinGame struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
}

// RoomRef names a room for commands that carry nothing else.
type RoomRef struct {
	Code string `json:"code"`
}

type StartRound struct {
	Code        string `json:"code"`
	ChallengeID string `json:"challengeId,omitempty"`
}

type SubmitVote struct {
	Code     string    `json:"code"`
	PlayerID string    `json:"playerId"`
	Choice   dare.Vote `json:"choice"`
}

type Performances struct {
	Code         string            `json:"code"`
	Performances dare.Performances `json:"performances"`
}

// ScoreRow holds a player's line on the scoreboard.
type ScoreRow struct {
	Name       string
	Score      int
	Eliminated bool
	Host       bool
	Winner     bool
	Voted      bool
}

// Scoreboard holds data for the scoreboard fragment.
type Scoreboard struct {
	Code        string
	Status      string
	Round       int
	Challenge   string
	SecondsLeft int
	Rows        []ScoreRow
	Notes       string
}
