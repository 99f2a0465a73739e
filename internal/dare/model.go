package dare

import "time"

// Status is the lifecycle phase of a game.
type Status string

const (
	StatusLobby      Status = "LOBBY"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

const (
	// MinPlayers is the number of players (host included) required to start.
	MinPlayers = 6
	// WinningScore is the score a non-eliminated player must reach to win.
	WinningScore = 5
)

// Vote is a player's answer to the round's dare.
type Vote string

const (
	VoteYes Vote = "YES"
	VoteNo  Vote = "NO"
)

// Valid reports whether v is YES or NO.
func (v Vote) Valid() bool {
	return v == VoteYes || v == VoteNo
}

// Player is one participant. Only Score and Eliminated change after creation.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Eliminated bool   `json:"eliminated"`
	JoinOrder  int    `json:"joinOrder"`
}

// Snapshot is the game state shared with every client.
type Snapshot struct {
	ID       string   `json:"id"`
	Code     string   `json:"code"`
	HostID   string   `json:"hostId"`
	Status   Status   `json:"status"`
	Players  []Player `json:"players"`
	Round    int      `json:"round"`
	WinnerID string   `json:"winnerId,omitempty"`
}

// Clone returns a copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Players = make([]Player, len(s.Players))
	copy(out.Players, s.Players)
	return out
}

// ActivePlayers returns the non-eliminated players in join order.
func (s Snapshot) ActivePlayers() []Player {
	active := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		if !p.Eliminated {
			active = append(active, p)
		}
	}
	return active
}

// Player finds a player by id.
func (s Snapshot) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Challenge is the dare put to the vote.
type Challenge struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// RoundContext exists only while a round is open for voting.
type RoundContext struct {
	Challenge Challenge       `json:"challenge"`
	Votes     map[string]Vote `json:"votes"`
	StartedAt time.Time       `json:"startedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Clone returns a copy with its own vote map.
func (rc RoundContext) Clone() RoundContext {
	out := rc
	out.Votes = make(map[string]Vote, len(rc.Votes))
	for id, v := range rc.Votes {
		out.Votes[id] = v
	}
	return out
}

// Rule names the branch of the decision table that produced an outcome.
type Rule string

const (
	RuleAllYes       Rule = "ALL_YES"
	RuleAllNo        Rule = "ALL_NO"
	RuleSingleNo     Rule = "SINGLE_NO"
	RuleSingleYes    Rule = "SINGLE_YES"
	RuleTieYesPicked Rule = "TIE_YES_PICKED"
	RuleTieNoPicked  Rule = "TIE_NO_PICKED"
	RuleMajorityYes  Rule = "MAJORITY_YES"
	RuleMajorityNo   Rule = "MAJORITY_NO"
)

// Outcome is the verdict for one round, before any performance is judged.
type Outcome struct {
	Rule         Rule           `json:"rule"`
	Performers   []string       `json:"performers"`
	ScoreChanges map[string]int `json:"scoreChanges"`
	ResetScores  bool           `json:"resetScores"`
	ChosenBy     string         `json:"chosenBy,omitempty"`
	Notes        string         `json:"notes"`
}

// IsPerformer reports whether id was asked to perform the challenge.
func (o Outcome) IsPerformer(id string) bool {
	for _, p := range o.Performers {
		if p == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of o.
func (o Outcome) Clone() Outcome {
	out := o
	out.Performers = append([]string(nil), o.Performers...)
	out.ScoreChanges = make(map[string]int, len(o.ScoreChanges))
	for id, d := range o.ScoreChanges {
		out.ScoreChanges[id] = d
	}
	return out
}

// Performances maps performer id to verdict. An absent id has not been judged.
type Performances map[string]bool

// Failed reports whether id was explicitly judged to have failed.
func (p Performances) Failed(id string) bool {
	ok, judged := p[id]
	return judged && !ok
}
