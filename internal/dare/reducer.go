package dare

import "sort"

// Apply returns the snapshot that follows outcome. The input snapshot is not modified.
func Apply(s Snapshot, outcome Outcome, performances Performances) Snapshot {
	next := s.Clone()

	if outcome.ResetScores {
		for i := range next.Players {
			if !next.Players[i].Eliminated {
				next.Players[i].Score = 0
			}
		}
	}

	for id, delta := range outcome.ScoreChanges {
		for i := range next.Players {
			p := &next.Players[i]
			if p.ID == id && !p.Eliminated {
				p.Score += delta
			}
		}
	}

	next.Players = Eliminate(next.Players, outcome.Performers, performances)
	next = settleWinner(next)
	next.Round = s.Round + 1
	return next
}

// Eliminate marks every performer explicitly judged as failed. players is modified in place.
func Eliminate(players []Player, performers []string, performances Performances) []Player {
	for _, id := range performers {
		if !performances.Failed(id) {
			continue
		}
		for i := range players {
			if players[i].ID == id {
				players[i].Eliminated = true
			}
		}
	}
	return players
}

// DetermineWinner returns the highest-scoring non-eliminated player at or above
// WinningScore, earliest joiner first on equal scores.
func DetermineWinner(players []Player) (Player, bool) {
	contenders := make([]Player, 0, len(players))
	for _, p := range players {
		if !p.Eliminated && p.Score >= WinningScore {
			contenders = append(contenders, p)
		}
	}
	if len(contenders) == 0 {
		return Player{}, false
	}
	sort.Slice(contenders, func(i, j int) bool {
		if contenders[i].Score == contenders[j].Score {
			return contenders[i].JoinOrder < contenders[j].JoinOrder
		}
		return contenders[i].Score > contenders[j].Score
	})
	return contenders[0], true
}

// Settle recomputes winner and status on a copy of s. The round counter is left alone.
func Settle(s Snapshot) Snapshot {
	return settleWinner(s.Clone())
}

func settleWinner(s Snapshot) Snapshot {
	winner, ok := DetermineWinner(s.Players)
	if !ok {
		return s
	}
	s.WinnerID = winner.ID
	s.Status = StatusFinished
	return s
}
