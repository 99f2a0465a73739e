package dare

import "math/rand/v2"

// Selectors decide which individual is affected where a rule leaves it open.
// Nil fields fall back to PickFirst.
type Selectors struct {
	// RandomPick chooses uniformly among candidates (MAJORITY_YES performer, tie pick).
	RandomPick func(candidates []Player) Player
	// SingleNoPick is the lone NO voter's choice of performer among the YES voters.
	SingleNoPick func(yesVoters []Player, noVoter Player) Player
	// TieRecipient is the tie-picked NO voter's choice of YES voter to reward.
	TieRecipient func(yesVoters []Player, picker Player) Player
}

// PickFirst returns the first candidate. It is the deterministic default.
func PickFirst(candidates []Player) Player {
	if len(candidates) == 0 {
		return Player{}
	}
	return candidates[0]
}

// PickRandom returns a uniformly random candidate.
func PickRandom(candidates []Player) Player {
	if len(candidates) == 0 {
		return Player{}
	}
	return candidates[rand.IntN(len(candidates))]
}

// RandomSelectors picks every ambiguous individual uniformly at random.
func RandomSelectors() Selectors {
	return Selectors{
		RandomPick:   PickRandom,
		SingleNoPick: func(yes []Player, _ Player) Player { return PickRandom(yes) },
		TieRecipient: func(yes []Player, _ Player) Player { return PickRandom(yes) },
	}
}

func (s Selectors) randomPick(c []Player) Player {
	if s.RandomPick == nil {
		return PickFirst(c)
	}
	return s.RandomPick(c)
}

func (s Selectors) singleNoPick(yes []Player, no Player) Player {
	if s.SingleNoPick == nil {
		return PickFirst(yes)
	}
	return s.SingleNoPick(yes, no)
}

func (s Selectors) tieRecipient(yes []Player, picker Player) Player {
	if s.TieRecipient == nil {
		return PickFirst(yes)
	}
	return s.TieRecipient(yes, picker)
}

// EnsureVotes returns a vote for every active player; a missing vote counts as YES.
func EnsureVotes(active []Player, votes map[string]Vote) map[string]Vote {
	out := make(map[string]Vote, len(active))
	for _, p := range active {
		v, ok := votes[p.ID]
		if !ok || !v.Valid() {
			v = VoteYes
		}
		out[p.ID] = v
	}
	return out
}

// Resolve maps the active players' votes to exactly one outcome. Rules are
// evaluated in table order; the final MAJORITY_NO branch catches everything left.
func Resolve(active []Player, votes map[string]Vote, sel Selectors) Outcome {
	voteMap := EnsureVotes(active, votes)
	var yesVoters, noVoters []Player
	for _, p := range active {
		if voteMap[p.ID] == VoteNo {
			noVoters = append(noVoters, p)
		} else {
			yesVoters = append(yesVoters, p)
		}
	}
	yes, no, total := len(yesVoters), len(noVoters), len(active)

	switch {
	case yes == total:
		return allYes(active)
	case no == total:
		return allNo()
	case no == 1 && yes == total-1:
		return singleNo(yesVoters, noVoters[0], sel)
	case yes == 1 && no == total-1:
		return singleYes(yesVoters[0])
	case yes == no:
		return tie(yesVoters, noVoters, sel)
	case yes > no:
		return majorityYes(yesVoters, sel)
	default:
		return majorityNo(yesVoters)
	}
}

func allYes(active []Player) Outcome {
	performers := make([]string, 0, len(active))
	for _, p := range active {
		performers = append(performers, p.ID)
	}
	return Outcome{
		Rule:         RuleAllYes,
		Performers:   performers,
		ScoreChanges: map[string]int{},
		Notes:        "Everyone must perform the challenge.",
	}
}

func allNo() Outcome {
	return Outcome{
		Rule:         RuleAllNo,
		Performers:   []string{},
		ScoreChanges: map[string]int{},
		ResetScores:  true,
		Notes:        "All scores reset to 0.",
	}
}

func singleNo(yesVoters []Player, noVoter Player, sel Selectors) Outcome {
	chosen := sel.singleNoPick(yesVoters, noVoter)
	return Outcome{
		Rule:         RuleSingleNo,
		Performers:   []string{chosen.ID},
		ScoreChanges: map[string]int{},
		ChosenBy:     noVoter.ID,
		Notes:        "NO voter selects a YES voter to perform the challenge.",
	}
}

func singleYes(yesVoter Player) Outcome {
	return Outcome{
		Rule:         RuleSingleYes,
		Performers:   []string{},
		ScoreChanges: map[string]int{yesVoter.ID: 2},
		Notes:        "Single YES voter gains +2 points.",
	}
}

func tie(yesVoters, noVoters []Player, sel Selectors) Outcome {
	all := make([]Player, 0, len(yesVoters)+len(noVoters))
	all = append(all, yesVoters...)
	all = append(all, noVoters...)
	picked := sel.randomPick(all)
	for _, p := range yesVoters {
		if p.ID == picked.ID {
			return Outcome{
				Rule:         RuleTieYesPicked,
				Performers:   []string{picked.ID},
				ScoreChanges: map[string]int{},
				Notes:        "Tie: picked YES voter performs the challenge.",
			}
		}
	}
	recipient := sel.tieRecipient(yesVoters, picked)
	return Outcome{
		Rule:         RuleTieNoPicked,
		Performers:   []string{},
		ScoreChanges: map[string]int{recipient.ID: 1},
		ChosenBy:     picked.ID,
		Notes:        "Tie: picked NO voter grants +1 point to a YES voter.",
	}
}

func majorityYes(yesVoters []Player, sel Selectors) Outcome {
	chosen := sel.randomPick(yesVoters)
	return Outcome{
		Rule:         RuleMajorityYes,
		Performers:   []string{chosen.ID},
		ScoreChanges: map[string]int{},
		Notes:        "Random YES voter must perform the challenge.",
	}
}

func majorityNo(yesVoters []Player) Outcome {
	changes := make(map[string]int, len(yesVoters))
	for _, p := range yesVoters {
		changes[p.ID] = 1
	}
	return Outcome{
		Rule:         RuleMajorityNo,
		Performers:   []string{},
		ScoreChanges: changes,
		Notes:        "All YES voters gain +1 point.",
	}
}
