package dare

import (
	"errors"
	"fmt"
	"testing"
)

func inProgress(players []Player) Snapshot {
	return Snapshot{
		ID:      "game-1",
		Code:    "ABCD",
		HostID:  players[0].ID,
		Status:  StatusInProgress,
		Players: players,
		Round:   1,
	}
}

func TestApply_ResetScoresSparesEliminated(t *testing.T) {
	players := buildPlayers(6)
	for i := range players {
		players[i].Score = 3
	}
	players[5].Eliminated = true
	next := Apply(inProgress(players), Outcome{Rule: RuleAllNo, ResetScores: true}, nil)

	for _, p := range next.Players[:5] {
		if p.Score != 0 {
			t.Errorf("player %s score %d, want 0", p.ID, p.Score)
		}
	}
	if next.Players[5].Score != 3 {
		t.Errorf("eliminated player score %d, want frozen at 3", next.Players[5].Score)
	}
}

func TestApply_ScoreChangesSkipEliminatedAndUnknown(t *testing.T) {
	players := buildPlayers(6)
	players[1].Eliminated = true
	outcome := Outcome{
		Rule:         RuleMajorityNo,
		ScoreChanges: map[string]int{"p0": 1, "p1": 1, "ghost": 4},
	}
	next := Apply(inProgress(players), outcome, nil)
	if next.Players[0].Score != 1 {
		t.Errorf("p0 score %d, want 1", next.Players[0].Score)
	}
	if next.Players[1].Score != 0 {
		t.Errorf("eliminated p1 score %d, want 0", next.Players[1].Score)
	}
}

func TestApply_ExplicitFailureEliminates(t *testing.T) {
	players := buildPlayers(6)
	outcome := Outcome{Rule: RuleAllYes, Performers: []string{"p0", "p1", "p2"}}
	next := Apply(inProgress(players), outcome, Performances{"p0": false, "p1": true})

	if !next.Players[0].Eliminated {
		t.Error("p0 failed and should be eliminated")
	}
	if next.Players[1].Eliminated {
		t.Error("p1 succeeded and should stay active")
	}
	if next.Players[2].Eliminated {
		t.Error("p2 was not judged and should stay active")
	}
}

func TestApply_FailureOnlyAppliesToPerformers(t *testing.T) {
	players := buildPlayers(6)
	outcome := Outcome{Rule: RuleMajorityYes, Performers: []string{"p2"}}
	next := Apply(inProgress(players), outcome, Performances{"p3": false})
	if next.Players[3].Eliminated {
		t.Error("non-performer should not be eliminated")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	players := buildPlayers(6)
	snap := inProgress(players)
	outcome := Outcome{
		Rule:         RuleSingleYes,
		Performers:   []string{"p1"},
		ScoreChanges: map[string]int{"p0": 2},
	}
	_ = Apply(snap, outcome, Performances{"p1": false})

	if snap.Players[0].Score != 0 || snap.Players[1].Eliminated || snap.Round != 1 {
		t.Errorf("input snapshot mutated: %+v", snap)
	}
}

func TestApply_RoundIncrementsWithEmptyInputs(t *testing.T) {
	snap := inProgress(buildPlayers(6))
	next := Apply(snap, Outcome{}, nil)
	if next.Round != 2 {
		t.Errorf("round %d, want 2", next.Round)
	}
	if next.Status != StatusInProgress {
		t.Errorf("status %s, want IN_PROGRESS", next.Status)
	}
	if next.WinnerID != "" {
		t.Errorf("winner %q, want none", next.WinnerID)
	}
}

func TestApply_WinnerFinishesGame(t *testing.T) {
	players := buildPlayers(6)
	players[3].Score = 4
	outcome := Outcome{Rule: RuleMajorityNo, ScoreChanges: map[string]int{"p3": 1}}
	next := Apply(inProgress(players), outcome, nil)
	if next.Status != StatusFinished {
		t.Fatalf("status %s, want FINISHED", next.Status)
	}
	if next.WinnerID != "p3" {
		t.Errorf("winner %q, want p3", next.WinnerID)
	}
}

func TestDetermineWinner_TieBreaksOnJoinOrder(t *testing.T) {
	players := buildPlayers(6)
	players[0].Score = 5
	players[1].Score = 5
	for i := 0; i < 3; i++ {
		winner, ok := DetermineWinner(players)
		if !ok || winner.ID != "p0" {
			t.Fatalf("winner %q ok=%v, want p0", winner.ID, ok)
		}
	}
	// Order of the slice does not matter, only joinOrder.
	players[0], players[1] = players[1], players[0]
	if winner, _ := DetermineWinner(players); winner.ID != "p0" {
		t.Errorf("winner %q after reorder, want p0", winner.ID)
	}
}

func TestDetermineWinner_HighestScoreWins(t *testing.T) {
	players := buildPlayers(6)
	players[0].Score = 5
	players[4].Score = 7
	if winner, _ := DetermineWinner(players); winner.ID != "p4" {
		t.Errorf("winner %q, want p4", winner.ID)
	}
}

func TestDetermineWinner_EliminatedCannotWin(t *testing.T) {
	players := buildPlayers(6)
	players[0].Score = 9
	players[0].Eliminated = true
	if _, ok := DetermineWinner(players); ok {
		t.Error("eliminated player should not win")
	}
}

func TestSettle_KeepsRound(t *testing.T) {
	players := buildPlayers(6)
	players[2].Score = 5
	snap := inProgress(players)
	snap.Round = 4
	next := Settle(snap)
	if next.Round != 4 {
		t.Errorf("round %d, want 4", next.Round)
	}
	if next.Status != StatusFinished || next.WinnerID != "p2" {
		t.Errorf("status=%s winner=%q, want FINISHED p2", next.Status, next.WinnerID)
	}
	if snap.Status != StatusInProgress {
		t.Error("Settle mutated its input")
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NewError(CodeInvalidState, "cannot join once the game has started")
	wrapped := fmt.Errorf("join ABCD: %w", err)
	if !errors.Is(wrapped, ErrInvalidState) {
		t.Error("wrapped error should match ErrInvalidState")
	}
	if errors.Is(wrapped, ErrRoomNotFound) {
		t.Error("error should not match ErrRoomNotFound")
	}
	if CodeOf(wrapped) != CodeInvalidState {
		t.Errorf("CodeOf %q, want %q", CodeOf(wrapped), CodeInvalidState)
	}
	if CodeOf(nil) != "" {
		t.Error("CodeOf(nil) should be empty")
	}
}
