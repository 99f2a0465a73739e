package handlers

import (
	"log"

	"darevote/internal/challenge"
	"darevote/internal/dare"
	"darevote/internal/game"
	"darevote/internal/viewmodel"
)

// Actions runs room commands for every transport and announces the results
// to the room's subscribers.
type Actions struct {
	store   *game.Store
	catalog *challenge.Catalog
}

// NewActions wires the store's automatic round results into room broadcasts.
func NewActions(store *game.Store, catalog *challenge.Catalog) *Actions {
	a := &Actions{store: store, catalog: catalog}
	store.OnRoundResolved(a.roundResolved)
	return a
}

func (a *Actions) Create(nickname string) (viewmodel.Room, error) {
	name, err := cleanName(nickname)
	if err != nil {
		return viewmodel.Room{}, err
	}
	view, err := a.store.Create(name)
	if err != nil {
		return viewmodel.Room{}, err
	}
	log.Printf("create game code=%s host=%s", view.State.Code, view.State.HostID)
	return toRoom(view, view.State.HostID), nil
}

func (a *Actions) Join(code, nickname string) (viewmodel.Room, error) {
	name, err := cleanName(nickname)
	if err != nil {
		return viewmodel.Room{}, err
	}
	view, player, err := a.store.Join(code, name)
	if err != nil {
		return viewmodel.Room{}, err
	}
	log.Printf("join game code=%s player=%s", view.State.Code, player.ID)
	a.publish(view.State.Code, viewmodel.EventGameState, toRoom(view, ""))
	a.publish(view.State.Code, viewmodel.EventPlayerJoined, viewmodel.PlayerJoined{Player: player})
	return toRoom(view, player.ID), nil
}

func (a *Actions) Start(code string) (viewmodel.Room, error) {
	view, err := a.store.Start(code)
	if err != nil {
		return viewmodel.Room{}, err
	}
	room := toRoom(view, "")
	a.publish(view.State.Code, viewmodel.EventGameState, room)
	return room, nil
}

// StartRound opens a round on the named catalog challenge. An unknown or empty
// id lets the store pick one.
func (a *Actions) StartRound(code, challengeID string) (viewmodel.Room, error) {
	var picked *dare.Challenge
	if challengeID != "" {
		if c, ok := a.catalog.Lookup(challengeID); ok {
			picked = &c
		}
	}
	view, err := a.store.StartRound(code, picked)
	if err != nil {
		return viewmodel.Room{}, err
	}
	rc := view.RoundContext
	log.Printf("start round code=%s round=%d challenge=%s", view.State.Code, view.State.Round, rc.Challenge.ID)
	a.publish(view.State.Code, viewmodel.EventRoundStarted, viewmodel.RoundStarted{
		Round:     view.State.Round,
		Challenge: rc.Challenge,
		ExpiresAt: rc.ExpiresAt,
	})
	room := toRoom(view, "")
	a.publish(view.State.Code, viewmodel.EventGameState, room)
	return room, nil
}

func (a *Actions) Vote(code, playerID string, choice dare.Vote) (viewmodel.Room, error) {
	view, err := a.store.SubmitVote(code, playerID, choice)
	if err != nil {
		return viewmodel.Room{}, err
	}
	log.Printf("submit vote code=%s player=%s choice=%s", view.State.Code, playerID, choice)
	if rc := view.RoundContext; rc != nil {
		a.publish(view.State.Code, viewmodel.EventVoteUpdate, viewmodel.VoteUpdate{
			Votes:     rc.Votes,
			ExpiresAt: rc.ExpiresAt,
		})
	}
	return toRoom(view, ""), nil
}

func (a *Actions) Finalize(code string, performances dare.Performances) (viewmodel.Finalized, error) {
	view, outcome, ok, err := a.store.Finalize(code, performances)
	if err != nil {
		return viewmodel.Finalized{}, err
	}
	out := viewmodel.Finalized{Room: toRoom(view, "")}
	if ok {
		log.Printf("round resolved game=%s round=%d rule=%s trigger=finalize", view.State.Code, view.State.Round-1, outcome.Rule)
		a.roundResolved(view, outcome)
		out.Outcome = &outcome
	}
	return out, nil
}

func (a *Actions) ConfirmPerformances(code string, performances dare.Performances) (viewmodel.Room, error) {
	view, err := a.store.ApplyPerformanceResults(code, performances)
	if err != nil {
		return viewmodel.Room{}, err
	}
	room := toRoom(view, "")
	a.publish(view.State.Code, viewmodel.EventGameState, room)
	a.announceFinished(view)
	return room, nil
}

func (a *Actions) Rejoin(code string) (viewmodel.Room, error) {
	view, err := a.store.Get(code)
	if err != nil {
		return viewmodel.Room{}, err
	}
	return toRoom(view, ""), nil
}

func (a *Actions) roundResolved(view game.View, outcome dare.Outcome) {
	code := view.State.Code
	a.publish(code, viewmodel.EventRoundResult, viewmodel.RoundResult{Outcome: outcome, State: view.State})
	a.publish(code, viewmodel.EventGameState, toRoom(view, ""))
	a.announceFinished(view)
}

func (a *Actions) announceFinished(view game.View) {
	if view.State.Status != dare.StatusFinished {
		return
	}
	log.Printf("game finished code=%s winner=%s", view.State.Code, view.State.WinnerID)
	a.publish(view.State.Code, viewmodel.EventGameFinished, viewmodel.GameFinished{WinnerID: view.State.WinnerID})
}

func (a *Actions) publish(code, name string, payload any) {
	a.store.Publish(code, newEvent(name, payload))
}

func toRoom(view game.View, playerID string) viewmodel.Room {
	return viewmodel.Room{
		State:        view.State,
		RoundContext: view.RoundContext,
		LastOutcome:  view.LastOutcome,
		PlayerID:     playerID,
	}
}
