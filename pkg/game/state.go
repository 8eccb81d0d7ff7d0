package game

import (
	"sync/atomic"
	"time"
)

// State is a read-only snapshot of the session for spectators
type State struct {
	UUID            string        `json:"uuid"`
	Slots           []*int        `json:"slots"`
	Players         []PlayerState `json:"players"`
	RemainingMillis int64         `json:"remainingMillis"`
	Urgent          bool          `json:"urgent"`
	CardsLeft       int           `json:"cardsLeft"`
}

// PlayerState is a player's public state
type PlayerState struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Human bool   `json:"human"`
}

// State returns a snapshot of the session. Safe to call from any goroutine.
func (d *Dealer) State() *State {
	slots := make([]*int, 0, d.opts.TableSize)
	for _, card := range d.board.snapshot() {
		if card == noCard {
			slots = append(slots, nil)
			continue
		}

		card := card
		slots = append(slots, &card)
	}

	players := make([]PlayerState, len(d.players))
	for i, p := range d.players {
		players[i] = PlayerState{
			ID:    p.ID,
			Name:  p.Name,
			Score: p.Score(),
			Human: p.Human,
		}
	}

	remaining := time.Until(d.deadlineTime())
	if remaining < 0 {
		remaining = 0
	}

	return &State{
		UUID:            d.UUID,
		Slots:           slots,
		Players:         players,
		RemainingMillis: remaining.Milliseconds(),
		Urgent:          remaining > 0 && remaining < d.opts.TurnTimeoutWarning,
		CardsLeft:       int(atomic.LoadInt32(&d.deckLeft)),
	}
}
