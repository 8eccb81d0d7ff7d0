package game

import (
	"errors"
	"fmt"
	"time"
)

// Options configures a session
type Options struct {
	// DeckSize is the number of distinct cards
	DeckSize int

	// TableSize is the number of board slots
	TableSize int

	// FeatureSize is the number of cards that constitute a set, and the
	// maximum number of tokens a player may hold
	FeatureSize int

	// TurnTimeout is how long a round lasts without a successful match
	TurnTimeout time.Duration

	// TurnTimeoutWarning is the threshold below which the countdown is flagged urgent
	TurnTimeoutWarning time.Duration

	// PointFreeze is the input cooldown after a successful match
	PointFreeze time.Duration

	// PenaltyFreeze is the input cooldown after a rejected claim
	PenaltyFreeze time.Duration

	// Players configures the participants
	Players []PlayerOptions
}

// PlayerOptions configures a single participant
type PlayerOptions struct {
	Name string

	// Human players receive input through KeyPressed; the rest run a
	// generator goroutine proposing random slots
	Human bool
}

// DefaultOptions returns options for the classic game
func DefaultOptions() Options {
	return Options{
		DeckSize:           81,
		TableSize:          12,
		FeatureSize:        3,
		TurnTimeout:        time.Minute,
		TurnTimeoutWarning: 5 * time.Second,
		PointFreeze:        time.Second,
		PenaltyFreeze:      3 * time.Second,
	}
}

func (o Options) validate() error {
	if o.DeckSize < o.TableSize {
		return fmt.Errorf("deck of %d cards cannot fill %d slots", o.DeckSize, o.TableSize)
	}

	if o.TableSize < o.FeatureSize {
		return fmt.Errorf("table of %d slots cannot hold a %d-card set", o.TableSize, o.FeatureSize)
	}

	if o.TurnTimeout <= 0 {
		return errors.New("turn timeout must be positive")
	}

	if len(o.Players) == 0 {
		return errors.New("at least one player is required")
	}

	return nil
}
