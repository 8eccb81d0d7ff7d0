package game

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"setmatch-server/internal/rng"
)

// Outcome is the dealer's verdict on a claim
type Outcome int

// verdict outcomes
const (
	// OutcomeNone means the claim was stale or cancelled; the player resumes immediately
	OutcomeNone Outcome = iota

	// OutcomeWin means the claim was a valid set
	OutcomeWin

	// OutcomeLose means the claim was not a valid set
	OutcomeLose
)

// generatorInterval is how often an autonomous player proposes a slot
const generatorInterval = 10 * time.Millisecond

// Player is a single participant. Its goroutine consumes the action queue,
// toggles tokens on the board, and submits a claim once it holds a full set
// of tokens. Autonomous players run a second goroutine feeding random slots
// through the same admission gate as manual input.
type Player struct {
	// ID is the player's index, starting from 0
	ID int

	// Name is a display name
	Name string

	// Human players receive input via KeyPressed
	Human bool

	dealer *Dealer
	tokens *slotSet

	// actions is the bounded input queue; a full queue blocks the producer
	actions chan int

	// verdict is the capacity-1 rendezvous the player blocks on after
	// submitting a claim. The dealer delivers exactly one outcome per claim,
	// so the channel is always empty when a new claim is submitted.
	verdict chan Outcome

	score  int32
	frozen int32

	log logrus.FieldLogger
	rng rng.Generator
}

func newPlayer(dealer *Dealer, id int, opts PlayerOptions) *Player {
	return &Player{
		ID:      id,
		Name:    opts.Name,
		Human:   opts.Human,
		dealer:  dealer,
		tokens:  newSlotSet(),
		actions: make(chan int, dealer.opts.FeatureSize),
		verdict: make(chan Outcome, 1),
		log:     dealer.log.WithField("player", id),
		rng:     rng.Crypto{},
	}
}

// Score returns the player's current score
func (p *Player) Score() int {
	return int(atomic.LoadInt32(&p.score))
}

// KeyPressed feeds one slot selection into the player's action queue.
// The press is discarded while the player is in a cooldown or the board is
// admission-blocked; otherwise the call blocks until the queue has room.
func (p *Player) KeyPressed(slot int) {
	if slot < 0 || slot >= p.dealer.opts.TableSize {
		return
	}

	if p.isFrozen() || p.dealer.admissionBlocked() {
		return
	}

	select {
	case p.actions <- slot:
	case <-p.dealer.done:
	}
}

func (p *Player) run() {
	defer p.dealer.wg.Done()
	p.log.Debug("player starting")

	if !p.Human {
		p.dealer.wg.Add(1)
		go p.runGenerator()
	}

	for {
		select {
		case <-p.dealer.done:
			p.log.Debug("player terminated")
			return
		case slot := <-p.actions:
			p.handleAction(slot)
		}
	}
}

// runGenerator proposes a uniformly random slot at a fixed short interval
// until the session terminates
func (p *Player) runGenerator() {
	defer p.dealer.wg.Done()
	p.log.Debug("generator starting")

	ticker := time.NewTicker(generatorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.dealer.done:
			p.log.Debug("generator terminated")
			return
		case <-ticker.C:
			p.KeyPressed(p.rng.Intn(p.dealer.opts.TableSize))
		}
	}
}

// handleAction toggles a token on the slot. Reaching a full token set
// submits a claim and blocks until the dealer delivers a verdict.
func (p *Player) handleAction(slot int) {
	if _, ok := p.dealer.board.CardAt(slot); !ok {
		return
	}

	if p.dealer.board.RemoveToken(p.ID, slot) {
		p.tokens.Remove(slot)
		return
	}

	if p.tokens.Len() >= p.dealer.opts.FeatureSize {
		return
	}

	if !p.dealer.board.PlaceToken(p.ID, slot) {
		return
	}

	p.tokens.Add(slot)
	if p.tokens.Len() == p.dealer.opts.FeatureSize {
		p.submitClaim()
	}
}

// submitClaim enqueues the player for verification and waits for the verdict
func (p *Player) submitClaim() {
	if !p.dealer.claims.push(p.ID) {
		// capacity equals the player count, so this cannot happen while the
		// player has no other claim outstanding
		p.log.Error("claim queue rejected claim")
		return
	}

	select {
	case out := <-p.verdict:
		switch out {
		case OutcomeWin:
			p.point()
		case OutcomeLose:
			p.penalty()
		case OutcomeNone:
			// stale or cancelled claim, resume immediately
		}
	case <-p.dealer.done:
	}
}

// point awards a point and runs the scoring cooldown
func (p *Player) point() {
	score := atomic.AddInt32(&p.score, 1)
	p.log.WithField("score", score).Info("scored a point")
	p.dealer.display.SetScore(p.ID, int(score))
	p.freeze(p.dealer.opts.PointFreeze)
}

// penalty runs the penalty cooldown without touching the score
func (p *Player) penalty() {
	p.log.Debug("penalized")
	p.freeze(p.dealer.opts.PenaltyFreeze)
}

// freeze blocks input for the given duration, ticking the freeze countdown
// on the display about once per second
func (p *Player) freeze(d time.Duration) {
	if d <= 0 {
		return
	}

	atomic.StoreInt32(&p.frozen, 1)
	defer atomic.StoreInt32(&p.frozen, 0)

	deadline := time.Now().Add(d)
	for remaining := d; remaining > 0; remaining = time.Until(deadline) {
		p.dealer.display.SetFreeze(p.ID, remaining)

		interval := time.Second
		if remaining < interval {
			interval = remaining
		}

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-p.dealer.done:
			timer.Stop()
			return
		}
	}

	p.dealer.display.SetFreeze(p.ID, 0)
}

func (p *Player) isFrozen() bool {
	return atomic.LoadInt32(&p.frozen) == 1
}

// resetRound clears the player's tokens and pending actions at a round
// boundary. It runs on the dealer goroutine; both drains are atomic with
// respect to the player's own loop.
func (p *Player) resetRound() {
	p.tokens.Drain()

	for {
		select {
		case <-p.actions:
		default:
			return
		}
	}
}
