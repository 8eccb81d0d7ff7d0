package game

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"setmatch-server/internal/rng"
	"setmatch-server/pkg/deck"
)

// tickInterval bounds the dealer's wait for a claim so the countdown display
// stays responsive
const tickInterval = 50 * time.Millisecond

// Dealer owns the round lifecycle and the deck, spawns the player
// goroutines, and resolves claims strictly one at a time. Serial resolution
// is the sole mechanism preventing two players from being credited for
// overlapping cards.
type Dealer struct {
	// UUID identifies the session
	UUID string

	opts    Options
	board   *Board
	deck    *deck.Deck
	checker SetChecker
	display Display
	players []*Player
	claims  *claimQueue

	rng rng.Generator
	log *logrus.Entry

	// allFrozen is the admission-block flag: held high while the dealer
	// mutates the board so no new placements are admitted mid-mutation
	allFrozen int32

	// deadline is the round deadline in unix nanoseconds
	deadline int64

	// deckLeft mirrors the deck size for the spectator state endpoint
	deckLeft int32

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDealer creates a session but does not start it; call Run
func NewDealer(opts Options, checker SetChecker, display Display) (*Dealer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if checker == nil {
		return nil, errors.New("a set checker is required")
	}

	if display == nil {
		display = LogDisplay{}
	}

	d := &Dealer{
		UUID:    uuid.New().String(),
		opts:    opts,
		board:   NewBoard(opts.TableSize, opts.DeckSize),
		deck:    deck.New(opts.DeckSize),
		checker: checker,
		display: display,
		claims:  newClaimQueue(len(opts.Players)),
		rng:     rng.Crypto{},
		done:    make(chan struct{}),
	}

	d.log = logrus.WithField("session", d.UUID)
	d.storeDeckLeft()

	d.players = make([]*Player, len(opts.Players))
	for i, po := range opts.Players {
		d.players[i] = newPlayer(d, i, po)
	}

	return d, nil
}

// Players returns the session's players
func (d *Dealer) Players() []*Player {
	return d.players
}

// Run drives the session until the deck holds no valid set or Stop is
// called. It returns only after every player and generator goroutine has
// stopped.
func (d *Dealer) Run() {
	d.log.WithField("players", len(d.players)).Info("session starting")

	d.wg.Add(len(d.players))
	for _, p := range d.players {
		go p.run()
	}

	for !d.shouldFinish() {
		d.startRound()
		d.timerLoop()
		d.updateCountdown()
		d.endRound()
	}

	d.Stop()
	d.wg.Wait()
	d.announceWinners()
	d.log.Info("session terminated")
}

// Stop terminates the session. Safe to call more than once and from any
// goroutine; Run returns shortly after.
func (d *Dealer) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
	})
}

func (d *Dealer) stopped() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// shouldFinish reports whether the session is over: externally stopped, or
// no valid set remains among the undealt cards
func (d *Dealer) shouldFinish() bool {
	if d.stopped() {
		return true
	}

	return len(d.checker.Find(d.deck.Remaining(), 1)) == 0
}

// startRound shuffles the deck, deals the table and arms the deadline
func (d *Dealer) startRound() {
	d.log.Debug("round starting")
	d.deck.Shuffle(0)
	d.placeCardsOnTable()
	d.resetDeadline()
	d.updateCountdown()
}

// timerLoop runs the round until the deadline or an external stop, waiting
// in small bounded increments so each tick can refresh the countdown
func (d *Dealer) timerLoop() {
	for !d.stopped() && time.Now().Before(d.deadlineTime()) {
		d.claims.wait(tickInterval, d.done)
		d.updateCountdown()
		d.resolveClaims()
		d.placeCardsOnTable()
	}
}

// resolveClaims drains the claim queue, fully resolving one claim before the
// next is considered
func (d *Dealer) resolveClaims() {
	for {
		id, ok := d.claims.pop()
		if !ok {
			return
		}

		d.resolveClaim(d.players[id])
	}
}

// resolveClaim verifies a single claim and delivers the verdict.
// A winning claim mutates the board under the admission block, evicting every
// token on the matched slots and cancelling any queued claim those evictions
// invalidated.
func (d *Dealer) resolveClaim(p *Player) {
	cards := d.board.PlayerCards(p.ID)
	if len(cards) != d.opts.FeatureSize {
		// tokens changed between submission and verification
		d.log.WithField("player", p.ID).Debug("discarding stale claim")
		d.deliver(p, OutcomeNone)
		return
	}

	if !d.checker.IsSet(cards) {
		d.log.WithFields(logrus.Fields{"player": p.ID, "cards": cards}).Debug("claim rejected")
		d.deliver(p, OutcomeLose)
		return
	}

	d.log.WithFields(logrus.Fields{"player": p.ID, "cards": cards}).Info("claim verified")

	d.setAllFrozen(true)
	for _, card := range cards {
		slot, ok := d.board.SlotOf(card)
		if !ok {
			continue
		}

		_, holders := d.board.RemoveCard(slot)
		for _, id := range holders {
			d.players[id].tokens.Remove(slot)
			if id != p.ID && d.claims.remove(id) {
				// their candidate set no longer exists
				d.deliver(d.players[id], OutcomeNone)
			}
		}
	}

	d.deliver(p, OutcomeWin)
	d.resetDeadline()
	d.setAllFrozen(false)

	d.placeCardsOnTable()
	d.updateCountdown()
}

// deliver hands the outcome to the player's verdict slot.
// Each claim is removed from the queue before its verdict is delivered, so
// the capacity-1 channel can never be full here.
func (d *Dealer) deliver(p *Player, out Outcome) {
	select {
	case p.verdict <- out:
	default:
		d.log.WithField("player", p.ID).Error("verdict slot full")
	}
}

// placeCardsOnTable fills empty slots from the deck in random slot order
func (d *Dealer) placeCardsOnTable() {
	if d.board.CardCount() == d.opts.TableSize || d.deck.CardsLeft() == 0 {
		return
	}

	d.setAllFrozen(true)
	defer d.setAllFrozen(false)

	for _, slot := range rng.Permutation(d.rng, d.opts.TableSize) {
		if _, ok := d.board.CardAt(slot); ok {
			continue
		}

		card, err := d.deck.Draw()
		if err != nil {
			break
		}

		if err := d.board.PlaceCard(slot, card); err != nil {
			// cannot happen: the slot was just checked empty
			d.log.WithError(err).Error("could not place card")
			d.deck.Return(card)
		}
	}

	d.storeDeckLeft()
}

// endRound returns every board card to the deck in random slot order, wakes
// every player still waiting on a queued claim, and clears per-player state
func (d *Dealer) endRound() {
	d.log.Debug("round ended")

	d.setAllFrozen(true)
	defer d.setAllFrozen(false)

	for _, slot := range rng.Permutation(d.rng, d.opts.TableSize) {
		card, _ := d.board.RemoveCard(slot)
		if card >= 0 {
			d.deck.Return(card)
		}
	}

	for _, id := range d.claims.drain() {
		d.deliver(d.players[id], OutcomeNone)
	}

	for _, p := range d.players {
		p.resetRound()
	}

	d.storeDeckLeft()
}

// announceWinners reports every player tied for the maximum score
func (d *Dealer) announceWinners() {
	max := -1
	var winners []int
	for _, p := range d.players {
		switch score := p.Score(); {
		case score > max:
			max = score
			winners = []int{p.ID}
		case score == max:
			winners = append(winners, p.ID)
		}
	}

	d.display.AnnounceWinners(winners)
	d.log.WithFields(logrus.Fields{"players": winners, "score": max}).Info("winners announced")
}

// updateCountdown refreshes the countdown display, flagging it urgent below
// the warning threshold
func (d *Dealer) updateCountdown() {
	remaining := time.Until(d.deadlineTime())
	if remaining < 0 {
		remaining = 0
	}

	urgent := remaining > 0 && remaining < d.opts.TurnTimeoutWarning
	d.display.SetCountdown(remaining, urgent)
}

func (d *Dealer) resetDeadline() {
	atomic.StoreInt64(&d.deadline, time.Now().Add(d.opts.TurnTimeout).UnixNano())
}

func (d *Dealer) deadlineTime() time.Time {
	return time.Unix(0, atomic.LoadInt64(&d.deadline))
}

func (d *Dealer) setAllFrozen(frozen bool) {
	var v int32
	if frozen {
		v = 1
	}

	atomic.StoreInt32(&d.allFrozen, v)
}

// admissionBlocked reports whether token placements are currently suspended
func (d *Dealer) admissionBlocked() bool {
	return atomic.LoadInt32(&d.allFrozen) == 1
}

func (d *Dealer) storeDeckLeft() {
	atomic.StoreInt32(&d.deckLeft, int32(d.deck.CardsLeft()))
}
