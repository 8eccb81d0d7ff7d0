package game

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setmatch-server/pkg/set"
)

// recordingDisplay captures display updates for assertions
type recordingDisplay struct {
	mu         sync.Mutex
	countdowns int
	scores     map[int]int
	freezes    map[int]int
	winners    [][]int
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{
		scores:  make(map[int]int),
		freezes: make(map[int]int),
	}
}

func (r *recordingDisplay) SetCountdown(remaining time.Duration, urgent bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countdowns++
}

func (r *recordingDisplay) SetScore(playerID, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[playerID] = score
}

func (r *recordingDisplay) SetFreeze(playerID int, remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freezes[playerID]++
}

func (r *recordingDisplay) AnnounceWinners(playerIDs []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.winners = append(r.winners, playerIDs)
}

func (r *recordingDisplay) score(playerID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scores[playerID]
}

func (r *recordingDisplay) freezeTicks(playerID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.freezes[playerID]
}

func (r *recordingDisplay) announced() [][]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winners
}

func testOptions(players ...PlayerOptions) Options {
	opts := DefaultOptions()
	opts.PointFreeze = 0
	opts.PenaltyFreeze = 0
	opts.Players = players
	return opts
}

func newTestDealer(t *testing.T, opts Options) (*Dealer, *recordingDisplay) {
	t.Helper()

	checker, err := set.NewChecker(opts.DeckSize, opts.FeatureSize)
	require.NoError(t, err)

	display := newRecordingDisplay()
	d, err := NewDealer(opts, checker, display)
	require.NoError(t, err)

	return d, display
}

// boardSet finds a valid set on the board and returns its slots
func boardSet(t *testing.T, d *Dealer) []int {
	t.Helper()

	var cards []int
	for slot := 0; slot < d.opts.TableSize; slot++ {
		if card, ok := d.board.CardAt(slot); ok {
			cards = append(cards, card)
		}
	}

	found := d.checker.Find(cards, 1)
	require.Len(t, found, 1, "expected the board to hold a valid set")

	slots := make([]int, 0, len(found[0]))
	for _, card := range found[0] {
		slot, ok := d.board.SlotOf(card)
		require.True(t, ok)
		slots = append(slots, slot)
	}

	return slots
}

// boardNonSet finds three board slots whose cards do not form a valid set
func boardNonSet(t *testing.T, d *Dealer) []int {
	t.Helper()

	for i := 0; i < d.opts.TableSize; i++ {
		for j := i + 1; j < d.opts.TableSize; j++ {
			for k := j + 1; k < d.opts.TableSize; k++ {
				ci, iOK := d.board.CardAt(i)
				cj, jOK := d.board.CardAt(j)
				ck, kOK := d.board.CardAt(k)
				if iOK && jOK && kOK && !d.checker.IsSet([]int{ci, cj, ck}) {
					return []int{i, j, k}
				}
			}
		}
	}

	t.Fatal("expected the board to hold an invalid triple")
	return nil
}

// placeTokens puts a player's tokens on the slots, bypassing the action queue
func placeTokens(t *testing.T, d *Dealer, p *Player, slots []int) {
	t.Helper()

	for _, slot := range slots {
		require.True(t, d.board.PlaceToken(p.ID, slot))
		p.tokens.Add(slot)
	}
}

// assertConservation checks cards on board + cards in deck + matched == deckSize
func assertConservation(t *testing.T, d *Dealer, matched int) {
	t.Helper()
	assert.Equal(t, d.opts.DeckSize, d.board.CardCount()+d.deck.CardsLeft()+matched)
}

func TestNewDealer_Validation(t *testing.T) {
	a := assert.New(t)

	checker, err := set.NewChecker(81, 3)
	require.NoError(t, err)

	_, err = NewDealer(testOptions(), checker, nil)
	a.EqualError(err, "at least one player is required")

	opts := testOptions(PlayerOptions{Name: "a"})
	_, err = NewDealer(opts, nil, nil)
	a.EqualError(err, "a set checker is required")

	opts.DeckSize = 9
	_, err = NewDealer(opts, checker, nil)
	a.EqualError(err, "deck of 9 cards cannot fill 12 slots")

	opts = testOptions(PlayerOptions{Name: "a"})
	opts.TurnTimeout = 0
	_, err = NewDealer(opts, checker, nil)
	a.EqualError(err, "turn timeout must be positive")

	d, err := NewDealer(testOptions(PlayerOptions{Name: "a"}), checker, nil)
	a.NoError(err)
	a.NotEmpty(d.UUID)
	a.Len(d.Players(), 1)
}

func TestDealer_StartRound(t *testing.T) {
	a := assert.New(t)

	d, display := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}))
	a.Equal(0, d.board.CardCount())

	d.startRound()
	a.Equal(12, d.board.CardCount())
	a.Equal(69, d.deck.CardsLeft())
	assertConservation(t, d, 0)

	// deadline is armed for a full turn
	remaining := time.Until(d.deadlineTime())
	a.Greater(remaining, 50*time.Second)

	a.Greater(display.countdowns, 0)
}

func TestDealer_Refill(t *testing.T) {
	a := assert.New(t)

	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}))
	d.startRound()

	d.board.RemoveCard(3)
	d.board.RemoveCard(7)
	a.Equal(10, d.board.CardCount())

	d.placeCardsOnTable()
	a.Equal(12, d.board.CardCount())
	a.Equal(67, d.deck.CardsLeft())
	a.False(d.admissionBlocked())
}

func TestDealer_ResolveClaim_Win(t *testing.T) {
	a := assert.New(t)

	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}))

	// deal exactly cards 0..11 so the board is guaranteed to hold a set
	d.deck.Cards = d.deck.Cards[:12]
	d.startRound()

	p := d.players[0]
	slots := boardSet(t, d)

	var matched []int
	for _, slot := range slots {
		card, _ := d.board.CardAt(slot)
		matched = append(matched, card)
	}

	placeTokens(t, d, p, slots)
	require.True(t, d.claims.push(p.ID))

	d.resolveClaims()

	a.Equal(OutcomeWin, <-p.verdict)

	// the matched cards are gone for good
	for _, card := range matched {
		_, ok := d.board.SlotOf(card)
		a.False(ok)
	}

	// the deck was empty, so the freed slots stay empty
	a.Equal(9, d.board.CardCount())
	a.Equal(0, d.deck.CardsLeft())

	// the claimant's tokens were evicted with the cards
	a.Equal(0, p.tokens.Len())
	a.Empty(d.board.PlayerCards(p.ID))

	// the deadline was reset to a full turn
	a.Greater(time.Until(d.deadlineTime()), 50*time.Second)
}

func TestDealer_ResolveClaim_Lose(t *testing.T) {
	a := assert.New(t)

	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}))
	d.startRound()

	p := d.players[0]
	slots := boardNonSet(t, d)
	placeTokens(t, d, p, slots)
	require.True(t, d.claims.push(p.ID))

	d.resolveClaims()

	a.Equal(OutcomeLose, <-p.verdict)

	// no board mutation on a rejected claim
	a.Equal(12, d.board.CardCount())
	a.Equal(69, d.deck.CardsLeft())
	a.Equal(3, p.tokens.Len())
}

func TestDealer_ResolveClaim_Stale(t *testing.T) {
	a := assert.New(t)

	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}))
	d.startRound()

	p := d.players[0]
	placeTokens(t, d, p, []int{0, 1})
	require.True(t, d.claims.push(p.ID))

	d.resolveClaims()

	a.Equal(OutcomeNone, <-p.verdict)
	a.Equal(12, d.board.CardCount())
}

func TestDealer_OverlappingClaims(t *testing.T) {
	a := assert.New(t)

	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}, PlayerOptions{Name: "b"}))
	d.deck.Cards = d.deck.Cards[:12]
	d.startRound()

	p0 := d.players[0]
	p1 := d.players[1]

	slots := boardSet(t, d)

	// p1 shares two slots with p0's set plus a third of its own
	var other int
	for slot := 0; slot < d.opts.TableSize; slot++ {
		if slot != slots[0] && slot != slots[1] && slot != slots[2] {
			other = slot
			break
		}
	}

	placeTokens(t, d, p0, slots)
	placeTokens(t, d, p1, []int{slots[0], slots[1], other})

	require.True(t, d.claims.push(p0.ID))
	require.True(t, d.claims.push(p1.ID))

	d.resolveClaims()

	// only the first claim in the queue may remove the shared slots; the
	// second resolves to none, not win or lose
	a.Equal(OutcomeWin, <-p0.verdict)
	a.Equal(OutcomeNone, <-p1.verdict)
	a.Equal(0, d.claims.len())

	// p1 keeps only the token that survived the mutation
	a.Equal(1, p1.tokens.Len())
	a.True(p1.tokens.Has(other))
	a.Equal(0, p0.tokens.Len())
}

func TestDealer_EndRound(t *testing.T) {
	a := assert.New(t)

	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}))
	d.deck.Cards = d.deck.Cards[:12]
	d.startRound()

	p := d.players[0]
	slots := boardSet(t, d)
	placeTokens(t, d, p, slots)
	require.True(t, d.claims.push(p.ID))
	p.actions <- 5

	d.endRound()

	// every card went back to the deck
	a.Equal(0, d.board.CardCount())
	a.Equal(12, d.deck.CardsLeft())

	// the queued claim was cancelled with an empty verdict
	a.Equal(OutcomeNone, <-p.verdict)
	a.Equal(0, d.claims.len())

	// tokens and pending actions were drained
	a.Equal(0, p.tokens.Len())
	a.Len(p.actions, 0)
}

func TestDealer_ShouldFinish(t *testing.T) {
	a := assert.New(t)

	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}))
	a.False(d.shouldFinish())

	// 0, 1 and 3 differ in their first feature without covering it
	d.deck.Cards = []int{0, 1, 3}
	a.True(d.shouldFinish())

	d.deck.Cards = []int{0, 1, 2}
	a.False(d.shouldFinish())

	d.deck.Cards = []int{0, 1, 3}
	a.False(d.stopped())
	d.Stop()
	a.True(d.shouldFinish())
	a.True(d.stopped())
}

func TestDealer_AnnounceWinners(t *testing.T) {
	a := assert.New(t)

	d, display := newTestDealer(t, testOptions(
		PlayerOptions{Name: "a"},
		PlayerOptions{Name: "b"},
		PlayerOptions{Name: "c"},
	))

	atomic.StoreInt32(&d.players[0].score, 2)
	atomic.StoreInt32(&d.players[1].score, 5)
	atomic.StoreInt32(&d.players[2].score, 5)

	d.announceWinners()

	announced := display.announced()
	require.Len(t, announced, 1)
	a.Equal([]int{1, 2}, announced[0])
}

func TestDealer_RunTerminatesWhenNoSetRemains(t *testing.T) {
	d, display := newTestDealer(t, testOptions(PlayerOptions{Name: "a", Human: true}, PlayerOptions{Name: "b"}))

	// leave the deck without a single valid set
	d.deck.Cards = []int{0, 1, 3}

	finished := make(chan struct{})
	go func() {
		d.Run()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not terminate")
	}

	announced := display.announced()
	require.Len(t, announced, 1)
	assert.Equal(t, []int{0, 1}, announced[0])
}

func TestDealer_StopIsPrompt(t *testing.T) {
	d, _ := newTestDealer(t, testOptions(PlayerOptions{Name: "a"}, PlayerOptions{Name: "b"}))

	finished := make(chan struct{})
	go func() {
		d.Run()
		close(finished)
	}()

	time.Sleep(100 * time.Millisecond)
	d.Stop()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop promptly")
	}
}

func TestDealer_EndToEndWin(t *testing.T) {
	a := assert.New(t)

	d, display := newTestDealer(t, testOptions(PlayerOptions{Name: "a", Human: true}))
	p := d.players[0]

	// deal exactly cards 0..11 so the board is guaranteed to hold a set
	d.deck.Cards = d.deck.Cards[:12]

	finished := make(chan struct{})
	go func() {
		d.Run()
		close(finished)
	}()
	defer func() {
		d.Stop()
		<-finished
	}()

	require.Eventually(t, func() bool {
		return d.board.CardCount() == 12
	}, 5*time.Second, 10*time.Millisecond, "the board was never dealt")

	slots := boardSet(t, d)

	var matched []int
	for _, slot := range slots {
		card, _ := d.board.CardAt(slot)
		matched = append(matched, card)
	}

	for _, slot := range slots {
		p.KeyPressed(slot)
	}

	require.Eventually(t, func() bool {
		return p.Score() == 1
	}, 5*time.Second, 10*time.Millisecond, "the claim was never credited")

	a.Equal(1, display.score(p.ID))

	// matched cards are off the board; the deck was empty so the freed
	// slots stay empty
	for _, card := range matched {
		_, ok := d.board.SlotOf(card)
		a.False(ok)
	}
	a.Equal(9, d.board.CardCount())

	// countdown was reset to a full turn by the match
	a.Greater(time.Until(d.deadlineTime()), 50*time.Second)
}
