// Package deck manages the ordered pool of card ids not currently on the board.
package deck

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck holds the card ids that have not been dealt.
// Cards leave the deck when dealt, come back via Return when a round times
// out, and never come back once matched.
type Deck struct {
	Cards []int
	seed  int64
	rng   *rand.Rand
}

// New returns a new deck holding the card ids [0, size).
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New(size int) *Deck {
	cards := make([]int, size)
	for i := range cards {
		cards[i] = i
	}

	return &Deck{
		Cards: cards,
		seed:  -1,
	}
}

// SetSeed will set the seed
// This should only be used by tests. Setting the seed is normally handled when you call Shuffle()
func (d *Deck) SetSeed(seed int64) {
	d.seed = seed
	d.rng = rand.New(rand.NewSource(seed)) // nolint:gosec
}

// Shuffle will shuffle the remaining cards in the deck.
// You can manually specify the seed, or you can leave it as 0. Unlike a poker
// deck there is no rebuild here: cards permanently matched are gone for good.
func (d *Deck) Shuffle(seed int64) {
	if seed < 0 {
		panic("seed cannot be < 0")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	d.SetSeed(seed)

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// GetSeed returns the seed used to shuffle the deck
func (d *Deck) GetSeed() int64 {
	return d.seed
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with -1.
func (d *Deck) Draw() (int, error) {
	if len(d.Cards) == 0 {
		return -1, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// Return puts a card back at the bottom of the deck
func (d *Deck) Return(card int) {
	d.Cards = append(d.Cards, card)
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// Remaining returns a copy of the remaining card ids
func (d *Deck) Remaining() []int {
	return append([]int(nil), d.Cards...)
}
