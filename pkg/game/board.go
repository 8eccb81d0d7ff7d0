package game

import (
	"fmt"
	"sync"
)

const noCard = -1

// Board is the shared table state: the slot to card assignment and, per slot,
// the players holding a token there. The dealer removes cards while resolving
// a winning claim; players place and remove tokens from their own goroutines,
// so every operation takes the board lock.
type Board struct {
	mu         sync.Mutex
	slotToCard []int
	cardToSlot []int
	tokens     []map[int]struct{}
}

// NewBoard returns an empty board with tableSize slots for a deck of deckSize cards
func NewBoard(tableSize, deckSize int) *Board {
	slotToCard := make([]int, tableSize)
	for i := range slotToCard {
		slotToCard[i] = noCard
	}

	cardToSlot := make([]int, deckSize)
	for i := range cardToSlot {
		cardToSlot[i] = noCard
	}

	return &Board{
		slotToCard: slotToCard,
		cardToSlot: cardToSlot,
		tokens:     make([]map[int]struct{}, tableSize),
	}
}

// PlaceCard puts a card on an empty slot
func (b *Board) PlaceCard(slot, card int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.slotToCard[slot] != noCard {
		return fmt.Errorf("slot %d is occupied", slot)
	}

	if b.cardToSlot[card] != noCard {
		return fmt.Errorf("card %d is already on the board", card)
	}

	b.slotToCard[slot] = card
	b.cardToSlot[card] = slot
	return nil
}

// RemoveCard clears a slot and evicts every token on it.
// It returns the removed card (or -1 if the slot was empty) and the ids of
// the players whose tokens were evicted.
func (b *Board) RemoveCard(slot int) (card int, holders []int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	card = b.slotToCard[slot]
	if card == noCard {
		return noCard, nil
	}

	for id := range b.tokens[slot] {
		holders = append(holders, id)
	}

	b.slotToCard[slot] = noCard
	b.cardToSlot[card] = noCard
	b.tokens[slot] = nil
	return card, holders
}

// PlaceToken puts the player's token on a slot.
// It returns false if the slot holds no card or the player already has a token there.
func (b *Board) PlaceToken(playerID, slot int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.slotToCard[slot] == noCard {
		return false
	}

	if _, ok := b.tokens[slot][playerID]; ok {
		return false
	}

	if b.tokens[slot] == nil {
		b.tokens[slot] = make(map[int]struct{})
	}

	b.tokens[slot][playerID] = struct{}{}
	return true
}

// RemoveToken removes the player's token from a slot.
// It returns true if a token was actually removed.
func (b *Board) RemoveToken(playerID, slot int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.tokens[slot][playerID]; !ok {
		return false
	}

	delete(b.tokens[slot], playerID)
	return true
}

// CardAt returns the card on the slot, if any
func (b *Board) CardAt(slot int) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	card := b.slotToCard[slot]
	return card, card != noCard
}

// SlotOf returns the slot holding the card, if any
func (b *Board) SlotOf(card int) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	slot := b.cardToSlot[card]
	return slot, slot != noCard
}

// CardCount returns the number of cards on the board
func (b *Board) CardCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, card := range b.slotToCard {
		if card != noCard {
			count++
		}
	}

	return count
}

// PlayerCards maps the player's tokened slots to the cards currently there
func (b *Board) PlayerCards(playerID int) []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	var cards []int
	for slot, card := range b.slotToCard {
		if card == noCard {
			continue
		}

		if _, ok := b.tokens[slot][playerID]; ok {
			cards = append(cards, card)
		}
	}

	return cards
}

// snapshot returns a copy of the slot to card assignment
func (b *Board) snapshot() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]int(nil), b.slotToCard...)
}
