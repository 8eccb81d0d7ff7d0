// Package set implements the card combinatorics for the matching game.
// A card is an opaque id in [0, deckSize); its features are the digits of the
// id in base featureSize. A valid set is featureSize cards where every feature
// is either identical across all cards or distinct across all cards.
package set

import "fmt"

// Checker evaluates card subsets for validity
type Checker struct {
	featureSize  int
	featureCount int
	deckSize     int
}

// NewChecker returns a checker for a deck of deckSize cards where a set
// consists of featureSize cards. deckSize must be a power of featureSize.
func NewChecker(deckSize, featureSize int) (*Checker, error) {
	if featureSize < 2 {
		return nil, fmt.Errorf("featureSize must be at least 2, got %d", featureSize)
	}

	featureCount := 0
	for n := deckSize; n > 1; n /= featureSize {
		if n%featureSize != 0 {
			return nil, fmt.Errorf("deckSize %d is not a power of featureSize %d", deckSize, featureSize)
		}

		featureCount++
	}

	if featureCount == 0 {
		return nil, fmt.Errorf("deckSize must be at least %d, got %d", featureSize, deckSize)
	}

	return &Checker{
		featureSize:  featureSize,
		featureCount: featureCount,
		deckSize:     deckSize,
	}, nil
}

// DeckSize returns the number of distinct cards the checker understands
func (c *Checker) DeckSize() int {
	return c.deckSize
}

// IsSet returns true if the cards form a valid set
func (c *Checker) IsSet(cards []int) bool {
	if len(cards) != c.featureSize {
		return false
	}

	for _, card := range cards {
		if card < 0 || card >= c.deckSize {
			return false
		}
	}

	div := 1
	for f := 0; f < c.featureCount; f++ {
		if !c.featureOK(cards, div) {
			return false
		}

		div *= c.featureSize
	}

	return true
}

// featureOK checks a single feature: all values equal, or all values distinct
func (c *Checker) featureOK(cards []int, div int) bool {
	seen := make(map[int]int)
	for _, card := range cards {
		seen[card/div%c.featureSize]++
	}

	return len(seen) == 1 || len(seen) == len(cards)
}

// Find returns up to limit valid sets found within cards.
// A limit of 1 answers the "does any set remain?" question.
func (c *Checker) Find(cards []int, limit int) [][]int {
	if limit <= 0 || len(cards) < c.featureSize {
		return nil
	}

	var found [][]int
	subset := make([]int, 0, c.featureSize)

	var search func(start int) bool
	search = func(start int) bool {
		if len(subset) == c.featureSize {
			if c.IsSet(subset) {
				found = append(found, append([]int(nil), subset...))
				return len(found) >= limit
			}

			return false
		}

		for i := start; i < len(cards); i++ {
			subset = append(subset, cards[i])
			if search(i + 1) {
				return true
			}

			subset = subset[:len(subset)-1]
		}

		return false
	}

	search(0)
	return found
}
