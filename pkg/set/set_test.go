package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChecker(t *testing.T) {
	a := assert.New(t)

	c, err := NewChecker(81, 3)
	a.NoError(err)
	a.Equal(81, c.DeckSize())
	a.Equal(4, c.featureCount)

	c, err = NewChecker(9, 3)
	a.NoError(err)
	a.Equal(2, c.featureCount)

	c, err = NewChecker(12, 3)
	a.Nil(c)
	a.EqualError(err, "deckSize 12 is not a power of featureSize 3")

	c, err = NewChecker(81, 1)
	a.Nil(c)
	a.EqualError(err, "featureSize must be at least 2, got 1")

	c, err = NewChecker(1, 3)
	a.Nil(c)
	a.EqualError(err, "deckSize must be at least 3, got 1")
}

func TestChecker_IsSet(t *testing.T) {
	a := assert.New(t)

	c, err := NewChecker(81, 3)
	a.NoError(err)

	// every feature distinct
	a.True(c.IsSet([]int{0, 40, 80}))

	// three features equal, one distinct
	a.True(c.IsSet([]int{0, 1, 2}))

	// first feature has values 0, 1, 0
	a.False(c.IsSet([]int{0, 1, 3}))

	// wrong cardinality
	a.False(c.IsSet([]int{0, 1}))
	a.False(c.IsSet([]int{0, 1, 2, 5}))

	// out-of-range card
	a.False(c.IsSet([]int{0, 1, 81}))

	// order must not matter
	a.True(c.IsSet([]int{80, 0, 40}))
}

func TestChecker_Find(t *testing.T) {
	a := assert.New(t)

	c, err := NewChecker(9, 3)
	a.NoError(err)

	// cards 0..8 hold several sets; limit must be honored
	all := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	a.Len(c.Find(all, 1), 1)
	a.Len(c.Find(all, 2), 2)

	found := c.Find(all, 1)
	a.True(c.IsSet(found[0]))

	// 0=(0,0) 1=(1,0) 3=(0,1): first feature fails, no set exists
	a.Empty(c.Find([]int{0, 1, 3}, 1))

	// fewer cards than a set needs
	a.Empty(c.Find([]int{0, 1}, 1))
	a.Empty(c.Find(all, 0))
}
