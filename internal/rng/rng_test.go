package rng

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sequence struct {
	values []int
	i      int
}

func (s *sequence) Intn(n int) int {
	v := s.values[s.i%len(s.values)] % n
	s.i++
	return v
}

func TestPermutation(t *testing.T) {
	a := assert.New(t)

	p := Permutation(Crypto{}, 12)
	a.Len(p, 12)

	sort.Ints(p)
	for i, v := range p {
		a.Equal(i, v)
	}

	// a generator that always picks 0 rotates deterministically
	p = Permutation(&sequence{values: []int{0}}, 3)
	a.Equal([]int{1, 2, 0}, p)

	a.Empty(Permutation(Crypto{}, 0))
}
