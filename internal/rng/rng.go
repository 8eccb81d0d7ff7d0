package rng

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Permutation returns a random ordering of the integers [0, n)
func Permutation(g Generator, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}

	for j := n - 1; j > 0; j-- {
		i := g.Intn(j + 1)
		p[i], p[j] = p[j], p[i]
	}

	return p
}
