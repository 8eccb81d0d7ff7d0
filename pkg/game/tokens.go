package game

import "sync"

// slotSet is a player's private record of the slots it has tokened.
// The player's own goroutine adds and removes entries, the dealer evicts
// entries while resolving a winning claim and drains the whole set at a
// round boundary, so every operation takes the lock.
type slotSet struct {
	mu    sync.Mutex
	slots map[int]struct{}
}

func newSlotSet() *slotSet {
	return &slotSet{slots: make(map[int]struct{})}
}

func (s *slotSet) Add(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slot] = struct{}{}
}

func (s *slotSet) Remove(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
}

func (s *slotSet) Has(slot int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.slots[slot]
	return ok
}

func (s *slotSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.slots)
}

// Drain empties the set in one step and returns the removed slots
func (s *slotSet) Drain() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]int, 0, len(s.slots))
	for slot := range s.slots {
		slots = append(slots, slot)
	}

	s.slots = make(map[int]struct{})
	return slots
}
