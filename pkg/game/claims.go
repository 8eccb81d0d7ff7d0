package game

import (
	"sync"
	"time"
)

// claimQueue is the dealer's FIFO of player ids awaiting verification.
// Enqueue and dequeue are mutually exclusive, and a queued claim can be
// removed when a board mutation invalidates it. A capacity-1 signal channel
// lets the dealer merge "wait for work" with its countdown refresh tick.
type claimQueue struct {
	mu       sync.Mutex
	ids      []int
	capacity int
	signal   chan struct{}
}

func newClaimQueue(capacity int) *claimQueue {
	return &claimQueue{
		capacity: capacity,
		signal:   make(chan struct{}, 1),
	}
}

// push appends a claim and wakes a waiting dealer.
// It returns false if the queue is full, which cannot happen as long as each
// player has at most one claim outstanding.
func (q *claimQueue) push(id int) bool {
	q.mu.Lock()
	if len(q.ids) >= q.capacity {
		q.mu.Unlock()
		return false
	}

	q.ids = append(q.ids, id)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// pop removes and returns the oldest claim
func (q *claimQueue) pop() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ids) == 0 {
		return 0, false
	}

	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, true
}

// remove deletes a queued claim, preserving order of the rest
func (q *claimQueue) remove(id int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, queued := range q.ids {
		if queued == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return true
		}
	}

	return false
}

// drain empties the queue in one step and returns the removed claims
func (q *claimQueue) drain() []int {
	q.mu.Lock()
	defer q.mu.Unlock()

	ids := q.ids
	q.ids = nil
	return ids
}

func (q *claimQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.ids)
}

// wait blocks until a claim is queued, the timeout elapses, or done closes
func (q *claimQueue) wait(timeout time.Duration, done <-chan struct{}) {
	if q.len() > 0 {
		return
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-q.signal:
	case <-t.C:
	case <-done:
	}
}
