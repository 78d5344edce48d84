// Package input collects command tokens from every source (keyboard,
// serial link, remote) into one ordered queue for the tick loop.
package input

import "sync"

// Queue is a thread-safe unbounded FIFO of command tokens. Multiple
// producers push; the tick loop is the single consumer and drains
// without blocking at the start of each tick. Tokens are applied in
// arrival order regardless of source.
type Queue struct {
	mu     sync.Mutex
	tokens []string
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a token. Never blocks.
func (q *Queue) Push(token string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tokens = append(q.tokens, token)
}

// Drain removes and returns all queued tokens in arrival order. Returns
// nil when the queue is empty.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tokens) == 0 {
		return nil
	}
	out := q.tokens
	q.tokens = nil
	return out
}

// Len reports the number of queued tokens.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tokens)
}
