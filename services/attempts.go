package services

import "sync"

// Attempt is the only record of which quiz a connection was shown for which tile.
type Attempt struct {
	TileName string
	QuizName string
}

// AttemptTable holds at most one outstanding attempt per connection.
type AttemptTable struct {
	mu       sync.Mutex
	attempts map[string]Attempt
}

func NewAttemptTable() *AttemptTable {
	return &AttemptTable{attempts: make(map[string]Attempt)}
}

// Record stores a, replacing any previous attempt of the client.
func (t *AttemptTable) Record(c *Client, a Attempt) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c.Closed() {
		return ErrConnectionClosed
	}
	t.attempts[c.ID] = a
	return nil
}

// Take removes and returns the attempt. Single use.
func (t *AttemptTable) Take(clientID string) (Attempt, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.attempts[clientID]
	delete(t.attempts, clientID)
	return a, ok
}

func (t *AttemptTable) Peek(clientID string) (Attempt, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.attempts[clientID]
	return a, ok
}

func (t *AttemptTable) Discard(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, clientID)
}
