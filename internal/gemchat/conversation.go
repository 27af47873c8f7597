package gemchat

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Submit while a previous submission is still in flight.
var ErrBusy = errors.New("a request is already in flight")

// Conversation owns the ordered turn history and allows a single
// outstanding request at a time.
type Conversation struct {
	generator Generator

	mu    sync.Mutex
	turns []Turn
	busy  bool
}

// NewConversation creates a conversation that sends its history to g.
// The given history is copied.
func NewConversation(g Generator, history []Turn) *Conversation {
	turns := make([]Turn, len(history))
	copy(turns, history)
	return &Conversation{
		generator: g,
		turns:     turns,
	}
}

// Submit appends text as a user turn, sends a snapshot of the history to the
// generator and appends the model turn for the resulting Outcome.
// It returns ErrBusy without touching the history if another Submit has not
// completed yet.
func (c *Conversation) Submit(ctx context.Context, text string) (Outcome, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	c.busy = true
	c.turns = append(c.turns, Turn{Role: RoleUser, Content: text})
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	outcome := c.generator.Generate(ctx, snapshot)

	c.mu.Lock()
	c.turns = append(c.turns, Turn{Role: RoleModel, Content: outcome.DisplayLine()})
	c.mu.Unlock()

	return outcome, nil
}

// Busy reports whether a submission is in flight.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// History returns a copy of the turns recorded so far.
func (c *Conversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Len returns the number of recorded turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

func (c *Conversation) snapshotLocked() []Turn {
	snapshot := make([]Turn, len(c.turns))
	copy(snapshot, c.turns)
	return snapshot
}
