// Package session owns the bounded conversation history and its persistence
// at process exit.
package session

import (
	"sync"

	"github.com/cexll/termagent/pkg/model"
)

// DefaultHistoryLimit is the message count that triggers front truncation.
const DefaultHistoryLimit = 50

// Conversation is the ordered message history sent to the backend. A single
// orchestrator drives all mutation, but the signal-triggered drain reads the
// history from another goroutine, so access is guarded by a mutex.
//
// Truncation never splits a tool_use/tool_result pair: the history may only
// be cut at a user message carrying plain text. When no such boundary exists
// inside the window the cut is deferred and the history temporarily exceeds
// the limit.
type Conversation struct {
	mu       sync.Mutex
	messages []model.Message
	limit    int
}

// NewConversation creates an empty history with the given limit; a
// non-positive limit selects DefaultHistoryLimit.
func NewConversation(limit int) *Conversation {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Conversation{limit: limit}
}

// Append adds a message. Appending a user message may trigger truncation.
func (c *Conversation) Append(msg model.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	if msg.Role == model.RoleUser {
		c.truncate()
	}
}

// Len reports the current message count.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Messages returns a snapshot of the history.
func (c *Conversation) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) truncate() {
	if len(c.messages) <= c.limit {
		return
	}
	start := len(c.messages) - c.limit
	for i := start; i < len(c.messages); i++ {
		if c.messages[i].IsPlainUserText() {
			c.messages = append([]model.Message(nil), c.messages[i:]...)
			return
		}
	}
	// No safe boundary inside the window; keep everything for now.
}
