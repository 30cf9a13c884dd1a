/*
Package chat contains the conversation domain types shared by the gateway
and the client.

A Turn is part of the upstream contract: the full ordered history is
replayed to the completion provider on every send. A Message is the
UI-facing superset of a Turn with transient presentation flags.
*/
package chat

import "sync"

// Role identifies the author of a turn in the upstream protocol.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history sent upstream. Never mutated
// after creation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Sender identifies who a Message is rendered for.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is the UI-facing view of a turn. Typing marks a placeholder shown
// while a reply is pending; Offline marks a locally synthesized reply.
// Neither flag is part of the upstream contract.
type Message struct {
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
	Typing  bool   `json:"isTyping,omitempty"`
	Offline bool   `json:"isOffline,omitempty"`
}

// Conversation is an append-only turn history. Safe for concurrent use.
type Conversation struct {
	mu    sync.Mutex
	turns []Turn
}

// Append adds a turn to the history.
func (c *Conversation) Append(role Role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, Turn{Role: role, Content: content})
}

// History returns a copy of the full ordered history.
func (c *Conversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Reset drops the history, used when a new session starts.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}
