// Package conversation keeps the companion's chat history and talks to
// an OpenAI-compatible completion backend. The Conversation type owns
// the persona prompt, trims old turns, and degrades to spoken apologies
// when the backend is missing or failing.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// SystemPrompt is the companion's persona. It is pinned as the first
// history entry and survives trimming and resets.
const SystemPrompt = `You are Deskbot, a friendly desktop companion inspired by the LOOI robot.
You have a cheerful and helpful personality. You enjoy chatting with users and helping them with tasks.
Keep your responses concise and conversational - aim for 1-3 sentences unless more detail is specifically requested.
You can see the user through your camera and track their face to make eye contact.
Be warm, engaging, and occasionally playful in your responses.`

// maxHistory caps the history at the system prompt plus the most
// recent 18 turns.
const maxHistory = 19

// Conversation manages a single chat session. Safe for concurrent use.
type Conversation struct {
	mu      sync.Mutex
	backend Backend
	history []Message
	logger  *slog.Logger
}

// New creates a conversation seeded with the persona prompt.
// A nil backend is allowed: Respond then answers with a spoken
// apology instead of calling out.
func New(backend Backend) *Conversation {
	return &Conversation{
		backend: backend,
		history: []Message{NewMessage(RoleSystem, SystemPrompt)},
		logger:  slog.Default().With("component", "conversation"),
	}
}

// Respond records the user's input, asks the backend for a reply, and
// returns the text to speak. The returned string is always speakable:
// on failure it is an apology and the error carries the cause. A failed
// backend call removes the user turn from history so a retry starts
// clean.
func (c *Conversation) Respond(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend == nil {
		return ApologyNotConfigured, ErrNotConfigured
	}

	c.history = append(c.history, NewMessage(RoleUser, input))

	reply, err := c.backend.Complete(ctx, c.history)
	if err != nil {
		// Drop the user turn so history matches what the
		// backend has actually seen.
		c.history = c.history[:len(c.history)-1]
		c.logger.Error("completion failed", "error", err)
		return ApologyRequestFailed, err
	}

	c.history = append(c.history, reply.Message)
	c.trim()

	c.logger.Debug("completion",
		"model", reply.Model,
		"tokens", reply.Usage.TotalTokens,
		"latency_ms", reply.LatencyMs,
	)

	return reply.Message.Content, nil
}

// Reset clears the history back to just the persona prompt.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = []Message{NewMessage(RoleSystem, SystemPrompt)}
	c.logger.Info("conversation reset")
}

// History returns a copy of the current history.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// Len returns the number of messages in history, persona included.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

// trim keeps the system prompt and the most recent turns.
// Callers must hold c.mu.
func (c *Conversation) trim() {
	if len(c.history) <= maxHistory {
		return
	}
	trimmed := make([]Message, 0, maxHistory)
	trimmed = append(trimmed, c.history[0])
	trimmed = append(trimmed, c.history[len(c.history)-(maxHistory-1):]...)
	c.history = trimmed
}
