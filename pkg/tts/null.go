package tts

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Null is a silent engine used when no synthesizer is installed. It
// logs what it would have said so the conversation remains traceable.
type Null struct {
	mu     sync.Mutex
	config Config
	logger *slog.Logger
}

// NewNull creates a null engine.
func NewNull(cfg Config) *Null {
	return &Null{
		config: cfg,
		logger: slog.Default().With("component", "tts", "binary", "none"),
	}
}

// Speak logs the text instead of playing audio.
func (n *Null) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	n.logger.Info("would say", "text", text)
	return nil
}

// SetRate records the rate, which the null engine never uses.
func (n *Null) SetRate(wpm int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.config.Rate = wpm
}

// SetVolume records the volume, which the null engine never uses.
func (n *Null) SetVolume(v float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.config.Volume = v
}

// Available reports that no audio will be produced.
func (n *Null) Available() bool { return false }

// Close releases resources.
func (n *Null) Close() error { return nil }

// Verify Null implements Engine at compile time.
var _ Engine = (*Null)(nil)
