// Package tts speaks text out loud through the operating system's
// speech synthesizer. It shells out to `say` on macOS and `espeak`
// elsewhere, and degrades to a logging null engine when neither is
// installed so the companion keeps working silently.
package tts

import "context"

// Engine converts text to audible speech.
type Engine interface {
	// Speak pronounces the text, blocking until playback finishes
	// or the context is canceled.
	Speak(ctx context.Context, text string) error

	// SetRate sets the speaking rate in words per minute.
	SetRate(wpm int)

	// SetVolume sets the output volume in [0, 1].
	SetVolume(v float64)

	// Available reports whether the engine can actually produce audio.
	Available() bool

	// Close releases resources.
	Close() error
}

// Config holds synthesizer settings.
type Config struct {
	// Rate is the speaking rate in words per minute.
	Rate int

	// Volume is the output volume in [0, 1].
	Volume float64

	// Voice optionally names a system voice. Empty uses the default.
	Voice string
}

// DefaultConfig returns the companion's voice settings.
func DefaultConfig() Config {
	return Config{
		Rate:   150,
		Volume: 0.9,
	}
}

// NewEngine returns the system synthesizer when one is installed,
// falling back to a null engine that logs what it would have said.
func NewEngine(cfg Config) Engine {
	if engine, err := NewSystem(cfg); err == nil {
		return engine
	}
	return NewNull(cfg)
}
