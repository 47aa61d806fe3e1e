package tts

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrUnavailable is returned when no system synthesizer is installed.
	ErrUnavailable = errors.New("tts: no speech synthesizer available")

	// ErrEmptyText is returned when asked to speak nothing.
	ErrEmptyText = errors.New("tts: empty text")
)
