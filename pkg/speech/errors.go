package speech

import "errors"

// Sentinel errors for common conditions.
var (
	// ErrTimeout is returned when nobody starts speaking within the
	// listen timeout.
	ErrTimeout = errors.New("speech: no speech detected within timeout")

	// ErrNoSpeech is returned when the recognizer heard audio but
	// produced no transcript.
	ErrNoSpeech = errors.New("speech: could not understand audio")

	// ErrNotConfigured is returned when no recognizer credentials
	// are set.
	ErrNotConfigured = errors.New("speech: recognizer not configured")

	// ErrNoAudio is returned when asked to transcribe an empty recording.
	ErrNoAudio = errors.New("speech: empty recording")
)
