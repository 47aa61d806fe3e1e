package tts

import (
	"context"
	"sync"
)

// Mock implements Engine for testing.
type Mock struct {
	// SpeakFunc is called when Speak is invoked.
	SpeakFunc func(ctx context.Context, text string) error

	// AvailableOverride sets what Available reports. Defaults to true.
	AvailableOverride *bool

	mu     sync.Mutex
	spoken []string
	rate   int
	volume float64
}

// Speak records the text and calls SpeakFunc if set.
func (m *Mock) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
}

// SetRate records the rate.
func (m *Mock) SetRate(wpm int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = wpm
}

// SetVolume records the volume.
func (m *Mock) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
}

// Available reports the override, defaulting to true.
func (m *Mock) Available() bool {
	if m.AvailableOverride != nil {
		return *m.AvailableOverride
	}
	return true
}

// Close releases resources.
func (m *Mock) Close() error { return nil }

// Spoken returns everything passed to Speak, in order.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
