package speech

import (
	"context"
	"sync"
)

// MockSource implements Source for testing.
type MockSource struct {
	// RecordFunc is called when Record is invoked.
	RecordFunc func(ctx context.Context) ([]float32, error)

	// Rate is what SampleRate reports. Defaults to 16000.
	Rate int

	mu      sync.Mutex
	records int
}

// Record calls RecordFunc and counts the call.
func (m *MockSource) Record(ctx context.Context) ([]float32, error) {
	m.mu.Lock()
	m.records++
	m.mu.Unlock()
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx)
	}
	return make([]float32, 1600), nil
}

// SampleRate returns the configured rate.
func (m *MockSource) SampleRate() int {
	if m.Rate > 0 {
		return m.Rate
	}
	return 16000
}

// Close releases nothing.
func (m *MockSource) Close() error { return nil }

// Records returns how many times Record was called.
func (m *MockSource) Records() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records
}

// MockTranscriber implements Transcriber for testing.
type MockTranscriber struct {
	// TranscribeFunc is called when Transcribe is invoked.
	TranscribeFunc func(ctx context.Context, wav []byte) (string, error)

	mu    sync.Mutex
	calls [][]byte
}

// Transcribe calls TranscribeFunc and records the audio it received.
func (m *MockTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	m.mu.Lock()
	snapshot := make([]byte, len(wav))
	copy(snapshot, wav)
	m.calls = append(m.calls, snapshot)
	m.mu.Unlock()
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, wav)
	}
	return "mock transcript", nil
}

// Close releases nothing.
func (m *MockTranscriber) Close() error { return nil }

// Calls returns the audio passed to each Transcribe invocation.
func (m *MockTranscriber) Calls() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.calls))
	copy(out, m.calls)
	return out
}

// Compile-time interface checks.
var (
	_ Source      = (*MockSource)(nil)
	_ Transcriber = (*MockTranscriber)(nil)
)
