package conversation

import (
	"context"
	"sync"
	"time"
)

// Mock implements Backend for testing.
type Mock struct {
	// CompleteFunc is called when Complete is invoked.
	CompleteFunc func(ctx context.Context, messages []Message) (*Reply, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method   string
	Messages []Message
	Time     time.Time
}

// NewMock creates a mock backend that echoes a canned reply.
func NewMock() *Mock {
	return &Mock{
		CompleteFunc: func(ctx context.Context, messages []Message) (*Reply, error) {
			return &Reply{
				Message:      NewMessage(RoleAssistant, "Mock reply"),
				FinishReason: "stop",
				Usage:        Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
			}, nil
		},
	}
}

// WithError returns a mock whose Complete always fails.
func WithError(err error) *Mock {
	return &Mock{
		CompleteFunc: func(ctx context.Context, messages []Message) (*Reply, error) {
			return nil, err
		},
	}
}

// Complete calls CompleteFunc and records the call.
func (m *Mock) Complete(ctx context.Context, messages []Message) (*Reply, error) {
	m.record("Complete", messages)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return nil, ErrNotConfigured
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close", nil)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// record adds a call to the tracking list.
func (m *Mock) record(method string, messages []Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]Message, len(messages))
	copy(snapshot, messages)
	m.calls = append(m.calls, MockCall{
		Method:   method,
		Messages: snapshot,
		Time:     time.Now(),
	})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Backend at compile time.
var _ Backend = (*Mock)(nil)
