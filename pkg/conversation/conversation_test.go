package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestConversationRespond(t *testing.T) {
	ctx := context.Background()

	t.Run("records both turns and returns the reply", func(t *testing.T) {
		mock := &Mock{
			CompleteFunc: func(ctx context.Context, messages []Message) (*Reply, error) {
				return &Reply{Message: NewMessage(RoleAssistant, "Hello there!")}, nil
			},
		}
		conv := New(mock)

		got, err := conv.Respond(ctx, "hi")
		if err != nil {
			t.Fatalf("respond: %v", err)
		}
		if got != "Hello there!" {
			t.Errorf("reply = %q", got)
		}

		history := conv.History()
		if len(history) != 3 {
			t.Fatalf("history length = %d, want 3", len(history))
		}
		if history[0].Role != RoleSystem || history[0].Content != SystemPrompt {
			t.Error("system prompt not pinned at history[0]")
		}
		if history[1].Role != RoleUser || history[1].Content != "hi" {
			t.Errorf("history[1] = %+v", history[1])
		}
		if history[2].Role != RoleAssistant {
			t.Errorf("history[2] role = %v", history[2].Role)
		}
	})

	t.Run("backend sees the persona prompt and the new input", func(t *testing.T) {
		mock := NewMock()
		conv := New(mock)

		if _, err := conv.Respond(ctx, "what's up?"); err != nil {
			t.Fatalf("respond: %v", err)
		}

		calls := mock.Calls()
		if len(calls) != 1 {
			t.Fatalf("backend calls = %d, want 1", len(calls))
		}
		sent := calls[0].Messages
		if sent[0].Role != RoleSystem {
			t.Error("first message sent is not the system prompt")
		}
		if last := sent[len(sent)-1]; last.Role != RoleUser || last.Content != "what's up?" {
			t.Errorf("last message sent = %+v", last)
		}
	})

	t.Run("apologizes without calling out when unconfigured", func(t *testing.T) {
		conv := New(nil)

		got, err := conv.Respond(ctx, "hi")
		if !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("err = %v, want ErrNotConfigured", err)
		}
		if got != ApologyNotConfigured {
			t.Errorf("reply = %q, want the configuration apology", got)
		}
		if conv.Len() != 1 {
			t.Errorf("history length = %d, want just the persona", conv.Len())
		}
	})

	t.Run("rolls back the user turn when the backend fails", func(t *testing.T) {
		boom := errors.New("upstream down")
		conv := New(WithError(boom))

		got, err := conv.Respond(ctx, "hi")
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want the backend error", err)
		}
		if got != ApologyRequestFailed {
			t.Errorf("reply = %q, want the request apology", got)
		}
		if conv.Len() != 1 {
			t.Errorf("history length = %d after rollback, want 1", conv.Len())
		}
	})

	t.Run("rejects blank input", func(t *testing.T) {
		mock := NewMock()
		conv := New(mock)

		if _, err := conv.Respond(ctx, "   "); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("err = %v, want ErrEmptyInput", err)
		}
		if mock.CallCount("Complete") != 0 {
			t.Error("backend called for blank input")
		}
	})
}

func TestConversationTrim(t *testing.T) {
	mock := NewMock()
	conv := New(mock)
	ctx := context.Background()

	// 30 exchanges add 60 turns; the history must stay capped.
	for i := 0; i < 30; i++ {
		if _, err := conv.Respond(ctx, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("respond %d: %v", i, err)
		}
	}

	history := conv.History()
	if len(history) != maxHistory {
		t.Fatalf("history length = %d, want %d", len(history), maxHistory)
	}
	if history[0].Role != RoleSystem {
		t.Error("trimming dropped the system prompt")
	}
	// The newest exchange survives the trim.
	if last := history[len(history)-2]; last.Content != "message 29" {
		t.Errorf("newest user turn = %q, want message 29", last.Content)
	}
}

func TestConversationReset(t *testing.T) {
	conv := New(NewMock())
	ctx := context.Background()

	if _, err := conv.Respond(ctx, "hello"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if conv.Len() != 3 {
		t.Fatalf("history length = %d before reset", conv.Len())
	}

	conv.Reset()

	history := conv.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d after reset, want 1", len(history))
	}
	if history[0].Role != RoleSystem || history[0].Content != SystemPrompt {
		t.Error("reset did not reseed the persona prompt")
	}
}
