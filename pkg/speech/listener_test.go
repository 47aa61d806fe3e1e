package speech

import (
	"context"
	"errors"
	"testing"
)

func TestListenerListen(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the transcript of one utterance", func(t *testing.T) {
		source := &MockSource{}
		transcriber := &MockTranscriber{
			TranscribeFunc: func(ctx context.Context, wav []byte) (string, error) {
				return "turn on the lights", nil
			},
		}
		l := NewListener(source, transcriber, "")

		got, err := l.Listen(ctx)
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		if got != "turn on the lights" {
			t.Errorf("transcript = %q", got)
		}
		if source.Records() != 1 {
			t.Errorf("record calls = %d, want 1", source.Records())
		}
	})

	t.Run("transcriber receives a WAV container", func(t *testing.T) {
		transcriber := &MockTranscriber{}
		l := NewListener(&MockSource{}, transcriber, "")

		if _, err := l.Listen(ctx); err != nil {
			t.Fatalf("listen: %v", err)
		}

		calls := transcriber.Calls()
		if len(calls) != 1 {
			t.Fatalf("transcribe calls = %d, want 1", len(calls))
		}
		wav := calls[0]
		if len(wav) < 44 || string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
			t.Errorf("payload is not a WAV file (len=%d)", len(wav))
		}
	})

	t.Run("propagates the recorder timeout", func(t *testing.T) {
		source := &MockSource{
			RecordFunc: func(ctx context.Context) ([]float32, error) {
				return nil, ErrTimeout
			},
		}
		l := NewListener(source, &MockTranscriber{}, "")

		if _, err := l.Listen(ctx); !errors.Is(err, ErrTimeout) {
			t.Fatalf("err = %v, want ErrTimeout", err)
		}
	})

	t.Run("blank transcripts become ErrNoSpeech", func(t *testing.T) {
		transcriber := &MockTranscriber{
			TranscribeFunc: func(ctx context.Context, wav []byte) (string, error) {
				return "   ", nil
			},
		}
		l := NewListener(&MockSource{}, transcriber, "")

		if _, err := l.Listen(ctx); !errors.Is(err, ErrNoSpeech) {
			t.Fatalf("err = %v, want ErrNoSpeech", err)
		}
	})
}

func TestCheckWakeWord(t *testing.T) {
	l := NewListener(&MockSource{}, &MockTranscriber{}, "Hey Deskbot")

	cases := []struct {
		text string
		want bool
	}{
		{"hey deskbot, what's the weather?", true},
		{"HEY DESKBOT", true},
		{"I said hey deskbot earlier", true},
		{"hey desk bot", false},
		{"hello there", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := l.CheckWakeWord(tc.text); got != tc.want {
			t.Errorf("CheckWakeWord(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}

	// No wake word configured means nothing ever matches.
	none := NewListener(&MockSource{}, &MockTranscriber{}, "")
	if none.CheckWakeWord("hey deskbot") {
		t.Error("matched with no wake word configured")
	}
}
