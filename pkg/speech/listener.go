package speech

import (
	"context"
	"log/slog"
	"strings"
)

// Listener captures one utterance and turns it into text.
type Listener struct {
	source      Source
	transcriber Transcriber
	wakeWord    string
	logger      *slog.Logger
}

// NewListener wires a capture source to a transcriber. wakeWord may be
// empty when wake-word gating is disabled.
func NewListener(source Source, transcriber Transcriber, wakeWord string) *Listener {
	return &Listener{
		source:      source,
		transcriber: transcriber,
		wakeWord:    strings.ToLower(strings.TrimSpace(wakeWord)),
		logger:      slog.Default().With("component", "speech.listener"),
	}
}

// Listen records one utterance and returns its transcript. Returns
// ErrTimeout when nobody speaks and ErrNoSpeech when the recognizer
// cannot make out words.
func (l *Listener) Listen(ctx context.Context) (string, error) {
	samples, err := l.source.Record(ctx)
	if err != nil {
		return "", err
	}

	wavData, err := EncodeWAV(samples, l.source.SampleRate())
	if err != nil {
		return "", err
	}

	text, err := l.transcriber.Transcribe(ctx, wavData)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}

	l.logger.Info("heard", "text", text)
	return text, nil
}

// CheckWakeWord reports whether the transcript contains the wake word,
// ignoring case. Always false when no wake word is configured.
func (l *Listener) CheckWakeWord(text string) bool {
	if l.wakeWord == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), l.wakeWord)
}

// Close releases the capture device and recognizer.
func (l *Listener) Close() error {
	terr := l.transcriber.Close()
	if err := l.source.Close(); err != nil {
		return err
	}
	return terr
}
