package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	gspeech "google.golang.org/api/speech/v1"
)

// Google transcribes audio with the Google Cloud Speech-to-Text API.
type Google struct {
	service    *gspeech.Service
	language   string
	sampleRate int
	logger     *slog.Logger
}

// GoogleOption configures the Google transcriber.
type GoogleOption func(*Google)

// WithGoogleLanguage sets the recognition language. Defaults to en-US.
func WithGoogleLanguage(lang string) GoogleOption {
	return func(g *Google) { g.language = lang }
}

// WithGoogleSampleRate sets the recording sample rate in Hz.
func WithGoogleSampleRate(hz int) GoogleOption {
	return func(g *Google) { g.sampleRate = hz }
}

// NewGoogle creates a Google Speech-to-Text transcriber.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	service, err := gspeech.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("speech: create google service: %w", err)
	}

	g := &Google{
		service:    service,
		language:   "en-US",
		sampleRate: 16000,
		logger:     slog.Default().With("component", "speech.google"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Transcribe sends the WAV recording for recognition and returns the
// top alternative of the first result.
func (g *Google) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	if len(wavData) == 0 {
		return "", ErrNoAudio
	}

	start := time.Now()

	resp, err := g.service.Speech.Recognize(&gspeech.RecognizeRequest{
		Config: &gspeech.RecognitionConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: int64(g.sampleRate),
			LanguageCode:    g.language,
		},
		Audio: &gspeech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(wavData),
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("speech: google recognize: %w", err)
	}

	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			if alt.Transcript != "" {
				g.logger.Debug("transcribed",
					"chars", len(alt.Transcript),
					"confidence", alt.Confidence,
					"latency_ms", time.Since(start).Milliseconds(),
				)
				return alt.Transcript, nil
			}
		}
	}

	return "", ErrNoSpeech
}

// Close releases resources.
func (g *Google) Close() error { return nil }

// Verify Google implements Transcriber at compile time.
var _ Transcriber = (*Google)(nil)
