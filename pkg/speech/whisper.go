package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/teslashibe/go-deskbot/internal/httpc"
)

const whisperEndpoint = "https://api.openai.com/v1/audio/transcriptions"

// Whisper transcribes audio with OpenAI's hosted Whisper API.
type Whisper struct {
	apiKey   string
	model    string
	language string
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// WhisperOption configures the Whisper transcriber.
type WhisperOption func(*Whisper)

// WithWhisperModel overrides the transcription model.
func WithWhisperModel(model string) WhisperOption {
	return func(w *Whisper) { w.model = model }
}

// WithWhisperLanguage sets a language hint (e.g. "en").
func WithWhisperLanguage(lang string) WhisperOption {
	return func(w *Whisper) { w.language = lang }
}

// WithWhisperEndpoint overrides the API endpoint, mainly for tests.
func WithWhisperEndpoint(url string) WhisperOption {
	return func(w *Whisper) { w.endpoint = url }
}

// NewWhisper creates a Whisper API transcriber.
func NewWhisper(apiKey string, opts ...WhisperOption) (*Whisper, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	w := &Whisper{
		apiKey:   apiKey,
		model:    "whisper-1",
		endpoint: whisperEndpoint,
		// Uploads carry audio, so allow more than the default.
		http:   httpc.NewClient(60 * time.Second),
		logger: slog.Default().With("component", "speech.whisper"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Transcribe uploads the WAV recording and returns the transcript.
func (w *Whisper) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	if len(wavData) == 0 {
		return "", ErrNoAudio
	}

	start := time.Now()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("speech: create form file: %w", err)
	}
	if _, err := part.Write(wavData); err != nil {
		return "", fmt.Errorf("speech: write audio: %w", err)
	}
	if err := writer.WriteField("model", w.model); err != nil {
		return "", fmt.Errorf("speech: write model field: %w", err)
	}
	if w.language != "" {
		if err := writer.WriteField("language", w.language); err != nil {
			return "", fmt.Errorf("speech: write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("speech: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("speech: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: whisper request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("speech: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech: whisper API error %d: %s", resp.StatusCode, raw)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("speech: parse response: %w", err)
	}
	if result.Text == "" {
		return "", ErrNoSpeech
	}

	w.logger.Debug("transcribed",
		"chars", len(result.Text),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return result.Text, nil
}

// Close releases resources.
func (w *Whisper) Close() error {
	w.http.CloseIdleConnections()
	return nil
}

// Verify Whisper implements Transcriber at compile time.
var _ Transcriber = (*Whisper)(nil)
