// Package speech turns microphone audio into text. A Recorder captures
// voice through portaudio using RMS-based silence detection, and a
// Transcriber sends the recording to a cloud speech-to-text service.
// The Listener ties them together and screens transcripts for the
// wake word.
package speech

import "context"

// Transcriber converts recorded audio into text.
type Transcriber interface {
	// Transcribe sends a WAV recording to the recognizer and returns
	// the transcript. Returns ErrNoSpeech when nothing was recognized.
	Transcribe(ctx context.Context, wav []byte) (string, error)

	// Close releases resources.
	Close() error
}

// Source captures one utterance from the microphone.
type Source interface {
	// Record blocks until it has captured a complete utterance:
	// speech onset within the listen timeout, then audio until a
	// trailing silence. Samples are mono float32 in [-1, 1].
	Record(ctx context.Context) ([]float32, error)

	// SampleRate returns the capture rate in Hz.
	SampleRate() int

	// Close releases the audio device.
	Close() error
}
