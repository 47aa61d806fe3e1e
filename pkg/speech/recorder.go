package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// RecorderConfig holds microphone capture settings.
type RecorderConfig struct {
	// SampleRate is the capture rate in Hz.
	SampleRate int

	// FrameSize is samples per read. 320 at 16 kHz is a 20 ms frame.
	FrameSize int

	// SilenceThreshold is the RMS level below which a frame counts
	// as silence. Raised automatically by Calibrate.
	SilenceThreshold float64

	// SilenceDuration is how much trailing silence ends an utterance.
	SilenceDuration time.Duration

	// ListenTimeout is how long to wait for speech to start.
	ListenTimeout time.Duration

	// PhraseLimit caps the length of a single utterance, measured
	// from speech onset.
	PhraseLimit time.Duration
}

// DefaultRecorderConfig returns capture settings tuned for voice commands.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		SampleRate:       16000,
		FrameSize:        320,
		SilenceThreshold: 0.015,
		SilenceDuration:  600 * time.Millisecond,
		ListenTimeout:    5 * time.Second,
		PhraseLimit:      5 * time.Second,
	}
}

// Validate checks the capture settings.
func (c RecorderConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("speech: invalid sample rate %d", c.SampleRate)
	}
	if c.FrameSize <= 0 {
		return fmt.Errorf("speech: invalid frame size %d", c.FrameSize)
	}
	if c.SilenceThreshold <= 0 {
		return fmt.Errorf("speech: invalid silence threshold %v", c.SilenceThreshold)
	}
	return nil
}

// frameStream reads fixed-size audio frames from a device.
type frameStream interface {
	// ReadFrame fills and returns one frame of samples.
	ReadFrame() ([]float32, error)

	// Close stops and releases the stream.
	Close() error
}

// Recorder captures single utterances from the default microphone.
type Recorder struct {
	config RecorderConfig
	logger *slog.Logger

	// open creates the capture stream. Swapped out in tests.
	open func() (frameStream, error)
}

// NewRecorder initializes portaudio and prepares the default input
// device for capture.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("speech: initialize portaudio: %w", err)
	}

	return &Recorder{
		config: cfg,
		logger: slog.Default().With("component", "speech.recorder"),
		open: func() (frameStream, error) {
			return openPortaudioStream(cfg)
		},
	}, nil
}

// Calibrate samples half a second of ambient noise and raises the
// silence threshold above it. Call once before listening in a noisy room.
func (r *Recorder) Calibrate() error {
	stream, err := r.open()
	if err != nil {
		return err
	}
	defer stream.Close()

	frames := r.config.SampleRate / r.config.FrameSize / 2
	if frames < 1 {
		frames = 1
	}

	var peak float64
	for i := 0; i < frames; i++ {
		frame, err := stream.ReadFrame()
		if err != nil {
			return fmt.Errorf("speech: calibrate: %w", err)
		}
		if rms := frameRMS(frame); rms > peak {
			peak = rms
		}
	}

	// Keep a margin above the ambient peak but never lower the
	// configured floor.
	threshold := peak * 1.5
	if threshold > r.config.SilenceThreshold {
		r.config.SilenceThreshold = threshold
		r.logger.Info("calibrated noise floor", "threshold", threshold)
	}
	return nil
}

// Record blocks until a complete utterance is captured. It waits up to
// ListenTimeout for speech onset, then records until SilenceDuration of
// quiet or the PhraseLimit.
func (r *Recorder) Record(ctx context.Context) ([]float32, error) {
	stream, err := r.open()
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	frameDur := time.Duration(r.config.FrameSize) * time.Second / time.Duration(r.config.SampleRate)
	silenceFrames := int(r.config.SilenceDuration / frameDur)
	timeoutFrames := int(r.config.ListenTimeout / frameDur)
	limitFrames := int(r.config.PhraseLimit / frameDur)

	out := make([]float32, 0, r.config.SampleRate*3)

	var (
		speaking bool
		quiet    int
		spoken   int
	)

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !speaking && i >= timeoutFrames {
			return nil, ErrTimeout
		}

		frame, err := stream.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("speech: read frame: %w", err)
		}

		loud := frameRMS(frame) > r.config.SilenceThreshold

		if !speaking {
			if !loud {
				continue
			}
			speaking = true
		}

		out = append(out, frame...)
		spoken++

		if loud {
			quiet = 0
		} else {
			quiet++
			if quiet >= silenceFrames {
				break
			}
		}

		if spoken >= limitFrames {
			break
		}
	}

	r.logger.Debug("captured utterance",
		"samples", len(out),
		"seconds", float64(len(out))/float64(r.config.SampleRate),
	)
	return out, nil
}

// SampleRate returns the capture rate in Hz.
func (r *Recorder) SampleRate() int { return r.config.SampleRate }

// Close terminates portaudio.
func (r *Recorder) Close() error {
	return portaudio.Terminate()
}

// portaudioStream adapts a portaudio input stream to frameStream.
type portaudioStream struct {
	stream *portaudio.Stream
	buf    []float32
}

func openPortaudioStream(cfg RecorderConfig) (frameStream, error) {
	buf := make([]float32, cfg.FrameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(cfg.SampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("speech: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("speech: start stream: %w", err)
	}
	return &portaudioStream{stream: stream, buf: buf}, nil
}

func (p *portaudioStream) ReadFrame() ([]float32, error) {
	if err := p.stream.Read(); err != nil {
		return nil, err
	}
	frame := make([]float32, len(p.buf))
	copy(frame, p.buf)
	return frame, nil
}

func (p *portaudioStream) Close() error {
	return errors.Join(p.stream.Stop(), p.stream.Close())
}

// frameRMS computes the root mean square level of a frame.
func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s / float64(len(f)))
}

// Verify Recorder implements Source at compile time.
var _ Source = (*Recorder)(nil)
