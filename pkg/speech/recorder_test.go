package speech

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

// fakeStream serves queued frames, then silence forever.
type fakeStream struct {
	frames [][]float32
	next   int
	closed bool
}

func (f *fakeStream) ReadFrame() ([]float32, error) {
	if f.next < len(f.frames) {
		frame := f.frames[f.next]
		f.next++
		return frame, nil
	}
	return make([]float32, 320), nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func frame(level float32) []float32 {
	out := make([]float32, 320)
	for i := range out {
		out[i] = level
	}
	return out
}

func testRecorder(stream frameStream) *Recorder {
	cfg := DefaultRecorderConfig()
	// Short windows keep the loop counts small: 20ms frames, a
	// 5-frame onset timeout, 2 frames of trailing silence, and a
	// 10-frame phrase limit.
	cfg.ListenTimeout = 100 * time.Millisecond
	cfg.SilenceDuration = 40 * time.Millisecond
	cfg.PhraseLimit = 200 * time.Millisecond
	return &Recorder{
		config: cfg,
		logger: slog.Default(),
		open:   func() (frameStream, error) { return stream, nil },
	}
}

func TestRecorderRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("captures speech and stops on trailing silence", func(t *testing.T) {
		stream := &fakeStream{frames: [][]float32{
			frame(0), frame(0), // quiet lead-in
			frame(0.5), frame(0.5), frame(0.5), // speech
			frame(0), frame(0), // trailing silence
		}}
		r := testRecorder(stream)

		got, err := r.Record(ctx)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		// 3 speech frames plus 2 silence frames, 320 samples each.
		if want := 5 * 320; len(got) != want {
			t.Errorf("samples = %d, want %d", len(got), want)
		}
		if !stream.closed {
			t.Error("stream not closed")
		}
	})

	t.Run("times out when nobody speaks", func(t *testing.T) {
		r := testRecorder(&fakeStream{})

		if _, err := r.Record(ctx); !errors.Is(err, ErrTimeout) {
			t.Fatalf("err = %v, want ErrTimeout", err)
		}
	})

	t.Run("late onset within the timeout still records", func(t *testing.T) {
		stream := &fakeStream{frames: [][]float32{
			frame(0), frame(0), frame(0), frame(0), // 4 quiet frames, limit is 5
			frame(0.5), frame(0.5),
		}}
		r := testRecorder(stream)

		got, err := r.Record(ctx)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if len(got) == 0 {
			t.Error("captured nothing")
		}
	})

	t.Run("phrase limit cuts off a monologue", func(t *testing.T) {
		frames := make([][]float32, 40)
		for i := range frames {
			frames[i] = frame(0.5)
		}
		r := testRecorder(&fakeStream{frames: frames})

		got, err := r.Record(ctx)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		// The 200ms phrase limit is 10 frames.
		if want := 10 * 320; len(got) != want {
			t.Errorf("samples = %d, want %d", len(got), want)
		}
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		r := testRecorder(&fakeStream{})

		if _, err := r.Record(canceled); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	})
}

func TestEncodeWAV(t *testing.T) {
	samples := make([]float32, 1600)
	for i := range samples {
		samples[i] = 0.25
	}

	wavData, err := EncodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if string(wavData[:4]) != "RIFF" || string(wavData[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	// 16-bit mono: two bytes per sample plus the 44-byte header.
	if want := 44 + len(samples)*2; len(wavData) != want {
		t.Errorf("wav length = %d, want %d", len(wavData), want)
	}

	if _, err := EncodeWAV(nil, 16000); !errors.Is(err, ErrNoAudio) {
		t.Errorf("err = %v, want ErrNoAudio", err)
	}
}
