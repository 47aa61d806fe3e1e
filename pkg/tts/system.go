package tts

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// System speaks through the OS synthesizer binary: `say` on macOS,
// `espeak` everywhere else.
type System struct {
	mu       sync.Mutex
	config   Config
	platform string
	binary   string
	logger   *slog.Logger

	// run executes the synthesizer command. Swapped out in tests.
	run func(ctx context.Context, name string, args ...string) error
}

// NewSystem locates the platform synthesizer. Returns ErrUnavailable
// when the binary is not on PATH.
func NewSystem(cfg Config) (*System, error) {
	return newSystem(cfg, runtime.GOOS)
}

func newSystem(cfg Config, platform string) (*System, error) {
	binary := "espeak"
	if platform == "darwin" {
		binary = "say"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrUnavailable, binary)
	}

	return &System{
		config:   cfg,
		platform: platform,
		binary:   path,
		logger:   slog.Default().With("component", "tts", "binary", binary),
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}, nil
}

// Speak pronounces the text, blocking until playback finishes.
func (s *System) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	s.mu.Lock()
	args := s.args(text)
	s.mu.Unlock()

	s.logger.Debug("speaking", "chars", len(text))
	if err := s.run(ctx, s.binary, args...); err != nil {
		return fmt.Errorf("tts: %s: %w", s.binary, err)
	}
	return nil
}

// SetRate sets the speaking rate in words per minute.
func (s *System) SetRate(wpm int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Rate = wpm
}

// SetVolume sets the output volume in [0, 1].
func (s *System) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.config.Volume = v
}

// Available reports whether the synthesizer binary was found.
func (s *System) Available() bool { return true }

// Close releases resources.
func (s *System) Close() error { return nil }

// args builds the synthesizer command line. Callers must hold s.mu.
func (s *System) args(text string) []string {
	if s.platform == "darwin" {
		args := []string{}
		if s.config.Voice != "" {
			args = append(args, "-v", s.config.Voice)
		}
		if s.config.Rate > 0 {
			args = append(args, "-r", fmt.Sprintf("%d", s.config.Rate))
		}
		return append(args, text)
	}

	// espeak amplitude runs 0-200 with 100 as the default.
	args := []string{}
	if s.config.Voice != "" {
		args = append(args, "-v", s.config.Voice)
	}
	if s.config.Rate > 0 {
		args = append(args, "-s", fmt.Sprintf("%d", s.config.Rate))
	}
	args = append(args, "-a", fmt.Sprintf("%d", int(s.config.Volume*200)))
	return append(args, text)
}

// Verify System implements Engine at compile time.
var _ Engine = (*System)(nil)
