// Package deskbot orchestrates the desktop companion: the animated
// face, webcam gaze tracking, voice input, the chat backend, and
// speech output.
package deskbot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/teslashibe/go-deskbot/internal/config"
)

// Default configuration values.
const (
	DefaultPort        = "3000"
	DefaultWakeWord    = "hey deskbot"
	DefaultCascadePath = "models/haarcascade_frontalface_default.xml"
)

// Timing constants for the main loops.
const (
	// AnimationTick drives the face at ~50 fps.
	AnimationTick = 20 * time.Millisecond

	// IdleSleep is how long a disabled or idle loop naps between checks.
	IdleSleep = 100 * time.Millisecond
)

// Config holds all configuration for the Deskbot application.
// Flag parsing is done in cmd/deskbot/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	// Port is the face server's HTTP port.
	Port string

	// CameraDevice is the webcam device ID.
	CameraDevice int

	// CascadePath locates the Haar cascade file for face detection.
	CascadePath string

	// Feature flags.
	VoiceEnabled        bool
	FaceTrackingEnabled bool

	// Wake word gating. When enabled, spoken input is ignored unless
	// it contains the wake word.
	WakeWord        string
	WakeWordEnabled bool

	// API keys (typically from environment variables).
	OpenAIKey    string
	GoogleAPIKey string
}

// DefaultConfig returns sensible defaults for Deskbot configuration.
func DefaultConfig() Config {
	return Config{
		Port:                DefaultPort,
		CascadePath:         DefaultCascadePath,
		VoiceEnabled:        true,
		FaceTrackingEnabled: true,
		WakeWord:            DefaultWakeWord,
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this after flag parsing to apply environment overrides.
func (c *Config) LoadEnvConfig() {
	c.Port = config.String("DESKBOT_PORT", c.Port)
	c.CascadePath = config.String("CASCADE_PATH", c.CascadePath)
	c.CameraDevice = config.Int("CAMERA_DEVICE", c.CameraDevice)
	c.VoiceEnabled = config.Bool("VOICE_ENABLED", c.VoiceEnabled)
	c.FaceTrackingEnabled = config.Bool("FACE_TRACKING_ENABLED", c.FaceTrackingEnabled)
	c.WakeWord = config.String("WAKE_WORD", c.WakeWord)
	c.WakeWordEnabled = config.Bool("WAKE_WORD_ENABLED", c.WakeWordEnabled)
	c.OpenAIKey = config.String("OPENAI_API_KEY", c.OpenAIKey)
	c.GoogleAPIKey = config.String("GOOGLE_API_KEY", c.GoogleAPIKey)
}

// Validate checks that required configuration is present. Missing API
// keys are not errors: the companion runs with degraded features.
func (c *Config) Validate() error {
	if c.Port == "" {
		return &ConfigError{Field: "Port", Message: "port must not be empty"}
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return &ConfigError{Field: "Port", Message: fmt.Sprintf("invalid port %q", c.Port)}
	}
	if c.CameraDevice < 0 {
		return &ConfigError{Field: "CameraDevice", Message: "camera device must not be negative"}
	}
	if c.WakeWordEnabled && c.WakeWord == "" {
		return &ConfigError{Field: "WakeWord", Message: "wake word gating requires a wake word"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
