// Package facetrack locates the user's face through the webcam and turns
// it into a normalized gaze target for the animated eyes.
package facetrack

import "fmt"

// Config holds camera and detector parameters.
type Config struct {
	// DeviceID is the V4L/AVFoundation camera index.
	DeviceID int

	// Width and Height request the capture resolution.
	Width  int
	Height int

	// FPS requests the capture framerate.
	FPS int

	// CascadePath is the Haar cascade XML file for frontal faces.
	CascadePath string

	// ScaleFactor is the detector pyramid scale step.
	ScaleFactor float64

	// MinNeighbors is the detector confidence knob: higher means
	// fewer false positives.
	MinNeighbors int

	// MinSize is the smallest face (pixels) worth reporting.
	MinSize int

	// Decay is the per-poll multiplier applied to the last known
	// gaze target while no face is visible.
	Decay float64

	// SnapEpsilon snaps the decayed target to exactly (0,0) once
	// both axes fall below it in magnitude.
	SnapEpsilon float64
}

// DefaultConfig returns the capture and detection defaults.
func DefaultConfig() Config {
	return Config{
		DeviceID:     0,
		Width:        640,
		Height:       480,
		FPS:          30,
		CascadePath:  "models/haarcascade_frontalface_default.xml",
		ScaleFactor:  1.1,
		MinNeighbors: 5,
		MinSize:      30,
		Decay:        0.95,
		SnapEpsilon:  0.01,
	}
}

// Validate checks the config for values the capture stack would reject.
func (c Config) Validate() error {
	if c.Width < 160 || c.Height < 120 {
		return fmt.Errorf("facetrack: resolution %dx%d too small", c.Width, c.Height)
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("facetrack: framerate %d out of range", c.FPS)
	}
	if c.ScaleFactor <= 1.0 {
		return fmt.Errorf("facetrack: scale factor must be > 1.0, got %v", c.ScaleFactor)
	}
	if c.Decay <= 0 || c.Decay >= 1 {
		return fmt.Errorf("facetrack: decay must be in (0,1), got %v", c.Decay)
	}
	if c.CascadePath == "" {
		return fmt.Errorf("facetrack: cascade path is required")
	}
	return nil
}
