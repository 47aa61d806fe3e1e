package facetrack

import (
	"log/slog"
)

// Locator polls the camera for the user's face and reports where the
// animated eyes should look. When the face disappears, the last known
// target decays geometrically back to center rather than jumping.
type Locator struct {
	camera   Camera
	detector Detector
	config   Config
	logger   *slog.Logger

	last    GazeTarget
	hasLast bool
}

// NewLocator opens the webcam and loads the face detector.
// Callers should treat an error as "face tracking unavailable" and
// keep running without it.
func NewLocator(cfg Config) (*Locator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	camera, err := OpenWebcam(cfg)
	if err != nil {
		return nil, err
	}

	detector, err := NewHaar(cfg)
	if err != nil {
		camera.Close()
		return nil, err
	}

	return newLocator(cfg, camera, detector), nil
}

// newLocator wires a locator around explicit camera/detector backends.
// Split out so tests can substitute fakes for the hardware.
func newLocator(cfg Config, camera Camera, detector Detector) *Locator {
	return &Locator{
		camera:   camera,
		detector: detector,
		config:   cfg,
		logger:   slog.Default().With("component", "facetrack"),
	}
}

// Poll captures one frame and returns the current gaze target.
// The second return value is false only when no target exists yet,
// i.e. nothing has ever been detected and capture is failing.
// Poll never returns an error: capture and detection failures are
// logged and degrade to "no signal".
func (l *Locator) Poll() (GazeTarget, bool) {
	frame, err := l.camera.CaptureJPEG()
	if err != nil {
		// Keep looking wherever we last looked.
		l.logger.Debug("capture failed", "error", err)
		return l.last, l.hasLast
	}

	detections, err := l.detector.Detect(frame)
	if err != nil {
		l.logger.Warn("detection failed", "error", err)
		return l.last, l.hasLast
	}

	if face := SelectLargest(detections); face != nil {
		cx, cy := face.Center()
		// Offset from frame center, normalized by the half-frame
		// extent so the edges map to ±1.
		target := GazeTarget{X: cx*2 - 1, Y: cy*2 - 1}.Clamp()
		l.last = target
		l.hasLast = true
		return target, true
	}

	return l.decay(), true
}

// decay eases the stored target back toward center while no face is
// visible, snapping to exactly (0,0) once both axes are negligible.
func (l *Locator) decay() GazeTarget {
	if !l.hasLast {
		l.last = GazeTarget{}
		l.hasLast = true
		return l.last
	}

	next := GazeTarget{X: l.last.X * l.config.Decay, Y: l.last.Y * l.config.Decay}
	if abs(next.X) < l.config.SnapEpsilon && abs(next.Y) < l.config.SnapEpsilon {
		next = GazeTarget{}
	}
	l.last = next
	return next
}

// Close releases the camera and detector.
func (l *Locator) Close() error {
	derr := l.detector.Close()
	cerr := l.camera.Close()
	if cerr != nil {
		return cerr
	}
	return derr
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
