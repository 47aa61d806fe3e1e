// Package face holds the animation state for the on-screen character:
// where the pupils point, whether the eyes are mid-blink, and which
// mouth shape to draw. A fixed-rate ticker advances it and renderers
// consume immutable snapshots.
package face

import "sync"

const (
	// Smoothing is the fraction of the remaining distance the pupils
	// cover per tick. Eyes glide toward the target instead of jumping.
	Smoothing = 0.15

	// MaxMovement is how far, in pixels, the pupils may wander from
	// the eye centers at full gaze deflection.
	MaxMovement = 15.0

	// Blink timing in ticks. The eyes stay open until the counter
	// passes blinkStart, stay shut through blinkEnd, then reopen.
	blinkStart = 150
	blinkEnd   = 155
)

// State is one immutable frame of the face animation.
type State struct {
	// EyeX and EyeY are the current pupil offsets in pixels,
	// relative to each eye's center.
	EyeX float64 `json:"eyeX"`
	EyeY float64 `json:"eyeY"`

	Blinking   bool       `json:"blinking"`
	Expression Expression `json:"expression"`
}

// Face is the animation state machine. All methods are safe for
// concurrent use: trackers push targets from one goroutine while the
// animation ticker advances from another.
type Face struct {
	mu sync.Mutex

	targetX, targetY float64 // Pupil target offsets in pixels
	eyeX, eyeY       float64 // Current pupil offsets in pixels

	blinkCounter int
	blinking     bool
	expression   Expression
}

// New returns a face at rest: pupils centered, eyes open, normal smile.
func New() *Face {
	return &Face{expression: ExpressionNormal}
}

// SetTarget points the eyes at a normalized gaze offset. Both axes are
// expected in [-1, 1]; full deflection maps to MaxMovement pixels.
func (f *Face) SetTarget(x, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targetX = x * MaxMovement
	f.targetY = y * MaxMovement
}

// SetExpression changes the mouth shape. Unknown values are ignored.
func (f *Face) SetExpression(e Expression) {
	if !e.Valid() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expression = e
}

// Tick advances the animation one frame and returns the new state.
func (f *Face) Tick() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.eyeX += (f.targetX - f.eyeX) * Smoothing
	f.eyeY += (f.targetY - f.eyeY) * Smoothing

	f.blinkCounter++
	if f.blinkCounter > blinkEnd {
		f.blinkCounter = 0
	}
	f.blinking = f.blinkCounter > blinkStart

	return f.snapshot()
}

// State returns the current frame without advancing the animation.
func (f *Face) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Face) snapshot() State {
	return State{
		EyeX:       f.eyeX,
		EyeY:       f.eyeY,
		Blinking:   f.blinking,
		Expression: f.expression,
	}
}
