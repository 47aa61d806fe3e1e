package facetrack

// GazeTarget is a normalized offset of the detected face from the frame
// center. Both axes are in [-1, 1]: negative X means the face is left of
// center, negative Y above it.
type GazeTarget struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp restricts both axes to [-1, 1].
func (g GazeTarget) Clamp() GazeTarget {
	return GazeTarget{X: clamp(g.X, -1, 1), Y: clamp(g.Y, -1, 1)}
}

// Detection is a face bounding box, normalized to [0, 1] frame coordinates.
type Detection struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// Center returns the center point of the detection.
func (d Detection) Center() (x, y float64) {
	return d.X + d.W/2, d.Y + d.H/2
}

// Area returns the area of the bounding box.
func (d Detection) Area() float64 {
	return d.W * d.H
}

// Detector is the interface for face detection backends.
type Detector interface {
	// Detect finds faces in a JPEG frame and returns their positions.
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources.
	Close() error
}

// Camera is the interface for frame sources.
type Camera interface {
	// CaptureJPEG grabs one frame as JPEG bytes.
	CaptureJPEG() ([]byte, error)

	// Close releases the device.
	Close() error
}

// SelectLargest picks the face with the largest bounding-box area,
// i.e. the one closest to the camera.
func SelectLargest(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}

	best := &dets[0]
	for i := 1; i < len(dets); i++ {
		if dets[i].Area() > best.Area() {
			best = &dets[i]
		}
	}
	return best
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
