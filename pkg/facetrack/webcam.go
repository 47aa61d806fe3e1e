package facetrack

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam captures frames from a local camera through OpenCV.
type Webcam struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	mu      sync.Mutex
}

// OpenWebcam opens the camera device and applies the capture settings.
func OpenWebcam(cfg Config) (*Webcam, error) {
	capture, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.DeviceID, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("camera %d not available", cfg.DeviceID)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))

	return &Webcam{
		capture: capture,
		frame:   gocv.NewMat(),
	}, nil
}

// CaptureJPEG grabs one frame and encodes it as JPEG.
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.capture.Read(&w.frame); !ok {
		return nil, fmt.Errorf("camera read failed")
	}
	if w.frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out: the native buffer is freed on Close.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

// Close releases the camera handle and frame buffer.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.frame.Close()
	return w.capture.Close()
}
