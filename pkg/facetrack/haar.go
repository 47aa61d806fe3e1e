package facetrack

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// HaarDetector detects frontal faces with an OpenCV Haar cascade.
type HaarDetector struct {
	classifier gocv.CascadeClassifier
	config     Config
	mu         sync.Mutex // Protects inference
}

// NewHaar loads the cascade file and returns a ready detector.
func NewHaar(cfg Config) (*HaarDetector, error) {
	if _, err := os.Stat(cfg.CascadePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("cascade file not found: %s", cfg.CascadePath)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("load cascade: %s", cfg.CascadePath)
	}

	return &HaarDetector{
		classifier: classifier,
		config:     cfg,
	}, nil
}

// Detect finds faces in the JPEG frame.
func (d *HaarDetector) Detect(jpeg []byte) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Decode straight to grayscale; the cascade works on intensity.
	img, err := gocv.IMDecode(jpeg, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	imgW := float64(img.Cols())
	imgH := float64(img.Rows())

	rects := d.classifier.DetectMultiScaleWithParams(
		img,
		d.config.ScaleFactor,
		d.config.MinNeighbors,
		0,
		image.Pt(d.config.MinSize, d.config.MinSize),
		image.Pt(0, 0),
	)

	detections := make([]Detection, 0, len(rects))
	for _, r := range rects {
		detections = append(detections, Detection{
			X: float64(r.Min.X) / imgW,
			Y: float64(r.Min.Y) / imgH,
			W: float64(r.Dx()) / imgW,
			H: float64(r.Dy()) / imgH,
		})
	}

	return detections, nil
}

// Close releases the classifier resources.
func (d *HaarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
