package vision

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// ErrCascadeUnavailable reports that no cascade definition file could be
// resolved. This is a precondition failure; callers do not retry it.
var ErrCascadeUnavailable = errors.New("face cascade file not found")

// Detection parameters, deliberately conservative to keep small incidental
// background faces out of the results.
const (
	detectScaleFactor = 1.2
	detectMinNeighbor = 5
	detectMinFaceSize = 80
)

// ResolveCascadePath returns the first existing file from candidates.
func ResolveCascadePath(candidates []string) (string, error) {
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %d candidate paths", ErrCascadeUnavailable, len(candidates))
}

// Detector locates face bounding boxes in grayscale frames using a
// pre-trained Haar cascade.
type Detector struct {
	classifier gocv.CascadeClassifier
}

// NewDetector loads the cascade from the first resolvable candidate path.
func NewDetector(candidates []string) (*Detector, error) {
	path, err := ResolveCascadePath(candidates)
	if err != nil {
		return nil, err
	}
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("%w: failed to load %s", ErrCascadeUnavailable, path)
	}
	return &Detector{classifier: classifier}, nil
}

// Detect returns zero or more face boxes in detector-native order. Callers
// wanting the most prominent face take the first element.
func (d *Detector) Detect(gray gocv.Mat) []image.Rectangle {
	return d.classifier.DetectMultiScaleWithParams(
		gray,
		detectScaleFactor,
		detectMinNeighbor,
		0,
		image.Pt(detectMinFaceSize, detectMinFaceSize),
		image.Pt(0, 0),
	)
}

// Close releases the underlying classifier.
func (d *Detector) Close() error {
	return d.classifier.Close()
}
