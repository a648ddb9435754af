package vision

import (
	"errors"
	"fmt"
	"os"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// ErrBackendUnavailable reports that the LBPH recognition backend could not
// be created, which means the OpenCV build lacks the contrib face module.
// Operators fix their installation, not their data.
var ErrBackendUnavailable = errors.New("recognition backend not available")

// Recognizer wraps the LBPH face recognizer. Labels are the dense integers
// assigned at training time; Predict distances are lower-is-better.
type Recognizer struct {
	lbph *contrib.LBPHFaceRecognizer
}

// NewRecognizer creates an untrained LBPH recognizer.
func NewRecognizer() (*Recognizer, error) {
	lbph := newLBPH()
	if lbph == nil {
		return nil, ErrBackendUnavailable
	}
	return &Recognizer{lbph: lbph}, nil
}

// newLBPH is a seam for tests simulating a missing contrib build.
var newLBPH = func() *contrib.LBPHFaceRecognizer {
	return contrib.NewLBPHFaceRecognizer()
}

// Train fits the recognizer over samples and their dense labels, replacing
// any prior state.
func (r *Recognizer) Train(samples []gocv.Mat, labels []int) error {
	if len(samples) == 0 || len(samples) != len(labels) {
		return fmt.Errorf("training requires matching samples and labels, got %d/%d", len(samples), len(labels))
	}
	r.lbph.Train(samples, labels)
	return nil
}

// Predict classifies a normalized face crop, returning the predicted dense
// label and the distance score (lower is more confident).
func (r *Recognizer) Predict(face gocv.Mat) (int, float64) {
	resp := r.lbph.PredictExtendedResponse(face)
	return int(resp.Label), float64(resp.Confidence)
}

// Write persists the fitted model to path, overwriting any prior model.
func (r *Recognizer) Write(path string) error {
	r.lbph.SaveFile(path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("model file not written to %s: %w", path, err)
	}
	return nil
}

// Read loads a previously persisted model from path.
func (r *Recognizer) Read(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening model file %s: %w", path, err)
	}
	r.lbph.LoadFile(path)
	return nil
}
