// Package pipeline implements the face enrollment and recognition sessions:
// capturing normalized face samples from a camera, training the recognition
// model over the sample corpus, and running live recognition gated by a
// confidence threshold that feeds the attendance mark.
package pipeline

import (
	"context"
	"errors"
	"image"
	"time"

	"gocv.io/x/gocv"
)

// FrameSource yields color frames from a camera. Implemented by
// camera.Source; tests substitute synthetic frame generators.
type FrameSource interface {
	Next(ctx context.Context) (gocv.Mat, error)
	Close() error
}

// FaceFinder locates face bounding boxes in a grayscale frame.
// Implemented by vision.Detector.
type FaceFinder interface {
	Detect(gray gocv.Mat) []image.Rectangle
}

// FaceModel is the trainable face classifier. Implemented by
// vision.Recognizer.
type FaceModel interface {
	Train(samples []gocv.Mat, labels []int) error
	Predict(face gocv.Mat) (label int, distance float64)
	Write(path string) error
	Read(path string) error
}

// OpenSource opens the camera for a session. It is only invoked after all
// session preconditions have passed.
type OpenSource func() (FrameSource, error)

// Progress is emitted to the session observer once per processed frame.
type Progress struct {
	Saved   int           // samples saved so far (capture only)
	Target  int           // sample quota (capture only)
	Faces   int           // faces detected in the last frame
	Elapsed time.Duration // time since the session started
}

// Observer receives progress events from a running session. Implementations
// must be fast; they are called from the session loop.
type Observer interface {
	Progress(Progress)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Progress)

func (f ObserverFunc) Progress(p Progress) { f(p) }

// Session precondition and outcome errors. Callers classify with errors.Is.
var (
	// ErrAlreadyEnrolled refuses capture for an identity whose sample
	// directory is non-empty. Partial directories from cancelled sessions
	// also trigger this; they must be cleared externally.
	ErrAlreadyEnrolled = errors.New("face data already captured for this identity")

	// ErrCaptureIncomplete reports a capture session that ended (timeout or
	// cancel) before reaching its sample quota.
	ErrCaptureIncomplete = errors.New("capture ended before reaching the sample quota")

	// ErrEmptyDataset reports a training run that found no readable sample
	// images across all identities.
	ErrEmptyDataset = errors.New("sample dataset is empty")

	// ErrModelMissing reports a recognition attempt without a trained model
	// on disk.
	ErrModelMissing = errors.New("trained model not found, train first")

	// ErrNoMatch reports a recognition session that timed out without an
	// accepted match.
	ErrNoMatch = errors.New("no confident match detected")
)

// sleep pauses for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
