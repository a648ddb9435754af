package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/acadix/scan/internal/config"
	"github.com/acadix/scan/internal/vision"
)

// Recognition drives a live recognition session: pull snapshot frames,
// detect every face in each frame, classify against the trained model, and
// stop on the first accepted match or on timeout.
type Recognition struct {
	cfg      config.RecognizeConfig
	accept   float64 // strict upper bound on the accepted distance score
	finder   FaceFinder
	model    FaceModel
	labels   map[int]string
	open     OpenSource
	observer Observer
}

// NewRecognition builds a recognition session from an already-loaded model
// and label map. observer may be nil.
func NewRecognition(cfg config.RecognizeConfig, acceptDistance float64, finder FaceFinder, model FaceModel, labels map[int]string, open OpenSource, observer Observer) *Recognition {
	return &Recognition{
		cfg:      cfg,
		accept:   acceptDistance,
		finder:   finder,
		model:    model,
		labels:   labels,
		open:     open,
		observer: observer,
	}
}

// LoadModel loads the persisted face model and its label sidecar, checking
// the "train first" precondition. The returned model is ready to classify.
func LoadModel(cfg config.ModelConfig) (FaceModel, map[int]string, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrModelMissing, cfg.Path)
	}
	rec, err := vision.NewRecognizer()
	if err != nil {
		return nil, nil, err
	}
	if err := rec.Read(cfg.Path); err != nil {
		return nil, nil, err
	}
	labels, err := ReadLabels(cfg.LabelsPath())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing label sidecar", ErrModelMissing)
	}
	return rec, labels, nil
}

// Match is an accepted recognition result. Confidence is the normalized
// human-facing score (100 − distance).
type Match struct {
	Identity   string
	Distance   float64
	Confidence float64
}

// Run executes the session. The first prediction whose distance score is
// strictly below the acceptance bound wins and ends the session
// immediately; exhausting the timeout yields ErrNoMatch. The camera is
// released on every exit path.
func (r *Recognition) Run(ctx context.Context) (Match, error) {
	src, err := r.open()
	if err != nil {
		return Match{}, fmt.Errorf("opening camera: %w", err)
	}
	defer src.Close()

	start := time.Now()
	for time.Since(start) < r.cfg.Timeout {
		if ctx.Err() != nil {
			return Match{}, fmt.Errorf("%w: cancelled", ErrNoMatch)
		}

		frame, err := src.Next(ctx)
		if err != nil {
			sleep(ctx, r.cfg.RetryDelay)
			continue
		}
		match, ok := r.classifyFrame(frame, start)
		frame.Close()
		if ok {
			return match, nil
		}
	}
	return Match{}, ErrNoMatch
}

// classifyFrame classifies every detected face in frame and returns the
// first accepted match. Unlike capture, all boxes are processed: recognition
// faces a whole classroom, enrollment a single subject.
func (r *Recognition) classifyFrame(frame gocv.Mat, start time.Time) (Match, bool) {
	gray := vision.Grayscale(frame)
	defer gray.Close()

	boxes := r.finder.Detect(gray)
	r.notify(Progress{Faces: len(boxes), Elapsed: time.Since(start)})

	for _, box := range boxes {
		face := vision.CropFace(gray, box)
		label, distance := r.model.Predict(face)
		face.Close()

		identity, known := r.labels[label]
		if !known {
			continue
		}
		if distance < r.accept {
			return Match{
				Identity:   identity,
				Distance:   distance,
				Confidence: 100 - distance,
			}, true
		}
	}
	return Match{}, false
}

func (r *Recognition) notify(p Progress) {
	if r.observer != nil {
		r.observer.Progress(p)
	}
}
