package pipeline

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/acadix/scan/internal/config"
	"github.com/acadix/scan/internal/vision"
)

// Capture drives a sample enrollment session: pull frames, detect, persist
// normalized face crops under the identity's sample directory, stop on
// quota, timeout or cancellation.
type Capture struct {
	cfg      config.CaptureConfig
	corpus   Corpus
	finder   FaceFinder
	open     OpenSource
	observer Observer
}

// NewCapture builds a capture session. observer may be nil.
func NewCapture(cfg config.CaptureConfig, corpus Corpus, finder FaceFinder, open OpenSource, observer Observer) *Capture {
	return &Capture{cfg: cfg, corpus: corpus, finder: finder, open: open, observer: observer}
}

// CaptureResult summarizes a capture session.
type CaptureResult struct {
	Identity  string
	Saved     int
	Target    int
	Elapsed   time.Duration
	Cancelled bool
}

// Run executes the session for identity. The camera is opened only after the
// enrollment precondition passes and is released on every exit path. A nil
// error means exactly Target samples were saved; otherwise the error wraps
// ErrAlreadyEnrolled or ErrCaptureIncomplete.
func (c *Capture) Run(ctx context.Context, identity string) (CaptureResult, error) {
	res := CaptureResult{Identity: identity, Target: c.cfg.TargetCount}

	if err := validIdentity(identity); err != nil {
		return res, err
	}
	enrolled, err := c.corpus.Enrolled(identity)
	if err != nil {
		return res, err
	}
	if enrolled {
		return res, fmt.Errorf("%w: %s", ErrAlreadyEnrolled, identity)
	}
	if err := c.corpus.EnsureIdentityDir(identity); err != nil {
		return res, err
	}

	src, err := c.open()
	if err != nil {
		return res, fmt.Errorf("opening camera: %w", err)
	}
	defer src.Close()

	start := time.Now()
	for res.Saved < res.Target {
		if time.Since(start) >= c.cfg.Timeout {
			break
		}
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}

		frame, err := src.Next(ctx)
		if err != nil {
			sleep(ctx, c.cfg.RetryDelay)
			continue
		}
		faces := c.processFrame(frame, identity, &res)
		frame.Close()

		c.notify(Progress{
			Saved:   res.Saved,
			Target:  res.Target,
			Faces:   faces,
			Elapsed: time.Since(start),
		})
	}
	res.Elapsed = time.Since(start)

	if res.Saved == res.Target {
		return res, nil
	}
	if res.Cancelled {
		return res, fmt.Errorf("%w: cancelled after %d/%d samples", ErrCaptureIncomplete, res.Saved, res.Target)
	}
	return res, fmt.Errorf("%w: captured %d/%d samples before timeout", ErrCaptureIncomplete, res.Saved, res.Target)
}

// processFrame detects faces in frame and, if any are found, saves a
// normalized crop of the first box as the next sequential sample. Returns
// the number of faces detected.
func (c *Capture) processFrame(frame gocv.Mat, identity string, res *CaptureResult) int {
	gray := vision.Grayscale(frame)
	defer gray.Close()

	boxes := c.finder.Detect(gray)
	if len(boxes) == 0 {
		return 0
	}

	face := vision.CropFace(gray, boxes[0])
	defer face.Close()

	path := c.corpus.SamplePath(identity, res.Saved+1)
	if err := vision.WriteSample(path, face); err == nil {
		res.Saved++
	}
	return len(boxes)
}

func (c *Capture) notify(p Progress) {
	if c.observer != nil {
		c.observer.Progress(p)
	}
}
