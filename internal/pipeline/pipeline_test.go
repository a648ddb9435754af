package pipeline

import (
	"context"
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// fakeSource yields synthetic color frames. A negative frame count means
// the source never produces a frame.
type fakeSource struct {
	frames int // frames left to produce, -1 = fail forever
	opened int
	closed bool
}

func (f *fakeSource) Next(ctx context.Context) (gocv.Mat, error) {
	if f.frames == 0 || f.frames < 0 {
		return gocv.Mat{}, ErrFakeNoFrame
	}
	f.frames--
	return gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3), nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

var ErrFakeNoFrame = errors.New("no frame")

// fakeFinder returns the same boxes for every frame.
type fakeFinder struct {
	boxes []image.Rectangle
}

func (f *fakeFinder) Detect(gray gocv.Mat) []image.Rectangle {
	return f.boxes
}

// fakeModel scripts Predict responses and records Train calls.
type fakeModel struct {
	predictions []prediction
	calls       int

	trainedLabels []int
	trainedCount  int
	writtenPath   string
}

type prediction struct {
	label    int
	distance float64
}

func (m *fakeModel) Train(samples []gocv.Mat, labels []int) error {
	m.trainedCount = len(samples)
	m.trainedLabels = append([]int(nil), labels...)
	return nil
}

func (m *fakeModel) Predict(face gocv.Mat) (int, float64) {
	p := m.predictions[m.calls%len(m.predictions)]
	m.calls++
	return p.label, p.distance
}

func (m *fakeModel) Write(path string) error {
	m.writtenPath = path
	return nil
}

func (m *fakeModel) Read(path string) error { return nil }

// openRecorder wraps a source and counts how many times it was opened.
func openRecorder(src *fakeSource) (OpenSource, *int) {
	calls := new(int)
	return func() (FrameSource, error) {
		*calls++
		src.opened++
		return src, nil
	}, calls
}

func singleFaceBox() []image.Rectangle {
	return []image.Rectangle{image.Rect(20, 20, 120, 120)}
}
