package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/acadix/scan/internal/config"
)

func seedSamples(t *testing.T, corpus Corpus, identity string, count int) {
	t.Helper()
	if err := corpus.EnsureIdentityDir(identity); err != nil {
		t.Fatalf("could not create identity dir: %v", err)
	}
	for n := 1; n <= count; n++ {
		if err := os.WriteFile(corpus.SamplePath(identity, n), []byte("img"), 0o644); err != nil {
			t.Fatalf("could not seed sample: %v", err)
		}
	}
}

func grayLoader(t *testing.T) func(string) (gocv.Mat, error) {
	return func(path string) (gocv.Mat, error) {
		m := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC1)
		t.Cleanup(func() {
			if !m.Closed() {
				m.Close()
			}
		})
		return m, nil
	}
}

func TestTrainerAssignsLabelsInSortedIdentityOrder(t *testing.T) {
	corpus := NewCorpus(t.TempDir())
	seedSamples(t, corpus, "bob", 2)
	seedSamples(t, corpus, "ana", 3)

	modelPath := filepath.Join(t.TempDir(), "model.yml")
	model := &fakeModel{}

	tr := NewTrainer(corpus, config.ModelConfig{Path: modelPath})
	tr.newModel = func() (FaceModel, error) { return model, nil }
	tr.loadGray = grayLoader(t)

	res, err := tr.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Identities != 2 || res.Samples != 5 {
		t.Errorf("result = %+v, expected 2 identities / 5 samples", res)
	}

	// ana sorts before bob, so ana gets label 0.
	expected := []int{0, 0, 0, 1, 1}
	if len(model.trainedLabels) != len(expected) {
		t.Fatalf("trained %d labels, expected %d", len(model.trainedLabels), len(expected))
	}
	for i, label := range expected {
		if model.trainedLabels[i] != label {
			t.Errorf("label[%d] = %d, expected %d", i, model.trainedLabels[i], label)
		}
	}
	if model.writtenPath != modelPath {
		t.Errorf("model written to %q, expected %q", model.writtenPath, modelPath)
	}

	labels, err := ReadLabels(config.ModelConfig{Path: modelPath}.LabelsPath())
	if err != nil {
		t.Fatalf("could not read label sidecar: %v", err)
	}
	if labels[0] != "ana" || labels[1] != "bob" {
		t.Errorf("sidecar = %v, expected ana=0 bob=1", labels)
	}
}

func TestTrainerEmptyDatasetWritesNothing(t *testing.T) {
	corpus := NewCorpus(t.TempDir())
	modelPath := filepath.Join(t.TempDir(), "model.yml")

	backendUsed := false
	tr := NewTrainer(corpus, config.ModelConfig{Path: modelPath})
	tr.newModel = func() (FaceModel, error) {
		backendUsed = true
		return &fakeModel{}, nil
	}

	_, err := tr.Run()
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if backendUsed {
		t.Error("backend should not be created for an empty dataset")
	}
	if _, err := os.Stat(modelPath); !os.IsNotExist(err) {
		t.Error("model file should not exist after an empty run")
	}
}

func TestTrainerEmptyIdentityDirsOnlyIsEmptyDataset(t *testing.T) {
	corpus := NewCorpus(t.TempDir())
	if err := corpus.EnsureIdentityDir("ana"); err != nil {
		t.Fatalf("could not create identity dir: %v", err)
	}

	tr := NewTrainer(corpus, config.ModelConfig{Path: filepath.Join(t.TempDir(), "model.yml")})
	tr.loadGray = grayLoader(t)

	if _, err := tr.Run(); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestTrainerSkipsUnreadableSamples(t *testing.T) {
	corpus := NewCorpus(t.TempDir())
	seedSamples(t, corpus, "ana", 3)

	model := &fakeModel{}
	tr := NewTrainer(corpus, config.ModelConfig{Path: filepath.Join(t.TempDir(), "model.yml")})
	tr.newModel = func() (FaceModel, error) { return model, nil }

	load := grayLoader(t)
	calls := 0
	tr.loadGray = func(path string) (gocv.Mat, error) {
		calls++
		if calls == 2 {
			return gocv.Mat{}, fmt.Errorf("corrupt image")
		}
		return load(path)
	}

	res, err := tr.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Samples != 2 {
		t.Errorf("samples = %d, expected 2 after skipping the corrupt one", res.Samples)
	}
	if model.trainedCount != 2 {
		t.Errorf("trained on %d samples, expected 2", model.trainedCount)
	}
}

func TestTrainerBackendUnavailable(t *testing.T) {
	corpus := NewCorpus(t.TempDir())
	seedSamples(t, corpus, "ana", 1)

	backendErr := errors.New("recognition backend unavailable")
	tr := NewTrainer(corpus, config.ModelConfig{Path: filepath.Join(t.TempDir(), "model.yml")})
	tr.newModel = func() (FaceModel, error) { return nil, backendErr }
	tr.loadGray = grayLoader(t)

	if _, err := tr.Run(); !errors.Is(err, backendErr) {
		t.Errorf("expected backend error to pass through, got %v", err)
	}
}
