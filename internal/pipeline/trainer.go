package pipeline

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/acadix/scan/internal/config"
	"github.com/acadix/scan/internal/vision"
)

// Trainer fits the face model over the sample corpus and persists it with
// its label sidecar. Every run replaces the previous model wholesale.
type Trainer struct {
	corpus Corpus
	model  config.ModelConfig

	// Seams for tests; default to the vision implementations.
	newModel func() (FaceModel, error)
	loadGray func(path string) (gocv.Mat, error)
}

// NewTrainer builds a trainer over corpus, persisting to the configured
// model path.
func NewTrainer(corpus Corpus, model config.ModelConfig) *Trainer {
	return &Trainer{
		corpus:   corpus,
		model:    model,
		newModel: func() (FaceModel, error) { return vision.NewRecognizer() },
		loadGray: vision.ReadSampleGray,
	}
}

// TrainResult summarizes a training run.
type TrainResult struct {
	Identities int
	Samples    int
}

// Run enumerates identity directories in sorted order (which fixes the
// dense label assignment), loads every readable sample, fits the model and
// writes the model file plus the label sidecar. Nothing is written when the
// dataset is empty or the recognition backend is unavailable.
func (t *Trainer) Run() (TrainResult, error) {
	var res TrainResult

	identities, err := t.corpus.Identities()
	if err != nil {
		return res, err
	}

	var samples []gocv.Mat
	var labels []int
	defer func() {
		for _, m := range samples {
			m.Close()
		}
	}()

	var names []string
	for _, identity := range identities {
		files, err := t.corpus.SampleFiles(identity)
		if err != nil {
			return res, err
		}
		label := len(names)
		names = append(names, identity)
		for _, path := range files {
			img, err := t.loadGray(path)
			if err != nil {
				// Unreadable files are skipped, matching capture's
				// best-effort write semantics.
				continue
			}
			samples = append(samples, img)
			labels = append(labels, label)
		}
	}

	if len(samples) == 0 {
		return res, fmt.Errorf("%w: capture faces first", ErrEmptyDataset)
	}

	model, err := t.newModel()
	if err != nil {
		return res, err
	}
	if err := model.Train(samples, labels); err != nil {
		return res, fmt.Errorf("fitting model: %w", err)
	}
	if err := model.Write(t.model.Path); err != nil {
		return res, err
	}
	if err := WriteLabels(t.model.LabelsPath(), names); err != nil {
		return res, err
	}

	res.Identities = len(names)
	res.Samples = len(samples)
	return res, nil
}
