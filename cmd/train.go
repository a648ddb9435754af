package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acadix/scan/internal/pipeline"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the face recognition model over all captured samples",
	Long: `Train the face recognition model over every captured sample.

Identities get dense labels in sorted directory order and the mapping
is written to a sidecar next to the model file. Each run replaces the
previous model wholesale, so retraining after new enrollments is safe.`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	trainer := pipeline.NewTrainer(pipeline.NewCorpus(cfg.Corpus.Dir), cfg.Model)
	res, err := trainer.Run()
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyDataset) {
			return fmt.Errorf("no face samples found under %s; run 'acadix-scan enroll' first", cfg.Corpus.Dir)
		}
		return err
	}

	fmt.Printf("Trained on %d samples across %d identities\n", res.Samples, res.Identities)
	fmt.Printf("Model written to %s (labels: %s)\n", cfg.Model.Path, cfg.Model.LabelsPath())
	return nil
}
