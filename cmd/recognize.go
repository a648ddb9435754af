package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acadix/scan/internal/pipeline"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Recognize a face from the camera and mark attendance",
	Long: `Run a recognition session against the camera and mark the recognized
student present for today.

Every detected face in every snapshot is classified against the trained
model; the first confident match ends the session. Marking is
idempotent: a student already marked today is reported, not duplicated.

Examples:
  # Recognize and mark attendance
  acadix-scan recognize

  # Recognize only, without touching the attendance log
  acadix-scan recognize --dry-run`,
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("camera", "", "Camera address (overrides SCAN_CAMERA_URL)")
	recognizeCmd.Flags().Bool("dry-run", false, "Recognize without marking attendance")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(mustGetString(cmd, "camera"))
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	model, labels, err := pipeline.LoadModel(cfg.Model)
	if err != nil {
		if errors.Is(err, pipeline.ErrModelMissing) {
			return fmt.Errorf("no trained model at %s; run 'acadix-scan train' first", cfg.Model.Path)
		}
		return err
	}

	detector, err := newDetector(cfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	recognition := pipeline.NewRecognition(
		cfg.Recognize,
		cfg.Model.AcceptDistance,
		detector,
		model,
		labels,
		snapshotSource(cfg),
		nil,
	)

	fmt.Println("Looking for a familiar face...")
	match, err := recognition.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, pipeline.ErrNoMatch) {
			return fmt.Errorf("no confident match within %s", cfg.Recognize.Timeout)
		}
		return err
	}

	fmt.Printf("Recognized %s (confidence %.1f%%)\n", match.Identity, match.Confidence)
	if dryRun {
		return nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	res, err := pipeline.MarkRecognized(st, match)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownStudent) {
			return fmt.Errorf("%s is not in the student register; add them with 'acadix-scan students add'", match.Identity)
		}
		return err
	}
	fmt.Println(res.Message)
	return nil
}
