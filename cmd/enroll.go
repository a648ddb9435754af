package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/acadix/scan/internal/pipeline"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <name>",
	Short: "Capture face samples for a new student",
	Long: `Capture face samples for a new student from the camera.

The session detects one face per frame and saves normalized grayscale
crops until the sample quota is reached or the session times out.
Enrollment is one-time: a student with existing samples is refused.

Examples:
  # Enroll with the configured camera
  acadix-scan enroll "Ana Kovac"

  # Override the camera address
  acadix-scan enroll "Ana Kovac" --camera 10.214.110.18.8080`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("camera", "", "Camera address (overrides SCAN_CAMERA_URL)")
	enrollCmd.Flags().Int("samples", 0, "Number of samples to capture (overrides config)")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	identity := args[0]

	cfg, err := loadConfig(mustGetString(cmd, "camera"))
	if err != nil {
		return err
	}
	if n := mustGetInt(cmd, "samples"); n > 0 {
		cfg.Capture.TargetCount = n
	}

	detector, err := newDetector(cfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	bar := progressbar.NewOptions(cfg.Capture.TargetCount,
		progressbar.OptionSetDescription("Capturing face samples"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionFullWidth(),
	)
	observer := pipeline.ObserverFunc(func(p pipeline.Progress) {
		_ = bar.Set(p.Saved)
	})

	capture := pipeline.NewCapture(
		cfg.Capture,
		pipeline.NewCorpus(cfg.Corpus.Dir),
		detector,
		streamSource(cfg),
		observer,
	)

	res, err := capture.Run(cmd.Context(), identity)
	fmt.Println()
	if err != nil {
		if errors.Is(err, pipeline.ErrAlreadyEnrolled) {
			return fmt.Errorf("%s already has captured samples; remove %s to re-enroll",
				identity, pipeline.NewCorpus(cfg.Corpus.Dir).IdentityDir(identity))
		}
		return err
	}

	fmt.Printf("Captured %d samples for %s in %s\n", res.Saved, res.Identity, res.Elapsed.Round(100*time.Millisecond))
	fmt.Println("Run 'acadix-scan train' to update the recognition model.")
	return nil
}
