package cmd

import (
	"fmt"

	"github.com/acadix/scan/internal/camera"
	"github.com/acadix/scan/internal/config"
	"github.com/acadix/scan/internal/pipeline"
	"github.com/acadix/scan/internal/store"
	"github.com/acadix/scan/internal/vision"
)

// loadConfig loads the configuration, applying a --camera flag override when
// the command defines one.
func loadConfig(cameraOverride string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cameraOverride != "" {
		cfg.Camera.URL = cameraOverride
	}
	return cfg, nil
}

// newDetector resolves the cascade file and builds the face detector. The
// caller must Close it.
func newDetector(cfg *config.Config) (*vision.Detector, error) {
	detector, err := vision.NewDetector(cfg.Cascade.Candidates)
	if err != nil {
		return nil, err
	}
	return detector, nil
}

// streamSource opens the camera with a persistent stream preference, used by
// enrollment where frame rate matters.
func streamSource(cfg *config.Config) pipeline.OpenSource {
	return func() (pipeline.FrameSource, error) {
		if cfg.Camera.URL == "" {
			return nil, fmt.Errorf("camera address is required (--camera or SCAN_CAMERA_URL)")
		}
		return camera.OpenStream(cfg.Camera.URL, cfg.Camera.SnapshotTimeout), nil
	}
}

// snapshotSource opens the camera in snapshot-only mode, used by recognition
// so every classified frame is the freshest obtainable capture.
func snapshotSource(cfg *config.Config) pipeline.OpenSource {
	return func() (pipeline.FrameSource, error) {
		if cfg.Camera.URL == "" {
			return nil, fmt.Errorf("camera address is required (--camera or SCAN_CAMERA_URL)")
		}
		return camera.OpenSnapshot(cfg.Camera.URL, cfg.Camera.SnapshotTimeout), nil
	}
}

// openStore opens the CSV register configured by the store directory.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening data store: %w", err)
	}
	return st, nil
}
