package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Corpus.Dir != "dataset" {
		t.Errorf("expected corpus dir 'dataset', got %q", cfg.Corpus.Dir)
	}
	if cfg.Model.Path != "face_model.yml" {
		t.Errorf("expected model path 'face_model.yml', got %q", cfg.Model.Path)
	}
	if cfg.Model.AcceptDistance != 50.0 {
		t.Errorf("expected accept distance 50.0, got %v", cfg.Model.AcceptDistance)
	}
	if cfg.Capture.TargetCount != 20 {
		t.Errorf("expected 20 capture samples, got %d", cfg.Capture.TargetCount)
	}
	if cfg.Capture.Timeout != 60*time.Second {
		t.Errorf("expected 60s capture timeout, got %v", cfg.Capture.Timeout)
	}
	if cfg.Recognize.Timeout != 20*time.Second {
		t.Errorf("expected 20s recognize timeout, got %v", cfg.Recognize.Timeout)
	}
	if len(cfg.Cascade.Candidates) == 0 {
		t.Fatal("expected cascade candidates to be populated")
	}
	if cfg.Cascade.Candidates[0] != "haarcascade_frontalface_default.xml" {
		t.Errorf("expected app-local cascade first, got %q", cfg.Cascade.Candidates[0])
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCAN_CAMERA_URL", "10.0.0.5.8080")
	t.Setenv("SCAN_CORPUS_DIR", "/tmp/faces")
	t.Setenv("SCAN_CAPTURE_SAMPLES", "5")
	t.Setenv("SCAN_CAPTURE_TIMEOUT", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Camera.URL != "10.0.0.5.8080" {
		t.Errorf("expected camera URL from env, got %q", cfg.Camera.URL)
	}
	if cfg.Corpus.Dir != "/tmp/faces" {
		t.Errorf("expected corpus dir from env, got %q", cfg.Corpus.Dir)
	}
	if cfg.Capture.TargetCount != 5 {
		t.Errorf("expected 5 capture samples, got %d", cfg.Capture.TargetCount)
	}
	if cfg.Capture.Timeout != 10*time.Second {
		t.Errorf("expected 10s capture timeout, got %v", cfg.Capture.Timeout)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("SCAN_CAPTURE_SAMPLES", "not-a-number")
	t.Setenv("SCAN_CAPTURE_TIMEOUT", "-3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Capture.TargetCount != 20 {
		t.Errorf("expected fallback to 20 samples, got %d", cfg.Capture.TargetCount)
	}
	if cfg.Capture.Timeout != 60*time.Second {
		t.Errorf("expected fallback to 60s timeout, got %v", cfg.Capture.Timeout)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.yaml")
	content := []byte("corpus:\n  dir: yaml-dataset\nmodel:\n  path: yaml-model.yml\n  accept_distance: 40\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCAN_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Corpus.Dir != "yaml-dataset" {
		t.Errorf("expected corpus dir from YAML, got %q", cfg.Corpus.Dir)
	}
	if cfg.Model.Path != "yaml-model.yml" {
		t.Errorf("expected model path from YAML, got %q", cfg.Model.Path)
	}
	if cfg.Model.AcceptDistance != 40 {
		t.Errorf("expected accept distance from YAML, got %v", cfg.Model.AcceptDistance)
	}
	// Fields absent from the file keep their env/default values.
	if cfg.Capture.TargetCount != 20 {
		t.Errorf("expected default capture samples, got %d", cfg.Capture.TargetCount)
	}
}

func TestLoad_BadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.yaml")
	if err := os.WriteFile(path, []byte("corpus: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCAN_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed YAML config")
	}
}

func TestLabelsPath(t *testing.T) {
	m := ModelConfig{Path: "face_model.yml"}
	if got := m.LabelsPath(); got != "face_model.yml.labels" {
		t.Errorf("expected 'face_model.yml.labels', got %q", got)
	}
}
