package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries every path and tunable the pipeline components need.
// Components receive it (or a sub-struct) at construction; nothing in the
// codebase reads a fixed path on its own.
type Config struct {
	Camera    CameraConfig    `yaml:"camera"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Cascade   CascadeConfig   `yaml:"cascade"`
	Model     ModelConfig     `yaml:"model"`
	Capture   CaptureConfig   `yaml:"capture"`
	Recognize RecognizeConfig `yaml:"recognize"`
	Store     StoreConfig     `yaml:"store"`
}

type CameraConfig struct {
	URL             string        `yaml:"url"`              // raw address; normalized before use
	SnapshotTimeout time.Duration `yaml:"snapshot_timeout"` // per-request timeout for snapshot fetches
}

type CorpusConfig struct {
	Dir string `yaml:"dir"` // root of the per-identity sample directories
}

type CascadeConfig struct {
	// Candidates are tried in order; the first existing file wins.
	// Default order: app-local file, then the OpenCV data directories.
	Candidates []string `yaml:"candidates"`
}

type ModelConfig struct {
	Path string `yaml:"path"` // label sidecar lives at Path + ".labels"
	// AcceptDistance is the LBPH distance below which a prediction is
	// accepted (strict less-than; lower distance = more confident).
	AcceptDistance float64 `yaml:"accept_distance"`
}

type CaptureConfig struct {
	TargetCount int           `yaml:"target_count"`
	Timeout     time.Duration `yaml:"timeout"`
	RetryDelay  time.Duration `yaml:"retry_delay"` // pause after a failed frame fetch
}

type RecognizeConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

type StoreConfig struct {
	Dir string `yaml:"dir"` // directory holding student_details.csv, attendance.csv, alerts.csv
}

const cascadeFilename = "haarcascade_frontalface_default.xml"

// envStr reads an environment variable, returning the default when unset.
func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads an environment variable as a time.Duration (e.g. "30s").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// Load builds the configuration from environment variables, then applies an
// optional YAML file on top (SCAN_CONFIG, falling back to ./scan.yaml).
func Load() (*Config, error) {
	cfg := &Config{
		Camera: CameraConfig{
			URL:             os.Getenv("SCAN_CAMERA_URL"),
			SnapshotTimeout: envDuration("SCAN_SNAPSHOT_TIMEOUT", 5*time.Second),
		},
		Corpus: CorpusConfig{
			Dir: envStr("SCAN_CORPUS_DIR", "dataset"),
		},
		Cascade: CascadeConfig{
			Candidates: []string{
				cascadeFilename,
				"/usr/local/share/opencv4/haarcascades/" + cascadeFilename,
				"/usr/share/opencv4/haarcascades/" + cascadeFilename,
				"/opt/homebrew/share/opencv4/haarcascades/" + cascadeFilename,
			},
		},
		Model: ModelConfig{
			Path:           envStr("SCAN_MODEL_PATH", "face_model.yml"),
			AcceptDistance: 50.0,
		},
		Capture: CaptureConfig{
			TargetCount: envInt("SCAN_CAPTURE_SAMPLES", 20),
			Timeout:     envDuration("SCAN_CAPTURE_TIMEOUT", 60*time.Second),
			RetryDelay:  envDuration("SCAN_CAPTURE_RETRY_DELAY", 200*time.Millisecond),
		},
		Recognize: RecognizeConfig{
			Timeout:    envDuration("SCAN_RECOGNIZE_TIMEOUT", 20*time.Second),
			RetryDelay: envDuration("SCAN_RECOGNIZE_RETRY_DELAY", 200*time.Millisecond),
		},
		Store: StoreConfig{
			Dir: envStr("SCAN_STORE_DIR", "."),
		},
	}

	if path := configFilePath(); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

// configFilePath returns the YAML config file to apply, or "" when none.
func configFilePath() string {
	if p := os.Getenv("SCAN_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("scan.yaml"); err == nil {
		return "scan.yaml"
	}
	return ""
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// LabelsPath returns the path of the label sidecar next to the model file.
func (m ModelConfig) LabelsPath() string {
	return m.Path + ".labels"
}
