package vision

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveCascadePath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "cascade.xml")
	if err := os.WriteFile(existing, []byte("<xml/>"), 0o644); err != nil {
		t.Fatalf("could not write cascade file: %v", err)
	}

	tests := []struct {
		name       string
		candidates []string
		expected   string
		wantErr    bool
	}{
		{
			name:       "first existing candidate wins",
			candidates: []string{filepath.Join(dir, "missing.xml"), existing, filepath.Join(dir, "other.xml")},
			expected:   existing,
		},
		{
			name:       "no candidates",
			candidates: nil,
			wantErr:    true,
		},
		{
			name:       "all missing",
			candidates: []string{filepath.Join(dir, "a.xml"), filepath.Join(dir, "b.xml")},
			wantErr:    true,
		},
		{
			name:       "directory is not a cascade file",
			candidates: []string{dir},
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCascadePath(tt.candidates)
			if tt.wantErr {
				if !errors.Is(err, ErrCascadeUnavailable) {
					t.Errorf("expected ErrCascadeUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("resolved %q, expected %q", got, tt.expected)
			}
		})
	}
}
