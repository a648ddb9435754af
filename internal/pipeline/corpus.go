package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Corpus is the on-disk tree of per-identity face sample directories:
// <dir>/<identity>/<identity>_<n>.png with n starting at 1.
type Corpus struct {
	dir string
}

// NewCorpus returns a corpus rooted at dir. The root is created lazily when
// the first identity is enrolled.
func NewCorpus(dir string) Corpus {
	return Corpus{dir: dir}
}

// Dir returns the corpus root directory.
func (c Corpus) Dir() string {
	return c.dir
}

// validIdentity rejects names that are empty or would escape the corpus
// directory when used as a path element.
func validIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return fmt.Errorf("identity must not be empty")
	}
	if strings.ContainsAny(identity, `/\`) || identity == "." || identity == ".." {
		return fmt.Errorf("identity %q must not contain path separators", identity)
	}
	return nil
}

// IdentityDir returns the sample directory for identity.
func (c Corpus) IdentityDir(identity string) string {
	return filepath.Join(c.dir, identity)
}

// Enrolled reports whether identity already has at least one file in its
// sample directory. A missing directory means not enrolled.
func (c Corpus) Enrolled(identity string) (bool, error) {
	entries, err := os.ReadDir(c.IdentityDir(identity))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading identity directory: %w", err)
	}
	return len(entries) > 0, nil
}

// EnsureIdentityDir creates the sample directory for identity.
func (c Corpus) EnsureIdentityDir(identity string) error {
	if err := validIdentity(identity); err != nil {
		return err
	}
	if err := os.MkdirAll(c.IdentityDir(identity), 0o755); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}
	return nil
}

// SamplePath returns the path of the n-th sample for identity (n >= 1).
func (c Corpus) SamplePath(identity string, n int) string {
	return filepath.Join(c.IdentityDir(identity), fmt.Sprintf("%s_%d.png", identity, n))
}

// Identities returns the identity directory names in sorted lexicographic
// order. This ordering determines the dense label assignment at training
// time. A missing corpus root yields an empty list.
func (c Corpus) Identities() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// SampleFiles returns the paths of the sample images (case-insensitive .png
// or .jpg) under an identity's directory.
func (c Corpus) SampleFiles(identity string) ([]string, error) {
	entries, err := os.ReadDir(c.IdentityDir(identity))
	if err != nil {
		return nil, fmt.Errorf("reading identity directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".png" || ext == ".jpg" {
			paths = append(paths, filepath.Join(c.IdentityDir(identity), e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
