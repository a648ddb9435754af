package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WriteLabels persists the label→identity sidecar: one "label,identity"
// line per dense label, in ascending label order, no header. The file is
// overwritten wholesale.
func WriteLabels(path string, identities []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating label sidecar: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for label, identity := range identities {
		fmt.Fprintf(w, "%d,%s\n", label, identity)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing label sidecar: %w", err)
	}
	return nil
}

// ReadLabels loads the sidecar into a label→identity map. Blank and
// malformed lines are skipped.
func ReadLabels(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening label sidecar: %w", err)
	}
	defer f.Close()

	labels := make(map[int]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		idx, identity, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		label, err := strconv.Atoi(idx)
		if err != nil {
			continue
		}
		labels[label] = identity
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading label sidecar: %w", err)
	}
	return labels, nil
}
