package report

import (
	"fmt"
	"os"
)

// WithStaging creates a temporary directory for staged artwork, runs fn
// with it, and removes the directory afterwards. Removal happens on
// every exit path so repeated runs never accumulate orphaned files,
// even when the send step fails.
func WithStaging(fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", "plex-digest-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(dir)

	return fn(dir)
}
