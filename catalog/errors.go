package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactMissing means no artifact exists for the category.
	ErrArtifactMissing = errors.New("catalog: artifact missing")

	// ErrArtifactMalformed means the artifact exists but is structurally invalid.
	ErrArtifactMalformed = errors.New("catalog: artifact malformed")

	// ErrUnknownCategory is returned for a category outside the configured set.
	ErrUnknownCategory = errors.New("catalog: unknown category")

	// ErrClosed is returned after the cache has been closed.
	ErrClosed = errors.New("catalog: closed")
)

// LoadError describes a failed category load.
type LoadError struct {
	Category string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog: load %q: %v", e.Category, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsTerminal reports whether err permanently fails a category load.
// Missing and malformed artifacts are terminal; everything else (storage
// I/O, memory budget, timeouts) is retried on the next use.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrArtifactMissing) || errors.Is(err, ErrArtifactMalformed)
}
