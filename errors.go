package orbmatch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/orbmatch/catalog"
	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/hupe1980/orbmatch/matcher"
)

var (
	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("orbmatch: engine closed")

	// ErrUnknownCategory is returned for a category the engine was not configured with.
	ErrUnknownCategory = catalog.ErrUnknownCategory

	// ErrMalformedDescriptor is returned for query data that is not valid
	// base64 or not a whole number of descriptors.
	ErrMalformedDescriptor = descriptor.ErrMalformed

	// ErrInvalidThreshold is returned for a negative threshold.
	ErrInvalidThreshold = matcher.ErrInvalidThreshold

	// ErrInvalidRatio is returned for a ratio outside (0, 1].
	ErrInvalidRatio = matcher.ErrInvalidRatio
)

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, catalog.ErrClosed) && !errors.Is(err, ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}
