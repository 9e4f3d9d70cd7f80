package matcher

import (
	"errors"
	"fmt"
)

const (
	// DefaultThreshold is the minimum confidence a template needs.
	DefaultThreshold = 10
	// DefaultTopN is the default result limit.
	DefaultTopN = 3
	// DefaultRatio is the nearest/second-nearest distance ratio.
	DefaultRatio = 0.75
)

var (
	// ErrInvalidThreshold is returned for a negative threshold.
	ErrInvalidThreshold = errors.New("matcher: threshold must be >= 0")
	// ErrInvalidRatio is returned for a ratio outside (0, 1].
	ErrInvalidRatio = errors.New("matcher: ratio must be in (0, 1]")
)

// Options controls a single match.
type Options struct {
	// Threshold is the minimum confidence for a template to be reported.
	Threshold int
	// TopN limits the number of results. Values <= 0 disable truncation.
	TopN int
	// EarlyExit stops at the first template reaching Threshold.
	EarlyExit bool
	// Ratio is the distance ratio for the nearest-neighbor test.
	Ratio float64
	// Keypoints reports which query descriptors matched each template.
	Keypoints bool
}

// DefaultOptions returns threshold 10, top 3, ratio 0.75.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		TopN:      DefaultTopN,
		Ratio:     DefaultRatio,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Threshold < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, o.Threshold)
	}
	if !(o.Ratio > 0 && o.Ratio <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidRatio, o.Ratio)
	}
	return nil
}
