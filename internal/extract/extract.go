// Package extract computes ORB descriptors from template images.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hupe1980/orbmatch/descriptor"
	"gocv.io/x/gocv"
)

// ErrImageLoad is returned when an image cannot be read or decoded.
var ErrImageLoad = errors.New("extract: failed to load image")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".webp": {},
	".tif":  {},
	".tiff": {},
}

// IsImageFile checks if a file is a supported image based on extension.
func IsImageFile(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extractor runs ORB detection on grayscale images.
// It is safe for concurrent use; calls are serialized.
type Extractor struct {
	mu  sync.Mutex
	orb gocv.ORB
}

// New creates an Extractor with OpenCV's default ORB parameters.
func New() *Extractor {
	return &Extractor{orb: gocv.NewORB()}
}

// File extracts the descriptors of the image at path.
func (e *Extractor) File(path string) (descriptor.Collection, error) {
	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrImageLoad, path)
	}
	return e.compute(img)
}

// Bytes extracts the descriptors of an encoded image (PNG, JPEG, ...).
func (e *Extractor) Bytes(data []byte) (descriptor.Collection, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, ErrImageLoad
	}
	return e.compute(img)
}

func (e *Extractor) compute(img gocv.Mat) (descriptor.Collection, error) {
	mask := gocv.NewMat()
	defer mask.Close()

	e.mu.Lock()
	_, desc := e.orb.DetectAndCompute(img, mask)
	e.mu.Unlock()
	defer desc.Close()

	// No keypoints found.
	if desc.Empty() {
		return descriptor.Collection{}, nil
	}
	if desc.Cols() != descriptor.Width {
		return nil, fmt.Errorf("extract: unexpected descriptor width %d", desc.Cols())
	}
	return descriptor.FromBytes(desc.ToBytes())
}

// Close releases the ORB detector.
func (e *Extractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orb.Close()
}
