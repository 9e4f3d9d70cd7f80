package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/orbmatch/blobstore"
	"github.com/hupe1980/orbmatch/resource"
)

// BlobSource reads artifacts from a blob store.
type BlobSource struct {
	store blobstore.BlobStore
	opts  options
}

// NewBlobSource creates a Source over the given store.
func NewBlobSource(store blobstore.BlobStore, opts ...Option) *BlobSource {
	return &BlobSource{store: store, opts: applyOptions(opts)}
}

// Read opens, decompresses and decodes the category's artifact.
func (s *BlobSource) Read(ctx context.Context, category string) (*Artifact, error) {
	name := BlobName(category, s.opts.suffix)

	blob, err := s.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("artifact: open %s: %w", name, err)
	}
	defer blob.Close()

	data, err := s.readBlob(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", name, err)
	}

	plain, _, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var a Artifact
	if err := s.opts.codec.Unmarshal(plain, &a); err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %v", ErrMalformed, name, s.opts.codec.Name(), err)
	}
	return &a, nil
}

func (s *BlobSource) readBlob(ctx context.Context, blob blobstore.Blob) ([]byte, error) {
	if s.opts.controller == nil || s.opts.controller.Config().IOLimitBytesPerSec <= 0 {
		return blobstore.ReadAll(ctx, blob)
	}

	var buf bytes.Buffer
	buf.Grow(int(blob.Size()))
	r := resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, blob), s.opts.controller)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
