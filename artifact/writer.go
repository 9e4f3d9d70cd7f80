package artifact

import (
	"context"
	"fmt"

	"github.com/hupe1980/orbmatch/blobstore"
)

// Writer publishes artifacts into a writable blob store.
type Writer struct {
	store blobstore.WritableStore
	opts  options
}

// NewWriter creates a Writer. Use WithCompression to compress output.
func NewWriter(store blobstore.WritableStore, opts ...Option) *Writer {
	return &Writer{store: store, opts: applyOptions(opts)}
}

// Write validates, encodes and stores the category's artifact, replacing
// any previous version.
func (w *Writer) Write(ctx context.Context, category string, a *Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}

	data, err := w.opts.codec.Marshal(a)
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", category, err)
	}

	data, err = Compress(data, w.opts.compression)
	if err != nil {
		return fmt.Errorf("artifact: compress %s: %w", category, err)
	}

	return w.store.Put(ctx, BlobName(category, w.opts.suffix), data)
}
