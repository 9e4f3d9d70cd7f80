package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// readChunk is the request size used when draining remote blobs.
const readChunk = 4 << 20

// NewReader returns an io.Reader over the whole blob.
func NewReader(ctx context.Context, blob Blob) io.Reader {
	return NewSectionReader(ctx, blob, 0, blob.Size())
}

// NewSectionReader returns an io.Reader that reads n bytes starting at off.
func NewSectionReader(ctx context.Context, blob Blob, off, n int64) io.Reader {
	return &sectionReader{blob: blob, ctx: ctx, off: off, limit: off + n}
}

type sectionReader struct {
	blob  Blob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *sectionReader) Read(p []byte) (n int, err error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err = r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return
}

// ReadAll reads the entire blob into a freshly allocated slice.
//
// The result never aliases memory owned by the blob, so it stays valid
// after the blob is closed.
func ReadAll(ctx context.Context, blob Blob) ([]byte, error) {
	if m, ok := blob.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}

	size := blob.Size()
	if size < 0 {
		return nil, fmt.Errorf("blobstore: invalid blob size %d", size)
	}

	out := make([]byte, size)
	var off int64
	for off < size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(off+readChunk, size)
		n, err := blob.ReadAt(ctx, out[off:end], off)
		off += int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) && off == size {
				break
			}
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if n == 0 {
			return nil, io.ErrNoProgress
		}
	}
	return out, nil
}
