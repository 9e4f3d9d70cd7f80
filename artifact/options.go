package artifact

import (
	"github.com/hupe1980/orbmatch/codec"
	"github.com/hupe1980/orbmatch/resource"
)

// DefaultSuffix is appended to a category name to form its blob name.
const DefaultSuffix = ".json"

type options struct {
	codec       codec.Codec
	suffix      string
	controller  *resource.Controller
	compression Compression
}

// Option configures a BlobSource or Writer.
type Option func(*options)

// WithCodec sets the document codec. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithSuffix sets the blob name suffix. Default: ".json".
func WithSuffix(suffix string) Option {
	return func(o *options) {
		o.suffix = suffix
	}
}

// WithController throttles artifact reads through the controller's IO limiter.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithCompression sets the compression used by a Writer. Sources detect
// compression on their own and ignore this option.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

func applyOptions(opts []Option) options {
	o := options{
		codec:  codec.Default,
		suffix: DefaultSuffix,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BlobName returns the blob name that holds the category's artifact.
func BlobName(category, suffix string) string {
	return category + suffix
}
