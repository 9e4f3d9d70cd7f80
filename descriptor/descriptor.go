// Package descriptor implements the fixed-width binary feature descriptors
// compared by the matcher, and their text-safe transport encoding.
//
// A Descriptor is a 256-bit vector as produced by ORB-style keypoint
// extractors. A Collection is the ordered set of descriptors belonging to one
// image crop or one catalogued template.
//
// # Transport Encoding
//
// Collections travel as standard base64 over the concatenated descriptor
// bytes. Padding is optional on input:
//
//	c, err := descriptor.Decode(blob)
//	if errors.Is(err, descriptor.ErrMalformed) {
//	    // bad base64 or len(raw) % descriptor.Width != 0
//	}
package descriptor

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Width is the size of a single descriptor in bytes.
const Width = 32

// ErrMalformed is returned when encoded descriptor data cannot be turned into
// a Collection.
var ErrMalformed = errors.New("malformed descriptor data")

// MalformedError carries the details of a rejected descriptor payload.
//
// It satisfies errors.Is(err, ErrMalformed). The underlying decoding error
// (if any) can be accessed via errors.Unwrap.
type MalformedError struct {
	// Len is the decoded byte length, or -1 if the text encoding was invalid.
	Len   int
	cause error
}

func (e *MalformedError) Error() string {
	if e.Len < 0 {
		return fmt.Sprintf("%s: %v", ErrMalformed, e.cause)
	}
	return fmt.Sprintf("%s: %d bytes is not a multiple of %d", ErrMalformed, e.Len, Width)
}

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

func (e *MalformedError) Unwrap() error { return e.cause }

// Descriptor is a single binary feature vector.
type Descriptor [Width]byte

// Collection is an ordered sequence of descriptors. It may be empty.
type Collection []Descriptor

// SizeBytes returns the raw size of the collection.
func (c Collection) SizeBytes() int64 {
	return int64(len(c)) * Width
}

// Bytes returns the concatenated raw descriptor bytes.
func (c Collection) Bytes() []byte {
	out := make([]byte, 0, len(c)*Width)
	for i := range c {
		out = append(out, c[i][:]...)
	}
	return out
}

// FromBytes reinterprets raw bytes as a Collection.
//
// The data is copied; the returned Collection does not alias b.
// An empty input yields an empty Collection.
func FromBytes(b []byte) (Collection, error) {
	if len(b)%Width != 0 {
		return nil, &MalformedError{Len: len(b)}
	}
	n := len(b) / Width
	c := make(Collection, n)
	for i := range c {
		copy(c[i][:], b[i*Width:(i+1)*Width])
	}
	return c, nil
}

// Decode converts a base64 blob into a Collection.
func Decode(blob string) (Collection, error) {
	if blob == "" {
		return Collection{}, nil
	}
	raw, err := decodeText(blob)
	if err != nil {
		return nil, &MalformedError{Len: -1, cause: err}
	}
	return FromBytes(raw)
}

// Encode converts a Collection into its padded base64 transport form.
func Encode(c Collection) string {
	return base64.StdEncoding.EncodeToString(c.Bytes())
}

func decodeText(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return raw, nil
	}
	if len(s)%4 != 0 {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
			return raw, nil
		}
	}
	return nil, err
}
