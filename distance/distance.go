package distance

import (
	"encoding/binary"
	"math/bits"

	"github.com/hupe1980/orbmatch/descriptor"
)

// MaxHamming is the largest possible distance between two descriptors.
const MaxHamming = descriptor.Width * 8

// Hamming returns the number of differing bits between two descriptors.
func Hamming(a, b *descriptor.Descriptor) int {
	var dist int
	for i := 0; i < descriptor.Width; i += 8 {
		dist += bits.OnesCount64(binary.LittleEndian.Uint64(a[i:]) ^ binary.LittleEndian.Uint64(b[i:]))
	}
	return dist
}
