package distance

import (
	"testing"

	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/stretchr/testify/assert"
)

func TestHamming(t *testing.T) {
	var zero, ones, one descriptor.Descriptor
	for i := range ones {
		ones[i] = 0xFF
	}
	one[descriptor.Width-1] = 0x80

	assert.Equal(t, 0, Hamming(&zero, &zero))
	assert.Equal(t, MaxHamming, Hamming(&zero, &ones))
	assert.Equal(t, 1, Hamming(&zero, &one))
	assert.Equal(t, MaxHamming-1, Hamming(&one, &ones))
}
