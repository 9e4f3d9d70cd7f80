package testutil

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/hupe1980/orbmatch/distance"
)

// decoyDistance is how far the decoy pair for an unmatched query
// descriptor sits from it. Random descriptors are ~128 bits apart, so the
// pair is always the nearest two and ties the ratio test.
const decoyDistance = 40

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Descriptor returns a uniformly random descriptor.
func (r *RNG) Descriptor() descriptor.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.descriptorLocked()
}

func (r *RNG) descriptorLocked() descriptor.Descriptor {
	var d descriptor.Descriptor
	_, _ = r.rand.Read(d[:])
	return d
}

// Collection returns n random descriptors.
// Locks only once per call (preferred over calling Descriptor in a loop).
func (r *RNG) Collection(n int) descriptor.Collection {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := make(descriptor.Collection, n)
	for i := range c {
		c[i] = r.descriptorLocked()
	}
	return c
}

// Perturb returns a copy of d with exactly bits distinct bits flipped.
func (r *RNG) Perturb(d descriptor.Descriptor, bits int) descriptor.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perturbLocked(d, bits)
}

func (r *RNG) perturbLocked(d descriptor.Descriptor, bits int) descriptor.Descriptor {
	if bits > distance.MaxHamming {
		bits = distance.MaxHamming
	}
	for _, pos := range r.rand.Perm(distance.MaxHamming)[:bits] {
		d[pos/8] ^= 1 << (pos % 8)
	}
	return d
}

// Template builds a reference collection that yields exactly k good
// matches (ratio 0.75) for the first k descriptors of query.
//
// Matched query descriptors are copied verbatim. Every other query
// descriptor gets a pair of identical decoys, so its two nearest distances
// tie and the ratio test rejects it. The result is shuffled.
func (r *RNG) Template(query descriptor.Collection, k int) descriptor.Collection {
	if k > len(query) {
		panic(fmt.Sprintf("testutil: k=%d exceeds query size %d", k, len(query)))
	}

	r.mu.Lock()
	tmpl := make(descriptor.Collection, 0, k+2*(len(query)-k)+1)
	tmpl = append(tmpl, query[:k]...)
	for _, q := range query[k:] {
		decoy := r.perturbLocked(q, decoyDistance)
		tmpl = append(tmpl, decoy, decoy)
	}
	// Guarantees a second neighbor for single-descriptor templates.
	tmpl = append(tmpl, r.descriptorLocked())
	r.rand.Shuffle(len(tmpl), func(i, j int) { tmpl[i], tmpl[j] = tmpl[j], tmpl[i] })
	r.mu.Unlock()

	if got := Confidence(query, tmpl, 0.75); got != k {
		panic(fmt.Sprintf("testutil: template confidence %d, want %d (seed %d)", got, k, r.seed))
	}
	return tmpl
}

// Confidence is a brute-force oracle: the number of query descriptors
// whose two nearest neighbors in ref pass the ratio test.
func Confidence(query, ref descriptor.Collection, ratio float64) int {
	if len(ref) < 2 {
		return 0
	}

	n := 0
	for i := range query {
		d1, d2 := distance.MaxHamming+1, distance.MaxHamming+1
		for j := range ref {
			d := distance.Hamming(&query[i], &ref[j])
			if d < d1 {
				d1, d2 = d, d1
			} else if d < d2 {
				d2 = d
			}
		}
		if float64(d1) < ratio*float64(d2) {
			n++
		}
	}
	return n
}

// Encode returns the padded base64 transport encoding of c.
func Encode(c descriptor.Collection) string {
	return base64.StdEncoding.EncodeToString(c.Bytes())
}
