package sample

import (
	"math"
	"math/rand/v2"
	"strconv"

	kerrors "kgram/internal/errors"
	"kgram/internal/kgram"
)

// Sample returns a uniformly random subset of items with min(len(items), n)
// members, drawn without replacement. items is not modified; when it already
// fits, it is returned as is.
func Sample(items kgram.Set, n int, rng *rand.Rand) kgram.Set {
	if n < 0 {
		n = 0
	}
	if items.Len() <= n {
		return items
	}
	// Sorted order is the fixed enumeration positions refer to.
	members := items.Sorted()
	perm := rng.Perm(len(members))
	remove := make(map[int]struct{}, len(members)-n)
	for _, idx := range perm[:len(members)-n] {
		remove[idx] = struct{}{}
	}
	out := make(kgram.Set, n)
	for i, g := range members {
		if _, drop := remove[i]; !drop {
			out.Add(g)
		}
	}
	return out
}

// Sampler caps every document's k-gram set at Size members.
type Sampler struct {
	size int
	rng  *rand.Rand
}

// Unlimited is the sample size that keeps every k-gram.
const Unlimited = math.MaxInt

// NewSampler creates a sampler. A zero seed draws a random one.
func NewSampler(size int, seed uint64) (*Sampler, error) {
	if size < 0 {
		return nil, kerrors.NewConfigurationError("sample_size", strconv.Itoa(size), "must be a non-negative integer")
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Sampler{size: size, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, nil
}

// Size returns the target cardinality.
func (s *Sampler) Size() int { return s.size }

// Sample draws the next subset from the sampler's random stream.
func (s *Sampler) Sample(items kgram.Set) kgram.Set {
	return Sample(items, s.size, s.rng)
}
