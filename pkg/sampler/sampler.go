package sampler

import (
	"github.com/sdao/gammaray/pkg/math"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() math.Vec2
}

// Stream discriminates the independent random streams a single pixel-sample
// consumes, so that camera jitter, light sampling and BSDF sampling at every
// bounce draw from decorrelated sequences.
type Stream uint64

const (
	StreamCamera Stream = iota
	StreamLight
	StreamBSDF
	StreamRoulette
)

// PathSampler is a small PCG-style generator whose state is derived purely
// from (render seed, pixel coordinates, sample index, stream). Because no
// process-wide counter is involved, results are independent of goroutine
// scheduling and renders are reproducible for a fixed seed.
type PathSampler struct {
	state uint64
	inc   uint64
}

// NewPathSampler creates a sampler for one logical path
func NewPathSampler(seed uint64, pixelX, pixelY, sampleIndex int, stream Stream) *PathSampler {
	h := mix(seed, uint64(pixelX)<<32|uint64(uint32(pixelY)))
	h = mix(h, uint64(sampleIndex))
	h = mix(h, uint64(stream))

	// The increment selects the PCG stream; it must be odd.
	s := &PathSampler{
		state: mix(h, 0x9e3779b97f4a7c15),
		inc:   (mix(h, 0xda3e39cb94b95bdb) << 1) | 1,
	}
	s.next() // discard first output to decouple state from the raw hash
	return s
}

// mix combines two values using the splitmix64 finalizer
func mix(a, b uint64) uint64 {
	z := a + b + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// next advances the PCG state and returns 32 output bits (PCG-XSH-RR)
func (s *PathSampler) next() uint32 {
	old := s.state
	s.state = old*6364136223846793005 + s.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Get1D returns a random float64 in [0, 1)
func (s *PathSampler) Get1D() float64 {
	// 53 random bits, the full precision of a float64 mantissa
	hi := uint64(s.next())
	lo := uint64(s.next())
	return float64((hi<<21)|(lo>>11)) / (1 << 53)
}

// Get2D returns two random float64 values in [0, 1)
func (s *PathSampler) Get2D() math.Vec2 {
	return math.NewVec2(s.Get1D(), s.Get1D())
}
