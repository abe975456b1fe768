package lights

import "github.com/sdao/gammaray/pkg/math"

// Selector chooses among the scene's lights for next event estimation. The
// selection is uniform; the 1/n selection probability is folded into every
// density the selector reports so callers can feed them straight into the
// multiple importance sampling weights.
type Selector struct {
	Lights []Light
}

// NewSelector wraps the given lights. Lights with no emitting surface are
// kept so indices stay stable with the scene's light table.
func NewSelector(lights []Light) *Selector {
	return &Selector{Lights: lights}
}

// Count returns the number of selectable lights.
func (s *Selector) Count() int {
	return len(s.Lights)
}

// SampleDirect picks a light uniformly and draws a direct-lighting sample
// from it. The returned index identifies the chosen light. ok is false when
// the scene has no lights or the sample carries no energy.
func (s *Selector) SampleDirect(point, normal math.Vec3, uLight, uFace float64, uPos math.Vec2) (Sample, int, bool) {
	n := len(s.Lights)
	if n == 0 {
		return Sample{}, -1, false
	}

	index := int(uLight * float64(n))
	if index >= n {
		index = n - 1
	}

	sample := s.Lights[index].SampleDirect(point, normal, uFace, uPos)
	if sample.PDF <= 0 || sample.Emission.IsZero() {
		return Sample{}, index, false
	}
	sample.PDF /= float64(n)
	return sample, index, true
}

// PDF returns the density SampleDirect assigns to the given direction from
// the shading point, summed over every light the direction could reach.
func (s *Selector) PDF(point, normal, direction math.Vec3) float64 {
	n := len(s.Lights)
	if n == 0 {
		return 0
	}
	total := 0.0
	for i := range s.Lights {
		total += s.Lights[i].PDF(point, normal, direction)
	}
	return total / float64(n)
}

// EscapedRadiance sums the emission of the infinite lights for a ray that
// left the scene in the given direction.
func (s *Selector) EscapedRadiance(direction math.Vec3) math.Vec3 {
	var total math.Vec3
	for i := range s.Lights {
		total = total.Add(s.Lights[i].Radiance(direction))
	}
	return total
}
