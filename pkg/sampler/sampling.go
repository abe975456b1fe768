package sampler

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/math"
)

// SampleCosineHemisphere generates a cosine-weighted random direction in the
// hemisphere around normal
func SampleCosineHemisphere(normal math.Vec3, sample math.Vec2) math.Vec3 {
	d := SampleConcentricDisk(sample)
	z := stdmath.Sqrt(stdmath.Max(0, 1-d.X*d.X-d.Y*d.Y))

	// Create an orthonormal basis around the normal
	var nt math.Vec3
	if stdmath.Abs(normal.X) > 0.1 {
		nt = math.NewVec3(0, 1, 0)
	} else {
		nt = math.NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Multiply(d.X).Add(bitangent.Multiply(d.Y)).Add(normal.Multiply(z))
}

// CosineHemispherePDF returns the solid-angle density of cosine-weighted
// hemisphere sampling for a direction with the given cosine to the normal
func CosineHemispherePDF(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / stdmath.Pi
}

// SampleConcentricDisk generates a point in the unit disk using concentric
// mapping, which avoids rejection sampling by mapping the square uniformly
func SampleConcentricDisk(sample math.Vec2) math.Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := math.NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return math.Vec2{}
	}

	var theta, r float64
	if stdmath.Abs(uOffset.X) > stdmath.Abs(uOffset.Y) {
		r = uOffset.X
		theta = stdmath.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = stdmath.Pi/2 - stdmath.Pi/4*(uOffset.X/uOffset.Y)
	}

	return math.NewVec2(r*stdmath.Cos(theta), r*stdmath.Sin(theta))
}

// SampleUniformSphere generates a uniform random direction on the unit sphere
func SampleUniformSphere(sample math.Vec2) math.Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := stdmath.Sqrt(stdmath.Max(0, 1.0-z*z))
	phi := 2.0 * stdmath.Pi * sample.Y
	return math.NewVec3(r*stdmath.Cos(phi), r*stdmath.Sin(phi), z)
}

// SampleUniformTriangle maps a uniform square sample to barycentric
// coordinates uniformly distributed over a triangle
func SampleUniformTriangle(sample math.Vec2) math.Vec2 {
	su := stdmath.Sqrt(sample.X)
	return math.NewVec2(1-su, sample.Y*su)
}

// PowerHeuristic computes the MIS weight for a strategy that took nf samples
// with density fPdf against a competing strategy with ng samples and density
// gPdf, using the power heuristic with β=2
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	denom := f*f + g*g
	if denom == 0 {
		return 0
	}
	return f * f / denom
}
