package material

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/math"
)

// GGX (Trowbridge-Reitz) microfacet distribution with Smith shadowing,
// including the anisotropic form. Formulas follow PBRT 3e section 8.4,
// which is also where the original Disney course notes point.

// ggxAlpha holds the distribution's roughness along the two tangent axes.
// Isotropic surfaces have X == Y.
type ggxAlpha struct {
	X, Y float64
}

// alphaFromRoughness applies the perceptually linear roughness remap
// (alpha = roughness²) and spreads it by the anisotropy parameter
func alphaFromRoughness(roughness, anisotropy float64) ggxAlpha {
	a := roughness * roughness
	if a < 1e-4 {
		a = 1e-4
	}
	if anisotropy == 0 {
		return ggxAlpha{X: a, Y: a}
	}
	aspect := stdmath.Sqrt(1 - 0.9*anisotropy)
	return ggxAlpha{X: a / aspect, Y: a * aspect}
}

// ggxD evaluates the microfacet normal distribution at half vector h
func ggxD(h math.Vec3, alpha ggxAlpha) float64 {
	if h.Z <= 0 {
		return 0
	}
	x := h.X / alpha.X
	y := h.Y / alpha.Y
	t := x*x + y*y + h.Z*h.Z
	return 1 / (stdmath.Pi * alpha.X * alpha.Y * t * t)
}

// ggxLambda is Smith's auxiliary function for the GGX distribution
func ggxLambda(v math.Vec3, alpha ggxAlpha) float64 {
	cos2 := v.Z * v.Z
	if cos2 >= 1 {
		return 0
	}
	sin2 := 1 - cos2
	if sin2 <= 0 {
		return 0
	}
	// Project the roughness onto the azimuth of v
	invSin2 := 1 / sin2
	cosPhi2 := v.X * v.X * invSin2
	sinPhi2 := v.Y * v.Y * invSin2
	a2 := cosPhi2*alpha.X*alpha.X + sinPhi2*alpha.Y*alpha.Y
	tan2 := sin2 / cos2
	return (-1 + stdmath.Sqrt(1+a2*tan2)) / 2
}

// ggxG is the separable Smith masking-shadowing term for a direction pair
func ggxG(wo, wi math.Vec3, alpha ggxAlpha) float64 {
	return 1 / (1 + ggxLambda(wo, alpha) + ggxLambda(wi, alpha))
}

// ggxSampleHalf draws a half vector proportional to D(h)·|cos θh|
func ggxSampleHalf(sample math.Vec2, alpha ggxAlpha) math.Vec3 {
	var phi float64
	if alpha.X == alpha.Y {
		phi = 2 * stdmath.Pi * sample.Y
	} else {
		phi = stdmath.Atan(alpha.Y / alpha.X * stdmath.Tan(2*stdmath.Pi*sample.Y+0.5*stdmath.Pi))
		if sample.Y > 0.5 {
			phi += stdmath.Pi
		}
	}
	sinPhi, cosPhi := stdmath.Sincos(phi)

	a2 := 1 / (cosPhi*cosPhi/(alpha.X*alpha.X) + sinPhi*sinPhi/(alpha.Y*alpha.Y))
	tan2 := a2 * sample.X / (1 - sample.X)
	cos := 1 / stdmath.Sqrt(1+tan2)
	sin := stdmath.Sqrt(stdmath.Max(0, 1-cos*cos))

	return math.NewVec3(sin*cosPhi, sin*sinPhi, cos)
}

// ggxHalfPDF returns the density of ggxSampleHalf for a half vector
func ggxHalfPDF(h math.Vec3, alpha ggxAlpha) float64 {
	return ggxD(h, alpha) * absCosTheta(h)
}

// gtr1D is the clearcoat normal distribution (Burley's GTR with gamma=1)
func gtr1D(cosThetaH, alpha float64) float64 {
	if cosThetaH <= 0 {
		return 0
	}
	a2 := alpha * alpha
	t := 1 + (a2-1)*cosThetaH*cosThetaH
	return (a2 - 1) / (stdmath.Pi * stdmath.Log(a2) * t)
}

// gtr1SampleHalf draws a half vector proportional to the GTR1 distribution
func gtr1SampleHalf(sample math.Vec2, alpha float64) math.Vec3 {
	a2 := alpha * alpha
	cos2 := (1 - stdmath.Pow(a2, 1-sample.X)) / (1 - a2)
	cos := stdmath.Sqrt(stdmath.Max(0, cos2))
	sin := stdmath.Sqrt(stdmath.Max(0, 1-cos2))
	phi := 2 * stdmath.Pi * sample.Y
	sinPhi, cosPhi := stdmath.Sincos(phi)
	return math.NewVec3(sin*cosPhi, sin*sinPhi, cos)
}

// smithGGXSeparable is the clearcoat shadowing term with fixed alpha
func smithGGXSeparable(v math.Vec3, alpha float64) float64 {
	cos2 := v.Z * v.Z
	if cos2 <= 0 {
		return 0
	}
	tan2 := (1 - cos2) / cos2
	return 2 / (1 + stdmath.Sqrt(1+alpha*alpha*tan2))
}

// schlickWeight computes the (1-cos)^5 Fresnel interpolation weight
func schlickWeight(cos float64) float64 {
	x := 1 - cos
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	x2 := x * x
	return x2 * x2 * x
}

// fresnelSchlick interpolates from f0 toward white at grazing angles
func fresnelSchlick(f0 math.Vec3, cos float64) math.Vec3 {
	w := schlickWeight(cos)
	return math.LerpVec(f0, math.NewVec3(1, 1, 1), w)
}
