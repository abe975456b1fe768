package material

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/sampler"
)

const invPi = 1 / stdmath.Pi

// clearcoatAlphaMin keeps the GTR1 distribution well defined at full gloss.
const clearcoatAlphaMin = 0.001

// tintColor is the hue of the base color at unit luminance, used to tint
// dielectric reflection and sheen. Achromatic base colors tint to white.
func tintColor(baseColor math.Vec3) math.Vec3 {
	lum := baseColor.Luminance()
	if lum <= 0 {
		return math.NewVec3(1, 1, 1)
	}
	return baseColor.Multiply(1 / lum)
}

// lobeWeights returns the unnormalized selection weights for the diffuse,
// specular and clearcoat lobes. The specular lobe always carries weight so
// that fully metallic surfaces keep a valid density.
func (m *Material) lobeWeights() (wDiffuse, wSpecular, wClearcoat float64) {
	wDiffuse = 1 - m.Metallic
	wSpecular = 1
	wClearcoat = m.Clearcoat
	return
}

func (m *Material) clearcoatAlpha() float64 {
	return math.Lerp(0.1, clearcoatAlphaMin, m.ClearcoatGloss)
}

// evaluateDisney computes the full principled BRDF for a local direction
// pair, along with the density sampleDisneyDirection would assign to wi.
// Every lobe is symmetric in wo and wi, so reciprocity holds by
// construction.
func (m *Material) evaluateDisney(wo, wi math.Vec3) (math.Vec3, float64) {
	cosO := absCosTheta(wo)
	cosI := absCosTheta(wi)
	if cosO == 0 || cosI == 0 {
		return math.Vec3{}, 0
	}
	h := wo.Add(wi)
	if h.IsZero() {
		return math.Vec3{}, 0
	}
	h = h.Normalize()
	if cosTheta(h) < 0 {
		h = h.Negate()
	}
	cosD := wi.Dot(h)

	tint := tintColor(m.BaseColor)

	// Burley diffuse with the retro-reflection term folded in through the
	// roughness-dependent grazing reflectance.
	fl := schlickWeight(cosI)
	fv := schlickWeight(cosO)
	fd90 := 0.5 + 2*m.Roughness*cosD*cosD
	burley := math.Lerp(1, fd90, fl) * math.Lerp(1, fd90, fv)

	// Hanrahan-Krueger approximation for subsurface scattering.
	fss90 := m.Roughness * cosD * cosD
	fss := math.Lerp(1, fss90, fl) * math.Lerp(1, fss90, fv)
	ss := 1.25 * (fss*(1/(cosI+cosO)-0.5) + 0.5)

	diffuse := m.BaseColor.Multiply(invPi * math.Lerp(burley, ss, m.Subsurface))

	sheenColor := math.LerpVec(math.NewVec3(1, 1, 1), tint, m.SheenTint)
	sheenTerm := sheenColor.Multiply(m.Sheen * schlickWeight(cosD))

	diffuseLobe := diffuse.Add(sheenTerm).Multiply(1 - m.Metallic)

	// Anisotropic GGX specular. Dielectric reflectance at normal incidence
	// maps Specular of 0.5 to 4%, and metals reflect their base color.
	alpha := alphaFromRoughness(m.Roughness, m.Anisotropy)
	dielectricF0 := math.LerpVec(math.NewVec3(1, 1, 1), tint, m.SpecularTint).
		Multiply(0.08 * m.Specular)
	f0 := math.LerpVec(dielectricF0, m.BaseColor, m.Metallic)
	fresnel := fresnelSchlick(f0, cosD)
	specularLobe := fresnel.Multiply(ggxD(h, alpha) * ggxG(wo, wi, alpha) / (4 * cosO * cosI))

	// GTR1 clearcoat with a fixed 4% reflectance and fixed 0.25 shadowing
	// roughness.
	var clearcoatLobe float64
	if m.Clearcoat > 0 {
		alphaC := m.clearcoatAlpha()
		dc := gtr1D(cosTheta(h), alphaC)
		fc := math.Lerp(0.04, 1, schlickWeight(cosD))
		gc := smithGGXSeparable(wo, 0.25) * smithGGXSeparable(wi, 0.25)
		clearcoatLobe = 0.25 * m.Clearcoat * dc * fc * gc / (4 * cosO * cosI)
	}

	f := diffuseLobe.Add(specularLobe).
		Add(math.NewVec3(clearcoatLobe, clearcoatLobe, clearcoatLobe)).
		Multiply(cosI)

	return f, m.disneyPDF(wo, wi, h)
}

// disneyPDF is the density of sampleDisneyDirection: the lobe-selection
// weighted mixture of each lobe's individual density.
func (m *Material) disneyPDF(wo, wi, h math.Vec3) float64 {
	wD, wS, wC := m.lobeWeights()
	total := wD + wS + wC

	pdf := wS * m.specularPDF(wo, h)
	if wD > 0 {
		pdf += wD * sampler.CosineHemispherePDF(absCosTheta(wi))
	}
	if wC > 0 {
		pdf += wC * m.clearcoatPDF(wo, h)
	}
	return pdf / total
}

// specularPDF converts the half-vector density of the GGX distribution into
// a density over incoming directions via the reflection Jacobian.
func (m *Material) specularPDF(wo, h math.Vec3) float64 {
	cosD := wo.Dot(h)
	if cosD <= 0 {
		return 0
	}
	alpha := alphaFromRoughness(m.Roughness, m.Anisotropy)
	return ggxHalfPDF(h, alpha) / (4 * cosD)
}

func (m *Material) clearcoatPDF(wo, h math.Vec3) float64 {
	cosD := wo.Dot(h)
	if cosD <= 0 {
		return 0
	}
	alphaC := m.clearcoatAlpha()
	return gtr1D(cosTheta(h), alphaC) * cosTheta(h) / (4 * cosD)
}

// sampleDisneyDirection picks a lobe in proportion to its weight and draws
// an incoming direction from it. The caller evaluates the full BRDF and the
// mixture density afterwards, so the choice of lobe only affects variance,
// never the estimator's mean.
func (m *Material) sampleDisneyDirection(wo math.Vec3, uLobe float64, uDir math.Vec2) (math.Vec3, bool) {
	wD, wS, wC := m.lobeWeights()
	total := wD + wS + wC
	pick := uLobe * total

	var wi math.Vec3
	switch {
	case pick < wD:
		wi = sampler.SampleCosineHemisphere(localUp, uDir)
	case pick < wD+wS:
		alpha := alphaFromRoughness(m.Roughness, m.Anisotropy)
		h := ggxSampleHalf(uDir, alpha)
		wi = reflectAbout(wo, h)
	default:
		h := gtr1SampleHalf(uDir, m.clearcoatAlpha())
		wi = reflectAbout(wo, h)
	}

	if cosTheta(wi) <= 0 {
		return math.Vec3{}, false
	}
	return wi, true
}
