// Package material implements the surface scattering models used by the
// renderer. A Material is a closed tagged variant rather than an interface:
// the renderer switches on Kind, which keeps the full set of scattering
// models visible in one place and lets scenes store materials by value.
package material

import (
	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/sampler"
)

// Kind discriminates the scattering models a Material can represent.
type Kind int

const (
	// Lambertian is an ideal diffuse reflector.
	Lambertian Kind = iota
	// Disney is the principled BRDF with the full parameter set.
	Disney
	// Emissive surfaces emit radiance from their front face and do not
	// scatter.
	Emissive
)

// Material describes how a surface scatters or emits light. Only the fields
// relevant to the Kind are consulted; the rest are ignored.
type Material struct {
	Kind Kind

	// BaseColor is the surface albedo for diffuse and metallic reflection.
	BaseColor math.Vec3

	// Roughness controls microfacet spread, perceptually linear in [0, 1].
	Roughness float64
	// Metallic blends between dielectric and conductor behaviour.
	Metallic float64
	// Specular scales dielectric reflectance; 0.5 maps to 4% at normal
	// incidence.
	Specular float64
	// SpecularTint pulls dielectric reflection toward the base color hue.
	SpecularTint float64
	// Clearcoat adds a second glossy dielectric layer on top.
	Clearcoat float64
	// ClearcoatGloss controls the sharpness of the clearcoat highlight.
	ClearcoatGloss float64
	// Subsurface flattens the diffuse lobe toward a Hanrahan-Krueger look.
	Subsurface float64
	// Anisotropy stretches the specular highlight along the tangent.
	Anisotropy float64
	// Sheen adds grazing-angle retroreflection for cloth-like surfaces.
	Sheen float64
	// SheenTint pulls the sheen color toward the base color hue.
	SheenTint float64

	// Emission is the radiance emitted from the front face, in W/(sr·m²).
	Emission math.Vec3
}

// NewLambertian returns an ideal diffuse material with the given albedo.
func NewLambertian(albedo math.Vec3) Material {
	return Material{Kind: Lambertian, BaseColor: albedo}
}

// NewEmissive returns a material that emits the given radiance from its
// front face.
func NewEmissive(emission math.Vec3) Material {
	return Material{Kind: Emissive, Emission: emission}
}

// NewDisney returns a principled material with the given base color and the
// standard neutral defaults for every other parameter. Callers adjust the
// fields they care about.
func NewDisney(baseColor math.Vec3) Material {
	return Material{
		Kind:           Disney,
		BaseColor:      baseColor,
		Roughness:      0.5,
		Specular:       0.5,
		ClearcoatGloss: 1,
	}
}

// Emits reports whether the material contributes emitted radiance.
func (m *Material) Emits() bool {
	return m.Kind == Emissive && !m.Emission.IsZero()
}

// Emit returns the radiance emitted toward the viewer. Emission is one
// sided: back faces are dark.
func (m *Material) Emit(frontFace bool) math.Vec3 {
	if m.Kind != Emissive || !frontFace {
		return math.Vec3{}
	}
	return m.Emission
}

// Evaluate computes the BRDF for the outgoing/incoming world-space direction
// pair at a surface with the given shading normal. Both directions point away
// from the surface. The returned reflectance already includes the |cos θi|
// projection term; the density is the one Sample would use for wi, which is
// what multiple importance sampling needs.
func (m *Material) Evaluate(wo, wi, normal math.Vec3) (math.Vec3, float64) {
	frame := NewFrame(normal)
	woL := frame.ToLocal(wo)
	wiL := frame.ToLocal(wi)
	return m.evaluateLocal(woL, wiL)
}

// Sample draws an incoming direction for the given outgoing world-space
// direction, returning the direction, the reflectance (including |cos θi|)
// and the sample's density. uLobe selects among lobes and uDir places the
// direction within the chosen lobe. ok is false when the sample carries no
// energy and the path should terminate.
func (m *Material) Sample(wo, normal math.Vec3, uLobe float64, uDir math.Vec2) (wi, f math.Vec3, pdf float64, ok bool) {
	frame := NewFrame(normal)
	woL := frame.ToLocal(wo)
	if cosTheta(woL) <= 0 {
		return math.Vec3{}, math.Vec3{}, 0, false
	}

	var wiL math.Vec3
	switch m.Kind {
	case Lambertian:
		wiL = sampler.SampleCosineHemisphere(localUp, uDir)
	case Disney:
		var sampled bool
		wiL, sampled = m.sampleDisneyDirection(woL, uLobe, uDir)
		if !sampled {
			return math.Vec3{}, math.Vec3{}, 0, false
		}
	default:
		return math.Vec3{}, math.Vec3{}, 0, false
	}

	f, pdf = m.evaluateLocal(woL, wiL)
	if pdf <= 0 || f.IsZero() {
		return math.Vec3{}, math.Vec3{}, 0, false
	}
	return frame.ToWorld(wiL), f, pdf, true
}

// localUp is the shading normal in frame-local coordinates.
var localUp = math.NewVec3(0, 0, 1)

// evaluateLocal dispatches BRDF evaluation on the material kind with both
// directions already in the shading frame.
func (m *Material) evaluateLocal(wo, wi math.Vec3) (math.Vec3, float64) {
	if !sameHemisphere(wo, wi) || cosTheta(wo) <= 0 {
		return math.Vec3{}, 0
	}
	switch m.Kind {
	case Lambertian:
		cos := absCosTheta(wi)
		f := m.BaseColor.Multiply(invPi * cos)
		return f, sampler.CosineHemispherePDF(cos)
	case Disney:
		return m.evaluateDisney(wo, wi)
	default:
		return math.Vec3{}, 0
	}
}
