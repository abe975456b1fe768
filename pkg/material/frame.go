package material

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/math"
)

// Frame is an orthonormal shading basis. BSDF lobes are evaluated in this
// local space where the normal is the +Z axis; cosTheta of a local direction
// is then just its Z component.
type Frame struct {
	Tangent   math.Vec3
	Bitangent math.Vec3
	Normal    math.Vec3
}

// NewFrame builds an orthonormal basis around the given unit normal
func NewFrame(normal math.Vec3) Frame {
	var helper math.Vec3
	if stdmath.Abs(normal.X) > 0.1 {
		helper = math.NewVec3(0, 1, 0)
	} else {
		helper = math.NewVec3(1, 0, 0)
	}
	tangent := helper.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)
	return Frame{Tangent: tangent, Bitangent: bitangent, Normal: normal}
}

// ToLocal transforms a world-space direction into the frame
func (f Frame) ToLocal(v math.Vec3) math.Vec3 {
	return math.NewVec3(v.Dot(f.Tangent), v.Dot(f.Bitangent), v.Dot(f.Normal))
}

// ToWorld transforms a frame-local direction back to world space
func (f Frame) ToWorld(v math.Vec3) math.Vec3 {
	return f.Tangent.Multiply(v.X).Add(f.Bitangent.Multiply(v.Y)).Add(f.Normal.Multiply(v.Z))
}

// cosTheta returns the cosine of the angle to the local normal
func cosTheta(v math.Vec3) float64 {
	return v.Z
}

// absCosTheta returns the absolute cosine of the angle to the local normal
func absCosTheta(v math.Vec3) float64 {
	return stdmath.Abs(v.Z)
}

// sameHemisphere reports whether two local directions lie on the same side
// of the surface
func sameHemisphere(a, b math.Vec3) bool {
	return a.Z*b.Z > 0
}

// reflectAbout mirrors a local direction about the half vector
func reflectAbout(v, h math.Vec3) math.Vec3 {
	return h.Multiply(2 * v.Dot(h)).Subtract(v)
}
