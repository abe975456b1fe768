package geometry

import (
	"github.com/sdao/gammaray/pkg/math"
)

// NoLight marks a primitive that is not backed by a light source
const NoLight = -1

// Primitive is one renderable triangle: a mesh face plus a material
// reference and, for emissive geometry, the index of the light backed by it.
// Primitives are created once at scene build and never mutated, so all
// workers share them without synchronization.
type Primitive struct {
	Mesh     *Mesh
	Face     int // face index within Mesh
	Material int // index into the scene's material table
	Light    int // index into the scene's light set, or NoLight
}

// Bounds returns the primitive's bounding box
func (p Primitive) Bounds() AABB {
	return p.Mesh.FaceBounds(p.Face)
}

// SurfaceInteraction describes a ray-primitive intersection. It is owned by
// the single path that produced it and never shared.
type SurfaceInteraction struct {
	Point     math.Vec3 // Hit point in world space
	Normal    math.Vec3 // Shading normal, flipped toward the incoming ray
	GeoNormal math.Vec3 // Geometric (face) normal, same orientation as Normal
	UV        math.Vec2 // Interpolated texture coordinate
	Outgoing  math.Vec3 // Unit direction from the hit point back toward the ray origin
	T         float64   // Parametric distance along the ray
	FrontFace bool      // Whether the ray hit the front face
	Primitive int       // Index of the hit primitive
	Material  int       // Material index of the hit primitive
	Light     int       // Light index of the hit primitive, or NoLight
}

// Intersect tests a ray against this primitive and fills in the interaction
// on a hit
func (p Primitive) Intersect(ray math.Ray, tMin, tMax float64, isect *SurfaceInteraction) bool {
	t, u, v, ok := p.Mesh.IntersectFace(p.Face, ray, tMin, tMax)
	if !ok {
		return false
	}

	geoNormal := p.Mesh.FaceNormal(p.Face)
	shadingNormal := p.Mesh.ShadingNormal(p.Face, u, v)

	frontFace := ray.Direction.Dot(geoNormal) < 0
	if !frontFace {
		geoNormal = geoNormal.Negate()
		shadingNormal = shadingNormal.Negate()
	}

	isect.Point = ray.At(t)
	isect.Normal = shadingNormal
	isect.GeoNormal = geoNormal
	isect.UV = p.Mesh.UV(p.Face, u, v)
	isect.Outgoing = ray.Direction.Negate().Normalize()
	isect.T = t
	isect.FrontFace = frontFace
	isect.Material = p.Material
	isect.Light = p.Light
	return true
}
