// Package lights implements the emitters the integrator samples for direct
// lighting. Like materials, lights are a closed tagged variant: area lights
// backed by emissive mesh faces and a uniform infinite light surrounding the
// scene.
package lights

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/geometry"
	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/sampler"
)

// Kind discriminates the emitter models a Light can represent.
type Kind int

const (
	// Area lights emit from the front faces of mesh triangles.
	Area Kind = iota
	// Infinite lights surround the scene and emit uniformly from every
	// direction.
	Infinite
)

// Sample describes a direct-lighting sample toward a light. Direction points
// from the shading point to the light and PDF is measured in solid angle at
// the shading point.
type Sample struct {
	Point     math.Vec3
	Normal    math.Vec3
	Direction math.Vec3
	Distance  float64
	Emission  math.Vec3
	PDF       float64
}

// Light is an emitter the integrator can sample. Area lights reference the
// mesh faces they emit from; infinite lights only carry an emission color.
type Light struct {
	Kind     Kind
	Emission math.Vec3

	// Area light geometry. Faces indexes into the mesh, cumAreas is the
	// running sum of face areas for proportional face selection.
	Mesh     *geometry.Mesh
	Faces    []int
	cumAreas []float64
	area     float64
}

// NewAreaLight builds an emitter over the given faces of a mesh. Faces with
// zero area are kept out of the selection table so they are never sampled.
func NewAreaLight(mesh *geometry.Mesh, faces []int, emission math.Vec3) Light {
	light := Light{
		Kind:     Area,
		Emission: emission,
		Mesh:     mesh,
	}
	for _, face := range faces {
		area := mesh.FaceArea(face)
		if area <= 0 {
			continue
		}
		light.area += area
		light.Faces = append(light.Faces, face)
		light.cumAreas = append(light.cumAreas, light.area)
	}
	return light
}

// NewInfiniteLight builds a light that emits the given radiance uniformly
// from every direction around the scene.
func NewInfiniteLight(emission math.Vec3) Light {
	return Light{Kind: Infinite, Emission: emission}
}

// Area returns the total emitting surface area. Infinite lights have none.
func (l *Light) Area() float64 {
	return l.area
}

// SampleDirect draws a point on the light visible from the given shading
// point. uFace selects among the light's faces and uPos places the point on
// the chosen face. A Sample with zero PDF means the light contributes
// nothing from this point, for example when the shading point is behind an
// area light.
func (l *Light) SampleDirect(point, normal math.Vec3, uFace float64, uPos math.Vec2) Sample {
	switch l.Kind {
	case Area:
		return l.sampleArea(point, uFace, uPos)
	case Infinite:
		return l.sampleInfinite(point, normal, uPos)
	}
	return Sample{}
}

func (l *Light) sampleArea(point math.Vec3, uFace float64, uPos math.Vec2) Sample {
	if l.area <= 0 {
		return Sample{}
	}

	face := l.Faces[l.selectFace(uFace)]
	bary := sampler.SampleUniformTriangle(uPos)
	lightPoint := l.Mesh.FacePoint(face, bary.X, bary.Y)
	lightNormal := l.Mesh.FaceNormal(face)

	toLight := lightPoint.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return Sample{}
	}
	dist := stdmath.Sqrt(distSq)
	dir := toLight.Multiply(1 / dist)

	// Emission is one sided: the sample point must face the shading point.
	cosLight := lightNormal.Dot(dir.Negate())
	if cosLight <= 0 {
		return Sample{}
	}

	// Uniform area density converted to solid angle at the shading point.
	pdf := distSq / (cosLight * l.area)

	return Sample{
		Point:     lightPoint,
		Normal:    lightNormal,
		Direction: dir,
		Distance:  dist,
		Emission:  l.Emission,
		PDF:       pdf,
	}
}

func (l *Light) sampleInfinite(point, normal math.Vec3, uPos math.Vec2) Sample {
	// Cosine-weighted sampling over the visible hemisphere; the cosine in
	// the estimator cancels against the density.
	dir := sampler.SampleCosineHemisphere(normal, uPos)
	cos := dir.Dot(normal)

	return Sample{
		Point:     point.Add(dir.Multiply(1e10)),
		Normal:    dir.Negate(),
		Direction: dir,
		Distance:  stdmath.Inf(1),
		Emission:  l.Emission,
		PDF:       sampler.CosineHemispherePDF(cos),
	}
}

// selectFace picks a face index in proportion to face area.
func (l *Light) selectFace(u float64) int {
	target := u * l.area
	lo, hi := 0, len(l.cumAreas)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if l.cumAreas[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// PDF returns the solid-angle density SampleDirect would assign to the given
// direction from the shading point, which the integrator needs to weight
// BSDF samples that happen to reach a light.
func (l *Light) PDF(point, normal, direction math.Vec3) float64 {
	switch l.Kind {
	case Area:
		return l.areaPDF(point, direction)
	case Infinite:
		cos := direction.Dot(normal)
		if cos <= 0 {
			return 0
		}
		return sampler.CosineHemispherePDF(cos)
	}
	return 0
}

func (l *Light) areaPDF(point, direction math.Vec3) float64 {
	if l.area <= 0 {
		return 0
	}
	ray := math.NewRay(point, direction)

	// Every face the ray passes through contributes density, matching a
	// sampler that can pick any of them.
	pdf := 0.0
	for _, face := range l.Faces {
		t, _, _, ok := l.Mesh.IntersectFace(face, ray, 1e-6, stdmath.Inf(1))
		if !ok {
			continue
		}
		cosLight := l.Mesh.FaceNormal(face).Dot(direction.Negate())
		if cosLight <= 0 {
			continue
		}
		pdf += t * t / (cosLight * l.area)
	}
	return pdf
}

// Radiance returns the emission carried by a ray that leaves the scene in
// the given direction. Only infinite lights contribute; area light emission
// is picked up through surface hits.
func (l *Light) Radiance(direction math.Vec3) math.Vec3 {
	if l.Kind != Infinite {
		return math.Vec3{}
	}
	return l.Emission
}
