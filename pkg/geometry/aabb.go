package geometry

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/math"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min math.Vec3 // Minimum corner
	Max math.Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max math.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that unions correctly with any other box
func EmptyAABB() AABB {
	inf := stdmath.Inf(1)
	return AABB{
		Min: math.NewVec3(inf, inf, inf),
		Max: math.NewVec3(-inf, -inf, -inf),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...math.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.UnionPoint(p)
	}
	return box
}

// Hit tests if a ray intersects this AABB within [tMin, tMax] using the slab method
func (aabb AABB) Hit(ray math.Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		var lo, hi, origin, direction float64

		switch axis {
		case 0:
			lo, hi = aabb.Min.X, aabb.Max.X
			origin, direction = ray.Origin.X, ray.Direction.X
		case 1:
			lo, hi = aabb.Min.Y, aabb.Max.Y
			origin, direction = ray.Origin.Y, ray.Direction.Y
		case 2:
			lo, hi = aabb.Min.Z, aabb.Max.Z
			origin, direction = ray.Origin.Z, ray.Direction.Z
		}

		// Rays parallel to a slab miss unless the origin lies inside it
		if stdmath.Abs(direction) < 1e-12 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = stdmath.Max(tMin, t1)
		tMax = stdmath.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: math.Vec3{
			X: stdmath.Min(aabb.Min.X, other.Min.X),
			Y: stdmath.Min(aabb.Min.Y, other.Min.Y),
			Z: stdmath.Min(aabb.Min.Z, other.Min.Z),
		},
		Max: math.Vec3{
			X: stdmath.Max(aabb.Max.X, other.Max.X),
			Y: stdmath.Max(aabb.Max.Y, other.Max.Y),
			Z: stdmath.Max(aabb.Max.Z, other.Max.Z),
		},
	}
}

// UnionPoint returns an AABB grown to contain the given point
func (aabb AABB) UnionPoint(p math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{
			X: stdmath.Min(aabb.Min.X, p.X),
			Y: stdmath.Min(aabb.Min.Y, p.Y),
			Z: stdmath.Min(aabb.Min.Z, p.Z),
		},
		Max: math.Vec3{
			X: stdmath.Max(aabb.Max.X, p.X),
			Y: stdmath.Max(aabb.Max.Y, p.Y),
			Z: stdmath.Max(aabb.Max.Z, p.Z),
		},
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() math.Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis
func (aabb AABB) Size() math.Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the total surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return 0 // Empty box
	}
	return 2 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return 0
	}
	if size.Y >= size.Z {
		return 1
	}
	return 2
}

// AxisValue returns the given component of a vector by axis index
func AxisValue(v math.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Offset returns the relative position of p within the box on each axis,
// with Min mapping to 0 and Max mapping to 1
func (aabb AABB) Offset(p math.Vec3) math.Vec3 {
	o := p.Subtract(aabb.Min)
	size := aabb.Size()
	if size.X > 0 {
		o.X /= size.X
	}
	if size.Y > 0 {
		o.Y /= size.Y
	}
	if size.Z > 0 {
		o.Z /= size.Z
	}
	return o
}
