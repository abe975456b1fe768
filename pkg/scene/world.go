// Package scene assembles meshes, materials and lights into the world the
// renderer traces against, and ships a few built-in demo scenes.
package scene

import (
	"fmt"

	"github.com/sdao/gammaray/pkg/geometry"
	"github.com/sdao/gammaray/pkg/lights"
	"github.com/sdao/gammaray/pkg/material"
	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/renderer"
)

// Object pairs a mesh with the material applied to all of its faces.
type Object struct {
	Mesh     *geometry.Mesh
	Material material.Material
}

// Scene is the full description of what to render. Objects and Sky are set
// up front; Preprocess derives the acceleration structure and light set
// before rendering starts.
type Scene struct {
	Camera  renderer.CameraConfig
	Objects []Object

	// Sky is the emission of a uniform infinite light surrounding the
	// scene. Zero means rays that escape the geometry carry nothing.
	Sky math.Vec3

	materials []material.Material
	lightSet  []lights.Light
	selector  *lights.Selector
	bvh       *geometry.BVH
}

// Add appends a mesh with its material to the scene.
func (s *Scene) Add(mesh *geometry.Mesh, mat material.Material) {
	s.Objects = append(s.Objects, Object{Mesh: mesh, Material: mat})
}

// Validate rejects scenes that cannot produce an image: no geometry with no
// sky, or a degenerate camera.
func (s *Scene) Validate() error {
	if len(s.Objects) == 0 && s.Sky.IsZero() {
		return fmt.Errorf("scene has no geometry and no sky")
	}
	if s.Camera.FieldOfView <= 0 || s.Camera.FieldOfView >= 180 {
		return fmt.Errorf("camera field of view %v out of range (0, 180)", s.Camera.FieldOfView)
	}
	if s.Camera.LookFrom == s.Camera.LookAt {
		return fmt.Errorf("camera look-from and look-at coincide")
	}
	for i, obj := range s.Objects {
		if obj.Mesh == nil {
			return fmt.Errorf("object %d has no mesh", i)
		}
		if len(obj.Mesh.Faces) == 0 {
			return fmt.Errorf("object %d has no faces", i)
		}
	}
	return nil
}

// Preprocess builds the material table, derives area lights from emissive
// objects, and constructs the bounding volume hierarchy. It must be called
// once before the scene is handed to the renderer.
func (s *Scene) Preprocess() error {
	if err := s.Validate(); err != nil {
		return err
	}

	s.materials = s.materials[:0]
	s.lightSet = s.lightSet[:0]

	var primitives []geometry.Primitive
	for objIndex, obj := range s.Objects {
		s.materials = append(s.materials, obj.Material)

		lightIndex := geometry.NoLight
		if obj.Material.Emits() {
			faces := make([]int, len(obj.Mesh.Faces))
			for i := range faces {
				faces[i] = i
			}
			lightIndex = len(s.lightSet)
			s.lightSet = append(s.lightSet, lights.NewAreaLight(obj.Mesh, faces, obj.Material.Emission))
		}

		for face := range obj.Mesh.Faces {
			primitives = append(primitives, geometry.Primitive{
				Mesh:     obj.Mesh,
				Face:     face,
				Material: objIndex,
				Light:    lightIndex,
			})
		}
	}

	if !s.Sky.IsZero() {
		s.lightSet = append(s.lightSet, lights.NewInfiniteLight(s.Sky))
	}

	s.selector = lights.NewSelector(s.lightSet)
	s.bvh = geometry.NewBVH(primitives)
	return nil
}

// PrimitiveCount returns the number of triangles in the preprocessed scene.
func (s *Scene) PrimitiveCount() int {
	if s.bvh == nil {
		return 0
	}
	return len(s.bvh.Primitives)
}

// LightCount returns the number of lights derived by Preprocess.
func (s *Scene) LightCount() int {
	return len(s.lightSet)
}

// Intersect finds the closest primitive hit along the ray.
func (s *Scene) Intersect(ray math.Ray, tMin, tMax float64, isect *geometry.SurfaceInteraction) bool {
	return s.bvh.Intersect(ray, tMin, tMax, isect)
}

// Occluded reports whether anything blocks the ray within [tMin, tMax].
func (s *Scene) Occluded(ray math.Ray, tMin, tMax float64) bool {
	return s.bvh.IntersectAny(ray, tMin, tMax)
}

// Material returns the material at the given table index.
func (s *Scene) Material(index int) *material.Material {
	return &s.materials[index]
}

// Lights returns the selector over the scene's derived light set.
func (s *Scene) Lights() *lights.Selector {
	return s.selector
}
