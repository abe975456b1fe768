package scene

import (
	"github.com/sdao/gammaray/pkg/geometry"
	"github.com/sdao/gammaray/pkg/material"
	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/renderer"
)

// NewDefaultScene builds an open-air material test: a row of spheres
// sweeping the principled parameter space on a ground plane under a
// uniform sky, with a small area light for hard shadows.
func NewDefaultScene() *Scene {
	s := &Scene{
		Camera: renderer.CameraConfig{
			LookFrom:      math.NewVec3(0, 2.5, -8),
			LookAt:        math.NewVec3(0, 1, 0),
			Up:            math.NewVec3(0, 1, 0),
			FieldOfView:   35,
			Aperture:      0.15,
			FocusDistance: 8.2,
		},
		Sky: math.NewVec3(0.4, 0.45, 0.55),
	}

	ground := material.NewLambertian(math.NewVec3(0.45, 0.45, 0.45))
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(-30, 0, -30),
		math.NewVec3(0, 0, 60),
		math.NewVec3(60, 0, 0),
	), ground)

	// Roughness sweep, diffuse to mirror-smooth metal.
	for i := 0; i < 5; i++ {
		t := float64(i) / 4
		mat := material.NewDisney(math.NewVec3(0.8, 0.3, 0.25))
		mat.Roughness = math.Lerp(0.9, 0.1, t)
		mat.Metallic = t
		x := math.Lerp(-4, 4, t)
		s.Add(geometry.NewSphereMesh(math.NewVec3(x, 1, 0), 0.9, 24), mat)
	}

	// A clearcoated and a sheened sphere behind the sweep.
	coated := material.NewDisney(math.NewVec3(0.1, 0.25, 0.6))
	coated.Roughness = 0.5
	coated.Clearcoat = 1
	s.Add(geometry.NewSphereMesh(math.NewVec3(-1.5, 1, 2.5), 0.9, 24), coated)

	velvet := material.NewDisney(math.NewVec3(0.55, 0.1, 0.1))
	velvet.Roughness = 0.95
	velvet.Sheen = 1
	velvet.SheenTint = 0.6
	velvet.Subsurface = 0.5
	s.Add(geometry.NewSphereMesh(math.NewVec3(1.5, 1, 2.5), 0.9, 24), velvet)

	// Key light above and to the left.
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(-4, 6, -2),
		math.NewVec3(2, 0, 0),
		math.NewVec3(0.6, -0.3, 2),
	), material.NewEmissive(math.NewVec3(18, 17, 15)))

	return s
}
