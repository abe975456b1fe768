package scene

import (
	"github.com/sdao/gammaray/pkg/geometry"
	"github.com/sdao/gammaray/pkg/material"
	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/renderer"
)

// NewCornellScene builds the classic Cornell box: five walls, a ceiling
// light, and two Disney spheres standing in for the usual boxes.
func NewCornellScene() *Scene {
	s := &Scene{
		Camera: renderer.CameraConfig{
			LookFrom:    math.NewVec3(278, 278, -800),
			LookAt:      math.NewVec3(278, 278, 278),
			Up:          math.NewVec3(0, 1, 0),
			FieldOfView: 40,
		},
	}

	white := material.NewLambertian(math.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(math.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(math.NewVec3(0.12, 0.45, 0.15))

	const boxSize = 555.0

	// Floor, quad normal pointing up into the box.
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(0, 0, 0),
		math.NewVec3(0, 0, boxSize),
		math.NewVec3(boxSize, 0, 0),
	), white)

	// Ceiling, facing down.
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(0, boxSize, 0),
		math.NewVec3(boxSize, 0, 0),
		math.NewVec3(0, 0, boxSize),
	), white)

	// Back wall, facing the camera.
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(0, 0, boxSize),
		math.NewVec3(0, boxSize, 0),
		math.NewVec3(boxSize, 0, 0),
	), white)

	// Left wall (red), facing right.
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(0, 0, 0),
		math.NewVec3(0, boxSize, 0),
		math.NewVec3(0, 0, boxSize),
	), red)

	// Right wall (green), facing left.
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(boxSize, 0, 0),
		math.NewVec3(0, 0, boxSize),
		math.NewVec3(0, boxSize, 0),
	), green)

	// Ceiling light, just below the ceiling and facing down.
	const lightSize = 130.0
	lightOffset := (boxSize - lightSize) / 2
	s.Add(geometry.NewQuadMesh(
		math.NewVec3(lightOffset, boxSize-1, lightOffset),
		math.NewVec3(lightSize, 0, 0),
		math.NewVec3(0, 0, lightSize),
	), material.NewEmissive(math.NewVec3(15, 15, 15)))

	// A rough plastic sphere and a brushed metal sphere.
	plastic := material.NewDisney(math.NewVec3(0.3, 0.4, 0.8))
	plastic.Roughness = 0.4
	plastic.Clearcoat = 1
	s.Add(geometry.NewSphereMesh(math.NewVec3(185, 110, 180), 110, 32), plastic)

	metal := material.NewDisney(math.NewVec3(0.85, 0.8, 0.7))
	metal.Roughness = 0.25
	metal.Metallic = 1
	metal.Anisotropy = 0.5
	s.Add(geometry.NewSphereMesh(math.NewVec3(380, 110, 350), 110, 32), metal)

	return s
}
