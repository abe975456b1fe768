package renderer

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/sampler"
)

// CameraConfig describes a look-at camera. Aperture of zero gives a pinhole
// camera; a positive aperture adds thin-lens depth of field focused at
// FocusDistance.
type CameraConfig struct {
	LookFrom      math.Vec3
	LookAt        math.Vec3
	Up            math.Vec3
	FieldOfView   float64 // Vertical field of view in degrees
	Aperture      float64 // Lens diameter in scene units
	FocusDistance float64 // Distance to the plane of perfect focus
}

// Camera generates primary rays for image pixels.
type Camera struct {
	origin          math.Vec3
	lowerLeftCorner math.Vec3
	horizontal      math.Vec3
	vertical        math.Vec3
	u, v            math.Vec3
	lensRadius      float64
	width, height   int
}

// NewCamera builds a camera for the given image dimensions. A zero or
// negative focus distance focuses on the look-at point.
func NewCamera(config CameraConfig, width, height int) *Camera {
	aspectRatio := float64(width) / float64(height)

	theta := config.FieldOfView * stdmath.Pi / 180
	viewportHeight := 2 * stdmath.Tan(theta/2)
	viewportWidth := aspectRatio * viewportHeight

	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDist := config.FocusDistance
	if focusDist <= 0 {
		focusDist = config.LookAt.Subtract(config.LookFrom).Length()
	}

	origin := config.LookFrom
	horizontal := u.Multiply(viewportWidth * focusDist)
	vertical := v.Multiply(viewportHeight * focusDist)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDist))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		lensRadius:      config.Aperture / 2,
		width:           width,
		height:          height,
	}
}

// GenerateRay returns the primary ray for pixel (px, py). The ray is
// jittered within the pixel for antialiasing and across the lens for depth
// of field, consuming one 2D sample for each. Pixel (0, 0) is the top-left
// corner of the image.
func (c *Camera) GenerateRay(px, py int, rng sampler.Sampler) math.Ray {
	jitter := rng.Get2D()
	s := (float64(px) + jitter.X) / float64(c.width)
	t := 1 - (float64(py)+jitter.Y)/float64(c.height)

	origin := c.origin
	if c.lensRadius > 0 {
		disk := sampler.SampleConcentricDisk(rng.Get2D())
		offset := c.u.Multiply(disk.X * c.lensRadius).
			Add(c.v.Multiply(disk.Y * c.lensRadius))
		origin = origin.Add(offset)
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin).
		Normalize()

	return math.NewRay(origin, direction)
}
