package renderer

import (
	stdmath "math"
	"testing"

	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/sampler"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		LookFrom:    math.NewVec3(0, 0, -5),
		LookAt:      math.NewVec3(0, 0, 0),
		Up:          math.NewVec3(0, 1, 0),
		FieldOfView: 60,
	}
}

func TestPinholeRaysStartAtOrigin(t *testing.T) {
	camera := NewCamera(testCameraConfig(), 64, 64)
	rng := sampler.NewPathSampler(1, 0, 0, 0, sampler.StreamCamera)

	for _, px := range []int{0, 31, 63} {
		for _, py := range []int{0, 31, 63} {
			ray := camera.GenerateRay(px, py, rng)
			if ray.Origin != math.NewVec3(0, 0, -5) {
				t.Fatalf("pixel (%d,%d): origin = %v", px, py, ray.Origin)
			}
			if stdmath.Abs(ray.Direction.Length()-1) > 1e-9 {
				t.Fatalf("pixel (%d,%d): direction not normalized: %v", px, py, ray.Direction)
			}
		}
	}
}

func TestCenterPixelLooksAtTarget(t *testing.T) {
	camera := NewCamera(testCameraConfig(), 101, 101)
	rng := sampler.NewPathSampler(1, 50, 50, 0, sampler.StreamCamera)

	ray := camera.GenerateRay(50, 50, rng)
	// The center pixel's ray points roughly toward the look-at point;
	// sub-pixel jitter keeps it from being exact.
	want := math.NewVec3(0, 0, 1)
	if ray.Direction.Dot(want) < 0.999 {
		t.Errorf("center ray direction = %v", ray.Direction)
	}
}

func TestImageOrientation(t *testing.T) {
	camera := NewCamera(testCameraConfig(), 100, 100)
	rng := sampler.NewPathSampler(1, 0, 0, 0, sampler.StreamCamera)

	// Pixel row 0 is the top of the image, so its rays point upward.
	top := camera.GenerateRay(50, 0, rng)
	bottom := camera.GenerateRay(50, 99, rng)
	if top.Direction.Y <= bottom.Direction.Y {
		t.Errorf("top ray y=%v not above bottom ray y=%v", top.Direction.Y, bottom.Direction.Y)
	}

	// Column 0 is the left edge. With the camera at -z looking toward
	// +z, image left is world -x... the x axis flips through the view
	// direction, so just require the two edges to differ in sign.
	left := camera.GenerateRay(0, 50, rng)
	right := camera.GenerateRay(99, 50, rng)
	if left.Direction.X*right.Direction.X >= 0 {
		t.Errorf("left x=%v and right x=%v on the same side", left.Direction.X, right.Direction.X)
	}
}

func TestFieldOfViewSpansViewport(t *testing.T) {
	config := testCameraConfig()
	config.FieldOfView = 90
	camera := NewCamera(config, 100, 100)
	rng := sampler.NewPathSampler(3, 0, 0, 0, sampler.StreamCamera)

	// With a 90 degree vertical fov the top edge ray makes about 45
	// degrees with the view axis.
	ray := camera.GenerateRay(50, 0, rng)
	angle := stdmath.Acos(ray.Direction.Dot(math.NewVec3(0, 0, 1))) * 180 / stdmath.Pi
	if angle < 40 || angle > 50 {
		t.Errorf("top edge angle = %v degrees, want about 45", angle)
	}
}

func TestThinLensJittersOrigin(t *testing.T) {
	config := testCameraConfig()
	config.Aperture = 0.5
	config.FocusDistance = 5
	camera := NewCamera(config, 64, 64)

	origins := map[math.Vec3]bool{}
	for s := 0; s < 16; s++ {
		rng := sampler.NewPathSampler(1, 10, 10, s, sampler.StreamCamera)
		ray := camera.GenerateRay(10, 10, rng)
		origins[ray.Origin] = true

		// Origins stay within the lens radius of the camera position.
		if ray.Origin.Subtract(math.NewVec3(0, 0, -5)).Length() > 0.25+1e-9 {
			t.Fatalf("lens origin %v outside the aperture", ray.Origin)
		}
	}
	if len(origins) < 2 {
		t.Error("thin lens produced identical origins for every sample")
	}
}

func TestThinLensFocusPlaneSharp(t *testing.T) {
	config := testCameraConfig()
	config.Aperture = 0.4
	config.FocusDistance = 5
	camera := NewCamera(config, 64, 64)

	// All rays through one pixel converge near a single point on the
	// focus plane (z=0), up to sub-pixel jitter.
	var hits []math.Vec3
	for s := 0; s < 32; s++ {
		rng := sampler.NewPathSampler(9, 32, 32, s, sampler.StreamCamera)
		ray := camera.GenerateRay(32, 32, rng)
		tPlane := (0 - ray.Origin.Z) / ray.Direction.Z
		hits = append(hits, ray.At(tPlane))
	}
	for _, h := range hits[1:] {
		if h.Subtract(hits[0]).Length() > 0.2 {
			t.Fatalf("focus plane hits spread too far: %v vs %v", h, hits[0])
		}
	}
}
