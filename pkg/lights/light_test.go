package lights

import (
	stdmath "math"
	"testing"

	"github.com/sdao/gammaray/pkg/geometry"
	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/sampler"
)

// unitQuadLight builds a 1x1 emitter in the z=1 plane facing -z, above a
// shading point at the origin.
func unitQuadLight(emission math.Vec3) Light {
	mesh := geometry.NewQuadMesh(
		math.NewVec3(0.5, -0.5, 1),
		math.NewVec3(-1, 0, 0),
		math.NewVec3(0, 1, 0),
	)
	return NewAreaLight(mesh, []int{0, 1}, emission)
}

func TestAreaLightSampleGeometry(t *testing.T) {
	light := unitQuadLight(math.NewVec3(10, 10, 10))
	if stdmath.Abs(light.Area()-1) > 1e-12 {
		t.Fatalf("quad area = %v, want 1", light.Area())
	}

	point := math.NewVec3(0, 0, 0)
	normal := math.NewVec3(0, 0, 1)
	rng := sampler.NewPathSampler(5, 0, 0, 0, sampler.StreamLight)

	for trial := 0; trial < 128; trial++ {
		s := light.SampleDirect(point, normal, rng.Get1D(), rng.Get2D())
		if s.PDF <= 0 {
			t.Fatal("sample toward a visible light has zero pdf")
		}
		if stdmath.Abs(s.Direction.Length()-1) > 1e-9 {
			t.Fatalf("direction not normalized: %v", s.Direction)
		}
		if s.Point.Z != 1 {
			t.Fatalf("sample point %v not on the light plane", s.Point)
		}
		if s.Point.X < -0.5-1e-9 || s.Point.X > 0.5+1e-9 ||
			s.Point.Y < -0.5-1e-9 || s.Point.Y > 0.5+1e-9 {
			t.Fatalf("sample point %v outside the light", s.Point)
		}

		// Uniform area sampling converted to solid angle.
		distSq := s.Point.Subtract(point).LengthSquared()
		cosLight := s.Normal.Dot(s.Direction.Negate())
		wantPDF := distSq / cosLight
		if stdmath.Abs(s.PDF-wantPDF) > 1e-9 {
			t.Fatalf("pdf = %v, want %v", s.PDF, wantPDF)
		}
		if s.Emission != math.NewVec3(10, 10, 10) {
			t.Fatalf("emission = %v", s.Emission)
		}
	}
}

func TestAreaLightOneSided(t *testing.T) {
	light := unitQuadLight(math.NewVec3(1, 1, 1))

	// From above the light only sees its back face.
	behind := math.NewVec3(0, 0, 2)
	s := light.SampleDirect(behind, math.NewVec3(0, 0, -1), 0.3, math.NewVec2(0.4, 0.6))
	if s.PDF != 0 {
		t.Errorf("back-face sample has pdf %v, want 0", s.PDF)
	}

	down := math.NewVec3(0, 0, -1)
	if pdf := light.PDF(behind, math.NewVec3(0, 0, -1), down); pdf != 0 {
		t.Errorf("back-face PDF = %v, want 0", pdf)
	}
}

func TestAreaLightPDFMatchesSample(t *testing.T) {
	light := unitQuadLight(math.NewVec3(4, 4, 4))
	point := math.NewVec3(0.2, -0.3, 0)
	normal := math.NewVec3(0, 0, 1)
	rng := sampler.NewPathSampler(9, 0, 0, 0, sampler.StreamLight)

	for trial := 0; trial < 128; trial++ {
		s := light.SampleDirect(point, normal, rng.Get1D(), rng.Get2D())
		if s.PDF <= 0 {
			t.Fatal("zero pdf for visible light")
		}
		pdf := light.PDF(point, normal, s.Direction)
		if stdmath.Abs(pdf-s.PDF) > 1e-6*s.PDF {
			t.Fatalf("PDF(direction) = %v, SampleDirect pdf = %v", pdf, s.PDF)
		}
	}
}

func TestAreaLightPDFMissesLight(t *testing.T) {
	light := unitQuadLight(math.NewVec3(1, 1, 1))
	point := math.NewVec3(0, 0, 0)
	normal := math.NewVec3(0, 0, 1)

	away := math.NewVec3(1, 0, 0)
	if pdf := light.PDF(point, normal, away); pdf != 0 {
		t.Errorf("PDF for a direction missing the light = %v, want 0", pdf)
	}
}

func TestAreaLightSkipsDegenerateFaces(t *testing.T) {
	mesh := geometry.NewQuadMesh(
		math.NewVec3(0, 0, 1),
		math.NewVec3(1, 0, 0),
		math.NewVec3(0, 1, 0),
	)
	light := NewAreaLight(mesh, []int{0}, math.NewVec3(1, 1, 1))
	if len(light.Faces) != 1 {
		t.Fatalf("light has %d faces, want 1", len(light.Faces))
	}
	if stdmath.Abs(light.Area()-0.5) > 1e-12 {
		t.Errorf("single-triangle area = %v, want 0.5", light.Area())
	}
}

func TestInfiniteLightSample(t *testing.T) {
	light := NewInfiniteLight(math.NewVec3(0.5, 0.6, 0.7))
	point := math.NewVec3(1, 2, 3)
	normal := math.NewVec3(0, 1, 0)
	rng := sampler.NewPathSampler(13, 0, 0, 0, sampler.StreamLight)

	for trial := 0; trial < 128; trial++ {
		s := light.SampleDirect(point, normal, rng.Get1D(), rng.Get2D())
		cos := s.Direction.Dot(normal)
		if cos <= 0 {
			t.Fatalf("direction %v below the horizon", s.Direction)
		}
		wantPDF := cos / stdmath.Pi
		if stdmath.Abs(s.PDF-wantPDF) > 1e-9 {
			t.Fatalf("pdf = %v, want cosine-weighted %v", s.PDF, wantPDF)
		}
		if !stdmath.IsInf(s.Distance, 1) {
			t.Fatalf("distance = %v, want +Inf", s.Distance)
		}
	}

	if pdf := light.PDF(point, normal, math.NewVec3(0, -1, 0)); pdf != 0 {
		t.Errorf("below-horizon PDF = %v, want 0", pdf)
	}
	if got := light.Radiance(math.NewVec3(0, 1, 0)); got != math.NewVec3(0.5, 0.6, 0.7) {
		t.Errorf("escaped radiance = %v", got)
	}
}

func TestSelectorEmptyScene(t *testing.T) {
	s := NewSelector(nil)
	if _, _, ok := s.SampleDirect(math.Vec3{}, math.NewVec3(0, 0, 1), 0.5, 0.5, math.NewVec2(0.5, 0.5)); ok {
		t.Error("sampling an empty light set succeeded")
	}
	if pdf := s.PDF(math.Vec3{}, math.NewVec3(0, 0, 1), math.NewVec3(0, 0, 1)); pdf != 0 {
		t.Errorf("empty selector PDF = %v, want 0", pdf)
	}
}

func TestSelectorFoldsSelectionProbability(t *testing.T) {
	quad := unitQuadLight(math.NewVec3(3, 3, 3))
	sky := NewInfiniteLight(math.NewVec3(0.1, 0.1, 0.1))
	selector := NewSelector([]Light{quad, sky})

	point := math.NewVec3(0, 0, 0)
	normal := math.NewVec3(0, 0, 1)

	// Selecting the quad light: its solo pdf must be halved.
	sample, index, ok := selector.SampleDirect(point, normal, 0.1, 0.4, math.NewVec2(0.3, 0.7))
	if !ok {
		t.Fatal("sampling failed")
	}
	if index != 0 {
		t.Fatalf("selected light %d, want 0", index)
	}
	solo := quad.SampleDirect(point, normal, 0.4, math.NewVec2(0.3, 0.7))
	if stdmath.Abs(sample.PDF-solo.PDF/2) > 1e-12 {
		t.Errorf("combined pdf = %v, want %v", sample.PDF, solo.PDF/2)
	}

	// The combined PDF for a direction sums both lights at half weight.
	up := math.NewVec3(0, 0, 1)
	want := (quad.PDF(point, normal, up) + sky.PDF(point, normal, up)) / 2
	if got := selector.PDF(point, normal, up); stdmath.Abs(got-want) > 1e-12 {
		t.Errorf("selector PDF = %v, want %v", got, want)
	}
}

func TestSelectorEscapedRadiance(t *testing.T) {
	quad := unitQuadLight(math.NewVec3(3, 3, 3))
	skyA := NewInfiniteLight(math.NewVec3(0.1, 0.2, 0.3))
	skyB := NewInfiniteLight(math.NewVec3(0.4, 0.4, 0.4))
	selector := NewSelector([]Light{quad, skyA, skyB})

	got := selector.EscapedRadiance(math.NewVec3(0, 1, 0))
	want := math.NewVec3(0.5, 0.6, 0.7)
	if got.Subtract(want).Length() > 1e-12 {
		t.Errorf("escaped radiance = %v, want %v", got, want)
	}
}

func TestFaceSelectionProportionalToArea(t *testing.T) {
	// Two triangles with areas 0.5 and 4.5, a 1:9 split.
	vertices := []geometry.Vertex{
		{Position: math.NewVec3(0, 0, 0)},
		{Position: math.NewVec3(1, 0, 0)},
		{Position: math.NewVec3(0, 1, 0)},
		{Position: math.NewVec3(3, 0, 2)},
		{Position: math.NewVec3(0, 3, 2)},
		{Position: math.NewVec3(0, 0, 2)},
	}
	faces := []geometry.Face{
		{V0: 0, V1: 1, V2: 2},
		{V0: 3, V1: 4, V2: 5},
	}
	mesh := geometry.NewMesh(vertices, faces)
	light := NewAreaLight(mesh, []int{0, 1}, math.NewVec3(1, 1, 1))

	counts := [2]int{}
	rng := sampler.NewPathSampler(21, 0, 0, 0, sampler.StreamLight)
	const trials = 4096
	for i := 0; i < trials; i++ {
		face := light.Faces[light.selectFace(rng.Get1D())]
		counts[face]++
	}

	// Expect a 1:9 split; allow generous sampling noise.
	smallShare := float64(counts[0]) / trials
	if smallShare < 0.06 || smallShare > 0.14 {
		t.Errorf("small face selected %.3f of the time, want about 0.10", smallShare)
	}
}
