package geometry

import (
	stdmath "math"
	"testing"

	"github.com/sdao/gammaray/pkg/math"
)

func unitTriangle() *Mesh {
	return NewMesh([]Vertex{
		{Position: math.NewVec3(0, 0, 0)},
		{Position: math.NewVec3(1, 0, 0)},
		{Position: math.NewVec3(0, 1, 0)},
	}, []Face{{V0: 0, V1: 1, V2: 2}})
}

func TestNewMeshDropsInvalidFaces(t *testing.T) {
	vertices := []Vertex{
		{Position: math.NewVec3(0, 0, 0)},
		{Position: math.NewVec3(1, 0, 0)},
		{Position: math.NewVec3(0, 1, 0)},
	}
	faces := []Face{
		{V0: 0, V1: 1, V2: 2}, // valid
		{V0: 0, V1: 1, V2: 3}, // index out of range
		{V0: 0, V1: 1, V2: -1},
		{V0: 0, V1: 1, V2: 1}, // zero area
		{V0: 0, V1: 0, V2: 0},
	}
	m := NewMesh(vertices, faces)
	if len(m.Faces) != 1 {
		t.Errorf("kept %d faces, want 1", len(m.Faces))
	}
	if m.DroppedFaces != 4 {
		t.Errorf("dropped %d faces, want 4", m.DroppedFaces)
	}
}

func TestIntersectFace(t *testing.T) {
	m := unitTriangle()

	tests := []struct {
		name    string
		ray     math.Ray
		wantHit bool
		wantT   float64
	}{
		{
			name:    "straight on",
			ray:     math.NewRay(math.NewVec3(0.25, 0.25, -1), math.NewVec3(0, 0, 1)),
			wantHit: true,
			wantT:   1,
		},
		{
			name:    "outside the triangle",
			ray:     math.NewRay(math.NewVec3(0.9, 0.9, -1), math.NewVec3(0, 0, 1)),
			wantHit: false,
		},
		{
			name:    "parallel to the plane",
			ray:     math.NewRay(math.NewVec3(0.25, 0.25, -1), math.NewVec3(1, 0, 0)),
			wantHit: false,
		},
		{
			name:    "behind the origin",
			ray:     math.NewRay(math.NewVec3(0.25, 0.25, 1), math.NewVec3(0, 0, 1)),
			wantHit: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tHit, u, v, ok := m.IntersectFace(0, tc.ray, 1e-6, stdmath.Inf(1))
			if ok != tc.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tc.wantHit)
			}
			if !ok {
				return
			}
			if stdmath.Abs(tHit-tc.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", tHit, tc.wantT)
			}
			if u < 0 || v < 0 || u+v > 1 {
				t.Errorf("barycentrics out of range: u=%v v=%v", u, v)
			}
		})
	}
}

func TestIntersectFaceRespectsTMax(t *testing.T) {
	m := unitTriangle()
	ray := math.NewRay(math.NewVec3(0.25, 0.25, -1), math.NewVec3(0, 0, 1))
	if _, _, _, ok := m.IntersectFace(0, ray, 1e-6, 0.5); ok {
		t.Error("hit beyond tMax accepted")
	}
	if _, _, _, ok := m.IntersectFace(0, ray, 1.5, stdmath.Inf(1)); ok {
		t.Error("hit before tMin accepted")
	}
}

func TestShadingNormalInterpolation(t *testing.T) {
	m := NewMesh([]Vertex{
		{Position: math.NewVec3(0, 0, 0), Normal: math.NewVec3(1, 0, 0)},
		{Position: math.NewVec3(1, 0, 0), Normal: math.NewVec3(0, 1, 0)},
		{Position: math.NewVec3(0, 1, 0), Normal: math.NewVec3(0, 0, 1)},
	}, []Face{{V0: 0, V1: 1, V2: 2}})

	// At vertex V1 (u=1) the shading normal is that vertex's normal.
	n := m.ShadingNormal(0, 1, 0)
	if n.Subtract(math.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("normal at V1 = %v", n)
	}

	// In the middle it blends and stays normalized.
	mid := m.ShadingNormal(0, 1.0/3, 1.0/3)
	if stdmath.Abs(mid.Length()-1) > 1e-12 {
		t.Errorf("interpolated normal not unit length: %v", mid)
	}
}

func TestShadingNormalFallsBackToFaceNormal(t *testing.T) {
	m := unitTriangle()
	n := m.ShadingNormal(0, 0.3, 0.3)
	want := m.FaceNormal(0)
	if n.Subtract(want).Length() > 1e-12 {
		t.Errorf("fallback normal = %v, want %v", n, want)
	}
}

func TestNewQuadMesh(t *testing.T) {
	m := NewQuadMesh(math.NewVec3(0, 0, 0), math.NewVec3(2, 0, 0), math.NewVec3(0, 3, 0))
	if len(m.Faces) != 2 {
		t.Fatalf("quad has %d faces, want 2", len(m.Faces))
	}
	area := m.FaceArea(0) + m.FaceArea(1)
	if stdmath.Abs(area-6) > 1e-12 {
		t.Errorf("quad area = %v, want 6", area)
	}
	for face := 0; face < 2; face++ {
		n := m.FaceNormal(face)
		if n.Subtract(math.NewVec3(0, 0, 1)).Length() > 1e-12 {
			t.Errorf("face %d normal = %v, want +z", face, n)
		}
	}
}

func TestNewSphereMesh(t *testing.T) {
	center := math.NewVec3(1, 2, 3)
	const radius = 2.0
	m := NewSphereMesh(center, radius, 16)

	if len(m.Faces) == 0 {
		t.Fatal("sphere mesh has no faces")
	}

	// All vertices sit on the sphere.
	for i, v := range m.Vertices {
		d := v.Position.Subtract(center).Length()
		if stdmath.Abs(d-radius) > 1e-9 {
			t.Fatalf("vertex %d at distance %v from center", i, d)
		}
		// Smooth normals point radially outward.
		want := v.Position.Subtract(center).Normalize()
		if v.Normal.Subtract(want).Length() > 1e-9 {
			t.Fatalf("vertex %d normal %v not radial", i, v.Normal)
		}
	}

	// Tessellated area approaches the analytic sphere area from below.
	var area float64
	for face := range m.Faces {
		area += m.FaceArea(face)
	}
	analytic := 4 * stdmath.Pi * radius * radius
	if area >= analytic || area < 0.95*analytic {
		t.Errorf("tessellated area %v vs analytic %v", area, analytic)
	}
}
