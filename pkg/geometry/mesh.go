package geometry

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/math"
)

// Vertex holds the per-vertex attributes of a triangle mesh
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3 // Shading normal; zero means "use the geometric normal"
	UV       math.Vec2
}

// Face references three vertices by index into the mesh's vertex buffer
type Face struct {
	V0, V1, V2 int
}

// Mesh is an immutable triangle mesh. It is built once at scene construction
// time and shared read-only by all rendering workers.
type Mesh struct {
	Vertices []Vertex
	Faces    []Face

	// DroppedFaces counts degenerate (zero-area) triangles rejected at build
	// time. They are recorded rather than treated as fatal.
	DroppedFaces int
}

const degenerateAreaEpsilon = 1e-12

// NewMesh builds a mesh from a vertex buffer and face index list.
// Faces with out-of-range indices or zero area are dropped and counted.
func NewMesh(vertices []Vertex, faces []Face) *Mesh {
	m := &Mesh{Vertices: vertices}
	m.Faces = make([]Face, 0, len(faces))

	for _, f := range faces {
		if f.V0 < 0 || f.V0 >= len(vertices) ||
			f.V1 < 0 || f.V1 >= len(vertices) ||
			f.V2 < 0 || f.V2 >= len(vertices) {
			m.DroppedFaces++
			continue
		}
		if m.faceArea(f) < degenerateAreaEpsilon {
			m.DroppedFaces++
			continue
		}
		m.Faces = append(m.Faces, f)
	}

	return m
}

// faceArea computes the area of a face directly from the vertex buffer
func (m *Mesh) faceArea(f Face) float64 {
	e1 := m.Vertices[f.V1].Position.Subtract(m.Vertices[f.V0].Position)
	e2 := m.Vertices[f.V2].Position.Subtract(m.Vertices[f.V0].Position)
	return 0.5 * e1.Cross(e2).Length()
}

// FaceArea returns the area of the face at the given index
func (m *Mesh) FaceArea(face int) float64 {
	return m.faceArea(m.Faces[face])
}

// FaceBounds returns the bounding box of the face at the given index
func (m *Mesh) FaceBounds(face int) AABB {
	f := m.Faces[face]
	return NewAABBFromPoints(
		m.Vertices[f.V0].Position,
		m.Vertices[f.V1].Position,
		m.Vertices[f.V2].Position,
	)
}

// FaceNormal returns the geometric (face) normal of the face at the given index
func (m *Mesh) FaceNormal(face int) math.Vec3 {
	f := m.Faces[face]
	e1 := m.Vertices[f.V1].Position.Subtract(m.Vertices[f.V0].Position)
	e2 := m.Vertices[f.V2].Position.Subtract(m.Vertices[f.V0].Position)
	return e1.Cross(e2).Normalize()
}

// FacePoint maps barycentric coordinates (u, v) on the given face to a world
// position. The third coordinate is implicitly 1-u-v.
func (m *Mesh) FacePoint(face int, u, v float64) math.Vec3 {
	f := m.Faces[face]
	w := 1 - u - v
	p0 := m.Vertices[f.V0].Position.Multiply(w)
	p1 := m.Vertices[f.V1].Position.Multiply(u)
	p2 := m.Vertices[f.V2].Position.Multiply(v)
	return p0.Add(p1).Add(p2)
}

const intersectEpsilon = 1e-9

// IntersectFace tests a ray against one face using the Möller-Trumbore
// algorithm. On a hit it returns the parametric distance and the barycentric
// coordinates of the hit point.
func (m *Mesh) IntersectFace(face int, ray math.Ray, tMin, tMax float64) (t, u, v float64, ok bool) {
	f := m.Faces[face]
	p0 := m.Vertices[f.V0].Position
	edge1 := m.Vertices[f.V1].Position.Subtract(p0)
	edge2 := m.Vertices[f.V2].Position.Subtract(p0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Near-zero determinant means the ray is parallel to the triangle plane
	if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, 0, 0, false
	}

	invDet := 1.0 / det
	s := ray.Origin.Subtract(p0)
	u = invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = invDet * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = invDet * edge2.Dot(q)
	if t < tMin || t > tMax {
		return 0, 0, 0, false
	}

	return t, u, v, true
}

// ShadingNormal interpolates the vertex shading normals at barycentric
// coordinates (u, v), falling back to the geometric normal when the mesh
// carries no usable vertex normals.
func (m *Mesh) ShadingNormal(face int, u, v float64) math.Vec3 {
	f := m.Faces[face]
	n0 := m.Vertices[f.V0].Normal
	n1 := m.Vertices[f.V1].Normal
	n2 := m.Vertices[f.V2].Normal

	if n0.IsZero() || n1.IsZero() || n2.IsZero() {
		return m.FaceNormal(face)
	}

	w := 1 - u - v
	n := n0.Multiply(w).Add(n1.Multiply(u)).Add(n2.Multiply(v))
	if n.LengthSquared() < degenerateAreaEpsilon {
		return m.FaceNormal(face)
	}
	return n.Normalize()
}

// UV interpolates the vertex texture coordinates at barycentric (u, v)
func (m *Mesh) UV(face int, u, v float64) math.Vec2 {
	f := m.Faces[face]
	uv0 := m.Vertices[f.V0].UV
	uv1 := m.Vertices[f.V1].UV
	uv2 := m.Vertices[f.V2].UV

	w := 1 - u - v
	return math.NewVec2(
		w*uv0.X+u*uv1.X+v*uv2.X,
		w*uv0.Y+u*uv1.Y+v*uv2.Y,
	)
}

// NewQuadMesh builds a two-triangle mesh for the parallelogram spanned by
// corner and edge vectors u and v, with the normal u × v
func NewQuadMesh(corner, u, v math.Vec3) *Mesh {
	normal := u.Cross(v).Normalize()
	vertices := []Vertex{
		{Position: corner, Normal: normal, UV: math.NewVec2(0, 0)},
		{Position: corner.Add(u), Normal: normal, UV: math.NewVec2(1, 0)},
		{Position: corner.Add(u).Add(v), Normal: normal, UV: math.NewVec2(1, 1)},
		{Position: corner.Add(v), Normal: normal, UV: math.NewVec2(0, 1)},
	}
	faces := []Face{{0, 1, 2}, {0, 2, 3}}
	return NewMesh(vertices, faces)
}

// NewSphereMesh builds a latitude-longitude tessellated sphere mesh with
// smooth vertex normals
func NewSphereMesh(center math.Vec3, radius float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	rings := segments

	var vertices []Vertex
	for ring := 0; ring <= rings; ring++ {
		theta := stdmath.Pi * float64(ring) / float64(rings)
		sinT, cosT := stdmath.Sincos(theta)
		for seg := 0; seg <= segments; seg++ {
			phi := 2 * stdmath.Pi * float64(seg) / float64(segments)
			sinP, cosP := stdmath.Sincos(phi)
			normal := math.NewVec3(sinT*cosP, cosT, sinT*sinP)
			vertices = append(vertices, Vertex{
				Position: center.Add(normal.Multiply(radius)),
				Normal:   normal,
				UV:       math.NewVec2(float64(seg)/float64(segments), float64(ring)/float64(rings)),
			})
		}
	}

	var faces []Face
	stride := segments + 1
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := ring*stride + seg
			b := a + stride
			faces = append(faces, Face{a, b, a + 1}, Face{a + 1, b, b + 1})
		}
	}

	// Pole rows produce degenerate faces; NewMesh drops and counts them.
	return NewMesh(vertices, faces)
}
