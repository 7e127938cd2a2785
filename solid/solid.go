// Package solid implements the triangulated solid representation (spec
// §4.5): an indexed vertex list, a triangle list (each carrying its own
// normal and face id), and a face list for picking. Build-from-extrude
// and build-from-revolve are pure in-process tessellators — no B-Rep
// kernel is required for those two operations (spec §9); only Cut
// reaches for the external MeshBooleanKernel collaborator in kernel.go.
package solid

import "github.com/dporeiro/gosketch/geom"

// Triangle is one facet of a Solid. FaceID is -1 when unknown, e.g.
// after an external boolean operation that doesn't preserve face tags.
type Triangle struct {
	V0, V1, V2 geom.Vec3
	Normal     geom.Vec3
	FaceID     int
}

// Face groups the triangles belonging to one named planar region,
// carrying the data face picking needs (spec §4.8): a carrier center,
// outward normal, and ordered polygon vertices.
type Face struct {
	Name    string
	Center  geom.Vec3
	Normal  geom.Vec3
	Polygon []geom.Vec3
}

// Solid is the indexed-vertex/triangle/face representation produced by
// extrude, revolve, and (via an external kernel) cut.
type Solid struct {
	Vertices  []geom.Vec3
	Triangles []Triangle
	Faces     []Face
}

// Edge is an undirected segment emitted by ToWireframe.
type Edge struct {
	A, B geom.Vec3
}

// ToWireframe returns the edges between triangles with differing
// face ids, deduplicated (spec §4.5).
func (s *Solid) ToWireframe() []Edge {
	type key struct{ a, b geom.Vec3 }
	norm := func(p, q geom.Vec3) key {
		if less(q, p) {
			p, q = q, p
		}
		return key{p, q}
	}
	faceOf := map[key]map[int]bool{}
	order := []key{}
	addEdge := func(a, b geom.Vec3, faceID int) {
		k := norm(a, b)
		if faceOf[k] == nil {
			faceOf[k] = map[int]bool{}
			order = append(order, k)
		}
		faceOf[k][faceID] = true
	}
	for _, t := range s.Triangles {
		addEdge(t.V0, t.V1, t.FaceID)
		addEdge(t.V1, t.V2, t.FaceID)
		addEdge(t.V2, t.V0, t.FaceID)
	}
	var out []Edge
	for _, k := range order {
		if len(faceOf[k]) > 1 {
			out = append(out, Edge{A: k.a, B: k.b})
		}
	}
	return out
}

func less(a, b geom.Vec3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// SignedVolume computes the signed volume via the tetrahedral
// divergence-theorem sum, the check Cut uses to verify outward
// orientation before invoking the external boolean (spec §4.4's Cut
// note: "positive signed volume required; if negative, triangle
// winding is reversed").
func SignedVolume(s *Solid) float64 {
	sum := 0.0
	for _, t := range s.Triangles {
		sum += t.V0.Dot(t.V1.Cross(t.V2))
	}
	return sum / 6
}

// EnsureOutwardOrientation reverses every triangle's winding (and
// negates its normal) in place if the solid's signed volume is negative.
func EnsureOutwardOrientation(s *Solid) {
	if SignedVolume(s) >= 0 {
		return
	}
	for i := range s.Triangles {
		t := &s.Triangles[i]
		t.V1, t.V2 = t.V2, t.V1
		t.Normal = t.Normal.Scale(-1)
	}
}

// dedupEps is the vertex-coincidence tolerance used when converting
// to/from an external mesh representation (spec §9).
const dedupEps = 1e-6

// DedupVertices merges vertices within dedupEps of one another and
// returns the reduced vertex list together with remap, where remap[i]
// is the index in out of input vertex i. Triangle and face data are not
// touched.
func DedupVertices(verts []geom.Vec3) (out []geom.Vec3, remap []int) {
	remap = make([]int, len(verts))
	for i, v := range verts {
		found := -1
		for j, u := range out {
			if v.Distance(u) < dedupEps {
				found = j
				break
			}
		}
		if found < 0 {
			out = append(out, v)
			found = len(out) - 1
		}
		remap[i] = found
	}
	return out, remap
}
