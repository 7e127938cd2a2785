package solid

import "github.com/dporeiro/gosketch/geom"

// Direction selects which way an extrude/cut-tool solid grows relative
// to its sketch plane (spec §4.4).
type Direction int

const (
	Forward Direction = iota
	Backward
	Symmetric
)

func toWorld(plane geom.Plane, p geom.Vec2, zOffset float64) geom.Vec3 {
	return plane.ToWorld(p).Add(plane.Normal.Scale(zOffset))
}

// fanTriangulate produces a triangle fan from a (possibly non-convex,
// best-effort) polygon loop — the same simple tessellation shortcut
// spec §9 sanctions for cap/side triangulation in place of a full
// B-Rep kernel.
func fanTriangulate(loop []geom.Vec3, normal geom.Vec3, faceID int) []Triangle {
	var tris []Triangle
	if len(loop) < 3 {
		return tris
	}
	for i := 1; i < len(loop)-1; i++ {
		tris = append(tris, Triangle{V0: loop[0], V1: loop[i], V2: loop[i+1], Normal: normal, FaceID: faceID})
	}
	return tris
}

// BuildExtrude tessellates a closed, counterclockwise profile into a
// capped prism (spec §4.4): bottom/top caps are triangulated fans,
// sides are quads (two triangles each) running around the loop.
// Extrusion vector = plane normal × depth for Forward, negated for
// Backward, split symmetrically about the plane for Symmetric.
func BuildExtrude(profile []geom.Vec2, plane geom.Plane, depth float64, dir Direction) *Solid {
	var zBot, zTop float64
	switch dir {
	case Forward:
		zBot, zTop = 0, depth
	case Backward:
		zBot, zTop = -depth, 0
	case Symmetric:
		zBot, zTop = -depth/2, depth/2
	}

	n := len(profile)
	bottom := make([]geom.Vec3, n)
	top := make([]geom.Vec3, n)
	for i, p := range profile {
		bottom[i] = toWorld(plane, p, zBot)
		top[i] = toWorld(plane, p, zTop)
	}

	s := &Solid{}
	outward := plane.Normal.Scale(-1)
	inward := plane.Normal

	// bottom cap faces outward (-normal); reverse the loop so the fan
	// winds the correct way for that normal.
	botLoop := make([]geom.Vec3, n)
	for i, v := range bottom {
		botLoop[n-1-i] = v
	}
	botFaceID := 0
	s.Triangles = append(s.Triangles, fanTriangulate(botLoop, outward, botFaceID)...)
	s.Faces = append(s.Faces, capFace("bottom", botLoop, outward))

	topFaceID := 1
	s.Triangles = append(s.Triangles, fanTriangulate(top, inward, topFaceID)...)
	s.Faces = append(s.Faces, capFace("top", top, inward))

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a, b := bottom[i], bottom[j]
		c, d := top[i], top[j]
		sideNormal := sideQuadNormal(a, b, d)
		faceID := 2 + i
		s.Triangles = append(s.Triangles,
			Triangle{V0: a, V1: b, V2: d, Normal: sideNormal, FaceID: faceID},
			Triangle{V0: a, V1: d, V2: c, Normal: sideNormal, FaceID: faceID},
		)
		s.Faces = append(s.Faces, Face{
			Name:    sideFaceName(i),
			Center:  centroid([]geom.Vec3{a, b, c, d}),
			Normal:  sideNormal,
			Polygon: []geom.Vec3{a, b, d, c},
		})
	}

	s.Vertices = append(append(append([]geom.Vec3{}, bottom...), top...))
	EnsureOutwardOrientation(s)
	return s
}

func sideQuadNormal(a, b, d geom.Vec3) geom.Vec3 {
	return b.Sub(a).Cross(d.Sub(a)).Normalize()
}

func capFace(name string, loop []geom.Vec3, normal geom.Vec3) Face {
	return Face{Name: name, Center: centroid(loop), Normal: normal, Polygon: loop}
}

func sideFaceName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return "side_" + string(letters[i])
	}
	return "side"
}

func centroid(pts []geom.Vec3) geom.Vec3 {
	var c geom.Vec3
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}
