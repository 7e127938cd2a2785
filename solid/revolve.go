package solid

import (
	"math"

	"github.com/dporeiro/gosketch/geom"
)

// AxisKind selects which in-plane axis a revolve sweeps the profile
// around (spec §4.4). The axis is expressed in the sketch plane's own
// U/V frame: AxisU sweeps about plane.U (profile's y becomes radius),
// AxisV sweeps about plane.V (profile's x becomes radius). The source
// spec names an "axis_kind" parameter without pinning its exact
// representation; this in-plane-axis choice is the implementer
// decision recorded in DESIGN.md.
type AxisKind int

const (
	AxisU AxisKind = iota
	AxisV
)

func revolvePoint(plane geom.Plane, p geom.Vec2, axis AxisKind, theta float64) geom.Vec3 {
	cos, sin := math.Cos(theta), math.Sin(theta)
	switch axis {
	case AxisU:
		return plane.Origin.Add(plane.U.Scale(p.X)).Add(plane.V.Scale(p.Y * cos)).Add(plane.Normal.Scale(p.Y * sin))
	default: // AxisV
		return plane.Origin.Add(plane.U.Scale(p.X * cos)).Add(plane.Normal.Scale(p.X * sin)).Add(plane.V.Scale(p.Y))
	}
}

// BuildRevolve sweeps a closed, counterclockwise profile around an
// in-plane axis (spec §4.4): segments bands between consecutive angle
// samples, each producing two triangles per profile edge; a full
// (360°) revolution merges the first and last rings, a partial
// revolution caps both sweep extremes with a triangulated profile.
func BuildRevolve(profile []geom.Vec2, plane geom.Plane, axis AxisKind, angleDeg float64, segments int) *Solid {
	if segments < 1 {
		segments = 1
	}
	n := len(profile)
	full := math.Abs(angleDeg-360) < 1e-9
	angle := angleDeg * math.Pi / 180

	rings := make([][]geom.Vec3, segments+1)
	for seg := 0; seg <= segments; seg++ {
		theta := angle * float64(seg) / float64(segments)
		ring := make([]geom.Vec3, n)
		for i, p := range profile {
			ring[i] = revolvePoint(plane, p, axis, theta)
		}
		rings[seg] = ring
	}

	s := &Solid{}
	lastSeg := segments
	if full {
		rings[segments] = rings[0]
		lastSeg = segments - 1
	}
	for seg := 0; seg < segments; seg++ {
		if seg > lastSeg {
			break
		}
		a, b := rings[seg], rings[seg+1]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			p0, p1 := a[i], a[j]
			p2, p3 := b[j], b[i]
			normal := p1.Sub(p0).Cross(p3.Sub(p0)).Normalize()
			faceID := seg*n + i
			s.Triangles = append(s.Triangles,
				Triangle{V0: p0, V1: p1, V2: p3, Normal: normal, FaceID: faceID},
				Triangle{V0: p0, V1: p3, V2: p2, Normal: normal, FaceID: faceID},
			)
			s.Faces = append(s.Faces, Face{
				Name:    "band",
				Center:  centroid([]geom.Vec3{p0, p1, p2, p3}),
				Normal:  normal,
				Polygon: []geom.Vec3{p0, p1, p3, p2},
			})
		}
	}

	if !full {
		startLoop := make([]geom.Vec3, n)
		for i, v := range rings[0] {
			startLoop[n-1-i] = v
		}
		startNormal := revolveCapNormal(plane, axis, 0).Scale(-1)
		s.Triangles = append(s.Triangles, fanTriangulate(startLoop, startNormal, -2)...)
		s.Faces = append(s.Faces, capFace("start_cap", startLoop, startNormal))

		endLoop := rings[segments]
		endNormal := revolveCapNormal(plane, axis, angle)
		s.Triangles = append(s.Triangles, fanTriangulate(endLoop, endNormal, -3)...)
		s.Faces = append(s.Faces, capFace("end_cap", endLoop, endNormal))
	}

	for _, ring := range rings {
		s.Vertices = append(s.Vertices, ring...)
	}
	EnsureOutwardOrientation(s)
	return s
}

// revolveCapNormal returns the sweep direction at angle theta (the
// sketch plane's own normal rotated about the revolve axis by theta).
// That is the outward normal of the cap at the end of the sweep; the
// start cap's outward normal is its negation at theta = 0.
func revolveCapNormal(plane geom.Plane, axis AxisKind, theta float64) geom.Vec3 {
	cos, sin := math.Cos(theta), math.Sin(theta)
	switch axis {
	case AxisU:
		return plane.V.Scale(-sin).Add(plane.Normal.Scale(cos)).Normalize()
	default:
		return plane.U.Scale(-sin).Add(plane.Normal.Scale(cos)).Normalize()
	}
}
