// Package interact implements the interaction policy layered on top of
// package sketch's tool state machines (spec §4.7): the dimension-drag
// threshold, double-click detection, face picking, and grid snapping.
// No direct teacher analog exists (gofem has no UI layer); written
// fresh in the idiom established elsewhere in this module — plain
// enums and free functions over opaque state, no callback nesting.
package interact

import (
	"math"

	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/dporeiro/gosketch/solid"
)

// DragThreshold is how far the cursor must move, in sketch units, past
// a constraint mouse-down before it is treated as a drag rather than a
// click (spec §4.7).
const DragThreshold = 0.05

// DoubleClickThreshold is the maximum gap between two clicks on the
// same constraint id for the second to count as a double-click
// (spec §4.7).
const DoubleClickThreshold = 0.5 // seconds

// GridSize is the snap grid pitch used by point-drag while a modifier
// key is held (spec §4.7).
const GridSize = 0.1

// DragState tracks a mouse-down-on-constraint until it resolves into
// either a drag (past DragThreshold) or a click (released before).
type DragState struct {
	ConID   int
	Start   geom.Vec2
	Pos     geom.Vec2
	Active  bool // true once DragThreshold has been exceeded
	Pending bool
}

// BeginPress records a mouse-down on a constraint; the caller decides
// whether to call this based on hit-testing, same as
// sketch.UpdateHover's HoverConstraint tier.
func (d *DragState) BeginPress(conID int, pos geom.Vec2) {
	d.ConID = conID
	d.Start = pos
	d.Pos = pos
	d.Active = false
	d.Pending = true
}

// Move updates the tracked cursor position and reports whether the
// drag has become active this call (crossed DragThreshold for the
// first time).
func (d *DragState) Move(pos geom.Vec2) (becameActive bool) {
	if !d.Pending {
		return false
	}
	d.Pos = pos
	if !d.Active && d.Start.Distance(pos) > DragThreshold {
		d.Active = true
		becameActive = true
	}
	return becameActive
}

// Release ends the press, reporting whether it resolved as a click
// (never crossed DragThreshold) rather than a drag.
func (d *DragState) Release() (conID int, wasClick bool) {
	conID = d.ConID
	wasClick = d.Pending && !d.Active
	d.Pending = false
	d.Active = false
	return conID, wasClick
}

// ClickTracker detects double-clicks on a repeated target id within
// DoubleClickThreshold, independent of what the id names (constraint,
// sketch feature, ...). Callers own the clock: every call passes the
// current time as seconds, since this package has no timer of its own.
type ClickTracker struct {
	lastID   int
	lastTime float64
	hasLast  bool
}

// Click registers a click on id at time t and reports whether it forms
// a double-click with the immediately preceding one.
func (c *ClickTracker) Click(id int, t float64) bool {
	isDouble := c.hasLast && id == c.lastID && t-c.lastTime <= DoubleClickThreshold
	c.lastID = id
	c.lastTime = t
	c.hasLast = true
	if isDouble {
		// a consumed double-click cannot chain into a triple-click
		c.hasLast = false
	}
	return isDouble
}

// SnapToGrid rounds pos to the nearest GridSize-unit grid point, used
// by point-drag only while a modifier key is held (spec §4.7).
func SnapToGrid(pos geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: math.Round(pos.X/GridSize) * GridSize,
		Y: math.Round(pos.Y/GridSize) * GridSize,
	}
}

// DragPoint applies grid snapping conditionally: snap is applied only
// when modifierHeld is true, otherwise pos passes through unchanged.
func DragPoint(pos geom.Vec2, modifierHeld bool) geom.Vec2 {
	if modifierHeld {
		return SnapToGrid(pos)
	}
	return pos
}

// Ray is a 3D ray in world coordinates, as produced by unprojecting a
// cursor position through the inverse view·projection matrix (the
// matrix itself is a rendering concern outside this package's scope;
// callers hand in the already-unprojected origin/direction).
type Ray struct {
	Origin geom.Vec3
	Dir    geom.Vec3
}

// PickResult names the face a ray hit and the ray parameter at the hit
// point, so among several candidate faces the caller can keep the one
// with smallest T.
type PickResult struct {
	FaceIndex int
	T         float64
	Point     geom.Vec3
}

// PickFace intersects ray against every face of s (treating each
// face's Polygon/Normal/Center as its carrier plane), keeping only
// hits that land inside the polygon, and returns the closest one along
// the ray (spec §4.7).
func PickFace(ray Ray, s *solid.Solid) (PickResult, bool) {
	best := PickResult{T: math.Inf(1)}
	found := false
	for i, f := range s.Faces {
		t, p, ok := rayPlaneIntersect(ray, f.Center, f.Normal)
		if !ok || t < 0 {
			continue
		}
		if !pointInPolygon(p, f.Polygon, f.Normal) {
			continue
		}
		if t < best.T {
			best = PickResult{FaceIndex: i, T: t, Point: p}
			found = true
		}
	}
	return best, found
}

// rayPlaneIntersect solves Origin + t*Dir on the plane through
// planePoint with the given normal.
func rayPlaneIntersect(ray Ray, planePoint, normal geom.Vec3) (t float64, point geom.Vec3, ok bool) {
	denom := ray.Dir.Dot(normal)
	if math.Abs(denom) < geom.ZeroLengthEps {
		return 0, geom.Vec3{}, false
	}
	t = planePoint.Sub(ray.Origin).Dot(normal) / denom
	return t, ray.Origin.Add(ray.Dir.Scale(t)), true
}

// pointInPolygon tests containment by dropping the axis of the
// normal's largest absolute component (the plane's dominant axis) and
// running a 2D point-in-polygon test on the remaining two coordinates
// (spec §4.7).
func pointInPolygon(p geom.Vec3, polygon []geom.Vec3, normal geom.Vec3) bool {
	if len(polygon) < 3 {
		return false
	}
	ax, ay := dropDominantAxis(normal)
	px, py := axis(p, ax), axis(p, ay)
	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := axis(polygon[i], ax), axis(polygon[i], ay)
		xj, yj := axis(polygon[j], ax), axis(polygon[j], ay)
		if (yi > py) != (yj > py) {
			xCross := xi + (py-yi)/(yj-yi)*(xj-xi)
			if px < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// dropDominantAxis returns the two axis indices to keep (0=X, 1=Y,
// 2=Z) after dropping whichever of normal's components has the
// largest magnitude.
func dropDominantAxis(normal geom.Vec3) (int, int) {
	ax, ay, az := math.Abs(normal.X), math.Abs(normal.Y), math.Abs(normal.Z)
	switch {
	case ax >= ay && ax >= az:
		return 1, 2
	case ay >= ax && ay >= az:
		return 0, 2
	default:
		return 0, 1
	}
}

func axis(v geom.Vec3, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// HandleClick routes a click to the appropriate tool/dimension/pick
// flow: it always forwards to sk.HandleClick, whatever is hovered,
// matching the spec's "drag that never crossed
// DragThreshold is a click" rule (the drag/click decision itself lives
// in DragState, above; this helper is the convenience path for callers
// that only ever click).
func HandleClick(sk *sketch.Sketch, pos geom.Vec2) {
	sk.HandleClick(pos)
}
