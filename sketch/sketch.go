// Package sketch implements the 2D sketch entity/constraint data model:
// points, entities (line/circle/arc), constraints, and the sketch-local
// tool/selection/hover/drag state that the interaction layer drives.
package sketch

import (
	"math"

	"github.com/cpmech/gosl/utl"
	"github.com/dporeiro/gosketch/geom"
)

// ToolKind selects which partial-tool state machine handle_click
// dispatches to (spec §4.7).
type ToolKind int

const (
	ToolSelect ToolKind = iota
	ToolLine
	ToolCircle
	ToolArc
	ToolDimension
)

// HoverKind tags what update_hover found under the cursor.
type HoverKind int

const (
	HoverNone HoverKind = iota
	HoverPoint
	HoverLine
	HoverCircle
	HoverArc
	HoverConstraint
	HoverRadiusHandle
	HoverLineEndpointHandle
)

// HoverState is the result of update_hover.
type HoverState struct {
	Kind HoverKind
	ID   int // point/entity/constraint id, meaning depends on Kind
}

// axisSnapTolerance is how close to axis-aligned (in radians of the
// line's direction from horizontal/vertical) a newly drawn line must be
// before an automatic Horizontal/Vertical constraint is attached.
const axisSnapTolerance = 0.05 // ~2.9 degrees

// hoverPixelTolerance is the proximity radius, in sketch units, used by
// update_hover's point/entity proximity tests.
const hoverPixelTolerance = 0.08

// Sketch owns the arena-like collections of points, entities, and
// constraints, plus transient interaction state. Deletion cascades:
// deleting an entity/point removes every constraint that would
// otherwise dangle (spec §3 invariant).
type Sketch struct {
	Name  string
	Plane geom.Plane

	points      map[int]*Point
	entities    map[int]*Entity
	constraints map[int]*Constraint
	nextPointID int
	nextEntID   int
	nextConID   int

	// ordered ids, so iteration order is deterministic regardless of map order
	pointOrder      []int
	entityOrder     []int
	constraintOrder []int

	// transient tool state
	Tool          ToolKind
	FirstPoint    *int
	SecondPoint   *int
	SelectedEntID *int
	SelectedConID *int
	Hover         HoverState
	Cursor        geom.Vec2

	// dimension-drag state (spec §4.7)
	draggingConID *int
	dragStart     geom.Vec2
}

// InvalidReference is returned when an operation references an id not
// present in the sketch (spec §7).
type InvalidReference struct {
	Kind string // "point", "entity", "constraint"
	ID   int
}

func (e *InvalidReference) Error() string {
	return utl.Sf("sketch: invalid %s reference: %d", e.Kind, e.ID)
}

// NewSketch allocates an empty sketch on the given plane.
func NewSketch(name string, plane geom.Plane) *Sketch {
	return &Sketch{
		Name:        name,
		Plane:       plane,
		points:      make(map[int]*Point),
		entities:    make(map[int]*Entity),
		constraints: make(map[int]*Constraint),
	}
}

// Point looks up a point by id.
func (s *Sketch) Point(id int) (*Point, bool) { p, ok := s.points[id]; return p, ok }

// Entity looks up an entity by id.
func (s *Sketch) Entity(id int) (*Entity, bool) { e, ok := s.entities[id]; return e, ok }

// Constraint looks up a constraint by id.
func (s *Sketch) Constraint(id int) (*Constraint, bool) { c, ok := s.constraints[id]; return c, ok }

// Points returns point ids in creation order.
func (s *Sketch) Points() []int { return append([]int(nil), s.pointOrder...) }

// Entities returns entity ids in creation order.
func (s *Sketch) Entities() []int { return append([]int(nil), s.entityOrder...) }

// Constraints returns constraint ids in creation order.
func (s *Sketch) Constraints() []int { return append([]int(nil), s.constraintOrder...) }

// AddPoint adds a point at (x,y) and returns its stable id.
func (s *Sketch) AddPoint(x, y float64, fixed bool) int {
	id := s.nextPointID
	s.nextPointID++
	s.points[id] = &Point{ID: id, X: x, Y: y, Fixed: fixed}
	s.pointOrder = append(s.pointOrder, id)
	return id
}

// AddLine adds a line between two existing points. If the line's
// endpoints are nearly axis-aligned (within axisSnapTolerance), an
// automatic Horizontal or Vertical constraint is attached — the
// mechanism by which later dimension constraints become 1-DOF-reducing
// (spec §4.1).
func (s *Sketch) AddLine(p1, p2 int) (int, error) {
	a, ok1 := s.points[p1]
	b, ok2 := s.points[p2]
	if !ok1 {
		return 0, &InvalidReference{"point", p1}
	}
	if !ok2 {
		return 0, &InvalidReference{"point", p2}
	}
	id := s.nextEntID
	s.nextEntID++
	s.entities[id] = &Entity{ID: id, Kind: EntityLine, P1: p1, P2: p2, Enabled: true}
	s.entityOrder = append(s.entityOrder, id)

	dx := math.Abs(b.X - a.X)
	dy := math.Abs(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length > geom.ZeroLengthEps {
		if dy/length < axisSnapTolerance {
			s.addAutoConstraint(Horizontal, id)
		} else if dx/length < axisSnapTolerance {
			s.addAutoConstraint(Vertical, id)
		}
	}
	return id, nil
}

func (s *Sketch) addAutoConstraint(kind ConstraintKind, lineID int) int {
	id := s.nextConID
	s.nextConID++
	s.constraints[id] = &Constraint{ID: id, Kind: kind, Enabled: true, Driving: true, E1: lineID}
	s.constraintOrder = append(s.constraintOrder, id)
	return id
}

// AddCircle adds a circle at an existing center point with the given radius.
func (s *Sketch) AddCircle(center int, radius float64) (int, error) {
	if _, ok := s.points[center]; !ok {
		return 0, &InvalidReference{"point", center}
	}
	id := s.nextEntID
	s.nextEntID++
	s.entities[id] = &Entity{ID: id, Kind: EntityCircle, Center: center, Radius: radius, Enabled: true}
	s.entityOrder = append(s.entityOrder, id)
	return id, nil
}

// AddArc adds an arc referencing center/start/end points; radius is
// implied by the center-to-start distance.
func (s *Sketch) AddArc(center, start, end int) (int, error) {
	for _, id := range []int{center, start, end} {
		if _, ok := s.points[id]; !ok {
			return 0, &InvalidReference{"point", id}
		}
	}
	id := s.nextEntID
	s.nextEntID++
	s.entities[id] = &Entity{ID: id, Kind: EntityArc, Center: center, P1: start, P2: end, Enabled: true}
	s.entityOrder = append(s.entityOrder, id)
	return id, nil
}

// resolveConstraintRefs validates that every id a constraint payload
// names resolves in the sketch.
func (s *Sketch) resolveConstraintRefs(c *Constraint) error {
	for _, pid := range c.pointRefs() {
		if _, ok := s.points[pid]; !ok {
			return &InvalidReference{"point", pid}
		}
	}
	for _, eid := range c.entityRefs() {
		if _, ok := s.entities[eid]; !ok {
			return &InvalidReference{"entity", eid}
		}
	}
	return nil
}

// AddConstraint adds a constraint with the given kind and payload
// (caller fills in P1/P2/P3/E1/E2/Value as appropriate for Kind before
// calling, except FixedPoint's X0/Y0 which are captured here from the
// referenced point's current position).
func (s *Sketch) AddConstraint(c Constraint) (int, error) {
	if err := s.resolveConstraintRefs(&c); err != nil {
		return 0, err
	}
	if c.Kind == FixedPoint {
		p := s.points[c.P1]
		c.X0, c.Y0 = p.X, p.Y
	}
	id := s.nextConID
	s.nextConID++
	c.ID = id
	if !c.Enabled {
		c.Enabled = true
	}
	s.constraints[id] = &c
	s.constraintOrder = append(s.constraintOrder, id)
	return id, nil
}

// RemoveConstraint deletes a constraint by id.
func (s *Sketch) RemoveConstraint(id int) bool {
	if _, ok := s.constraints[id]; !ok {
		return false
	}
	delete(s.constraints, id)
	s.constraintOrder = removeInt(s.constraintOrder, id)
	return true
}

// ModifyConstraintValue updates a constraint's driving value.
func (s *Sketch) ModifyConstraintValue(id int, value float64) bool {
	c, ok := s.constraints[id]
	if !ok {
		return false
	}
	c.Value = value
	return true
}

// GetConstraintValue returns a constraint's value and whether the id resolved.
func (s *Sketch) GetConstraintValue(id int) (float64, bool) {
	c, ok := s.constraints[id]
	if !ok {
		return 0, false
	}
	return c.Value, true
}

// DimensionKindFor picks the constraint kind used to dimension a line,
// per spec §4.1: Horizontal lines get DistanceX, Vertical lines get
// DistanceY, otherwise Distance.
func (s *Sketch) DimensionKindFor(lineID int) ConstraintKind {
	for _, cid := range s.constraintOrder {
		c := s.constraints[cid]
		if c.E1 == lineID {
			switch c.Kind {
			case Horizontal:
				return DistanceX
			case Vertical:
				return DistanceY
			}
		}
	}
	return Distance
}

// HasClosedProfile is a cheap existence check; full extraction goes
// through package profile, which this method's spec-mandated sibling
// detect_profiles() in §4.1 delegates to (profile.Detect(sketch)).
func (s *Sketch) HasClosedProfile(detect func(*Sketch) bool) bool {
	return detect(s)
}

// DeleteSelected deletes the currently selected entity or constraint,
// cascading to any constraint that would otherwise reference a
// dangling id.
func (s *Sketch) DeleteSelected() bool {
	if s.SelectedConID != nil {
		ok := s.RemoveConstraint(*s.SelectedConID)
		s.SelectedConID = nil
		return ok
	}
	if s.SelectedEntID != nil {
		id := *s.SelectedEntID
		if _, ok := s.entities[id]; !ok {
			return false
		}
		delete(s.entities, id)
		s.entityOrder = removeInt(s.entityOrder, id)
		s.cascadeDeleteConstraints(func(c *Constraint) bool {
			for _, eid := range c.entityRefs() {
				if eid == id {
					return true
				}
			}
			return false
		})
		s.SelectedEntID = nil
		return true
	}
	return false
}

// DeletePoint removes a point and cascades to entities/constraints
// that reference it.
func (s *Sketch) DeletePoint(id int) bool {
	if _, ok := s.points[id]; !ok {
		return false
	}
	delete(s.points, id)
	s.pointOrder = removeInt(s.pointOrder, id)
	var danglingEntities []int
	for _, eid := range s.entityOrder {
		e := s.entities[eid]
		for _, pid := range e.Points() {
			if pid == id {
				danglingEntities = append(danglingEntities, eid)
				break
			}
		}
	}
	for _, eid := range danglingEntities {
		delete(s.entities, eid)
		s.entityOrder = removeInt(s.entityOrder, eid)
	}
	s.cascadeDeleteConstraints(func(c *Constraint) bool {
		for _, pid := range c.pointRefs() {
			if pid == id {
				return true
			}
		}
		for _, eid := range danglingEntities {
			for _, ceid := range c.entityRefs() {
				if ceid == eid {
					return true
				}
			}
		}
		return false
	})
	return true
}

func (s *Sketch) cascadeDeleteConstraints(dangling func(*Constraint) bool) {
	var dead []int
	for _, cid := range s.constraintOrder {
		if dangling(s.constraints[cid]) {
			dead = append(dead, cid)
		}
	}
	for _, cid := range dead {
		delete(s.constraints, cid)
		s.constraintOrder = removeInt(s.constraintOrder, cid)
	}
}

func removeInt(xs []int, v int) []int {
	out := xs[:0]
	for _, x := range xs {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
