package sketch

// ConstraintKind tags the payload variant carried by a Constraint. The
// residual/Jacobian table in package solve has one row per kind; this
// is the "single-point change" table referenced in spec.md §9.
type ConstraintKind int

const (
	Distance ConstraintKind = iota
	DistanceX
	DistanceY
	Horizontal
	Vertical
	Angle
	Perpendicular
	Parallel
	Coincident
	Equal
	Tangent
	PointOnLine
	PointOnCircle
	FixedPoint
	FixedDistance
	FixedAngle
)

var constraintNames = map[ConstraintKind]string{
	Distance:      "Distance",
	DistanceX:     "DistanceX",
	DistanceY:     "DistanceY",
	Horizontal:    "Horizontal",
	Vertical:      "Vertical",
	Angle:         "Angle",
	Perpendicular: "Perpendicular",
	Parallel:      "Parallel",
	Coincident:    "Coincident",
	Equal:         "Equal",
	Tangent:       "Tangent",
	PointOnLine:   "PointOnLine",
	PointOnCircle: "PointOnCircle",
	FixedPoint:    "FixedPoint",
	FixedDistance: "FixedDistance",
	FixedAngle:    "FixedAngle",
}

func (k ConstraintKind) String() string {
	if n, ok := constraintNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Constraint references entity/point ids uniformly via a payload of
// optional fields; which fields are meaningful depends on Kind (see
// the dispatch in solve's residualFor). A constraint that is not Driving is a
// reference dimension: its Value is a readout updated post-solve, and
// it contributes no residual (spec §4.2).
type Constraint struct {
	ID      int
	Kind    ConstraintKind
	Enabled bool
	Driving bool

	P1, P2, P3 int // point ids, meaning depends on Kind
	E1, E2     int // entity ids (lines/circles/arcs), meaning depends on Kind

	Value float64 // target value: distance, signed offset, angle (degrees), etc.

	// X0, Y0 capture the point's coordinates at the moment a FixedPoint
	// constraint was added (spec.md's Open Question #4: capture-at-add-
	// time, not capture-at-solve-time).
	X0, Y0 float64
}

// pointRefs returns the point ids this constraint's payload names
// (entityRefs returns the entity ids), for id-integrity validation
// (spec §8) and cascade deletion.
func (c *Constraint) pointRefs() []int {
	switch c.Kind {
	case Distance, DistanceX, DistanceY, Coincident:
		return []int{c.P1, c.P2}
	case PointOnLine, PointOnCircle:
		return []int{c.P1}
	case FixedPoint:
		return []int{c.P1}
	default:
		return nil
	}
}

func (c *Constraint) entityRefs() []int {
	switch c.Kind {
	case Horizontal, Vertical, FixedDistance:
		return []int{c.E1}
	case Angle, Perpendicular, Parallel, Equal, FixedAngle:
		return []int{c.E1, c.E2}
	case Tangent:
		return []int{c.E1, c.E2}
	case PointOnLine, PointOnCircle:
		return []int{c.E1}
	default:
		return nil
	}
}
