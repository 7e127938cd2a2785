package solve

import (
	"math"

	"github.com/cpmech/gosl/num"
	"github.com/dporeiro/gosketch/sketch"
)

// rowCount returns how many scalar residuals a driving, enabled
// constraint contributes (spec §4.2's residual table: most kinds
// contribute one row, Coincident and FixedPoint contribute two).
func rowCount(kind sketch.ConstraintKind) int {
	switch kind {
	case sketch.Coincident, sketch.FixedPoint:
		return 2
	default:
		return 1
	}
}

// activeRows lists the ids of the constraints that contribute to the
// residual vector (see rowCount for their row counts), in sketch
// constraint order —
// the same order the normal-equations assembly uses, so the solve is
// deterministic for a given input (spec §4.2 "Determinism").
func activeRows(sk *sketch.Sketch) []int {
	var ids []int
	for _, cid := range sk.Constraints() {
		c, _ := sk.Constraint(cid)
		if !c.Enabled || !c.Driving {
			continue
		}
		ids = append(ids, cid)
	}
	return ids
}

// assemble fills the residual vector r and dense Jacobian J (rows x
// vm.n) for the sketch's current point/radius positions. Mirrors
// fem/solver.go's run_iterations: per-constraint contributions are
// added to the rhs/Jacobian the way each gofem Elem adds to Fb/Kb via
// AddToRhs/AddToKb.
func assemble(sk *sketch.Sketch, vm *varMap, ids []int, totalRows int) (r []float64, J [][]float64) {
	r = make([]float64, totalRows)
	J = make([][]float64, totalRows)
	for i := range J {
		J[i] = make([]float64, vm.n)
	}
	row := 0
	for _, cid := range ids {
		c, _ := sk.Constraint(cid)
		n := rowCount(c.Kind)
		residualFor(sk, vm, c, r[row:row+n], J[row:row+n])
		row += n
	}
	return r, J
}

func totalRows(ids []int, sk *sketch.Sketch) int {
	n := 0
	for _, cid := range ids {
		c, _ := sk.Constraint(cid)
		n += rowCount(c.Kind)
	}
	return n
}

// pt returns a point's coordinates and its equation indices (-1 if fixed).
func pt(sk *sketch.Sketch, vm *varMap, id int) (x, y float64, ex, ey int) {
	p, _ := sk.Point(id)
	x, y = p.X, p.Y
	ex, ok := vm.pointEqX[id]
	if !ok {
		ex = -1
	}
	ey, ok = vm.pointEqY[id]
	if !ok {
		ey = -1
	}
	return x, y, ex, ey
}

func setJ(Jrow []float64, eq int, v float64) {
	if eq >= 0 {
		Jrow[eq] += v
	}
}

// residualFor dispatches to the per-kind residual+Jacobian formula.
// This is the single-point-change table spec.md §9 calls for: adding a
// constraint kind means adding one case here.
func residualFor(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	switch c.Kind {
	case sketch.Distance, sketch.FixedDistance:
		distanceResidual(sk, vm, c, r, J)
	case sketch.DistanceX:
		x1, _, e1x, _ := pt(sk, vm, c.P1)
		x2, _, e2x, _ := pt(sk, vm, c.P2)
		r[0] = (x2 - x1) - c.Value
		setJ(J[0], e1x, -1)
		setJ(J[0], e2x, 1)
	case sketch.DistanceY:
		_, y1, _, e1y := pt(sk, vm, c.P1)
		_, y2, _, e2y := pt(sk, vm, c.P2)
		r[0] = (y2 - y1) - c.Value
		setJ(J[0], e1y, -1)
		setJ(J[0], e2y, 1)
	case sketch.Horizontal:
		horizontalResidual(sk, vm, c, r, J)
	case sketch.Vertical:
		verticalResidual(sk, vm, c, r, J)
	case sketch.Angle, sketch.FixedAngle:
		angleResidual(sk, vm, c, r, J)
	case sketch.Perpendicular:
		dotResidual(sk, vm, c, r, J)
	case sketch.Parallel:
		crossResidual(sk, vm, c, r, J)
	case sketch.Coincident:
		coincidentResidual(sk, vm, c, r, J)
	case sketch.Equal:
		equalResidual(sk, vm, c, r, J)
	case sketch.Tangent:
		tangentResidual(sk, vm, c, r, J)
	case sketch.PointOnLine:
		pointOnLineResidual(sk, vm, c, r, J)
	case sketch.PointOnCircle:
		pointOnCircleResidual(sk, vm, c, r, J)
	case sketch.FixedPoint:
		fixedPointResidual(sk, vm, c, r, J)
	}
}

func distanceResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	x1, y1, e1x, e1y := pt(sk, vm, c.P1)
	x2, y2, e2x, e2y := pt(sk, vm, c.P2)
	dx, dy := x2-x1, y2-y1
	d := math.Hypot(dx, dy)
	r[0] = d - c.Value
	if d < 1e-12 {
		return
	}
	setJ(J[0], e1x, -dx/d)
	setJ(J[0], e1y, -dy/d)
	setJ(J[0], e2x, dx/d)
	setJ(J[0], e2y, dy/d)
}

func lineDir(sk *sketch.Sketch, eid int) (p1, p2 int) {
	e, _ := sk.Entity(eid)
	return e.P1, e.P2
}

func horizontalResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	p1, p2 := lineDir(sk, c.E1)
	_, y1, _, e1y := pt(sk, vm, p1)
	_, y2, _, e2y := pt(sk, vm, p2)
	r[0] = y2 - y1
	setJ(J[0], e1y, -1)
	setJ(J[0], e2y, 1)
}

func verticalResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	p1, p2 := lineDir(sk, c.E1)
	x1, _, e1x, _ := pt(sk, vm, p1)
	x2, _, e2x, _ := pt(sk, vm, p2)
	r[0] = x2 - x1
	setJ(J[0], e1x, -1)
	setJ(J[0], e2x, 1)
}

// direction returns a line's direction vector (p2-p1) and equation indices.
func direction(sk *sketch.Sketch, vm *varMap, eid int) (dx, dy float64, e1x, e1y, e2x, e2y int) {
	p1, p2 := lineDir(sk, eid)
	x1, y1, e1x, e1y := pt(sk, vm, p1)
	x2, y2, e2x, e2y := pt(sk, vm, p2)
	return x2 - x1, y2 - y1, e1x, e1y, e2x, e2y
}

func dotResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	dx1, dy1, a1x, a1y, a2x, a2y := direction(sk, vm, c.E1)
	dx2, dy2, b1x, b1y, b2x, b2y := direction(sk, vm, c.E2)
	r[0] = dx1*dx2 + dy1*dy2
	setJ(J[0], a1x, -dx2)
	setJ(J[0], a1y, -dy2)
	setJ(J[0], a2x, dx2)
	setJ(J[0], a2y, dy2)
	setJ(J[0], b1x, -dx1)
	setJ(J[0], b1y, -dy1)
	setJ(J[0], b2x, dx1)
	setJ(J[0], b2y, dy1)
}

func crossResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	dx1, dy1, a1x, a1y, a2x, a2y := direction(sk, vm, c.E1)
	dx2, dy2, b1x, b1y, b2x, b2y := direction(sk, vm, c.E2)
	r[0] = dx1*dy2 - dy1*dx2
	setJ(J[0], a1x, -dy2)
	setJ(J[0], a1y, dx2)
	setJ(J[0], a2x, dy2)
	setJ(J[0], a2y, -dx2)
	setJ(J[0], b1x, dy1)
	setJ(J[0], b1y, -dx1)
	setJ(J[0], b2x, -dy1)
	setJ(J[0], b2y, dx1)
}

func coincidentResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	x1, y1, e1x, e1y := pt(sk, vm, c.P1)
	x2, y2, e2x, e2y := pt(sk, vm, c.P2)
	r[0] = x2 - x1
	r[1] = y2 - y1
	setJ(J[0], e1x, -1)
	setJ(J[0], e2x, 1)
	setJ(J[1], e1y, -1)
	setJ(J[1], e2y, 1)
}

func charLength(sk *sketch.Sketch, eid int) float64 {
	e, _ := sk.Entity(eid)
	switch e.Kind {
	case sketch.EntityLine:
		p1, _ := sk.Point(e.P1)
		p2, _ := sk.Point(e.P2)
		return p1.Vec2().Distance(p2.Vec2())
	case sketch.EntityCircle:
		return e.Radius
	case sketch.EntityArc:
		c, _ := sk.Point(e.Center)
		s, _ := sk.Point(e.P1)
		return c.Vec2().Distance(s.Vec2())
	}
	return 0
}

func equalResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	e1, _ := sk.Entity(c.E1)
	e2, _ := sk.Entity(c.E2)
	if (e1.Kind == sketch.EntityCircle || e1.Kind == sketch.EntityArc) &&
		(e2.Kind == sketch.EntityCircle || e2.Kind == sketch.EntityArc) {
		r1 := radiusOf(sk, c.E1)
		r2 := radiusOf(sk, c.E2)
		r[0] = r1 - r2
		if eq, ok := vm.radiusEq[c.E1]; ok {
			J[0][eq] += 1
		}
		if eq, ok := vm.radiusEq[c.E2]; ok {
			J[0][eq] += -1
		}
		return
	}
	// line-length equality: analytic Distance-style Jacobian on the
	// endpoints of both lines.
	l1 := charLength(sk, c.E1)
	l2 := charLength(sk, c.E2)
	r[0] = l1 - l2
	p1a, p1b := lineDir(sk, c.E1)
	p2a, p2b := lineDir(sk, c.E2)
	x1a, y1a, e1ax, e1ay := pt(sk, vm, p1a)
	x1b, y1b, e1bx, e1by := pt(sk, vm, p1b)
	x2a, y2a, e2ax, e2ay := pt(sk, vm, p2a)
	x2b, y2b, e2bx, e2by := pt(sk, vm, p2b)
	d1 := math.Hypot(x1b-x1a, y1b-y1a)
	d2 := math.Hypot(x2b-x2a, y2b-y2a)
	if d1 > 1e-12 {
		setJ(J[0], e1ax, -(x1b-x1a)/d1)
		setJ(J[0], e1ay, -(y1b-y1a)/d1)
		setJ(J[0], e1bx, (x1b-x1a)/d1)
		setJ(J[0], e1by, (y1b-y1a)/d1)
	}
	if d2 > 1e-12 {
		setJ(J[0], e2ax, (x2b-x2a)/d2)
		setJ(J[0], e2ay, (y2b-y2a)/d2)
		setJ(J[0], e2bx, -(x2b-x2a)/d2)
		setJ(J[0], e2by, -(y2b-y2a)/d2)
	}
}

func radiusOf(sk *sketch.Sketch, eid int) float64 {
	e, _ := sk.Entity(eid)
	if e.Kind == sketch.EntityCircle {
		return e.Radius
	}
	c, _ := sk.Point(e.Center)
	s, _ := sk.Point(e.P1)
	return c.Vec2().Distance(s.Vec2())
}

// tangentResidual implements external tangency: distance between
// centers minus the sum of radii for two circles/arcs, or perpendicular
// distance from center to line minus radius for a circle/line pair.
// The source spec gives no closed-form table entry for Tangent; this
// is an implementer decision (see DESIGN.md).
func tangentResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	e1, _ := sk.Entity(c.E1)
	e2, _ := sk.Entity(c.E2)
	isCircular := func(e *sketch.Entity) bool {
		return e.Kind == sketch.EntityCircle || e.Kind == sketch.EntityArc
	}
	if isCircular(e1) && isCircular(e2) {
		x1, y1, e1x, e1y := pt(sk, vm, e1.Center)
		x2, y2, e2x, e2y := pt(sk, vm, e2.Center)
		d := math.Hypot(x2-x1, y2-y1)
		r[0] = d - (radiusOf(sk, c.E1) + radiusOf(sk, c.E2))
		if d > 1e-12 {
			setJ(J[0], e1x, -(x2-x1)/d)
			setJ(J[0], e1y, -(y2-y1)/d)
			setJ(J[0], e2x, (x2-x1)/d)
			setJ(J[0], e2y, (y2-y1)/d)
		}
		return
	}
	// circle/line pair: swap so E1 is the circular one
	circ, line := c.E1, c.E2
	if !isCircular(e1) {
		circ, line = c.E2, c.E1
	}
	ce, _ := sk.Entity(circ)
	cx, cy, ecx, ecy := pt(sk, vm, ce.Center)
	p1, p2 := lineDir(sk, line)
	x1, y1, e1x, e1y := pt(sk, vm, p1)
	x2, y2, e2x, e2y := pt(sk, vm, p2)
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return
	}
	// signed perpendicular distance from center to the infinite line
	cross := dx*(cy-y1) - dy*(cx-x1)
	d := cross / length
	rad := radiusOf(sk, circ)
	r[0] = math.Abs(d) - rad
	sign := 1.0
	if d < 0 {
		sign = -1.0
	}
	setJ(J[0], ecx, sign*(-dy)/length)
	setJ(J[0], ecy, sign*(dx)/length)

	// Line-endpoint partials are taken numerically (central difference,
	// gosl/num.DerivCen) rather than expanded analytically: Tangent has
	// no closed-form Jacobian entry in the source table (see the
	// comment above), so this mirrors the Angle residual's documented
	// numeric-fallback path instead of inventing a second bespoke one.
	eval := func(pid, axis int, val float64) float64 {
		p, _ := sk.Point(pid)
		var old float64
		if axis == 0 {
			old, p.X = p.X, val
		} else {
			old, p.Y = p.Y, val
		}
		ccx, ccy, _, _ := pt(sk, vm, ce.Center)
		lx1, ly1, _, _ := pt(sk, vm, p1)
		lx2, ly2, _, _ := pt(sk, vm, p2)
		ldx, ldy := lx2-lx1, ly2-ly1
		llen := math.Hypot(ldx, ldy)
		res := math.Abs((ldx*(ccy-ly1)-ldy*(ccx-lx1))/llen) - rad
		if axis == 0 {
			p.X = old
		} else {
			p.Y = old
		}
		return res
	}
	for _, coord := range []struct {
		pid, axis, eq int
		ok            bool
	}{
		{p1, 0, e1x, e1x >= 0}, {p1, 1, e1y, e1y >= 0},
		{p2, 0, e2x, e2x >= 0}, {p2, 1, e2y, e2y >= 0},
	} {
		if !coord.ok {
			continue
		}
		base := x1
		if coord.pid == p2 {
			base = x2
		}
		if coord.axis == 1 {
			base = y1
			if coord.pid == p2 {
				base = y2
			}
		}
		dd := num.DerivCen(func(v float64, args ...interface{}) (res float64) {
			return eval(coord.pid, coord.axis, v)
		}, base)
		J[0][coord.eq] += dd
	}
}

// pointOnLineResidual is the signed cross-product
// f = (x2-x1)(py-y1) - (y2-y1)(px-x1), zero iff p lies on line (p1,p2).
func pointOnLineResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	px, py, epx, epy := pt(sk, vm, c.P1)
	p1, p2 := lineDir(sk, c.E1)
	x1, y1, e1x, e1y := pt(sk, vm, p1)
	x2, y2, e2x, e2y := pt(sk, vm, p2)
	dx, dy := x2-x1, y2-y1
	r[0] = dx*(py-y1) - dy*(px-x1)

	setJ(J[0], epx, -dy)
	setJ(J[0], epy, dx)
	setJ(J[0], e1x, -(py-y1)+dy)
	setJ(J[0], e1y, -dx+(px-x1))
	setJ(J[0], e2x, py-y1)
	setJ(J[0], e2y, -(px - x1))
}

func pointOnCircleResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	px, py, epx, epy := pt(sk, vm, c.P1)
	ce, _ := sk.Entity(c.E1)
	cx, cy, ecx, ecy := pt(sk, vm, ce.Center)
	rad := radiusOf(sk, c.E1)
	dx, dy := px-cx, py-cy
	d := math.Hypot(dx, dy)
	r[0] = d - rad
	if d > 1e-12 {
		setJ(J[0], epx, dx/d)
		setJ(J[0], epy, dy/d)
		setJ(J[0], ecx, -dx/d)
		setJ(J[0], ecy, -dy/d)
	}
	if eq, ok := vm.radiusEq[c.E1]; ok {
		J[0][eq] += -1
	}
}

func fixedPointResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	x, y, ex, ey := pt(sk, vm, c.P1)
	r[0] = x - c.X0
	r[1] = y - c.Y0
	setJ(J[0], ex, 1)
	setJ(J[1], ey, 1)
}

// angleResidual uses atan2 of the cross/dot of the two line direction
// vectors, wrapped to (-π, π], with a numeric-derivative fallback when
// a line has near-zero length or cross and dot are both near zero, per
// spec §4.2's "numeric fallback only for the Angle residual".
func angleResidual(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, r []float64, J [][]float64) {
	dx1, dy1, a1x, a1y, a2x, a2y := direction(sk, vm, c.E1)
	dx2, dy2, b1x, b1y, b2x, b2y := direction(sk, vm, c.E2)
	cross := dx1*dy2 - dy1*dx2
	dot := dx1*dx2 + dy1*dy2
	theta := math.Atan2(cross, dot)
	target := c.Value * math.Pi / 180
	r[0] = wrapAngle(theta - target)

	l1 := math.Hypot(dx1, dy1)
	l2 := math.Hypot(dx2, dy2)
	near := l1 < 1e-6 || l2 < 1e-6 || math.Abs(cross) < 1e-9 && math.Abs(dot) < 1e-9
	if near {
		angleNumericJacobian(sk, vm, c, J[0])
		return
	}
	denom := cross*cross + dot*dot
	if denom < 1e-18 {
		angleNumericJacobian(sk, vm, c, J[0])
		return
	}
	// d(theta)/d(cross) = dot/denom, d(theta)/d(dot) = -cross/denom
	dThetaDCross := dot / denom
	dThetaDDot := -cross / denom
	// cross = dx1*dy2 - dy1*dx2, dot = dx1*dx2 + dy1*dy2
	setJ(J[0], a1x, dThetaDCross*(-dy2)+dThetaDDot*(-dx2))
	setJ(J[0], a1y, dThetaDCross*(dx2)+dThetaDDot*(-dy2))
	setJ(J[0], a2x, dThetaDCross*(dy2)+dThetaDDot*(dx2))
	setJ(J[0], a2y, dThetaDCross*(-dx2)+dThetaDDot*(dy2))
	setJ(J[0], b1x, dThetaDCross*(dy1)+dThetaDDot*(-dx1))
	setJ(J[0], b1y, dThetaDCross*(-dx1)+dThetaDDot*(-dy1))
	setJ(J[0], b2x, dThetaDCross*(-dy1)+dThetaDDot*(dx1))
	setJ(J[0], b2y, dThetaDCross*(dx1)+dThetaDDot*(dy1))
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// angleNumericJacobian falls back to a central-difference derivative of
// the angle residual w.r.t. each endpoint coordinate, using
// gosl/num.DerivCen the way msolid/driver.go checks its consistent
// tangent matrix.
func angleNumericJacobian(sk *sketch.Sketch, vm *varMap, c *sketch.Constraint, row []float64) {
	p1a, p1b := lineDir(sk, c.E1)
	p2a, p2b := lineDir(sk, c.E2)
	coords := []struct {
		pid  int
		axis int // 0=x,1=y
		eq   int
	}{}
	addCoord := func(pid, axis int) {
		var eq int
		var ok bool
		if axis == 0 {
			eq, ok = vm.pointEqX[pid]
		} else {
			eq, ok = vm.pointEqY[pid]
		}
		if ok {
			coords = append(coords, struct {
				pid  int
				axis int
				eq   int
			}{pid, axis, eq})
		}
	}
	addCoord(p1a, 0)
	addCoord(p1a, 1)
	addCoord(p1b, 0)
	addCoord(p1b, 1)
	addCoord(p2a, 0)
	addCoord(p2a, 1)
	addCoord(p2b, 0)
	addCoord(p2b, 1)

	target := c.Value * math.Pi / 180
	eval := func(pid, axis int, x float64) float64 {
		p, _ := sk.Point(pid)
		var old float64
		if axis == 0 {
			old, p.X = p.X, x
		} else {
			old, p.Y = p.Y, x
		}
		dx1, dy1, _, _, _, _ := direction(sk, vm, c.E1)
		dx2, dy2, _, _, _, _ := direction(sk, vm, c.E2)
		theta := math.Atan2(dx1*dy2-dy1*dx2, dx1*dx2+dy1*dy2)
		res := wrapAngle(theta - target)
		if axis == 0 {
			p.X = old
		} else {
			p.Y = old
		}
		return res
	}
	for _, cd := range coords {
		p, _ := sk.Point(cd.pid)
		x0 := p.X
		if cd.axis == 1 {
			x0 = p.Y
		}
		d := num.DerivCen(func(x float64, args ...interface{}) (res float64) {
			return eval(cd.pid, cd.axis, x)
		}, x0)
		row[cd.eq] += d
	}
}
