package solve

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
)

// rect builds a 4-point quadrilateral shaped roughly like a w-by-h
// rectangle, with p0 fixed and the other three corners perturbed off
// their axis-aligned positions so AddLine's auto Horizontal/Vertical
// snap (axisSnapTolerance) does not silently pin every edge. Only the
// top edge (p2-p3) lands inside the snap tolerance, so rect() itself
// contributes exactly one driving residual (a Horizontal on "top")
// beyond whatever constraints a test adds explicitly. Free variables:
// p1.x, p1.y, p2.x, p2.y, p3.x, p3.y (p0 is fixed) = 6 DOF.
func rect(w, h float64) (*sketch.Sketch, map[string]int) {
	s := sketch.NewSketch("rect", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	p0 := s.AddPoint(0, 0, true)
	p1 := s.AddPoint(w+0.3, 0.2, false)
	p2 := s.AddPoint(w+0.1, h+0.2, false)
	p3 := s.AddPoint(0.2, h+0.1, false)
	bottom, _ := s.AddLine(p0, p1)
	right, _ := s.AddLine(p1, p2)
	top, _ := s.AddLine(p2, p3)
	left, _ := s.AddLine(p3, p0)
	ids := map[string]int{"p0": p0, "p1": p1, "p2": p2, "p3": p3,
		"bottom": bottom, "right": right, "top": top, "left": left}
	return s, ids
}

// TestRectangleSolve drives an under-dimensioned rectangle to an exact
// width/height via Distance constraints and checks the geometry lands
// on the prescribed dimensions (spec §8's "solver soundness").
func TestRectangleSolve(tst *testing.T) {
	chk.PrintTitle("RectangleSolve")
	s, ids := rect(3, 2)
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceX, Driving: true, P1: ids["p0"], P2: ids["p1"], Value: 3})
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceY, Driving: true, P1: ids["p0"], P2: ids["p3"], Value: 2})

	res := Solve(s)
	if res.Status != Underconstrained && res.Status != Success {
		tst.Fatalf("expected Success or Underconstrained, got %v: %s", res.Status, res.Message)
	}
	p0, _ := s.Point(ids["p0"])
	p1, _ := s.Point(ids["p1"])
	p3, _ := s.Point(ids["p3"])
	if math.Abs((p1.X-p0.X)-3) > 1e-6 {
		tst.Fatalf("expected width 3, got %v", p1.X-p0.X)
	}
	if math.Abs((p3.Y-p0.Y)-2) > 1e-6 {
		tst.Fatalf("expected height 2, got %v", p3.Y-p0.Y)
	}
}

// TestFixedPointImmobility checks that a FixedPoint-constrained point
// never moves even under unrelated dimension changes elsewhere in the
// sketch (spec §8).
func TestFixedPointImmobility(tst *testing.T) {
	chk.PrintTitle("FixedPointImmobility")
	s, ids := rect(3, 2)
	s.AddConstraint(sketch.Constraint{Kind: sketch.FixedPoint, Driving: true, P1: ids["p2"]})
	p2Before, _ := s.Point(ids["p2"])
	x0, y0 := p2Before.X, p2Before.Y

	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceX, Driving: true, P1: ids["p0"], P2: ids["p1"], Value: 5})
	res := Solve(s)
	if res.Status == NumericalError {
		tst.Fatalf("unexpected numerical error: %s", res.Message)
	}
	p2After, _ := s.Point(ids["p2"])
	if math.Abs(p2After.X-x0) > 1e-9 || math.Abs(p2After.Y-y0) > 1e-9 {
		tst.Fatalf("expected FixedPoint to stay put, moved from (%v,%v) to (%v,%v)", x0, y0, p2After.X, p2After.Y)
	}
}

// TestNonDrivingInertness checks that a non-driving constraint's value
// is a pure readout: editing it never participates in the solve. The
// sketch is pinned to zero remaining DOF (one driving residual per free
// variable, see rect()'s doc comment) so the expected outcome is an
// unambiguous Success rather than Underconstrained.
func TestNonDrivingInertness(tst *testing.T) {
	chk.PrintTitle("NonDrivingInertness")
	s, ids := rect(3, 2)
	cid, _ := s.AddConstraint(sketch.Constraint{Kind: sketch.Distance, Driving: false, P1: ids["p0"], P2: ids["p2"], Value: 999})
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceX, Driving: true, P1: ids["p0"], P2: ids["p1"], Value: 3})
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceY, Driving: true, P1: ids["p0"], P2: ids["p3"], Value: 2})
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceY, Driving: true, P1: ids["p0"], P2: ids["p1"], Value: 0})
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceX, Driving: true, P1: ids["p0"], P2: ids["p3"], Value: 0})
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceX, Driving: true, P1: ids["p0"], P2: ids["p2"], Value: 3})

	res := Solve(s)
	if res.Status != Success {
		tst.Fatalf("expected Success, got %v: %s", res.Status, res.Message)
	}
	v, _ := s.GetConstraintValue(cid)
	if math.Abs(v-999) < 1 {
		tst.Fatal("expected readout to be recomputed from solved geometry, not left at its stale authored value")
	}
}

// TestUnderconstrained checks the DOF classification on a sketch with
// free variables left over after the driving constraints are applied.
func TestUnderconstrained(tst *testing.T) {
	chk.PrintTitle("Underconstrained")
	s, ids := rect(3, 2)
	s.AddConstraint(sketch.Constraint{Kind: sketch.DistanceX, Driving: true, P1: ids["p0"], P2: ids["p1"], Value: 3})
	res := Solve(s)
	if res.Status != Underconstrained {
		tst.Fatalf("expected Underconstrained, got %v", res.Status)
	}
}
