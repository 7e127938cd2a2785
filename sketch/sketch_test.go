package sketch

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/dporeiro/gosketch/geom"
)

func rectSketch() (*Sketch, map[string]int) {
	s := NewSketch("rect", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	p0 := s.AddPoint(0, 0, true)
	p1 := s.AddPoint(3.2, 0.1, false)
	p2 := s.AddPoint(3.1, 2.1, false)
	p3 := s.AddPoint(0.1, 1.9, false)
	bottom, _ := s.AddLine(p0, p1)
	right, _ := s.AddLine(p1, p2)
	top, _ := s.AddLine(p2, p3)
	left, _ := s.AddLine(p3, p0)
	ids := map[string]int{
		"p0": p0, "p1": p1, "p2": p2, "p3": p3,
		"bottom": bottom, "right": right, "top": top, "left": left,
	}
	return s, ids
}

func TestAddLineAutoConstraint(tst *testing.T) {
	chk.PrintTitle("AddLineAutoConstraint")
	s := NewSketch("s", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	a := s.AddPoint(0, 0, true)
	b := s.AddPoint(3, 0.001, false)
	lineID, err := s.AddLine(a, b)
	if err != nil {
		tst.Fatal(err)
	}
	found := false
	for _, cid := range s.Constraints() {
		c, _ := s.Constraint(cid)
		if c.E1 == lineID && c.Kind == Horizontal {
			found = true
		}
	}
	if !found {
		tst.Fatal("expected auto Horizontal constraint on near-horizontal line")
	}
}

func TestInvalidReference(tst *testing.T) {
	chk.PrintTitle("InvalidReference")
	s := NewSketch("s", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	_, err := s.AddLine(0, 1)
	if err == nil {
		tst.Fatal("expected InvalidReference error")
	}
	var ref *InvalidReference
	if !errors.As(err, &ref) {
		tst.Fatalf("expected *InvalidReference, got %T", err)
	}
}

func TestDeleteCascades(tst *testing.T) {
	chk.PrintTitle("DeleteCascades")
	s, ids := rectSketch()
	c, err := s.AddConstraint(Constraint{Kind: Distance, Driving: true, P1: ids["p0"], P2: ids["p1"], Value: 3})
	if err != nil {
		tst.Fatal(err)
	}
	if !s.DeletePoint(ids["p1"]) {
		tst.Fatal("expected DeletePoint to succeed")
	}
	if _, ok := s.Constraint(c); ok {
		tst.Fatal("expected dangling constraint to be cascade-deleted")
	}
	if _, ok := s.Entity(ids["bottom"]); ok {
		tst.Fatal("expected line touching deleted point to be removed")
	}
}

func TestDimensionKindFor(tst *testing.T) {
	chk.PrintTitle("DimensionKindFor")
	s, ids := rectSketch()
	if k := s.DimensionKindFor(ids["bottom"]); k != DistanceX {
		tst.Fatalf("expected DistanceX for horizontal bottom line, got %v", k)
	}
	// the left edge is outside the axis snap tolerance, so it carries no
	// auto Vertical until one is added here.
	if _, err := s.AddConstraint(Constraint{Kind: Vertical, Driving: true, E1: ids["left"]}); err != nil {
		tst.Fatal(err)
	}
	if k := s.DimensionKindFor(ids["left"]); k != DistanceY {
		tst.Fatalf("expected DistanceY for vertical left line, got %v", k)
	}
}

func TestHoverPrecedence(tst *testing.T) {
	chk.PrintTitle("HoverPrecedence")
	s, ids := rectSketch()
	p0, _ := s.Point(ids["p0"])
	hover := s.UpdateHover(p0.Vec2())
	if hover.Kind != HoverPoint || hover.ID != ids["p0"] {
		tst.Fatalf("expected point hover at p0, got %+v", hover)
	}
}

func TestHoverConstraintLabel(tst *testing.T) {
	chk.PrintTitle("HoverConstraintLabel")
	s, ids := rectSketch()
	cid, err := s.AddConstraint(Constraint{Kind: Distance, Driving: true, P1: ids["p0"], P2: ids["p2"], Value: 4})
	if err != nil {
		tst.Fatal(err)
	}
	p0, _ := s.Point(ids["p0"])
	p2, _ := s.Point(ids["p2"])
	mid := p0.Vec2().Add(p2.Vec2()).Scale(0.5)
	hover := s.UpdateHover(mid)
	if hover.Kind != HoverConstraint || hover.ID != cid {
		tst.Fatalf("expected constraint hover at the Distance label midpoint, got %+v", hover)
	}
}

func TestSelectConstraintThenDelete(tst *testing.T) {
	chk.PrintTitle("SelectConstraintThenDelete")
	s, ids := rectSketch()
	cid, err := s.AddConstraint(Constraint{Kind: Distance, Driving: true, P1: ids["p0"], P2: ids["p2"], Value: 4})
	if err != nil {
		tst.Fatal(err)
	}
	p0, _ := s.Point(ids["p0"])
	p2, _ := s.Point(ids["p2"])
	mid := p0.Vec2().Add(p2.Vec2()).Scale(0.5)
	s.SetTool(ToolSelect)
	s.HandleClick(mid)
	if s.SelectedConID == nil || *s.SelectedConID != cid {
		tst.Fatalf("expected constraint label click to select constraint %d, got %+v", cid, s.SelectedConID)
	}
	if !s.DeleteSelected() {
		tst.Fatal("expected DeleteSelected to remove the selected constraint")
	}
	if _, ok := s.Constraint(cid); ok {
		tst.Fatal("expected constraint to be gone after DeleteSelected")
	}
}
