package profile

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/stretchr/testify/require"
)

func square(sk *sketch.Sketch) []int {
	p0 := sk.AddPoint(0, 0, true)
	p1 := sk.AddPoint(2, 0, false)
	p2 := sk.AddPoint(2, 2, false)
	p3 := sk.AddPoint(0, 2, false)
	sk.AddLine(p0, p1)
	sk.AddLine(p1, p2)
	sk.AddLine(p2, p3)
	sk.AddLine(p3, p0)
	return []int{p0, p1, p2, p3}
}

func TestSquareYieldsOneClosedProfile(tst *testing.T) {
	chk.PrintTitle("SquareYieldsOneClosedProfile")
	sk := sketch.NewSketch("s", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	square(sk)
	profiles := Detect(sk)
	closed := 0
	for _, p := range profiles {
		if p.Kind == Closed {
			closed++
			require.Lenf(tst, p.EntityIDs, 4, "expected 4 entities")
			require.Lenf(tst, p.PointIDs, 4, "expected 4 points")
		}
	}
	require.Equal(tst, 1, closed, "expected exactly one Closed profile")
}

func TestSquarePlusStrayLineYieldsClosedAndOpen(tst *testing.T) {
	chk.PrintTitle("SquarePlusStrayLineYieldsClosedAndOpen")
	sk := sketch.NewSketch("s", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	square(sk)
	a := sk.AddPoint(10, 10, false)
	b := sk.AddPoint(11, 10, false)
	sk.AddLine(a, b)

	profiles := Detect(sk)
	var closed, open int
	for _, p := range profiles {
		if p.Kind == Closed {
			closed++
		} else {
			open++
		}
	}
	require.Equal(tst, 1, closed, "expected exactly one Closed profile")
	require.Equal(tst, 1, open, "expected exactly one Open profile")
}

func TestClosedProfileIsCounterclockwise(tst *testing.T) {
	chk.PrintTitle("ClosedProfileIsCounterclockwise")
	sk := sketch.NewSketch("s", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	// clockwise winding on input
	p0 := sk.AddPoint(0, 0, true)
	p1 := sk.AddPoint(0, 2, false)
	p2 := sk.AddPoint(2, 2, false)
	p3 := sk.AddPoint(2, 0, false)
	sk.AddLine(p0, p1)
	sk.AddLine(p1, p2)
	sk.AddLine(p2, p3)
	sk.AddLine(p3, p0)

	profiles := Detect(sk)
	for _, p := range profiles {
		if p.Kind != Closed {
			continue
		}
		pts := make([]geom.Vec2, len(p.PointIDs))
		for i, pid := range p.PointIDs {
			pt, _ := sk.Point(pid)
			pts[i] = pt.Vec2()
		}
		require.Greater(tst, geom.SignedArea2D(pts), 0.0, "expected counterclockwise orientation")
	}
}

func TestCircleIsSingletonClosedProfile(tst *testing.T) {
	chk.PrintTitle("CircleIsSingletonClosedProfile")
	sk := sketch.NewSketch("s", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	center := sk.AddPoint(0, 0, true)
	sk.AddCircle(center, 5)
	profiles := Detect(sk)
	require.Len(tst, profiles, 1, "expected a single singleton circle profile")
	require.Equal(tst, Closed, profiles[0].Kind)
	require.Len(tst, profiles[0].EntityIDs, 1)
}
