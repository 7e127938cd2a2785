package sketch

import "github.com/dporeiro/gosketch/geom"

// Point is a stable-id 2D point. Coordinates are mutable; Fixed points
// and points referenced by a FixedPoint constraint are excluded from
// the solver's free-variable set (see solve's buildVarMap).
type Point struct {
	ID    int
	X, Y  float64
	Fixed bool
}

// Vec2 returns the point's current position.
func (p *Point) Vec2() geom.Vec2 { return geom.Vec2{X: p.X, Y: p.Y} }

// Set assigns a new position.
func (p *Point) Set(v geom.Vec2) { p.X, p.Y = v.X, v.Y }
