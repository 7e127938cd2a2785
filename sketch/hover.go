package sketch

import "github.com/dporeiro/gosketch/geom"

// UpdateHover runs a proximity test at pos (already projected from
// pixels to sketch units by the caller) and returns the topmost hit
// under the precedence order: Point > LineEndpointHandle >
// RadiusHandle > Constraint label > Line/Circle/Arc body. Ties within
// a tier are broken by the smaller distance. Hover is independent of
// selection (spec §4.1).
func (s *Sketch) UpdateHover(pos geom.Vec2) HoverState {
	if id, ok := s.closestPoint(pos); ok {
		s.Hover = HoverState{Kind: HoverPoint, ID: id}
		return s.Hover
	}
	if id, ok := s.closestLineEndpointHandle(pos); ok {
		s.Hover = HoverState{Kind: HoverLineEndpointHandle, ID: id}
		return s.Hover
	}
	if id, ok := s.closestRadiusHandle(pos); ok {
		s.Hover = HoverState{Kind: HoverRadiusHandle, ID: id}
		return s.Hover
	}
	if id, ok := s.closestConstraintLabel(pos); ok {
		s.Hover = HoverState{Kind: HoverConstraint, ID: id}
		return s.Hover
	}
	if kind, id, ok := s.closestEntityBody(pos); ok {
		s.Hover = HoverState{Kind: kind, ID: id}
		return s.Hover
	}
	s.Hover = HoverState{Kind: HoverNone}
	return s.Hover
}

func (s *Sketch) closestPoint(pos geom.Vec2) (int, bool) {
	return s.nearestPoint(pos)
}

// closestLineEndpointHandle treats a line's endpoints as draggable
// handles distinct from the generic point hit-test above. In this model
// every line or arc endpoint is a sketch point, already reported by the
// point tier, so this tier never reports a hit (for arcs included) and
// the two tiers never double-report the same id.
func (s *Sketch) closestLineEndpointHandle(pos geom.Vec2) (int, bool) {
	return 0, false
}

func (s *Sketch) closestRadiusHandle(pos geom.Vec2) (int, bool) {
	best := -1
	bestD := hoverPixelTolerance
	for _, eid := range s.entityOrder {
		e := s.entities[eid]
		var center geom.Vec2
		var radius float64
		switch e.Kind {
		case EntityCircle:
			center = s.points[e.Center].Vec2()
			radius = e.Radius
		case EntityArc:
			center = s.points[e.Center].Vec2()
			radius = center.Distance(s.points[e.P1].Vec2())
		default:
			continue
		}
		handlePos := center.Add(geom.Vec2{X: radius, Y: 0})
		d := handlePos.Distance(pos)
		if d < bestD {
			bestD = d
			best = eid
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// closestConstraintLabel hit-tests a default label carrier position for
// every enabled constraint: the centroid of the points it directly
// references, falling back to the centroid of its referenced entities'
// points (spec §4.1/§4.7 list Constraint(id) as a hover result; a real
// renderer may offset a label from this point for legibility, but the
// core needs a position to hit-test against regardless).
func (s *Sketch) closestConstraintLabel(pos geom.Vec2) (int, bool) {
	best := -1
	bestD := hoverPixelTolerance
	for _, cid := range s.constraintOrder {
		c := s.constraints[cid]
		if !c.Enabled {
			continue
		}
		p, ok := s.constraintLabelPos(c)
		if !ok {
			continue
		}
		d := p.Distance(pos)
		if d < bestD {
			bestD = d
			best = cid
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// constraintLabelPos computes the default label carrier position for c:
// the centroid of the points its payload names directly, or, for
// entity-referencing kinds (Horizontal, Vertical, Angle, ...), the
// centroid of the points those entities reference.
func (s *Sketch) constraintLabelPos(c *Constraint) (geom.Vec2, bool) {
	var sum geom.Vec2
	n := 0
	for _, pid := range c.pointRefs() {
		p, ok := s.points[pid]
		if !ok {
			continue
		}
		sum = sum.Add(p.Vec2())
		n++
	}
	if n == 0 {
		for _, eid := range c.entityRefs() {
			e, ok := s.entities[eid]
			if !ok {
				continue
			}
			for _, pid := range e.Points() {
				p, ok := s.points[pid]
				if !ok {
					continue
				}
				sum = sum.Add(p.Vec2())
				n++
			}
		}
	}
	if n == 0 {
		return geom.Vec2{}, false
	}
	return sum.Scale(1 / float64(n)), true
}

func (s *Sketch) closestEntityBody(pos geom.Vec2) (HoverKind, int, bool) {
	best := -1
	bestKind := HoverNone
	bestD := hoverPixelTolerance
	for _, eid := range s.entityOrder {
		e := s.entities[eid]
		var d float64
		var kind HoverKind
		switch e.Kind {
		case EntityLine:
			d = distanceToSegment(s.points[e.P1].Vec2(), s.points[e.P2].Vec2(), pos)
			kind = HoverLine
		case EntityCircle:
			c := s.points[e.Center].Vec2()
			d = absf(c.Distance(pos) - e.Radius)
			kind = HoverCircle
		case EntityArc:
			c := s.points[e.Center].Vec2()
			r := c.Distance(s.points[e.P1].Vec2())
			d = absf(c.Distance(pos) - r)
			kind = HoverArc
		}
		if d < bestD {
			bestD = d
			best = eid
			bestKind = kind
		}
	}
	if best < 0 {
		return HoverNone, 0, false
	}
	return bestKind, best, true
}

func distanceToSegment(a, b, p geom.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < geom.ZeroLengthEps {
		return a.Distance(p)
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := a.Add(ab.Scale(t))
	return proj.Distance(p)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
