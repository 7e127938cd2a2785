package sketch

import "github.com/dporeiro/gosketch/geom"

// SetTool switches the active tool, discarding any in-progress partial
// state (cancel semantics per spec §4.7: switching tools is one of the
// ways the "cancel tool" action can be reached).
func (s *Sketch) SetTool(kind ToolKind) {
	s.Tool = kind
	s.FirstPoint = nil
	s.SecondPoint = nil
}

// CancelTool aborts any partial tool state without changing the tool.
func (s *Sketch) CancelTool() {
	s.FirstPoint = nil
	s.SecondPoint = nil
}

// nearestPoint finds an existing point within hoverPixelTolerance of
// pos, for endpoint-snapping while drawing.
func (s *Sketch) nearestPoint(pos geom.Vec2) (int, bool) {
	best := -1
	bestD := hoverPixelTolerance
	for _, id := range s.pointOrder {
		d := s.points[id].Vec2().Distance(pos)
		if d < bestD {
			bestD = d
			best = id
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func (s *Sketch) pointAt(pos geom.Vec2) int {
	if id, ok := s.nearestPoint(pos); ok {
		return id
	}
	return s.AddPoint(pos.X, pos.Y, false)
}

// HandleClick dispatches to the active tool's partial-state machine
// (spec §4.1/§4.7).
func (s *Sketch) HandleClick(pos geom.Vec2) {
	switch s.Tool {
	case ToolSelect:
		s.handleSelectClick(pos)
	case ToolLine:
		s.handleLineClick(pos)
	case ToolCircle:
		s.handleCircleClick(pos)
	case ToolArc:
		s.handleArcClick(pos)
	case ToolDimension:
		s.handleDimensionClick(pos)
	}
}

func (s *Sketch) handleSelectClick(pos geom.Vec2) {
	hover := s.UpdateHover(pos)
	switch hover.Kind {
	case HoverPoint, HoverLine, HoverCircle, HoverArc:
		id := hover.ID
		s.SelectedEntID = &id
		s.SelectedConID = nil
	case HoverConstraint:
		id := hover.ID
		s.SelectedConID = &id
		s.SelectedEntID = nil
	default:
		s.SelectedEntID = nil
		s.SelectedConID = nil
	}
}

func (s *Sketch) handleLineClick(pos geom.Vec2) {
	id := s.pointAt(pos)
	if s.FirstPoint == nil {
		s.FirstPoint = &id
		return
	}
	first := *s.FirstPoint
	if first == id {
		return
	}
	s.AddLine(first, id)
	// chain: next line starts where this one ended
	s.FirstPoint = &id
}

func (s *Sketch) handleCircleClick(pos geom.Vec2) {
	if s.FirstPoint == nil {
		id := s.pointAt(pos)
		s.FirstPoint = &id
		return
	}
	center := s.points[*s.FirstPoint]
	radius := center.Vec2().Distance(pos)
	s.AddCircle(*s.FirstPoint, radius)
	s.FirstPoint = nil
}

func (s *Sketch) handleArcClick(pos geom.Vec2) {
	switch {
	case s.FirstPoint == nil:
		id := s.pointAt(pos)
		s.FirstPoint = &id
	case s.SecondPoint == nil:
		id := s.pointAt(pos)
		s.SecondPoint = &id
	default:
		id := s.pointAt(pos)
		s.AddArc(*s.FirstPoint, *s.SecondPoint, id)
		s.FirstPoint = nil
		s.SecondPoint = nil
	}
}

func (s *Sketch) handleDimensionClick(pos geom.Vec2) {
	hover := s.UpdateHover(pos)
	if s.FirstPoint == nil && hover.Kind == HoverPoint {
		id := hover.ID
		s.FirstPoint = &id
		return
	}
	if s.FirstPoint != nil && hover.Kind == HoverPoint {
		p1, p2 := *s.FirstPoint, hover.ID
		kind := Distance
		// if both points belong to a single line, respect its H/V status
		if lineID, ok := s.lineBetween(p1, p2); ok {
			kind = s.DimensionKindFor(lineID)
		}
		c := Constraint{Kind: kind, Driving: true, P1: p1, P2: p2}
		s.AddConstraint(c)
		s.FirstPoint = nil
		return
	}
	if hover.Kind == HoverCircle || hover.Kind == HoverArc {
		c := Constraint{Kind: FixedDistance, Driving: false, E1: hover.ID}
		s.AddConstraint(c)
	}
}

func (s *Sketch) lineBetween(p1, p2 int) (int, bool) {
	for _, eid := range s.entityOrder {
		e := s.entities[eid]
		if e.Kind != EntityLine {
			continue
		}
		if (e.P1 == p1 && e.P2 == p2) || (e.P1 == p2 && e.P2 == p1) {
			return eid, true
		}
	}
	return 0, false
}

// UpdateCursor records the current preview cursor position.
func (s *Sketch) UpdateCursor(pos geom.Vec2) { s.Cursor = pos }

// StartDragDimension marks a constraint as drag-pending (actual drag
// only begins once interact.DragThreshold is exceeded — see package
// interact).
func (s *Sketch) StartDragDimension(id int, pos geom.Vec2) {
	s.draggingConID = &id
	s.dragStart = pos
}

// UpdateDragDimension is a no-op placeholder for dimension-offset drag;
// offsets are a rendering concern outside the core's data model, but
// the drag-in-progress id is tracked here so interact can query it.
func (s *Sketch) UpdateDragDimension(pos geom.Vec2) {}

// StopDragDimension ends a dimension drag.
func (s *Sketch) StopDragDimension() { s.draggingConID = nil }

// DraggingConstraint reports the constraint currently being dragged, if any.
func (s *Sketch) DraggingConstraint() (int, bool) {
	if s.draggingConID == nil {
		return 0, false
	}
	return *s.draggingConID, true
}
