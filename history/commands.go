package history

import "github.com/dporeiro/gosketch/sketch"

// AddLineCommand adds a line between two existing points, per spec
// §4.6's example: it stores a sketch reference, the two endpoint ids,
// and the new entity id, with no aliased geometry. Undo removes the
// entity and any constraint the AddLine call auto-attached to it.
type AddLineCommand struct {
	Sk         *sketch.Sketch
	P1, P2     int
	entityID   int
	autoConIDs []int
}

// Execute adds the line and records which auto-attached constraints
// (Horizontal/Vertical) appeared so Undo can remove them too.
func (c *AddLineCommand) Execute() {
	before := map[int]bool{}
	for _, cid := range c.Sk.Constraints() {
		before[cid] = true
	}
	id, err := c.Sk.AddLine(c.P1, c.P2)
	if err != nil {
		return
	}
	c.entityID = id
	for _, cid := range c.Sk.Constraints() {
		if !before[cid] {
			c.autoConIDs = append(c.autoConIDs, cid)
		}
	}
}

// Undo removes the entity at entityID and any constraints Execute
// recorded as auto-attached.
func (c *AddLineCommand) Undo() {
	for _, cid := range c.autoConIDs {
		c.Sk.RemoveConstraint(cid)
	}
	c.autoConIDs = nil
	c.Sk.SelectedEntID = &c.entityID
	c.Sk.DeleteSelected()
}

// AddConstraintCommand adds a constraint and undoes by removing it by id.
type AddConstraintCommand struct {
	Sk      *sketch.Sketch
	Payload sketch.Constraint
	id      int
}

func (c *AddConstraintCommand) Execute() {
	id, err := c.Sk.AddConstraint(c.Payload)
	if err != nil {
		return
	}
	c.id = id
}

func (c *AddConstraintCommand) Undo() {
	c.Sk.RemoveConstraint(c.id)
}

// DeletePointCommand deletes a point and everything that cascades from
// it, recording the point's coordinates and Fixed flag. Undo adds a new
// point with those values under a fresh id; the old id is not reused.
// Only the point's own coordinates are restorable here — cascaded
// entities/constraints are not reconstructed, the same
// "no partial result is published" failure posture feature.Regenerate
// uses: a deep undo of a cascading delete is a feature this layer does
// not attempt.
type DeletePointCommand struct {
	Sk           *sketch.Sketch
	PointID      int
	x, y         float64
	fixed        bool
	existedAfter bool
}

func (c *DeletePointCommand) Execute() {
	if p, ok := c.Sk.Point(c.PointID); ok {
		c.x, c.y, c.fixed = p.X, p.Y, p.Fixed
		c.existedAfter = c.Sk.DeletePoint(c.PointID)
	}
}

func (c *DeletePointCommand) Undo() {
	if !c.existedAfter {
		return
	}
	c.Sk.AddPoint(c.x, c.y, c.fixed)
}
