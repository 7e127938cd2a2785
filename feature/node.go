// Package feature implements the feature history DAG (spec §4.4): an
// ordered, topologically-consistent sequence of Sketch/Extrude/Revolve/
// Cut nodes with dirty propagation and on-demand regeneration.
// Grounded on fem/domain.go's Domain (an ordered, id-keyed collection of
// derived state rebuilt per stage) generalized from "one FE domain per
// simulation stage" to "one node per feature, topologically ordered,
// individually dirty-trackable", and on fem/element.go's kind-keyed
// dispatch table for per-kind regeneration.
package feature

import (
	"github.com/dporeiro/gosketch/sketch"
	"github.com/dporeiro/gosketch/solid"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	SketchFeature Kind = iota
	ExtrudeFeature
	RevolveFeature
	CutFeature
)

func (k Kind) String() string {
	switch k {
	case SketchFeature:
		return "Sketch"
	case ExtrudeFeature:
		return "Extrude"
	case RevolveFeature:
		return "Revolve"
	case CutFeature:
		return "Cut"
	default:
		return "Unknown"
	}
}

// Node is one entry in the feature tree. Unused fields for a given Kind
// are zero, the same tagged-variant convention sketch.Entity uses.
type Node struct {
	ID   int
	Kind Kind
	Name string

	Sketch *sketch.Sketch // owned sketch, only set for SketchFeature

	SketchID      int // Extrude/Revolve: input sketch feature id. Cut: tool sketch feature id.
	BaseFeatureID int // Cut: base feature id being subtracted from.

	Depth     float64
	Direction solid.Direction
	Angle     float64
	Segments  int
	AxisKind  solid.AxisKind

	Dirty   bool
	Result  *solid.Solid
	Enabled bool // suppressed features regenerate to no geometry (spec §3)
	Visible bool // hidden features are omitted from STL export (spec §3/§6)
}
