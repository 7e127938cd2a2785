package feature

import (
	"math"

	"github.com/cpmech/gosl/utl"
	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/profile"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/dporeiro/gosketch/solid"
)

// circleSegments is how finely a Circle profile is sampled into a
// polygon before extrude/revolve tessellation, since BuildExtrude and
// BuildRevolve both consume an ordered point loop rather than a
// center+radius pair.
const circleSegments = 32

// Tree owns the feature DAG: one node per Sketch/Extrude/Revolve/Cut
// operation, in creation order (which is always a valid topological
// order, since a feature can only reference ids that already exist).
type Tree struct {
	nodes  map[int]*Node
	order  []int
	nextID int

	// Kernel backs Cut's external mesh-boolean step (spec §4.4); nil
	// until a caller supplies one, in which case Cut fails closed.
	Kernel solid.MeshBooleanKernel
}

// NewTree allocates an empty feature tree.
func NewTree() *Tree {
	return &Tree{nodes: map[int]*Node{}}
}

func (t *Tree) add(n *Node) int {
	n.ID = t.nextID
	t.nextID++
	n.Dirty = true
	n.Enabled = true
	n.Visible = true
	t.nodes[n.ID] = n
	t.order = append(t.order, n.ID)
	return n.ID
}

// SetEnabled suppresses or restores a feature (spec §3's "enabled"
// flag): a suppressed feature regenerates to no geometry without being
// removed from the tree, and marking it dirty propagates to dependents
// so they rebuild around its absence.
func (t *Tree) SetEnabled(id int, enabled bool) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	n.Enabled = enabled
	t.MarkDirty(id)
	return true
}

// SetVisible toggles a feature's visibility (spec §3/§6): hidden
// features are omitted from ExportTree but keep contributing their
// Result to dependents, the same way a consumed Cut base stays
// reachable through the Cut that consumed it.
func (t *Tree) SetVisible(id int, visible bool) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	n.Visible = visible
	return true
}

// AddSketch registers sk as a new Sketch feature and returns its id.
// The tree takes ownership of sk (spec §3).
func (t *Tree) AddSketch(sk *sketch.Sketch, name string) int {
	return t.add(&Node{Kind: SketchFeature, Name: name, Sketch: sk})
}

// AddExtrude registers an Extrude feature consuming sketchID's first
// closed profile.
func (t *Tree) AddExtrude(sketchID int, depth float64, direction solid.Direction, name string) (int, error) {
	if _, ok := t.nodes[sketchID]; !ok {
		return 0, &InvalidReference{sketchID}
	}
	return t.add(&Node{Kind: ExtrudeFeature, Name: name, SketchID: sketchID, Depth: depth, Direction: direction}), nil
}

// AddRevolve registers a Revolve feature.
func (t *Tree) AddRevolve(sketchID int, angle float64, segments int, axisKind solid.AxisKind, name string) (int, error) {
	if _, ok := t.nodes[sketchID]; !ok {
		return 0, &InvalidReference{sketchID}
	}
	return t.add(&Node{Kind: RevolveFeature, Name: name, SketchID: sketchID, Angle: angle, Segments: segments, AxisKind: axisKind}), nil
}

// AddCut registers a Cut feature subtracting toolSketchID's tool solid
// from baseFeatureID's result; baseFeatureID becomes a consumed
// feature (spec §4.4).
func (t *Tree) AddCut(toolSketchID, baseFeatureID int, depth float64, direction solid.Direction, name string) (int, error) {
	if _, ok := t.nodes[toolSketchID]; !ok {
		return 0, &InvalidReference{toolSketchID}
	}
	if _, ok := t.nodes[baseFeatureID]; !ok {
		return 0, &InvalidReference{baseFeatureID}
	}
	return t.add(&Node{Kind: CutFeature, Name: name, SketchID: toolSketchID, BaseFeatureID: baseFeatureID, Depth: depth, Direction: direction}), nil
}

// InvalidReference is returned when a feature operation names an id not
// present in the tree.
type InvalidReference struct{ ID int }

func (e *InvalidReference) Error() string {
	return utl.Sf("feature: invalid feature reference: %d", e.ID)
}

// Get looks up a node by id.
func (t *Tree) Get(id int) (*Node, bool) { n, ok := t.nodes[id]; return n, ok }

// Order returns every feature id in creation (topological) order.
func (t *Tree) Order() []int { return append([]int(nil), t.order...) }

// CountType returns how many nodes of the given kind exist.
func (t *Tree) CountType(kind Kind) int {
	n := 0
	for _, id := range t.order {
		if t.nodes[id].Kind == kind {
			n++
		}
	}
	return n
}

// predecessors lists the feature ids a node's regeneration depends on.
func predecessors(n *Node) []int {
	switch n.Kind {
	case ExtrudeFeature, RevolveFeature:
		return []int{n.SketchID}
	case CutFeature:
		return []int{n.SketchID, n.BaseFeatureID}
	default:
		return nil
	}
}

// MarkDirty sets dirty on id and every feature transitively dependent
// on it (BFS forward along the dependents-of relation, derived on
// demand by scanning every node's predecessors — spec §4.4).
func (t *Tree) MarkDirty(id int) {
	visited := map[int]bool{id: true}
	queue := []int{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if n, ok := t.nodes[cur]; ok {
			n.Dirty = true
		}
		for _, other := range t.order {
			if visited[other] {
				continue
			}
			for _, pid := range predecessors(t.nodes[other]) {
				if pid == cur {
					visited[other] = true
					queue = append(queue, other)
					break
				}
			}
		}
	}
}

// ConsumedFeatures returns the set of feature ids used as a Cut's base
// input, derived on demand (spec §4.4): consumed features are hidden
// from the default output set, but their solids remain reachable
// through the Cut that consumed them.
func (t *Tree) ConsumedFeatures() map[int]bool {
	consumed := map[int]bool{}
	for _, id := range t.order {
		if n := t.nodes[id]; n.Kind == CutFeature {
			consumed[n.BaseFeatureID] = true
		}
	}
	return consumed
}

// Regenerate ensures id's predecessors are up to date (recursive
// pre-order) then rebuilds id's own result if it is dirty; a clean
// feature is a cache hit and is not rebuilt (spec §4.4).
func (t *Tree) Regenerate(id int) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	if !n.Dirty {
		return true
	}
	for _, pid := range predecessors(n) {
		if !t.Regenerate(pid) {
			return false
		}
	}
	ok = t.rebuild(n)
	if ok {
		n.Dirty = false
	} else {
		n.Result = nil
	}
	return ok
}

// RegenerateAll walks every feature in topological (creation) order,
// regenerating each dirty feature once.
func (t *Tree) RegenerateAll() {
	for _, id := range t.order {
		t.Regenerate(id)
	}
}

// Print is a diagnostic dump in fem/solver.go's utl.Pf-tabular style.
func (t *Tree) Print() {
	consumed := t.ConsumedFeatures()
	utl.Pf("%6s%12s%16s%8s%10s\n", "id", "kind", "name", "dirty", "consumed")
	for _, id := range t.order {
		n := t.nodes[id]
		utl.Pf("%6d%12s%16s%8v%10v\n", n.ID, n.Kind, n.Name, n.Dirty, consumed[n.ID])
	}
}

func (t *Tree) rebuild(n *Node) bool {
	if n.Kind != SketchFeature && !n.Enabled {
		n.Result = nil
		return true
	}
	switch n.Kind {
	case SketchFeature:
		return true
	case ExtrudeFeature:
		return t.rebuildExtrude(n)
	case RevolveFeature:
		return t.rebuildRevolve(n)
	case CutFeature:
		return t.rebuildCut(n)
	default:
		return false
	}
}

func (t *Tree) rebuildExtrude(n *Node) bool {
	poly, plane, ok := firstClosedProfilePolygon(t, n.SketchID)
	if !ok {
		return false
	}
	n.Result = solid.BuildExtrude(poly, plane, n.Depth, n.Direction)
	return true
}

func (t *Tree) rebuildRevolve(n *Node) bool {
	poly, plane, ok := firstClosedProfilePolygon(t, n.SketchID)
	if !ok {
		return false
	}
	n.Result = solid.BuildRevolve(poly, plane, n.AxisKind, n.Angle, n.Segments)
	return true
}

func (t *Tree) rebuildCut(n *Node) bool {
	if t.Kernel == nil {
		return false
	}
	poly, plane, ok := firstClosedProfilePolygon(t, n.SketchID)
	if !ok {
		return false
	}
	base := t.nodes[n.BaseFeatureID]
	if base.Result == nil {
		return false
	}
	result, err := solid.Cut(base.Result, poly, plane, n.Depth, n.Direction, t.Kernel)
	if err != nil {
		return false
	}
	n.Result = result
	return true
}

// firstClosedProfilePolygon resolves sketchFeatureID to its owned
// sketch, runs the profile detector, and converts the first Closed
// profile into a plain point loop (sampling Circle profiles into a
// polygon, since BuildExtrude/BuildRevolve need an ordered loop rather
// than a center+radius pair).
func firstClosedProfilePolygon(t *Tree, sketchFeatureID int) ([]geom.Vec2, geom.Plane, bool) {
	node, ok := t.nodes[sketchFeatureID]
	if !ok || node.Kind != SketchFeature {
		return nil, geom.Plane{}, false
	}
	sk := node.Sketch
	for _, p := range profile.Detect(sk) {
		if p.Kind != profile.Closed {
			continue
		}
		if len(p.EntityIDs) == 1 {
			if e, ok := sk.Entity(p.EntityIDs[0]); ok && e.Kind == sketch.EntityCircle {
				return circlePolygon(sk, p.PointIDs[0], e.Radius), sk.Plane, true
			}
		}
		poly := make([]geom.Vec2, len(p.PointIDs))
		for i, pid := range p.PointIDs {
			pt, _ := sk.Point(pid)
			poly[i] = pt.Vec2()
		}
		return poly, sk.Plane, true
	}
	return nil, geom.Plane{}, false
}

func circlePolygon(sk *sketch.Sketch, centerID int, radius float64) []geom.Vec2 {
	c, _ := sk.Point(centerID)
	pts := make([]geom.Vec2, circleSegments)
	for i := 0; i < circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(circleSegments)
		pts[i] = geom.Vec2{X: c.X + radius*math.Cos(theta), Y: c.Y + radius*math.Sin(theta)}
	}
	return pts
}
