// Package profile implements the sketch profile detector (spec §4.3): a
// graph walk over a sketch's Line/Arc entities that extracts closed and
// open boundary loops. It is a free function rather than a Sketch
// method because it imports package sketch and package sketch must
// never import package profile (that would be a cycle) — the
// asymmetry is the same "one layer knows about the other, never both"
// rule gofem's fem package applies to shp/mconduct/etc.
package profile

import (
	"strconv"

	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/katalvlaran/lvlath/core"
)

// Kind classifies a detected profile.
type Kind int

const (
	Closed Kind = iota
	Open
)

func (k Kind) String() string {
	if k == Closed {
		return "Closed"
	}
	return "Open"
}

// Profile is a transient result of detection: an ordered boundary,
// never sharing storage with the sketch's own entities/points (spec §3).
type Profile struct {
	EntityIDs []int
	PointIDs  []int
	Kind      Kind
}

// boundaryGraph wraps a lvlath/core.Graph with the side maps the
// multigraph's string-keyed vertices/edges need to round-trip back to
// sketch point/entity ids (core.Edge.Weight is the wrong shape to carry
// an entity id, so it's tracked alongside instead).
type boundaryGraph struct {
	g          *core.Graph
	edgeEntity map[string]int // edge id -> entity id
	entityEdge map[int]string // entity id -> edge id
	edgeEnds   map[string][2]string
}

func ptVertex(pointID int) string { return strconv.Itoa(pointID) }

func vertexPoint(v string) int {
	id, _ := strconv.Atoi(v)
	return id
}

// buildGraph adds one vertex per boundary point and one edge per
// enabled Line/Arc entity (Circles are handled separately as singleton
// closed profiles — spec §4.3). Degenerate zero-length edges are
// skipped so they can never anchor or poison a walk.
func buildGraph(sk *sketch.Sketch) *boundaryGraph {
	bg := &boundaryGraph{
		g:          core.NewGraph(core.WithMultiEdges()),
		edgeEntity: map[string]int{},
		entityEdge: map[int]string{},
		edgeEnds:   map[string][2]string{},
	}
	for _, eid := range sk.Entities() {
		e, _ := sk.Entity(eid)
		if !e.Enabled || e.Kind == sketch.EntityCircle {
			continue
		}
		p1, p2 := e.P1, e.P2
		a, _ := sk.Point(p1)
		b, _ := sk.Point(p2)
		if a.Vec2().Distance(b.Vec2()) < geom.ZeroLengthEps {
			continue
		}
		va, vb := ptVertex(p1), ptVertex(p2)
		if !bg.g.HasVertex(va) {
			bg.g.AddVertex(va)
		}
		if !bg.g.HasVertex(vb) {
			bg.g.AddVertex(vb)
		}
		edgeID, err := bg.g.AddEdge(va, vb, 0)
		if err != nil {
			continue
		}
		bg.edgeEntity[edgeID] = eid
		bg.entityEdge[eid] = edgeID
		bg.edgeEnds[edgeID] = [2]string{va, vb}
	}
	return bg
}

func (bg *boundaryGraph) other(edgeID, vertex string) string {
	ends := bg.edgeEnds[edgeID]
	if ends[0] == vertex {
		return ends[1]
	}
	return ends[0]
}

// Detect runs the profile detector over sk: every enabled Circle is a
// singleton closed profile, every connected component of the
// Line/Arc boundary graph is reduced to closed loops (degree-2 walks,
// smallest-left-turn at branch vertices) and leftover open chains
// (spec §4.3).
func Detect(sk *sketch.Sketch) []Profile {
	var out []Profile
	for _, eid := range sk.Entities() {
		e, _ := sk.Entity(eid)
		if e.Enabled && e.Kind == sketch.EntityCircle {
			out = append(out, Profile{EntityIDs: []int{eid}, PointIDs: []int{e.Center}, Kind: Closed})
		}
	}
	bg := buildGraph(sk)
	closedProfiles, consumed := walkClosedLoops(sk, bg)
	out = append(out, closedProfiles...)
	out = append(out, walkOpenChains(bg, sk, consumed)...)
	return out
}
