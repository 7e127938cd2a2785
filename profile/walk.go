package profile

import (
	"math"

	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/katalvlaran/lvlath/core"
)

func pointCoord(sk *sketch.Sketch, pointID int) geom.Vec2 {
	p, _ := sk.Point(pointID)
	return p.Vec2()
}

func remainingDegree(bg *boundaryGraph, consumed map[string]bool, vertex string) int {
	neighbors, err := bg.g.Neighbors(vertex)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range neighbors {
		if !consumed[e.ID] {
			n++
		}
	}
	return n
}

// smallestLeftTurn picks, among candidates incident at atVertex, the one
// whose outgoing direction requires the smallest counterclockwise
// rotation from the direction of travel on inEdge (spec §4.3's
// branch-vertex rule). lvlath's Graph has no notion of planar
// orientation; this is the domain-specific layer on top of it.
func smallestLeftTurn(sk *sketch.Sketch, bg *boundaryGraph, inEdge, atVertex string, candidates []*core.Edge) *core.Edge {
	from := bg.other(inEdge, atVertex)
	inDir := pointCoord(sk, vertexPoint(atVertex)).Sub(pointCoord(sk, vertexPoint(from)))

	best := candidates[0]
	bestTurn := math.Inf(1)
	for _, cand := range candidates {
		to := bg.other(cand.ID, atVertex)
		outDir := pointCoord(sk, vertexPoint(to)).Sub(pointCoord(sk, vertexPoint(atVertex)))
		turn := math.Atan2(inDir.Cross(outDir), inDir.Dot(outDir))
		if turn < 0 {
			turn += 2 * math.Pi
		}
		if turn < bestTurn {
			bestTurn = turn
			best = cand
		}
	}
	return best
}

// walkLoop follows degree-2 passthrough vertices (resolving branches via
// smallestLeftTurn) starting from start along firstEdge, stopping when
// it returns to start (closed) or runs out of unconsumed continuations
// (open).
func walkLoop(sk *sketch.Sketch, bg *boundaryGraph, consumed map[string]bool, start, firstEdge string) (path []string, closed bool) {
	path = []string{firstEdge}
	prevEdge := firstEdge
	cur := bg.other(firstEdge, start)
	maxSteps := len(bg.edgeEntity) + 2
	for step := 0; step < maxSteps; step++ {
		if cur == start {
			return path, true
		}
		neighbors, err := bg.g.Neighbors(cur)
		if err != nil {
			return path, false
		}
		var candidates []*core.Edge
		for _, e := range neighbors {
			if e.ID == prevEdge || consumed[e.ID] {
				continue
			}
			candidates = append(candidates, e)
		}
		if len(candidates) == 0 {
			return path, false
		}
		var chosen *core.Edge
		if len(candidates) == 1 {
			chosen = candidates[0]
		} else {
			chosen = smallestLeftTurn(sk, bg, prevEdge, cur, candidates)
		}
		path = append(path, chosen.ID)
		prevEdge = chosen.ID
		cur = bg.other(chosen.ID, cur)
	}
	return path, false
}

// buildProfile turns an edge path starting at vertex start into a
// Profile, enforcing counterclockwise orientation via the signed
// shoelace area (spec §4.3).
func buildProfile(sk *sketch.Sketch, bg *boundaryGraph, path []string, start string, kind Kind) Profile {
	entityIDs := make([]int, len(path))
	pointIDs := make([]int, 0, len(path)+1)
	v := start
	for i, e := range path {
		entityIDs[i] = bg.edgeEntity[e]
		pointIDs = append(pointIDs, vertexPoint(v))
		v = bg.other(e, v)
	}
	if kind == Open {
		pointIDs = append(pointIDs, vertexPoint(v))
	}
	if kind == Closed {
		pts := make([]geom.Vec2, len(pointIDs))
		for i, pid := range pointIDs {
			pts[i] = pointCoord(sk, pid)
		}
		if geom.SignedArea2D(pts) < 0 {
			reverseInts(entityIDs)
			reverseInts(pointIDs)
		}
	}
	return Profile{EntityIDs: entityIDs, PointIDs: pointIDs, Kind: kind}
}

func reverseInts(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// walkClosedLoops repeatedly finds a degree-2 vertex with an unconsumed
// incident edge and walks it; a successful closure consumes every edge
// on the loop so later passes never revisit it.
func walkClosedLoops(sk *sketch.Sketch, bg *boundaryGraph) ([]Profile, map[string]bool) {
	consumed := map[string]bool{}
	var out []Profile
	changed := true
	for changed {
		changed = false
		for _, eid := range sk.Entities() {
			edgeID, ok := bg.entityEdge[eid]
			if !ok || consumed[edgeID] {
				continue
			}
			ends := bg.edgeEnds[edgeID]
			for _, start := range ends {
				if remainingDegree(bg, consumed, start) != 2 {
					continue
				}
				path, closed := walkLoop(sk, bg, consumed, start, edgeID)
				if !closed {
					continue
				}
				out = append(out, buildProfile(sk, bg, path, start, Closed))
				for _, e := range path {
					consumed[e] = true
				}
				changed = true
				break
			}
			if changed {
				break
			}
		}
	}
	return out, consumed
}

// walkOpenChains collects every edge the closed-loop pass left
// unconsumed into open profiles. Each walk begins at the first
// unconsumed edge in entity-id order, from that edge's first end unless
// only its second end is a dead end, and runs in one direction only, so
// one connected component can yield several open profiles.
func walkOpenChains(bg *boundaryGraph, sk *sketch.Sketch, consumed map[string]bool) []Profile {
	var out []Profile
	changed := true
	for changed {
		changed = false
		for _, eid := range sortedEntityIDs(bg) {
			edgeID, ok := bg.entityEdge[eid]
			if !ok || consumed[edgeID] {
				continue
			}
			ends := bg.edgeEnds[edgeID]
			start := ends[0]
			if remainingDegree(bg, consumed, ends[1]) == 1 && remainingDegree(bg, consumed, ends[0]) != 1 {
				start = ends[1]
			}
			path, _ := walkLoop(sk, bg, consumed, start, edgeID)
			out = append(out, buildProfile(sk, bg, path, start, Open))
			for _, e := range path {
				consumed[e] = true
			}
			changed = true
			break
		}
	}
	return out
}

func sortedEntityIDs(bg *boundaryGraph) []int {
	ids := make([]int, 0, len(bg.entityEdge))
	for eid := range bg.entityEdge {
		ids = append(ids, eid)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
