package solve

import "github.com/dporeiro/gosketch/sketch"

// varMap maps point/radius degrees of freedom to equation numbers in
// the free-variable vector, the way fem/essenbcs.go's Eq2idx removes
// essential-boundary-condition equations from the global system: fixed
// points and FixedPoint-constrained points are simply never assigned
// an equation number, so they never appear as solver unknowns.
type varMap struct {
	pointEqX map[int]int // point id -> x equation index, absent if fixed
	pointEqY map[int]int // point id -> y equation index, absent if fixed
	radiusEq map[int]int // entity id -> radius equation index, absent if not free
	n        int         // total free-variable count
}

func buildVarMap(sk *sketch.Sketch) *varMap {
	vm := &varMap{
		pointEqX: map[int]int{},
		pointEqY: map[int]int{},
		radiusEq: map[int]int{},
	}
	fixed := map[int]bool{}
	for _, cid := range sk.Constraints() {
		c, _ := sk.Constraint(cid)
		if !c.Enabled {
			continue
		}
		if c.Kind == sketch.FixedPoint {
			fixed[c.P1] = true
		}
	}
	for _, pid := range sk.Points() {
		p, _ := sk.Point(pid)
		if p.Fixed || fixed[pid] {
			continue
		}
		vm.pointEqX[pid] = vm.n
		vm.n++
		vm.pointEqY[pid] = vm.n
		vm.n++
	}

	// Radius is free when referenced by Equal or FixedDistance involving
	// a circle/arc (spec §4.2). Distance names points only, so it never
	// frees a radius.
	radiusFree := map[int]bool{}
	for _, cid := range sk.Constraints() {
		c, _ := sk.Constraint(cid)
		if !c.Enabled {
			continue
		}
		switch c.Kind {
		case sketch.Equal, sketch.FixedDistance:
			for _, eid := range []int{c.E1, c.E2} {
				if e, ok := sk.Entity(eid); ok && (e.Kind == sketch.EntityCircle || e.Kind == sketch.EntityArc) {
					radiusFree[eid] = true
				}
			}
		}
	}
	for _, eid := range sk.Entities() {
		if radiusFree[eid] {
			vm.radiusEq[eid] = vm.n
			vm.n++
		}
	}
	return vm
}

// x reads the current free-variable vector from the sketch.
func (vm *varMap) x(sk *sketch.Sketch) []float64 {
	out := make([]float64, vm.n)
	for pid, eq := range vm.pointEqX {
		p, _ := sk.Point(pid)
		out[eq] = p.X
	}
	for pid, eq := range vm.pointEqY {
		p, _ := sk.Point(pid)
		out[eq] = p.Y
	}
	for eid, eq := range vm.radiusEq {
		e, _ := sk.Entity(eid)
		out[eq] = e.Radius
	}
	return out
}

// apply writes the free-variable vector back onto the sketch.
func (vm *varMap) apply(sk *sketch.Sketch, x []float64) {
	for pid, eq := range vm.pointEqX {
		p, _ := sk.Point(pid)
		p.X = x[eq]
	}
	for pid, eq := range vm.pointEqY {
		p, _ := sk.Point(pid)
		p.Y = x[eq]
	}
	for eid, eq := range vm.radiusEq {
		e, _ := sk.Entity(eid)
		e.Radius = x[eq]
	}
}
