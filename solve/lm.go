// Package solve implements the Levenberg-Marquardt constraint solver
// that drives a sketch's free point/radius variables to satisfy its
// enabled, driving constraints (spec §4.2). The iteration loop mirrors
// fem/solver.go's run_iterations: assemble a residual vector and
// Jacobian, check convergence, solve a damped normal-equations step,
// and log a per-iteration trace in the same tabular style.
package solve

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
	"github.com/dporeiro/gosketch/sketch"
)

// Status classifies the outcome of a solve.
type Status int

const (
	Success Status = iota
	Underconstrained
	Overconstrained
	MaxIterations
	NumericalError
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case Underconstrained:
		return "Underconstrained"
	case Overconstrained:
		return "Overconstrained"
	case MaxIterations:
		return "MaxIterations"
	case NumericalError:
		return "NumericalError"
	default:
		return "Unknown"
	}
}

// Result is the public contract of Solve (spec §4.2).
type Result struct {
	Status        Status
	Iterations    int
	FinalResidual float64
	Message       string
}

const maxRetries = 60 // bounds the inner λ-growth retry loop per accepted step

// These default to spec §4.2/§6's values but are plain package vars
// rather than consts so config.Apply can retune them at startup (the
// way inp.Data's Wlevel/NoDiv etc. retune fem/solver.go's behavior
// without touching its source).
var (
	MaxAcceptedSteps = 100
	Lambda0          = 1e-3
	LambdaFloor      = 1e-9
	LambdaCap        = 1e9
	ConvergenceEps   = 1e-8
)

// Verbose enables the fem/solver.go-style per-iteration trace via
// utl.Pfyel/utl.Pf. Off by default; the CLI driver's -v flag turns it on.
var Verbose = false

// Solve runs Levenberg-Marquardt iteration on sk's enabled, driving
// constraints until convergence, the iteration cap, or a numerical
// failure. The sketch is not mutated until a trial step is accepted —
// no observable intermediate states (spec §5).
func Solve(sk *sketch.Sketch) Result {
	vm := buildVarMap(sk)
	ids := activeRows(sk)
	rows := totalRows(ids, sk)

	if vm.n == 0 {
		updateReadouts(sk, ids)
		return Result{Status: Success, Iterations: 0, Message: "no free variables"}
	}

	lambda := Lambda0
	iterations := 0

	r, J := assemble(sk, vm, ids, rows)
	if hasNaNVec(r) || hasNaNMat(J) {
		return Result{Status: NumericalError, Message: "non-finite residual at start"}
	}

	if Verbose {
		utl.Pfyel("\n%6s%6s%12s%23s%23s\n", "it", "acc", "lambda", "|r|inf", "|delta|2")
	}

	for iterations < MaxAcceptedSteps {
		largeR := vecInfNorm(r)
		if largeR < ConvergenceEps {
			break
		}

		n := vm.n
		JtJ := la.MatAlloc(n, n)
		Jtr := make([]float64, n)
		for i := 0; i < rows; i++ {
			for a := 0; a < n; a++ {
				if J[i][a] == 0 {
					continue
				}
				Jtr[a] += J[i][a] * r[i]
				for b := 0; b < n; b++ {
					JtJ[a][b] += J[i][a] * J[i][b]
				}
			}
		}

		accepted := false
		var delta []float64
		retries := 0
		for !accepted && retries < maxRetries {
			A := la.MatAlloc(n, n)
			la.MatCopy(A, 1, JtJ)
			for a := 0; a < n; a++ {
				A[a][a] += lambda * JtJ[a][a]
			}
			Ainv := la.MatAlloc(n, n)
			_, err := la.MatInv(Ainv, A, 1e-300)
			if err != nil {
				return Result{Status: NumericalError, Message: "singular normal-equations matrix: " + err.Error()}
			}
			delta = make([]float64, n)
			la.MatVecMul(delta, -1, Ainv, Jtr)
			if hasNaNVec(delta) {
				return Result{Status: NumericalError, Message: "non-finite step"}
			}

			x := vm.x(sk)
			trial := make([]float64, n)
			for i := range x {
				trial[i] = x[i] + delta[i]
			}
			vm.apply(sk, trial)
			rTrial, JTrial := assemble(sk, vm, ids, rows)
			if hasNaNVec(rTrial) || hasNaNMat(JTrial) {
				vm.apply(sk, x)
				return Result{Status: NumericalError, Message: "non-finite residual after step"}
			}
			costOld := sumSquares(r)
			costNew := sumSquares(rTrial)

			if Verbose {
				utl.Pf("%6d%6v%12.3e%23.15e%23.15e\n", iterations, costNew < costOld, lambda, largeR, vecNorm2(delta))
			}

			if costNew < costOld {
				accepted = true
				r, J = rTrial, JTrial
				lambda = math.Max(lambda/2, LambdaFloor)
			} else {
				vm.apply(sk, x) // revert: no observable intermediate state
				lambda = math.Min(lambda*10, LambdaCap)
				retries++
			}
		}
		if !accepted {
			return Result{Status: NumericalError, Message: "failed to find a descent step", Iterations: iterations, FinalResidual: vecInfNorm(r)}
		}
		iterations++
		if vecNorm2(delta) < 1e-10*math.Max(1, vecNorm2(vm.x(sk))) {
			break
		}
	}

	finalR := vecInfNorm(r)
	if iterations >= MaxAcceptedSteps && finalR >= ConvergenceEps {
		return Result{Status: MaxIterations, Iterations: iterations, FinalResidual: finalR, Message: "exceeded accepted-step cap"}
	}

	rnk := rank(J)
	status := Success
	switch {
	case rnk < rows:
		status = Overconstrained
	case vm.n > rnk:
		status = Underconstrained
	}

	updateReadouts(sk, ids)
	return Result{Status: status, Iterations: iterations, FinalResidual: finalR}
}

func vecInfNorm(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

func vecNorm2(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func sumSquares(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}

func hasNaNVec(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

func hasNaNMat(m [][]float64) bool {
	for _, row := range m {
		if hasNaNVec(row) {
			return true
		}
	}
	return false
}

// updateReadouts recomputes the Value field of every enabled,
// non-driving constraint from the now-solved geometry (spec §4.2:
// "their value field is a readout, updated post-solve"). Driving
// constraint values and point coordinates are never touched here, so
// editing a non-driving constraint's displayed value cannot move
// anything (the Non-driving inertness property, spec §8).
func updateReadouts(sk *sketch.Sketch, activeDrivingIDs []int) {
	driving := map[int]bool{}
	for _, id := range activeDrivingIDs {
		driving[id] = true
	}
	for _, cid := range sk.Constraints() {
		c, _ := sk.Constraint(cid)
		if !c.Enabled || c.Driving {
			continue
		}
		c.Value = measure(sk, c)
	}
}

// measure computes the current geometric quantity a constraint kind
// would dimension, independent of c.Value (used both for reference-
// dimension readouts and could back a "create dimension from current
// geometry" UI action).
func measure(sk *sketch.Sketch, c *sketch.Constraint) float64 {
	switch c.Kind {
	case sketch.Distance, sketch.FixedDistance:
		p1, _ := sk.Point(c.P1)
		p2, _ := sk.Point(c.P2)
		if c.Kind == sketch.FixedDistance {
			return charLength(sk, c.E1)
		}
		return p1.Vec2().Distance(p2.Vec2())
	case sketch.DistanceX:
		p1, _ := sk.Point(c.P1)
		p2, _ := sk.Point(c.P2)
		return p2.X - p1.X
	case sketch.DistanceY:
		p1, _ := sk.Point(c.P1)
		p2, _ := sk.Point(c.P2)
		return p2.Y - p1.Y
	case sketch.Angle, sketch.FixedAngle:
		vm := buildVarMap(sk)
		dx1, dy1, _, _, _, _ := direction(sk, vm, c.E1)
		dx2, dy2, _, _, _, _ := direction(sk, vm, c.E2)
		theta := math.Atan2(dx1*dy2-dy1*dx2, dx1*dx2+dy1*dy2)
		return theta * 180 / math.Pi
	default:
		return c.Value
	}
}
