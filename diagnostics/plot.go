// Package diagnostics provides gosl/plt-backed plotting of solver
// convergence traces and sketch/solid previews, grounded on
// mreten/plot.go's Plot/PlotEnd pair (plt.Plot/plt.Gll/plt.Show) and
// out/plot.go's subplot/save conventions.
package diagnostics

import (
	"math"

	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/dporeiro/gosketch/solid"
)

// Trace accumulates one |r|∞ sample per accepted Levenberg-Marquardt
// step; callers populate it through Record, since package solve has no
// plotting dependency or trace hook of its own.
type Trace struct {
	Residuals []float64
}

// Record appends one residual-norm sample.
func (t *Trace) Record(residual float64) {
	t.Residuals = append(t.Residuals, residual)
}

// PlotConvergence draws |r|∞ against iteration index on a log-y axis,
// mirroring mreten.Plot's single plt.Plot + label call.
func PlotConvergence(t *Trace, args string) {
	if args == "" {
		args = "'b.-', clip_on=0"
	}
	it := utl.LinSpace(0, float64(len(t.Residuals)-1), len(t.Residuals))
	plt.Plot(it, t.Residuals, args)
}

// PlotConvergenceEnd finishes a convergence plot (mreten.PlotEnd's
// axis-label-then-maybe-show shape).
func PlotConvergenceEnd(show bool) {
	plt.Gll("iteration", "$\\Vert r\\Vert_\\infty$", "")
	if show {
		plt.Show()
	}
}

// PlotSketch draws every enabled line and circle entity of sk as a 2D
// wireframe in sketch-local coordinates (points as markers, entities as
// line segments), the 2D analogue of PlotSolidWireframe below. Arc
// entities are not drawn.
func PlotSketch(sk *sketch.Sketch, args string) {
	if args == "" {
		args = "'k.-', clip_on=0"
	}
	for _, eid := range sk.Entities() {
		e, ok := sk.Entity(eid)
		if !ok || !e.Enabled {
			continue
		}
		x, y := entityPolyline(sk, e)
		if len(x) > 0 {
			plt.Plot(x, y, args)
		}
	}
}

func entityPolyline(sk *sketch.Sketch, e *sketch.Entity) (x, y []float64) {
	switch e.Kind {
	case sketch.EntityLine:
		p1, _ := sk.Point(e.P1)
		p2, _ := sk.Point(e.P2)
		return []float64{p1.X, p2.X}, []float64{p1.Y, p2.Y}
	case sketch.EntityCircle:
		c, _ := sk.Point(e.Center)
		const n = 64
		x = make([]float64, n+1)
		y = make([]float64, n+1)
		for i := 0; i <= n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			x[i] = c.X + e.Radius*math.Cos(theta)
			y[i] = c.Y + e.Radius*math.Sin(theta)
		}
		return x, y
	default:
		return nil, nil
	}
}

// PlotSolidWireframe draws a solid's deduplicated edge set projected
// onto the XY plane (a schematic preview; true 3D rendering is the
// external viewport's job per spec §1's out-of-scope collaborators).
func PlotSolidWireframe(s *solid.Solid, args string) {
	if args == "" {
		args = "'b-', clip_on=0"
	}
	for _, e := range s.ToWireframe() {
		plt.Plot([]float64{e.A.X, e.B.X}, []float64{e.A.Y, e.B.Y}, args)
	}
}

// PlotEnd finalizes and optionally shows a generic 2D preview figure.
func PlotEnd(xlabel, ylabel string, show bool) {
	plt.Gll(xlabel, ylabel, "")
	plt.Cross()
	if show {
		plt.Show()
	}
}

// SaveD saves the current figure to dirout/filename, mirroring
// out/plot.go's plt.SaveD calls.
func SaveD(dirout, filename string) {
	plt.SaveD(dirout, filename)
}
