// Command gosketch is a non-interactive demo driver: it builds a
// rectangular sketch, solves its constraints, extrudes it into a
// solid, and exports an STL file. Mirrors main.go's flag-parsed,
// utl.Pf-logged entry point — the spec's actual UI is an out-of-scope
// external collaborator (camera/rendering/windowing), so this CLI
// exercises the core kernel the way gofem's main.go exercises fem.Run
// without any windowing of its own.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/utl"
	"github.com/dporeiro/gosketch/config"
	"github.com/dporeiro/gosketch/feature"
	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/dporeiro/gosketch/solid"
	"github.com/dporeiro/gosketch/solve"
	"github.com/dporeiro/gosketch/stl"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			utl.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	utl.PfWhite("\ngosketch -- parametric sketch/solid demo driver\n\n")

	width := flag.Float64("w", 10, "rectangle width")
	height := flag.Float64("h", 6, "rectangle height")
	depth := flag.Float64("depth", 3, "extrusion depth")
	out := flag.String("out", "out.stl", "output STL path")
	cfgPath := flag.String("config", "", "optional document settings JSON file")
	verbose := flag.Bool("v", false, "print per-iteration solver trace")
	flag.Parse()

	solve.Verbose = *verbose

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			utl.Panic("failed to load config %s: %v", *cfgPath, err)
		}
		cfg.Apply()
		utl.Pf("  loaded config: unit=%s dirout=%s\n", cfg.Unit, cfg.DirOut)
	}

	// build a driving-dimensioned rectangle
	sk := sketch.NewSketch("base", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	p0 := sk.AddPoint(0, 0, true)
	p1 := sk.AddPoint(*width, 0, false)
	p2 := sk.AddPoint(*width, *height, false)
	p3 := sk.AddPoint(0, *height, false)
	sk.AddLine(p0, p1)
	sk.AddLine(p1, p2)
	sk.AddLine(p2, p3)
	sk.AddLine(p3, p0)
	sk.AddConstraint(sketch.Constraint{Kind: sketch.DistanceX, Driving: true, P1: p0, P2: p1, Value: *width})
	sk.AddConstraint(sketch.Constraint{Kind: sketch.DistanceY, Driving: true, P1: p0, P2: p3, Value: *height})

	utl.Pf("  solving sketch (%d points, %d entities, %d constraints)\n", len(sk.Points()), len(sk.Entities()), len(sk.Constraints()))
	res := solve.Solve(sk)
	utl.Pf("  solve status = %s, iterations = %d, |r| = %.3e\n", res.Status, res.Iterations, res.FinalResidual)
	if res.Status != solve.Success {
		utl.Panic("solve did not reach Success: %s", res.Message)
	}

	tree := feature.NewTree()
	skID := tree.AddSketch(sk, "base sketch")
	exID, err := tree.AddExtrude(skID, *depth, solid.Forward, "boss")
	if err != nil {
		utl.Panic("%v", err)
	}
	if !tree.Regenerate(exID) {
		utl.Panic("feature regeneration failed")
	}
	tree.Print()

	node, _ := tree.Get(exID)
	f, err := os.Create(*out)
	if err != nil {
		utl.Panic("cannot create %s: %v", *out, err)
	}
	defer f.Close()
	wres := stl.WriteSolid(f, node.Result)
	if !wres.OK {
		utl.Panic("STL export failed: %s", wres.Message)
	}
	utl.Pf("  wrote %s (%d triangles)\n", *out, wres.TrianglesWritten)
}
