package feature

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/dporeiro/gosketch/solid"
)

func squareSketch() *sketch.Sketch {
	sk := sketch.NewSketch("base", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	p0 := sk.AddPoint(0, 0, true)
	p1 := sk.AddPoint(2, 0, false)
	p2 := sk.AddPoint(2, 2, false)
	p3 := sk.AddPoint(0, 2, false)
	sk.AddLine(p0, p1)
	sk.AddLine(p1, p2)
	sk.AddLine(p2, p3)
	sk.AddLine(p3, p0)
	return sk
}

func TestExtrudeRegenerateProducesSolid(tst *testing.T) {
	chk.PrintTitle("ExtrudeRegenerateProducesSolid")
	tree := NewTree()
	skID := tree.AddSketch(squareSketch(), "base sketch")
	exID, err := tree.AddExtrude(skID, 3, solid.Forward, "boss")
	if err != nil {
		tst.Fatal(err)
	}
	if !tree.Regenerate(exID) {
		tst.Fatal("expected extrude regeneration to succeed")
	}
	n, _ := tree.Get(exID)
	if n.Result == nil || len(n.Result.Triangles) == 0 {
		tst.Fatal("expected a non-empty result solid")
	}
	if n.Dirty {
		tst.Fatal("expected regenerate to clear the dirty flag")
	}
}

func TestSuppressedFeatureRegeneratesToNoGeometry(tst *testing.T) {
	chk.PrintTitle("SuppressedFeatureRegeneratesToNoGeometry")
	tree := NewTree()
	skID := tree.AddSketch(squareSketch(), "base sketch")
	exID, _ := tree.AddExtrude(skID, 3, solid.Forward, "boss")
	if !tree.SetEnabled(exID, false) {
		tst.Fatal("expected SetEnabled to find the feature")
	}
	if !tree.Regenerate(exID) {
		tst.Fatal("expected a suppressed feature to regenerate successfully")
	}
	n, _ := tree.Get(exID)
	if n.Result != nil {
		tst.Fatal("expected a suppressed feature to carry no result")
	}
	if !tree.SetEnabled(exID, true) {
		tst.Fatal("expected SetEnabled to find the feature")
	}
	if !tree.Regenerate(exID) {
		tst.Fatal("expected re-enabling to regenerate successfully")
	}
	n, _ = tree.Get(exID)
	if n.Result == nil {
		tst.Fatal("expected re-enabled feature to rebuild its result")
	}
}

func TestMarkDirtyPropagatesForward(tst *testing.T) {
	chk.PrintTitle("MarkDirtyPropagatesForward")
	tree := NewTree()
	skID := tree.AddSketch(squareSketch(), "base sketch")
	exID, _ := tree.AddExtrude(skID, 3, solid.Forward, "boss")
	tree.RegenerateAll()

	tree.MarkDirty(skID)
	n, _ := tree.Get(exID)
	if !n.Dirty {
		tst.Fatal("expected extrude to be marked dirty when its input sketch is")
	}
}

type fakeKernel struct{}

func (fakeKernel) ToMesh(s *solid.Solid) (solid.MeshHandle, error)   { return s, nil }
func (fakeKernel) FromMesh(m solid.MeshHandle) (*solid.Solid, error) { return m.(*solid.Solid), nil }
func (fakeKernel) Subtract(base, tool solid.MeshHandle) (solid.MeshHandle, error) {
	return base, nil
}
func (fakeKernel) Query(m solid.MeshHandle) (solid.MeshInfo, error) {
	s := m.(*solid.Solid)
	return solid.MeshInfo{Status: "ok", Volume: solid.SignedVolume(s), VertexCount: len(s.Vertices), TriangleCount: len(s.Triangles)}, nil
}

func TestCutConsumesBaseFeature(tst *testing.T) {
	chk.PrintTitle("CutConsumesBaseFeature")
	tree := NewTree()
	tree.Kernel = fakeKernel{}
	baseSkID := tree.AddSketch(squareSketch(), "base sketch")
	baseID, _ := tree.AddExtrude(baseSkID, 3, solid.Forward, "boss")

	toolSk := sketch.NewSketch("tool", geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	t0 := toolSk.AddPoint(0.5, 0.5, true)
	t1 := toolSk.AddPoint(1, 0.5, false)
	t2 := toolSk.AddPoint(1, 1, false)
	t3 := toolSk.AddPoint(0.5, 1, false)
	toolSk.AddLine(t0, t1)
	toolSk.AddLine(t1, t2)
	toolSk.AddLine(t2, t3)
	toolSk.AddLine(t3, t0)
	toolSkID := tree.AddSketch(toolSk, "tool sketch")

	cutID, err := tree.AddCut(toolSkID, baseID, 5, solid.Forward, "pocket")
	if err != nil {
		tst.Fatal(err)
	}
	if !tree.Regenerate(cutID) {
		tst.Fatal("expected cut regeneration to succeed")
	}
	if !tree.ConsumedFeatures()[baseID] {
		tst.Fatal("expected base feature to be marked consumed")
	}
}

func TestCutFailsWithoutKernel(tst *testing.T) {
	chk.PrintTitle("CutFailsWithoutKernel")
	tree := NewTree()
	baseSkID := tree.AddSketch(squareSketch(), "base sketch")
	baseID, _ := tree.AddExtrude(baseSkID, 3, solid.Forward, "boss")
	toolSkID := tree.AddSketch(squareSketch(), "tool sketch")
	cutID, _ := tree.AddCut(toolSkID, baseID, 1, solid.Forward, "pocket")
	if tree.Regenerate(cutID) {
		tst.Fatal("expected cut without a kernel to fail")
	}
	n, _ := tree.Get(cutID)
	if !n.Dirty || n.Result != nil {
		tst.Fatal("expected a failed regeneration to stay dirty with no result")
	}
}

func TestInvalidReference(tst *testing.T) {
	chk.PrintTitle("InvalidReference")
	tree := NewTree()
	_, err := tree.AddExtrude(999, 1, solid.Forward, "x")
	var ref *InvalidReference
	if !errors.As(err, &ref) {
		tst.Fatalf("expected *InvalidReference, got %T", err)
	}
}
