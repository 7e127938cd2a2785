package stl

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/dporeiro/gosketch/feature"
	"github.com/dporeiro/gosketch/geom"
	"github.com/dporeiro/gosketch/sketch"
	"github.com/dporeiro/gosketch/solid"
)

func unitCube() *solid.Solid {
	return solid.BuildExtrude(
		[]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}),
		1,
		solid.Forward,
	)
}

func TestWriteSolidSizeIsBitExact(tst *testing.T) {
	chk.PrintTitle("WriteSolidSizeIsBitExact")
	s := unitCube()
	var buf bytes.Buffer
	res := WriteSolid(&buf, s)
	if !res.OK {
		tst.Fatalf("expected a successful write, got %s", res.Message)
	}
	n := len(s.Triangles)
	want := 84 + 50*n
	if buf.Len() != want {
		tst.Fatalf("expected %d bytes (84+50*%d), got %d", want, n, buf.Len())
	}
	if res.TrianglesWritten != n {
		tst.Fatalf("expected TrianglesWritten=%d, got %d", n, res.TrianglesWritten)
	}
}

func TestWriteSolidHeaderIs80Bytes(tst *testing.T) {
	chk.PrintTitle("WriteSolidHeaderIs80Bytes")
	var buf bytes.Buffer
	WriteSolid(&buf, unitCube())
	header := buf.Bytes()[:80]
	if len(header) != 80 {
		tst.Fatal("expected an 80-byte header")
	}
	countBytes := buf.Bytes()[80:84]
	count := uint32(countBytes[0]) | uint32(countBytes[1])<<8 | uint32(countBytes[2])<<16 | uint32(countBytes[3])<<24
	if int(count) != len(unitCube().Triangles) {
		tst.Fatalf("expected little-endian triangle count %d, got %d", len(unitCube().Triangles), count)
	}
}

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

func TestExportTreeOmitsConsumedFeatures(tst *testing.T) {
	chk.PrintTitle("ExportTreeOmitsConsumedFeatures")
	tree := feature.NewTree()
	tree.Kernel = fakeKernel{}
	baseSkID := tree.AddSketch(squareSketch(), "base sketch")
	baseID, _ := tree.AddExtrude(baseSkID, 3, solid.Forward, "boss")
	toolSkID := tree.AddSketch(squareSketch(), "tool sketch")
	cutID, _ := tree.AddCut(toolSkID, baseID, 1, solid.Forward, "pocket")
	if !tree.Regenerate(cutID) {
		tst.Fatal("expected cut regeneration to succeed")
	}

	var buf bytes.Buffer
	res := ExportTree(&buf, tree)
	if !res.OK {
		tst.Fatalf("expected a successful export, got %s", res.Message)
	}
	cutNode, _ := tree.Get(cutID)
	if res.TrianglesWritten != len(cutNode.Result.Triangles) {
		tst.Fatalf("expected only the cut's triangles (base feature is consumed), got %d want %d",
			res.TrianglesWritten, len(cutNode.Result.Triangles))
	}
}

func TestExportTreeOmitsHiddenFeatures(tst *testing.T) {
	chk.PrintTitle("ExportTreeOmitsHiddenFeatures")
	tree := feature.NewTree()
	skID := tree.AddSketch(squareSketch(), "base sketch")
	exID, _ := tree.AddExtrude(skID, 3, solid.Forward, "boss")
	if !tree.Regenerate(exID) {
		tst.Fatal("expected extrude regeneration to succeed")
	}
	tree.SetVisible(exID, false)

	var buf bytes.Buffer
	res := ExportTree(&buf, tree)
	if !res.OK {
		tst.Fatalf("expected a successful export, got %s", res.Message)
	}
	if res.TrianglesWritten != 0 {
		tst.Fatalf("expected a hidden feature to contribute no triangles, got %d", res.TrianglesWritten)
	}
}
