// Package stl writes binary STL files: an 80-byte header, a 4-byte
// little-endian triangle count, then 50 bytes per triangle (normal,
// three vertices as little-endian float32 triplets, a trailing 2-byte
// attribute count of 0) — spec §6's exact byte layout. Grounded on
// tools/GenVtu.go's role as an export-format CLI utility: walk a
// result, write an interchange format, report success/failure.
package stl

import (
	"encoding/binary"
	"io"

	"github.com/dporeiro/gosketch/feature"
	"github.com/dporeiro/gosketch/solid"
)

// Result is the writer's success/message contract (spec §6: "the STL
// writer returns a success/message struct").
type Result struct {
	OK               bool
	TrianglesWritten int
	Message          string
}

const headerSize = 80

// WriteSolid writes s as a standalone binary STL file to w.
func WriteSolid(w io.Writer, s *solid.Solid) Result {
	header := make([]byte, headerSize)
	copy(header, "gosketch binary STL export")
	if _, err := w.Write(header); err != nil {
		return Result{Message: "header write failed: " + err.Error()}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Triangles))); err != nil {
		return Result{Message: "triangle count write failed: " + err.Error()}
	}
	for _, t := range s.Triangles {
		if err := writeTriangle(w, t); err != nil {
			return Result{Message: "triangle write failed: " + err.Error()}
		}
	}
	return Result{OK: true, TrianglesWritten: len(s.Triangles)}
}

func writeTriangle(w io.Writer, t solid.Triangle) error {
	vals := []float32{
		float32(t.Normal.X), float32(t.Normal.Y), float32(t.Normal.Z),
		float32(t.V0.X), float32(t.V0.Y), float32(t.V0.Z),
		float32(t.V1.X), float32(t.V1.Y), float32(t.V1.Z),
		float32(t.V2.X), float32(t.V2.Y), float32(t.V2.Z),
	}
	for _, v := range vals {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, uint16(0))
}

// ExportTree walks every feature in t, skipping features consumed as a
// Cut's base input (spec §6: "omitting features that are inputs to a
// Cut"), and writes the union of their triangles as a single binary
// STL file. Features with no regenerated Result (never built, or
// failed) are skipped.
func ExportTree(w io.Writer, t *feature.Tree) Result {
	consumed := t.ConsumedFeatures()
	var triangles []solid.Triangle
	for _, id := range t.Order() {
		if consumed[id] {
			continue
		}
		n, ok := t.Get(id)
		if !ok || n.Result == nil || !n.Visible {
			continue
		}
		triangles = append(triangles, n.Result.Triangles...)
	}
	combined := &solid.Solid{Triangles: triangles}
	return WriteSolid(w, combined)
}
