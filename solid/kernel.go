package solid

import (
	"errors"

	"github.com/dporeiro/gosketch/geom"
)

// WireHandle, FaceHandle, and SolidHandle are opaque references into an
// external B-Rep kernel — this module never inspects their contents
// (spec §6: the B-Rep kernel is an out-of-scope external collaborator).
type WireHandle interface{}
type FaceHandle interface{}
type SolidHandle interface{}

// MeshHandle is an opaque reference into an external mesh-boolean
// kernel's own triangle-soup representation.
type MeshHandle interface{}

// BRepKernel is the narrow interface a native B-Rep backend would
// implement; nothing in this module requires or calls one
// (extrude/revolve are pure in-process tessellators, spec §9), and Cut
// always builds its tool solid with BuildExtrude.
type BRepKernel interface {
	BuildWire(points []float64, closed bool) (WireHandle, error)
	BuildFace(wire WireHandle) (FaceHandle, error)
	ExtrudeFace(face FaceHandle, vector [3]float64) (SolidHandle, error)
}

// MeshBooleanKernel is the external collaborator Cut requires (spec
// §4.4): convert this module's triangle soup to/from the kernel's own
// mesh representation, query its manifold status, and perform the
// subtraction (spec §6: "wrap into manifold object, query {status,
// volume, vertex/triangle counts}, difference/union/intersection").
type MeshBooleanKernel interface {
	ToMesh(s *Solid) (MeshHandle, error)
	FromMesh(m MeshHandle) (*Solid, error)
	Subtract(base, tool MeshHandle) (MeshHandle, error)
	Query(m MeshHandle) (MeshInfo, error)
}

// MeshInfo is the manifold status report a MeshBooleanKernel gives back
// for a mesh handle (spec §6's "query {status, volume, vertex/triangle
// counts}"). Status is kernel-defined ("ok", "non-manifold", ...); this
// module treats anything other than "ok" as unusable.
type MeshInfo struct {
	Status        string
	Volume        float64
	VertexCount   int
	TriangleCount int
}

// ErrBooleanFailed wraps a MeshBooleanKernel failure the way
// regenerate() surfaces external-kernel errors (spec §4.4's
// "external kernel reports failure").
var ErrBooleanFailed = errors.New("solid: mesh-boolean kernel reported failure")

// ErrKernelOrientation reports that the external kernel's sign
// convention for volume disagrees with this module's own
// SignedVolume/EnsureOutwardOrientation convention (spec §9's open
// question: "the sign convention of the external kernel must be
// validated at startup").
var ErrKernelOrientation = errors.New("solid: mesh-boolean kernel reports a non-positive volume for a known-positive unit cube")

// unitCube returns a 1x1x1 box, outward-oriented, as the fixture
// ValidateKernelOrientation pushes through the kernel.
func unitCube() *Solid {
	plane := geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1})
	profile := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	s := BuildExtrude(profile, plane, 1, Forward)
	EnsureOutwardOrientation(s)
	return s
}

// ValidateKernelOrientation pushes a known-positive unit cube through
// kernel's ToMesh/Query round-trip and confirms the reported volume
// comes back positive, catching a kernel whose winding/volume sign
// convention disagrees with this module's own before Cut ever trusts
// it (spec §9). Call this once at startup, after wiring in the
// MeshBooleanKernel implementation and before any Cut.
func ValidateKernelOrientation(kernel MeshBooleanKernel) error {
	mesh, err := kernel.ToMesh(unitCube())
	if err != nil {
		return errors.Join(ErrBooleanFailed, err)
	}
	info, err := kernel.Query(mesh)
	if err != nil {
		return errors.Join(ErrBooleanFailed, err)
	}
	if info.Status != "ok" {
		return errors.Join(ErrBooleanFailed, errors.New("unit cube reported status "+info.Status))
	}
	if info.Volume <= 0 {
		return ErrKernelOrientation
	}
	return nil
}

// Cut builds a capped tool solid from toolProfile and subtracts it from
// base via kernel, verifying outward orientation on both operands
// first (spec §4.4: "positive signed volume required; if negative,
// triangle winding is reversed before boolean").
func Cut(base *Solid, toolProfile []geom.Vec2, plane geom.Plane, depth float64, dir Direction, kernel MeshBooleanKernel) (*Solid, error) {
	tool := BuildExtrude(toolProfile, plane, depth, dir)
	EnsureOutwardOrientation(base)
	EnsureOutwardOrientation(tool)

	baseMesh, err := kernel.ToMesh(base)
	if err != nil {
		return nil, errors.Join(ErrBooleanFailed, err)
	}
	toolMesh, err := kernel.ToMesh(tool)
	if err != nil {
		return nil, errors.Join(ErrBooleanFailed, err)
	}
	resultMesh, err := kernel.Subtract(baseMesh, toolMesh)
	if err != nil {
		return nil, errors.Join(ErrBooleanFailed, err)
	}
	result, err := kernel.FromMesh(resultMesh)
	if err != nil {
		return nil, errors.Join(ErrBooleanFailed, err)
	}
	return result, nil
}
