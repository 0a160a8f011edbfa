// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx CAD library for triangle types, transforms and
// STL output.
package sdfx

import (
	"fmt"

	"github.com/chazu/conway/pkg/kernel"
	"github.com/chazu/conway/pkg/polyhedron"
	"github.com/chazu/conway/pkg/tessellate"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	xf sdf.M44
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithScale uniformly scales output geometry, e.g. to millimetres for
// printing. Non-positive factors are ignored.
func WithScale(s float64) Option {
	return func(k *SdfxKernel) {
		if s > 0 {
			k.xf = sdf.Scale3d(v3.Vec{X: s, Y: s, Z: s}).Mul(k.xf)
		}
	}
}

// WithOffset translates output geometry after scaling.
func WithOffset(x, y, z float64) Option {
	return func(k *SdfxKernel) {
		k.xf = sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}).Mul(k.xf)
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{xf: sdf.Identity3d()}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Triangles tessellates p into sdfx triangles with the kernel transform
// applied.
func (k *SdfxKernel) Triangles(p *polyhedron.Polyhedron) ([]*sdf.Triangle3, error) {
	tris, err := tessellate.Checked(p)
	if err != nil {
		return nil, err
	}
	out := make([]*sdf.Triangle3, len(tris))
	for i, t := range tris {
		out[i] = &sdf.Triangle3{
			k.xf.MulPosition(p.Positions[t.V[0]]),
			k.xf.MulPosition(p.Positions[t.V[1]]),
			k.xf.MulPosition(p.Positions[t.V[2]]),
		}
	}
	return out, nil
}

// ToMesh converts a polyhedron to a flat-shaded triangle mesh. Each
// triangle gets its own three vertices carrying the normal of the polygon
// it came from.
func (k *SdfxKernel) ToMesh(p *polyhedron.Polyhedron) (*kernel.Mesh, error) {
	tris, err := tessellate.Checked(p)
	if err != nil {
		return nil, err
	}

	numVerts := len(tris) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)
	faces := make([]int, 0, len(tris))

	for i, tri := range tris {
		n := p.FaceNormal(tri.Face)
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := k.xf.MulPosition(p.Positions[tri.V[j]])
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
		faces = append(faces, tri.Face)
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Faces:    faces,
		Name:     p.Name(),
	}, nil
}

// BoundingBox returns the axis-aligned bounds of p after the kernel
// transform.
func (k *SdfxKernel) BoundingBox(p *polyhedron.Polyhedron) (min, max [3]float64) {
	if p == nil || len(p.Positions) == 0 {
		return min, max
	}
	moved := &polyhedron.Polyhedron{Positions: make([]polyhedron.Vertex, len(p.Positions))}
	for i, v := range p.Positions {
		moved.Positions[i] = k.xf.MulPosition(v)
	}
	return kernel.Bounds(moved)
}

// SaveSTL writes p to path as a binary STL file.
func (k *SdfxKernel) SaveSTL(p *polyhedron.Polyhedron, path string) error {
	tris, err := k.Triangles(p)
	if err != nil {
		return err
	}
	if len(tris) == 0 {
		return fmt.Errorf("sdfx: %s has no faces to write", p.Name())
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
