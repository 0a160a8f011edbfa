// Package kernel defines the output backend interface. A kernel turns a
// polyhedron into render-ready triangles and writes it to disk. Backends
// can be swapped without changing the operators or the script engine.
package kernel

import "github.com/chazu/conway/pkg/polyhedron"

// Kernel is the abstract output backend.
type Kernel interface {
	// ToMesh triangulates p into a flat-shaded mesh.
	ToMesh(p *polyhedron.Polyhedron) (*Mesh, error)

	// BoundingBox returns the axis-aligned bounds of p's vertices.
	BoundingBox(p *polyhedron.Polyhedron) (min, max [3]float64)

	// SaveSTL writes p as a binary STL file.
	SaveSTL(p *polyhedron.Polyhedron, path string) error
}

// Bounds computes the axis-aligned bounding box of p's positions. An
// empty polyhedron has zero bounds.
func Bounds(p *polyhedron.Polyhedron) (min, max [3]float64) {
	if p == nil || len(p.Positions) == 0 {
		return min, max
	}
	first := p.Positions[0]
	min = [3]float64{first.X, first.Y, first.Z}
	max = min
	for _, v := range p.Positions[1:] {
		c := [3]float64{v.X, v.Y, v.Z}
		for i := range c {
			if c[i] < min[i] {
				min[i] = c[i]
			}
			if c[i] > max[i] {
				max[i] = c[i]
			}
		}
	}
	return min, max
}
