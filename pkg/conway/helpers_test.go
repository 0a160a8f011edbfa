package conway

import (
	"testing"

	"github.com/chazu/conway/pkg/polyhedron"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

var approx = cmpopts.EquateApprox(0, eps)

// seeds returns fresh closed seed solids.
func seeds() []*polyhedron.Polyhedron {
	return []*polyhedron.Polyhedron{
		polyhedron.Tetrahedron(),
		polyhedron.Cube(),
		polyhedron.Octahedron(),
		polyhedron.Icosahedron(),
		polyhedron.Prism(5),
		polyhedron.Pyramid(4),
	}
}

// box returns a 1x2x3 cuboid: closed, consistently wound, and without a
// single regular face.
func box() *polyhedron.Polyhedron {
	c := polyhedron.Cube()
	positions := make([]polyhedron.Vertex, len(c.Positions))
	for i, v := range c.Positions {
		positions[i] = polyhedron.Vertex{X: v.X, Y: 2 * v.Y, Z: 3 * v.Z}
	}
	return polyhedron.MustNew("box", positions, c.Faces)
}

// assertClosedOriented checks that p is a clean closed genus-0 mesh with
// consistent winding.
func assertClosedOriented(t *testing.T, p *polyhedron.Polyhedron) {
	t.Helper()
	res := p.Validate()
	assert.Empty(t, res.Errors, "validation errors")
	assert.Empty(t, res.Warnings, "validation warnings")
	assert.Equal(t, 2, p.VertexCount()-p.EdgeCount()+p.FaceCount(), "Euler characteristic")
}

// faceSizes returns the length of every face.
func faceSizes(p *polyhedron.Polyhedron) []int {
	sizes := make([]int, len(p.Faces))
	for i, f := range p.Faces {
		sizes[i] = len(f)
	}
	return sizes
}
