// Package tessellate splits polygon faces into triangles for kernels and
// exporters. Triangles keep the winding of the face they came from.
package tessellate

import (
	"fmt"

	"github.com/chazu/conway/pkg/polyhedron"
)

// Triangle is one triangle of a tessellated face.
type Triangle struct {
	V    [3]int // vertex indices into the polyhedron's positions
	Face int    // index of the source face
}

// Triangulate fans every face from its first vertex. A face with n
// vertices yields n-2 triangles. Faces are expected to be convex or close
// to it.
func Triangulate(p *polyhedron.Polyhedron) []Triangle {
	if p == nil {
		return nil
	}
	tris := make([]Triangle, 0, max(0, p.CornerCount()-2*p.FaceCount()))
	for fi, f := range p.Faces {
		for i := 1; i+1 < len(f); i++ {
			tris = append(tris, Triangle{V: [3]int{f[0], f[i], f[i+1]}, Face: fi})
		}
	}
	return tris
}

// Checked validates p before triangulating it, so kernels can refuse
// meshes that would index out of range.
func Checked(p *polyhedron.Polyhedron) ([]Triangle, error) {
	if p == nil {
		return nil, fmt.Errorf("tessellate: nil polyhedron")
	}
	res := p.Validate()
	if !res.OK() {
		return nil, fmt.Errorf("tessellate: %s: %w", p.Name(), res.Errors[0])
	}
	return Triangulate(p), nil
}
