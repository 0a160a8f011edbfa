package polyhedron

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// RegularityTolerance is the relative tolerance used when comparing edge
// lengths in FaceIsRegular.
const RegularityTolerance = 1e-6

// Edge is an undirected edge between two vertices. A is always less than B.
type Edge struct {
	A, B int
}

// MakeEdge returns the canonical edge joining a and b.
func MakeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// ---------------------------------------------------------------------------
// Edges and valence
// ---------------------------------------------------------------------------

// Edges returns the deduplicated edge set of the mesh. Edges are listed in
// the order they are first met when walking each face's cyclic vertex pairs,
// so the result is deterministic for a given face list.
func (p *Polyhedron) Edges() []Edge {
	edges, _ := p.EdgeIndex()
	return edges
}

// EdgeIndex returns the edge list together with a lookup from edge to its
// position in that list.
func (p *Polyhedron) EdgeIndex() ([]Edge, map[Edge]int) {
	index := make(map[Edge]int, p.CornerCount()/2)
	edges := make([]Edge, 0, p.CornerCount()/2)
	for _, f := range p.Faces {
		for i := range f {
			e := MakeEdge(f[i], f[(i+1)%len(f)])
			if _, seen := index[e]; seen {
				continue
			}
			index[e] = len(edges)
			edges = append(edges, e)
		}
	}
	return edges, index
}

// EdgeCount returns the number of distinct edges.
func (p *Polyhedron) EdgeCount() int {
	return len(p.Edges())
}

// Valences returns the valence of every vertex, indexed by vertex. Valence
// is counted over distinct edges so it stays correct on open meshes.
func (p *Polyhedron) Valences() []int {
	valences := make([]int, len(p.Positions))
	for _, e := range p.Edges() {
		valences[e.A]++
		valences[e.B]++
	}
	return valences
}

// VertexValence returns the number of distinct edges incident to v.
// It panics if v is out of range.
func (p *Polyhedron) VertexValence(v int) int {
	_ = p.Positions[v]
	n := 0
	for _, e := range p.Edges() {
		if e.A == v || e.B == v {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Face geometry
// ---------------------------------------------------------------------------

// FaceCentroid returns the arithmetic mean of the face's vertex positions.
func (p *Polyhedron) FaceCentroid(f int) Vertex {
	face := p.Faces[f]
	var sum v3.Vec
	for _, vi := range face {
		sum = sum.Add(p.Positions[vi])
	}
	return sum.DivScalar(float64(len(face)))
}

// FaceNormal returns the unit normal of face f computed with Newell's
// method. The normal follows the winding, so counter-clockwise faces point
// outward. Degenerate faces yield the zero vector.
func (p *Polyhedron) FaceNormal(f int) Vertex {
	face := p.Faces[f]
	var n v3.Vec
	for i := range face {
		a := p.Positions[face[i]]
		b := p.Positions[face[(i+1)%len(face)]]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.DivScalar(l)
}

// FaceScale returns the mean distance from the face centroid to its
// vertices. Operators use it to make offsets proportional to face size.
func (p *Polyhedron) FaceScale(f int) float64 {
	face := p.Faces[f]
	c := p.FaceCentroid(f)
	sum := 0.0
	for _, vi := range face {
		sum += p.Positions[vi].Sub(c).Length()
	}
	return sum / float64(len(face))
}

// FaceEdgeLengths returns the length of each edge of face f, starting with
// the edge from the first to the second vertex.
func (p *Polyhedron) FaceEdgeLengths(f int) []float64 {
	face := p.Faces[f]
	lengths := make([]float64, len(face))
	for i := range face {
		a := p.Positions[face[i]]
		b := p.Positions[face[(i+1)%len(face)]]
		lengths[i] = b.Sub(a).Length()
	}
	return lengths
}

// FaceIsRegular reports whether all edges of face f have the same length
// within RegularityTolerance (relative to the longest edge). Internal
// angles are not compared, so a rhombus counts as regular.
func (p *Polyhedron) FaceIsRegular(f int) bool {
	lengths := p.FaceEdgeLengths(f)
	lo, hi := math.Inf(1), 0.0
	for _, l := range lengths {
		lo = math.Min(lo, l)
		hi = math.Max(hi, l)
	}
	return hi-lo <= RegularityTolerance*hi
}
