package conway

import "github.com/chazu/conway/pkg/polyhedron"

// JoinOptions parameterises Join.
type JoinOptions struct {
	// Ratio lifts each face centre along the face normal by
	// Ratio * FaceScale. nil means DefaultJoinRatio; values are clamped
	// into [0,1].
	Ratio *float64

	// Rename appends a "j" token to the provenance.
	Rename    bool
	Annotator Annotator
}

// Join splits every face corner into a kite. Each edge gets a midpoint
// vertex and each face a centre vertex; face corner v[i] becomes the quad
// (mid(v[i-1],v[i]), v[i], mid(v[i],v[i+1]), centre). The output holds the
// original vertices, then the edge midpoints in Edges order, then the face
// centres in face order.
func Join(p *polyhedron.Polyhedron, opts JoinOptions) *polyhedron.Polyhedron {
	ratio := resolveUnit(opts.Ratio, DefaultJoinRatio)

	edges, edgeIndex := p.EdgeIndex()
	nv := len(p.Positions)

	positions := make([]polyhedron.Vertex, 0, nv+len(edges)+len(p.Faces))
	positions = append(positions, p.Positions...)
	for _, e := range edges {
		positions = append(positions, p.Positions[e.A].Add(p.Positions[e.B]).MulScalar(0.5))
	}
	centerBase := len(positions)
	for f := range p.Faces {
		lift := p.FaceNormal(f).MulScalar(ratio * p.FaceScale(f))
		positions = append(positions, p.FaceCentroid(f).Add(lift))
	}

	mid := func(a, b int) int {
		return nv + edgeIndex[polyhedron.MakeEdge(a, b)]
	}

	faces := make([]polyhedron.Face, 0, p.CornerCount())
	for fi, f := range p.Faces {
		n := len(f)
		center := centerBase + fi
		for i, v := range f {
			prev := f[(i+n-1)%n]
			next := f[(i+1)%n]
			faces = append(faces, polyhedron.Face{mid(prev, v), v, mid(v, next), center})
		}
	}

	out := &polyhedron.Polyhedron{
		Positions:  positions,
		Faces:      faces,
		Provenance: p.Provenance.With(""),
	}
	rename(out, opts.Rename, opts.Annotator, Annotation{
		Operator:     "j",
		Ratio:        ratio,
		DefaultRatio: DefaultJoinRatio,
		UsesRatio:    true,
	})
	return out
}
