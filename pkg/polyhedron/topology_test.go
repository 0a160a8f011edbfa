package polyhedron

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// approxVertex compares positions within eps.
var approxVertex = cmpopts.EquateApprox(0, eps)

func TestMakeEdgeCanonical(t *testing.T) {
	assert.Equal(t, Edge{A: 1, B: 4}, MakeEdge(4, 1))
	assert.Equal(t, Edge{A: 1, B: 4}, MakeEdge(1, 4))
}

func TestEdgesDeduplicated(t *testing.T) {
	tests := []struct {
		name string
		p    *Polyhedron
		want int
	}{
		{"tetrahedron", Tetrahedron(), 6},
		{"cube", Cube(), 12},
		{"octahedron", Octahedron(), 12},
		{"icosahedron", Icosahedron(), 30},
		{"prism5", Prism(5), 15},
		{"pyramid4", Pyramid(4), 8},
		{"empty", &Polyhedron{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := tt.p.Edges()
			assert.Len(t, edges, tt.want)
			assert.Equal(t, tt.want, tt.p.EdgeCount())

			seen := make(map[Edge]bool)
			for _, e := range edges {
				assert.Less(t, e.A, e.B, "edge %v not canonical", e)
				assert.False(t, seen[e], "edge %v listed twice", e)
				seen[e] = true
			}
		})
	}
}

func TestEdgesFirstAppearanceOrder(t *testing.T) {
	p := Tetrahedron()
	want := []Edge{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {0, 3}, {1, 3}}
	if diff := cmp.Diff(want, p.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestEdgeIndexMatchesEdges(t *testing.T) {
	edges, index := Icosahedron().EdgeIndex()
	require.Len(t, index, len(edges))
	for i, e := range edges {
		assert.Equal(t, i, index[e])
	}
}

func TestValences(t *testing.T) {
	tests := []struct {
		name string
		p    *Polyhedron
		want []int
	}{
		{"tetrahedron", Tetrahedron(), []int{3, 3, 3, 3}},
		{"octahedron", Octahedron(), []int{4, 4, 4, 4, 4, 4}},
		{"pyramid4", Pyramid(4), []int{3, 3, 3, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Valences())
			for v, want := range tt.want {
				assert.Equal(t, want, tt.p.VertexValence(v))
			}
		})
	}
}

func TestValenceOnOpenMesh(t *testing.T) {
	// Two triangles sharing edge 1-2. Vertex 1 touches two faces but three
	// edges, which a face count would get wrong.
	p := MustNew("open",
		[]Vertex{{X: 0}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		[]Face{{0, 1, 2}, {1, 3, 2}},
	)
	assert.Equal(t, []int{2, 3, 3, 2}, p.Valences())
}

func TestVertexValencePanicsOutOfRange(t *testing.T) {
	p := Tetrahedron()
	assert.Panics(t, func() { p.VertexValence(4) })
}

func TestFaceCentroid(t *testing.T) {
	c := Cube()
	// Face 1 is the top face.
	got := c.FaceCentroid(1)
	want := Vertex{Z: 0.5}
	if diff := cmp.Diff(want, got, approxVertex); diff != "" {
		t.Errorf("FaceCentroid mismatch (-want +got):\n%s", diff)
	}
}

func TestFaceNormalFollowsWinding(t *testing.T) {
	c := Cube()
	tests := []struct {
		face int
		want Vertex
	}{
		{0, Vertex{Z: -1}},
		{1, Vertex{Z: 1}},
		{2, Vertex{Y: -1}},
		{3, Vertex{X: 1}},
		{4, Vertex{Y: 1}},
		{5, Vertex{X: -1}},
	}
	for _, tt := range tests {
		got := c.FaceNormal(tt.face)
		if diff := cmp.Diff(tt.want, got, approxVertex); diff != "" {
			t.Errorf("FaceNormal(%d) mismatch (-want +got):\n%s", tt.face, diff)
		}
	}

	// Reversing the loop flips the normal.
	flipped := MustNew("flip", c.Positions, []Face{{1, 2, 3, 0}})
	if diff := cmp.Diff(Vertex{Z: 1}, flipped.FaceNormal(0), approxVertex); diff != "" {
		t.Errorf("reversed face normal mismatch (-want +got):\n%s", diff)
	}
}

func TestFaceNormalDegenerate(t *testing.T) {
	p := MustNew("line",
		[]Vertex{{X: 0}, {X: 1}, {X: 2}},
		[]Face{{0, 1, 2}},
	)
	assert.Equal(t, Vertex{}, p.FaceNormal(0))
}

func TestFaceNormalsPointOutward(t *testing.T) {
	for _, p := range allSeeds() {
		t.Run(p.Name(), func(t *testing.T) {
			var center Vertex
			for _, v := range p.Positions {
				center = center.Add(v)
			}
			center = center.DivScalar(float64(p.VertexCount()))
			for f := range p.Faces {
				out := p.FaceCentroid(f).Sub(center)
				assert.Greater(t, p.FaceNormal(f).Dot(out), 0.0, "face %d points inward", f)
				assert.InDelta(t, 1.0, p.FaceNormal(f).Length(), eps)
			}
		})
	}
}

func TestFaceScale(t *testing.T) {
	assert.InDelta(t, math.Sqrt(0.5), Cube().FaceScale(0), eps)
	// Prism caps have unit circumradius.
	assert.InDelta(t, 1.0, Prism(7).FaceScale(0), eps)
}

func TestFaceEdgeLengths(t *testing.T) {
	got := Cube().FaceEdgeLengths(1)
	want := []float64{1, 1, 1, 1}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, eps)); diff != "" {
		t.Errorf("FaceEdgeLengths mismatch (-want +got):\n%s", diff)
	}
}

func TestFaceIsRegular(t *testing.T) {
	t.Run("platonic faces", func(t *testing.T) {
		for _, p := range []*Polyhedron{Tetrahedron(), Cube(), Octahedron(), Icosahedron()} {
			for f := range p.Faces {
				assert.True(t, p.FaceIsRegular(f), "%s face %d", p.Name(), f)
			}
		}
	})

	t.Run("prism sides are rectangles", func(t *testing.T) {
		p := Prism(5)
		assert.True(t, p.FaceIsRegular(0))
		assert.True(t, p.FaceIsRegular(1))
		for f := 2; f < p.FaceCount(); f++ {
			assert.False(t, p.FaceIsRegular(f), "side face %d", f)
		}
	})

	t.Run("rhombus counts as regular", func(t *testing.T) {
		// Equal sides, unequal angles: only edge lengths are compared.
		p := MustNew("rhombus",
			[]Vertex{{X: 1}, {Y: 2}, {X: -1}, {Y: -2}},
			[]Face{{0, 1, 2, 3}},
		)
		assert.True(t, p.FaceIsRegular(0))
	})

	t.Run("within tolerance", func(t *testing.T) {
		p := MustNew("tri",
			[]Vertex{{X: 0}, {X: 1}, {X: 0.5, Y: math.Sqrt(3) / 2 * (1 + 1e-9)}},
			[]Face{{0, 1, 2}},
		)
		assert.True(t, p.FaceIsRegular(0))
	})

	t.Run("outside tolerance", func(t *testing.T) {
		p := MustNew("tri",
			[]Vertex{{X: 0}, {X: 1}, {X: 0.5, Y: 1}},
			[]Face{{0, 1, 2}},
		)
		assert.False(t, p.FaceIsRegular(0))
	})
}

func allSeeds() []*Polyhedron {
	return []*Polyhedron{
		Tetrahedron(), Cube(), Octahedron(), Icosahedron(),
		Prism(3), Prism(5), Prism(8),
		Pyramid(3), Pyramid(4), Pyramid(6),
	}
}
