package polyhedron

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvenanceName(t *testing.T) {
	tests := []struct {
		name   string
		prov   Provenance
		expect string
	}{
		{"seed only", Provenance{Seed: "C"}, "C"},
		{"one token", Provenance{Seed: "T", Tokens: []string{"m"}}, "mT"},
		{"newest first", Provenance{Seed: "C", Tokens: []string{"k", "m"}}, "mkC"},
		{"empty", Provenance{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.prov.Name())
		})
	}
}

func TestProvenanceWithDoesNotAlias(t *testing.T) {
	base := Provenance{Seed: "C", Tokens: make([]string, 1, 8)}
	base.Tokens[0] = "j"

	a := base.With("k")
	b := base.With("m")

	assert.Equal(t, "kjC", a.Name())
	assert.Equal(t, "mjC", b.Name())
	assert.Equal(t, "jC", base.Name())
}

func TestProvenanceWithDuplicates(t *testing.T) {
	p := Provenance{Seed: "T"}.With("m0.3,0.2").With("m0.3,0.2")
	assert.Equal(t, "m0.3,0.2m0.3,0.2T", p.Name())
}

func TestProvenanceWithEmptyToken(t *testing.T) {
	p := Provenance{Seed: "T"}.With("")
	assert.Nil(t, p.Tokens)
	assert.Equal(t, "T", p.Name())
}

func TestNewCopiesInput(t *testing.T) {
	positions := []Vertex{{X: 0}, {X: 1}, {Y: 1}}
	faces := []Face{{0, 1, 2}}

	p, err := New("tri", positions, faces)
	require.NoError(t, err)

	positions[0].X = 42
	faces[0][0] = 2

	assert.Equal(t, 0.0, p.Positions[0].X)
	assert.Equal(t, Face{0, 1, 2}, p.Faces[0])
	assert.Equal(t, "tri", p.Name())
}

func TestNewRejectsInvalidMesh(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
	}{
		{"index out of range", []Face{{0, 1, 3}}},
		{"negative index", []Face{{0, 1, -1}}},
		{"too few vertices", []Face{{0, 1}}},
		{"repeated vertex", []Face{{0, 1, 1}}},
	}
	positions := []Vertex{{X: 0}, {X: 1}, {Y: 1}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New("bad", positions, tt.faces)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrInvalidMesh), "error should wrap ErrInvalidMesh: %v", err)
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew("bad", []Vertex{{}}, []Face{{0, 1, 2}})
	})
}

func TestCounts(t *testing.T) {
	c := Cube()
	assert.Equal(t, 8, c.VertexCount())
	assert.Equal(t, 6, c.FaceCount())
	assert.Equal(t, 24, c.CornerCount())
	assert.False(t, c.IsEmpty())

	empty := &Polyhedron{}
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 0, empty.VertexCount())
	assert.Equal(t, 0, empty.CornerCount())
}

func TestCloneIsDeep(t *testing.T) {
	orig := Cube()
	orig.Provenance = orig.Provenance.With("k")
	cl := orig.Clone()

	if diff := cmp.Diff(orig, cl); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	cl.Positions[0].X = 99
	cl.Faces[0][0] = 7
	cl.Provenance.Tokens[0] = "x"

	assert.Equal(t, -0.5, orig.Positions[0].X)
	assert.Equal(t, 0, orig.Faces[0][0])
	assert.Equal(t, "kC", orig.Name())
}
