// Package polyhedron defines the polygon mesh model that Conway operators
// rewrite: vertex positions, faces as ordered vertex loops, and the
// provenance log of applied operators. A Polyhedron is never mutated in
// place by an operator; every rewrite produces a new value.
package polyhedron

import (
	"errors"
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a position in 3D space.
type Vertex = v3.Vec

// Face is an ordered loop of vertex indices. Winding is counter-clockwise
// when the face is seen from outside the solid.
type Face []int

// ErrInvalidMesh is returned by New when the supplied faces break the
// structural invariants of the model.
var ErrInvalidMesh = errors.New("invalid mesh")

// Provenance records where a polyhedron came from: the seed it was built
// from and the tokens of every operator applied since, in application order.
// It is metadata only and is never consulted by geometric code.
type Provenance struct {
	Seed   string   `json:"seed"`
	Tokens []string `json:"tokens,omitempty"`
}

// Name renders the Conway notation name. Each operator prefixes the name,
// so tokens are emitted newest first, followed by the seed.
func (p Provenance) Name() string {
	var b strings.Builder
	for i := len(p.Tokens) - 1; i >= 0; i-- {
		b.WriteString(p.Tokens[i])
	}
	b.WriteString(p.Seed)
	return b.String()
}

// With returns a copy of p with token appended. Empty tokens are ignored.
// Tokens are never deduplicated.
func (p Provenance) With(token string) Provenance {
	out := Provenance{Seed: p.Seed}
	if len(p.Tokens) == 0 && token == "" {
		return out
	}
	out.Tokens = make([]string, 0, len(p.Tokens)+1)
	out.Tokens = append(out.Tokens, p.Tokens...)
	if token != "" {
		out.Tokens = append(out.Tokens, token)
	}
	return out
}

// Polyhedron is a polygon mesh. Vertex indices are dense and zero based;
// every face references only indices below len(Positions).
type Polyhedron struct {
	Positions  []Vertex   `json:"positions"`
	Faces      []Face     `json:"faces"`
	Provenance Provenance `json:"provenance"`
}

// New builds a polyhedron from caller supplied data. The slices are copied
// and the structure is validated, so meshes coming from importers are
// rejected at the boundary instead of inside the operators.
func New(seed string, positions []Vertex, faces []Face) (*Polyhedron, error) {
	p := &Polyhedron{
		Positions:  append([]Vertex(nil), positions...),
		Faces:      cloneFaces(faces),
		Provenance: Provenance{Seed: seed},
	}
	res := p.Validate()
	if !res.OK() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMesh, res.Errors[0].Message)
	}
	return p, nil
}

// MustNew is like New but panics on invalid input. Intended for seeds and
// tests.
func MustNew(seed string, positions []Vertex, faces []Face) *Polyhedron {
	p, err := New(seed, positions, faces)
	if err != nil {
		panic(fmt.Sprintf("polyhedron: %v", err))
	}
	return p
}

// Name returns the provenance name, e.g. "mkC".
func (p *Polyhedron) Name() string {
	return p.Provenance.Name()
}

// VertexCount returns the number of vertices.
func (p *Polyhedron) VertexCount() int {
	return len(p.Positions)
}

// FaceCount returns the number of faces.
func (p *Polyhedron) FaceCount() int {
	return len(p.Faces)
}

// IsEmpty returns true if the polyhedron has no faces.
func (p *Polyhedron) IsEmpty() bool {
	return len(p.Faces) == 0
}

// CornerCount returns the total number of face corners, i.e. the sum of all
// face lengths.
func (p *Polyhedron) CornerCount() int {
	n := 0
	for _, f := range p.Faces {
		n += len(f)
	}
	return n
}

// Clone returns a deep copy that shares no storage with p.
func (p *Polyhedron) Clone() *Polyhedron {
	return &Polyhedron{
		Positions:  append([]Vertex(nil), p.Positions...),
		Faces:      cloneFaces(p.Faces),
		Provenance: p.Provenance.With(""),
	}
}

func cloneFaces(faces []Face) []Face {
	out := make([]Face, len(faces))
	for i, f := range faces {
		out[i] = append(Face(nil), f...)
	}
	return out
}
