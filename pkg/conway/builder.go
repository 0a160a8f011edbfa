package conway

import "github.com/chazu/conway/pkg/polyhedron"

// Builder threads a polyhedron through a chain of operators:
//
//	p := conway.From(polyhedron.Cube()).Join(conway.JoinOptions{}).M().Polyhedron()
//
// Each step returns a new Builder holding the new polyhedron; earlier
// builders keep their own value.
type Builder struct {
	p *polyhedron.Polyhedron
}

// From starts a chain at p.
func From(p *polyhedron.Polyhedron) Builder {
	return Builder{p: p}
}

// Apply runs an arbitrary operator.
func (b Builder) Apply(op Operator) Builder {
	return Builder{p: op(b.p)}
}

// Join applies Join.
func (b Builder) Join(opts JoinOptions) Builder {
	return Builder{p: Join(b.p, opts)}
}

// Kis applies Kis.
func (b Builder) Kis(opts KisOptions) Builder {
	return Builder{p: Kis(b.p, opts)}
}

// Meta applies Meta.
func (b Builder) Meta(opts MetaOptions) Builder {
	return Builder{p: Meta(b.p, opts)}
}

// M applies M.
func (b Builder) M() Builder {
	return Builder{p: M(b.p)}
}

// Polyhedron returns the current value.
func (b Builder) Polyhedron() *polyhedron.Polyhedron {
	return b.p
}
