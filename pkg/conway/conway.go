// Package conway implements Conway polyhedron notation operators. Every
// operator is a pure function: it reads one polyhedron and returns a new
// one with fresh vertex and face storage. Inputs are never modified.
package conway

import (
	"math"

	"github.com/chazu/conway/pkg/polyhedron"
)

// Parameter defaults. Meta uses the same values as the operators it
// composes.
const (
	DefaultJoinRatio  = 0.5
	DefaultKisHeight  = 0.1
	DefaultMetaRatio  = 1.0 / 2.0
	DefaultMetaHeight = 1.0 / 10.0
)

// Operator is a rewrite from one polyhedron to another.
type Operator func(*polyhedron.Polyhedron) *polyhedron.Polyhedron

// Float returns a pointer to v, for filling optional parameters.
func Float(v float64) *float64 {
	return &v
}

// resolveUnit returns the default for a missing or NaN value and clamps
// anything else into [0,1]. Out of range values are never rejected.
func resolveUnit(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return def
	}
	return math.Max(0, math.Min(1, *v))
}

// intSet builds a membership set from a mask. A nil mask yields nil, which
// callers treat as "no filter"; an empty mask yields an empty set that
// matches nothing.
func intSet(mask []int) map[int]bool {
	if mask == nil {
		return nil
	}
	set := make(map[int]bool, len(mask))
	for _, v := range mask {
		set[v] = true
	}
	return set
}

// rename appends the operator token to the provenance of out when asked.
func rename(out *polyhedron.Polyhedron, enabled bool, annotator Annotator, a Annotation) {
	if !enabled {
		return
	}
	if annotator == nil {
		annotator = NotationAnnotator{}
	}
	out.Provenance = out.Provenance.With(annotator.Token(a))
}
