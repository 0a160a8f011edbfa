package conway

import "github.com/chazu/conway/pkg/polyhedron"

// MetaOptions parameterises Meta. Zero values mean: default ratio and
// height, no valence mask, every face raised, provenance unchanged.
type MetaOptions struct {
	Ratio            *float64 // join ratio, default DefaultMetaRatio
	Height           *float64 // kis height, default DefaultMetaHeight
	ValenceMask      []int
	RegularFacesOnly bool
	Rename           bool
	Annotator        Annotator
}

// Meta is kis applied to join. Ratio and height are clamped into [0,1]
// once, then handed to Join and Kis. The kis filters are evaluated on the
// joined mesh, not on p.
func Meta(p *polyhedron.Polyhedron, opts MetaOptions) *polyhedron.Polyhedron {
	ratio := resolveUnit(opts.Ratio, DefaultMetaRatio)
	height := resolveUnit(opts.Height, DefaultMetaHeight)

	out := Kis(Join(p, JoinOptions{Ratio: &ratio}), KisOptions{
		Height:           &height,
		ValenceMask:      opts.ValenceMask,
		RegularFacesOnly: opts.RegularFacesOnly,
	})

	rename(out, opts.Rename, opts.Annotator, Annotation{
		Operator:         "m",
		Ratio:            ratio,
		Height:           height,
		DefaultRatio:     DefaultMetaRatio,
		DefaultHeight:    DefaultMetaHeight,
		UsesRatio:        true,
		UsesHeight:       true,
		ValenceMask:      opts.ValenceMask,
		RegularFacesOnly: opts.RegularFacesOnly,
	})
	return out
}

// M is Meta with default parameters, no filters, and renaming on.
func M(p *polyhedron.Polyhedron) *polyhedron.Polyhedron {
	return Meta(p, MetaOptions{
		Ratio:  Float(DefaultMetaRatio),
		Height: Float(DefaultMetaHeight),
		Rename: true,
	})
}
