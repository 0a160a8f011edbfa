package conway

import "github.com/chazu/conway/pkg/polyhedron"

// KisOptions parameterises Kis. All filters must pass for a face to be
// raised; faces that fail any filter are copied unchanged.
type KisOptions struct {
	// Height raises each apex along the face normal by
	// Height * FaceScale. nil means DefaultKisHeight; values are clamped
	// into [0,1].
	Height *float64

	// ValenceMask selects faces with at least one vertex whose valence is
	// in the mask. nil disables the filter; an empty mask selects nothing.
	ValenceMask []int

	// FaceMask selects faces by index. nil disables the filter.
	FaceMask []int

	// RegularFacesOnly restricts the rewrite to faces for which
	// FaceIsRegular holds.
	RegularFacesOnly bool

	// Rename appends a "k" token to the provenance.
	Rename    bool
	Annotator Annotator
}

// Kis raises a pyramid on every selected face: an apex vertex is placed
// above the face centroid and the face is replaced by the triangles
// (v[i], v[i+1], apex), keeping the face's winding. The output holds the
// original vertices followed by the apexes in face order.
func Kis(p *polyhedron.Polyhedron, opts KisOptions) *polyhedron.Polyhedron {
	height := resolveUnit(opts.Height, DefaultKisHeight)
	selected := newFaceSelector(p, opts.ValenceMask, opts.FaceMask, opts.RegularFacesOnly)

	positions := make([]polyhedron.Vertex, 0, len(p.Positions)+len(p.Faces))
	positions = append(positions, p.Positions...)
	faces := make([]polyhedron.Face, 0, p.CornerCount())

	for fi, f := range p.Faces {
		if !selected(fi) {
			faces = append(faces, append(polyhedron.Face(nil), f...))
			continue
		}

		apex := len(positions)
		lift := p.FaceNormal(fi).MulScalar(height * p.FaceScale(fi))
		positions = append(positions, p.FaceCentroid(fi).Add(lift))

		n := len(f)
		for i := range f {
			faces = append(faces, polyhedron.Face{f[i], f[(i+1)%n], apex})
		}
	}

	out := &polyhedron.Polyhedron{
		Positions:  positions,
		Faces:      faces,
		Provenance: p.Provenance.With(""),
	}
	rename(out, opts.Rename, opts.Annotator, Annotation{
		Operator:         "k",
		Height:           height,
		DefaultHeight:    DefaultKisHeight,
		UsesHeight:       true,
		ValenceMask:      opts.ValenceMask,
		FaceMask:         opts.FaceMask,
		RegularFacesOnly: opts.RegularFacesOnly,
	})
	return out
}

// newFaceSelector returns the selection predicate for Kis. Valences are
// computed once, against p, so filters see the topology Kis is given.
func newFaceSelector(p *polyhedron.Polyhedron, valenceMask, faceMask []int, regularOnly bool) func(int) bool {
	valences := intSet(valenceMask)
	faceSet := intSet(faceMask)

	var valence []int
	if valences != nil {
		valence = p.Valences()
	}

	return func(fi int) bool {
		if faceSet != nil && !faceSet[fi] {
			return false
		}
		if regularOnly && !p.FaceIsRegular(fi) {
			return false
		}
		if valences == nil {
			return true
		}
		for _, v := range p.Faces[fi] {
			if valences[valence[v]] {
				return true
			}
		}
		return false
	}
}
