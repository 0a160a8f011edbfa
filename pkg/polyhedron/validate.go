package polyhedron

import "fmt"

// ValidationSeverity indicates whether a finding makes the mesh unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // breaks a structural invariant
	SeverityWarning                           // tolerated by the operators
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Face is -1 for
// findings that are not tied to one face.
type ValidationError struct {
	Face     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Face < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] face %d: %s", e.Severity, e.Face, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks the structural invariants (errors) and manifold-ness
// (warnings). Geometric checks only run when the structure is sound, since
// they index into Positions. It never mutates the polyhedron.
func (p *Polyhedron) Validate() ValidationResult {
	var result ValidationResult
	result.Errors = p.validateStructure()
	if len(result.Errors) > 0 {
		return result
	}
	result.Warnings = append(result.Warnings, p.validateEdgeUse()...)
	result.Warnings = append(result.Warnings, p.validateDegenerateFaces()...)
	result.Warnings = append(result.Warnings, p.validateUnusedVertices()...)
	return result
}

// ---------------------------------------------------------------------------
// Tier 1: structure
// ---------------------------------------------------------------------------

func (p *Polyhedron) validateStructure() []ValidationError {
	var errs []ValidationError
	n := len(p.Positions)
	for fi, f := range p.Faces {
		if len(f) < 3 {
			errs = append(errs, ValidationError{
				Face:     fi,
				Message:  fmt.Sprintf("face has %d vertices, need at least 3", len(f)),
				Severity: SeverityError,
			})
			continue
		}
		seen := make(map[int]bool, len(f))
		for _, vi := range f {
			if vi < 0 || vi >= n {
				errs = append(errs, ValidationError{
					Face:     fi,
					Message:  fmt.Sprintf("vertex index %d out of range [0,%d)", vi, n),
					Severity: SeverityError,
				})
				continue
			}
			if seen[vi] {
				errs = append(errs, ValidationError{
					Face:     fi,
					Message:  fmt.Sprintf("vertex %d appears more than once", vi),
					Severity: SeverityError,
				})
			}
			seen[vi] = true
		}
	}
	return errs
}

// ---------------------------------------------------------------------------
// Tier 2: manifold warnings
// ---------------------------------------------------------------------------

// validateEdgeUse reports boundary edges (one incident face), edges shared
// by more than two faces, and edges walked twice in the same direction,
// which means neighbouring faces disagree on winding.
func (p *Polyhedron) validateEdgeUse() []ValidationError {
	edges, index := p.EdgeIndex()
	uses := make([]int, len(edges))
	directed := make(map[[2]int]bool, p.CornerCount())
	misoriented := 0
	for _, f := range p.Faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			uses[index[MakeEdge(a, b)]]++
			if directed[[2]int{a, b}] {
				misoriented++
			}
			directed[[2]int{a, b}] = true
		}
	}

	var warnings []ValidationError
	if misoriented > 0 {
		warnings = append(warnings, ValidationError{
			Face:     -1,
			Message:  fmt.Sprintf("inconsistent winding: %d edges traversed twice in the same direction", misoriented),
			Severity: SeverityWarning,
		})
	}
	boundary := 0
	for i, e := range edges {
		switch {
		case uses[i] == 1:
			boundary++
		case uses[i] > 2:
			warnings = append(warnings, ValidationError{
				Face:     -1,
				Message:  fmt.Sprintf("edge %d-%d is shared by %d faces", e.A, e.B, uses[i]),
				Severity: SeverityWarning,
			})
		}
	}
	if boundary > 0 {
		warnings = append(warnings, ValidationError{
			Face:     -1,
			Message:  fmt.Sprintf("mesh is open: %d boundary edges", boundary),
			Severity: SeverityWarning,
		})
	}
	return warnings
}

func (p *Polyhedron) validateDegenerateFaces() []ValidationError {
	var warnings []ValidationError
	for fi := range p.Faces {
		if p.FaceNormal(fi) == (Vertex{}) {
			warnings = append(warnings, ValidationError{
				Face:     fi,
				Message:  "face has zero area",
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

func (p *Polyhedron) validateUnusedVertices() []ValidationError {
	used := make([]bool, len(p.Positions))
	for _, f := range p.Faces {
		for _, vi := range f {
			used[vi] = true
		}
	}
	unused := 0
	for _, u := range used {
		if !u {
			unused++
		}
	}
	if unused == 0 {
		return nil
	}
	return []ValidationError{{
		Face:     -1,
		Message:  fmt.Sprintf("%d vertices are not referenced by any face", unused),
		Severity: SeverityWarning,
	}}
}
