package polyhedron

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// hasFinding returns true if any entry's Message contains substr.
func hasFinding(findings []ValidationError, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tier 1: structure
// ---------------------------------------------------------------------------

func TestValidate_IndexOutOfRange(t *testing.T) {
	p := &Polyhedron{
		Positions: []Vertex{{}, {X: 1}, {Y: 1}},
		Faces:     []Face{{0, 1, 5}},
	}
	res := p.Validate()
	if res.OK() {
		t.Fatal("expected validation errors")
	}
	if !hasFinding(res.Errors, "out of range") {
		t.Errorf("expected out of range error, got %v", res.Errors)
	}
	if res.Errors[0].Face != 0 {
		t.Errorf("error face = %d, want 0", res.Errors[0].Face)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings should be skipped when structure is broken, got %v", res.Warnings)
	}
}

func TestValidate_ShortFace(t *testing.T) {
	p := &Polyhedron{
		Positions: []Vertex{{}, {X: 1}},
		Faces:     []Face{{0, 1}},
	}
	res := p.Validate()
	if !hasFinding(res.Errors, "need at least 3") {
		t.Errorf("expected short face error, got %v", res.Errors)
	}
}

func TestValidate_RepeatedVertex(t *testing.T) {
	p := &Polyhedron{
		Positions: []Vertex{{}, {X: 1}, {Y: 1}},
		Faces:     []Face{{0, 1, 2, 1}},
	}
	res := p.Validate()
	if !hasFinding(res.Errors, "more than once") {
		t.Errorf("expected repeated vertex error, got %v", res.Errors)
	}
}

// ---------------------------------------------------------------------------
// Tier 2: warnings
// ---------------------------------------------------------------------------

func TestValidate_OpenMesh(t *testing.T) {
	p := MustNew("tri", []Vertex{{}, {X: 1}, {Y: 1}}, []Face{{0, 1, 2}})
	res := p.Validate()
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if !hasFinding(res.Warnings, "3 boundary edges") {
		t.Errorf("expected boundary warning, got %v", res.Warnings)
	}
}

func TestValidate_InconsistentWinding(t *testing.T) {
	c := Cube()
	c.Faces[1] = Face{7, 6, 5, 4} // top face flipped
	res := c.Validate()
	if !hasFinding(res.Warnings, "inconsistent winding") {
		t.Errorf("expected winding warning, got %v", res.Warnings)
	}
}

func TestValidate_NonManifoldEdge(t *testing.T) {
	p := MustNew("fin",
		[]Vertex{{}, {X: 1}, {Y: 1}, {Y: -1}, {Z: 1}},
		[]Face{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}},
	)
	res := p.Validate()
	if !hasFinding(res.Warnings, "shared by 3 faces") {
		t.Errorf("expected non-manifold warning, got %v", res.Warnings)
	}
}

func TestValidate_DegenerateAndUnused(t *testing.T) {
	p := MustNew("line",
		[]Vertex{{}, {X: 1}, {X: 2}, {Y: 5}},
		[]Face{{0, 1, 2}},
	)
	res := p.Validate()
	if !hasFinding(res.Warnings, "zero area") {
		t.Errorf("expected zero area warning, got %v", res.Warnings)
	}
	if !hasFinding(res.Warnings, "1 vertices are not referenced") {
		t.Errorf("expected unused vertex warning, got %v", res.Warnings)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Face: 3, Message: "bad", Severity: SeverityError}
	if got := e.Error(); got != "[error] face 3: bad" {
		t.Errorf("Error() = %q", got)
	}
	w := ValidationError{Face: -1, Message: "open", Severity: SeverityWarning}
	if got := w.Error(); got != "[warning] open" {
		t.Errorf("Error() = %q", got)
	}
	if got := ValidationSeverity(9).String(); got != "ValidationSeverity(9)" {
		t.Errorf("String() = %q", got)
	}
}
