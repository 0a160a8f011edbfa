package conway

import (
	"strconv"
	"strings"
)

// Annotation describes one operator application for naming purposes.
type Annotation struct {
	Operator string // notation letter: "j", "k", "m"

	Ratio, Height               float64
	DefaultRatio, DefaultHeight float64
	UsesRatio, UsesHeight       bool

	ValenceMask      []int // nil when absent
	FaceMask         []int // nil when absent
	RegularFacesOnly bool
}

// Annotator turns an operator application into a provenance token.
// Tokens are only ever appended; they are never parsed back.
type Annotator interface {
	Token(a Annotation) string
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(Annotation) string

// Token calls f(a).
func (f AnnotatorFunc) Token(a Annotation) string { return f(a) }

// NotationAnnotator produces compact Conway notation tokens: the operator
// letter, then the numeric parameters if any differs from its default, then
// the masks, then ",{t}" for regular-faces-only.
//
//	m            defaults
//	m0.3,0.2     ratio 0.3, height 0.2
//	m,[3,4],{t}  valence mask [3 4], regular faces only
type NotationAnnotator struct{}

// Token implements Annotator.
func (NotationAnnotator) Token(a Annotation) string {
	changed := (a.UsesRatio && a.Ratio != a.DefaultRatio) ||
		(a.UsesHeight && a.Height != a.DefaultHeight)

	var numbers []string
	if changed {
		if a.UsesRatio {
			numbers = append(numbers, FormatFloat(a.Ratio))
		}
		if a.UsesHeight {
			numbers = append(numbers, FormatFloat(a.Height))
		}
	}

	var b strings.Builder
	b.WriteString(a.Operator)
	b.WriteString(strings.Join(numbers, ","))
	if a.ValenceMask != nil {
		b.WriteString(",")
		b.WriteString(FormatInts(a.ValenceMask))
	}
	if a.FaceMask != nil {
		b.WriteString(",")
		b.WriteString(FormatInts(a.FaceMask))
	}
	if a.RegularFacesOnly {
		b.WriteString(",{t}")
	}
	return b.String()
}

// FormatFloat renders v with the fewest digits that represent it exactly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInts renders a mask as "[a,b,c]".
func FormatInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
