package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/conway/pkg/conway"
	"github.com/chazu/conway/pkg/polyhedron"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms recipe source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: face-count -> face_count
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPolyhedron wraps a polyhedron so seeds and operators can pass it
// between builtins.
type sexpPolyhedron struct {
	poly *polyhedron.Polyhedron
}

func (s *sexpPolyhedron) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(polyhedron %q :vertices %d :faces %d)",
		s.poly.Name(), s.poly.VertexCount(), s.poly.FaceCount())
}
func (s *sexpPolyhedron) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A keyword followed by another keyword, or by nothing, is a bare flag
// and maps to zygo.SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next {
				result.kw[name] = args[i+1]
				i++
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
	}
	return result
}

// check rejects keywords a builtin does not understand.
func (a kwArgs) check(fn string, allowed ...string) error {
	for k := range a.kw {
		found := false
		for _, name := range allowed {
			if k == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// toInt extracts an integer from a Sexp. Floats with no fractional part
// are accepted.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			if math.Abs(v.Val) > maxExactInt {
				return 0, fmt.Errorf("integer out of range: %s", v.SexpString(nil))
			}
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. A bare keyword flag (SexpNull) counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	if s == zygo.SexpNull {
		return true, nil
	}
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toIntList extracts a list or array of integers. The result is never nil
// so an empty list stays distinguishable from an absent one.
func toIntList(s zygo.Sexp) ([]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(items))
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// toPolyhedron extracts a polyhedron from a sexpPolyhedron.
func toPolyhedron(s zygo.Sexp) (*polyhedron.Polyhedron, error) {
	if p, ok := s.(*sexpPolyhedron); ok {
		return p.poly, nil
	}
	return nil, fmt.Errorf("expected polyhedron, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Shared option parsing
// ---------------------------------------------------------------------------

// operand returns the single positional polyhedron argument of an operator.
func operand(fn string, pa kwArgs) (*polyhedron.Polyhedron, error) {
	if len(pa.positional) != 1 {
		return nil, fmt.Errorf("%s requires exactly one polyhedron argument, got %d", fn, len(pa.positional))
	}
	p, err := toPolyhedron(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return p, nil
}

// floatKW reads an optional numeric keyword. Absent keywords yield nil so
// the operator falls back to its default.
func floatKW(fn string, pa kwArgs, key string) (*float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return nil, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return conway.Float(f), nil
}

// intsKW reads an optional integer list keyword.
func intsKW(fn string, pa kwArgs, key string) ([]int, error) {
	v, ok := pa.kw[key]
	if !ok {
		return nil, nil
	}
	xs, err := toIntList(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return xs, nil
}

// boolKW reads an optional boolean keyword.
func boolKW(fn string, pa kwArgs, key string, def bool) (bool, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return b, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// userFunc is the zygomys builtin signature.
type userFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// seedFunc adapts a zero-argument seed constructor into a builtin.
func seedFunc(build func() *polyhedron.Polyhedron) userFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("%s takes no arguments", name)
		}
		return &sexpPolyhedron{poly: build()}, nil
	}
}

// sidedFunc adapts an n-sided seed constructor into a builtin.
func sidedFunc(build func(int) *polyhedron.Polyhedron) userFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires a side count", name)
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		if n < 3 {
			return zygo.SexpNull, fmt.Errorf("%s: need at least 3 sides, got %d", name, n)
		}
		if n > polyhedron.MaxSides {
			return zygo.SexpNull, fmt.Errorf("%s: at most %d sides, got %d", name, polyhedron.MaxSides, n)
		}
		return &sexpPolyhedron{poly: build(n)}, nil
	}
}

// countFunc adapts a polyhedron query into a builtin returning an integer.
func countFunc(count func(*polyhedron.Polyhedron) int) userFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires a polyhedron", name)
		}
		p, err := toPolyhedron(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &zygo.SexpInt{Val: int64(count(p))}, nil
	}
}

// registerBuiltins installs the seed and operator builtins into a zygomys
// environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
// Operators rename their output unless called with :rename false.
func registerBuiltins(env *zygo.Zlisp) {

	// -----------------------------------------------------------------------
	// (tetrahedron) (cube) (octahedron) (icosahedron)
	// (prism 5) (pyramid 4)
	// (seed "P5")
	// -----------------------------------------------------------------------
	env.AddFunction("tetrahedron", seedFunc(polyhedron.Tetrahedron))
	env.AddFunction("cube", seedFunc(polyhedron.Cube))
	env.AddFunction("octahedron", seedFunc(polyhedron.Octahedron))
	env.AddFunction("icosahedron", seedFunc(polyhedron.Icosahedron))
	env.AddFunction("prism", sidedFunc(polyhedron.Prism))
	env.AddFunction("pyramid", sidedFunc(polyhedron.Pyramid))

	env.AddFunction("seed", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("seed requires a name argument")
		}
		s, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("seed: name: %w", err)
		}
		p, err := polyhedron.Seed(s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("seed: %w", err)
		}
		return &sexpPolyhedron{poly: p}, nil
	})

	// -----------------------------------------------------------------------
	// (join p :ratio 0.5 :rename true)
	// -----------------------------------------------------------------------
	env.AddFunction("join", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.check("join", "ratio", "rename"); err != nil {
			return zygo.SexpNull, err
		}
		p, err := operand("join", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := conway.JoinOptions{}
		if opts.Ratio, err = floatKW("join", pa, "ratio"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.Rename, err = boolKW("join", pa, "rename", true); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPolyhedron{poly: conway.Join(p, opts)}, nil
	})

	// -----------------------------------------------------------------------
	// (kis p :height 0.1 :valence [3 4] :faces [0 2] :regular true)
	// -----------------------------------------------------------------------
	env.AddFunction("kis", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.check("kis", "height", "valence", "faces", "regular", "rename"); err != nil {
			return zygo.SexpNull, err
		}
		p, err := operand("kis", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := conway.KisOptions{}
		if opts.Height, err = floatKW("kis", pa, "height"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.ValenceMask, err = intsKW("kis", pa, "valence"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.FaceMask, err = intsKW("kis", pa, "faces"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.RegularFacesOnly, err = boolKW("kis", pa, "regular", false); err != nil {
			return zygo.SexpNull, err
		}
		if opts.Rename, err = boolKW("kis", pa, "rename", true); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPolyhedron{poly: conway.Kis(p, opts)}, nil
	})

	// -----------------------------------------------------------------------
	// (meta p :ratio 0.5 :height 0.1 :valence [4] :regular true)
	// -----------------------------------------------------------------------
	env.AddFunction("meta", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.check("meta", "ratio", "height", "valence", "regular", "rename"); err != nil {
			return zygo.SexpNull, err
		}
		p, err := operand("meta", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := conway.MetaOptions{}
		if opts.Ratio, err = floatKW("meta", pa, "ratio"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.Height, err = floatKW("meta", pa, "height"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.ValenceMask, err = intsKW("meta", pa, "valence"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.RegularFacesOnly, err = boolKW("meta", pa, "regular", false); err != nil {
			return zygo.SexpNull, err
		}
		if opts.Rename, err = boolKW("meta", pa, "rename", true); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPolyhedron{poly: conway.Meta(p, opts)}, nil
	})

	// -----------------------------------------------------------------------
	// (m p)
	// -----------------------------------------------------------------------
	env.AddFunction("m", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.check("m"); err != nil {
			return zygo.SexpNull, err
		}
		p, err := operand("m", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPolyhedron{poly: conway.M(p)}, nil
	})

	// -----------------------------------------------------------------------
	// (name p) (vertex-count p) (face-count p) (edge-count p)
	// -----------------------------------------------------------------------
	env.AddFunction("name", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("name requires a polyhedron")
		}
		p, err := toPolyhedron(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name: %w", err)
		}
		return &zygo.SexpStr{S: p.Name()}, nil
	})
	env.AddFunction("vertex_count", countFunc((*polyhedron.Polyhedron).VertexCount))
	env.AddFunction("face_count", countFunc((*polyhedron.Polyhedron).FaceCount))
	env.AddFunction("edge_count", countFunc((*polyhedron.Polyhedron).EdgeCount))
}
