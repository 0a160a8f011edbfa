// Package engine provides the Lisp scripting engine for polyhedron
// recipes. It wraps zygomys in a sandboxed environment with seed and
// Conway operator builtins, and returns the polyhedron produced by the
// last expression of a script.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/conway/pkg/polyhedron"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. Each call to Evaluate creates a
// fresh sandboxed environment for determinism. A newer Evaluate on the
// same Engine supersedes older ones still in flight, so callers that
// evaluate scripts concurrently use one Engine per script.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	log     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation. Non-positive
// values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout, log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate runs a script and returns the polyhedron its last expression
// evaluates to.
//
// Return semantics:
//   - On success: returns polyhedron + nil errors + nil error
//   - Empty script or no final value: returns nil + nil + nil
//   - On parse/eval failure: returns nil polyhedron + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(ctx context.Context, source string) (*polyhedron.Polyhedron, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	start := time.Now()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{poly: p, errors: evalErrs, err: err}
	}()

	p, evalErrs, err := waitWithTimeout(ctx, ch, e.timeout, gen, &e.mu, &e.generation)
	fields := []zap.Field{zap.Uint64("generation", gen), zap.Duration("elapsed", time.Since(start))}
	switch {
	case err != nil:
		e.log.Warn("evaluation failed", append(fields, zap.Error(err))...)
	case len(evalErrs) > 0:
		e.log.Debug("evaluation reported errors", append(fields, zap.Int("errors", len(evalErrs)))...)
	case p != nil:
		e.log.Debug("evaluation finished", append(fields,
			zap.String("name", p.Name()),
			zap.Int("vertices", p.VertexCount()),
			zap.Int("faces", p.FaceCount()))...)
	}
	return p, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*polyhedron.Polyhedron, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil, nil
	}

	// Sandbox mode prevents scripts from touching the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	v, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	if v == zygo.SexpNull {
		return nil, nil, nil
	}
	p, ok := v.(*sexpPolyhedron)
	if !ok {
		return nil, []EvalError{{
			Message: fmt.Sprintf("script must end with a polyhedron, got %s", v.SexpString(nil)),
		}}, nil
	}
	return p.poly, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
