package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chazu/conway/pkg/engine"
	"github.com/chazu/conway/pkg/kernel"
	"github.com/chazu/conway/pkg/kernel/sdfx"
	"github.com/chazu/conway/pkg/metrics"
	"github.com/chazu/conway/pkg/polyhedron"
	"go.uber.org/zap"
)

// colorPalette assigns a color per face size, so triangles, kites and
// pentagons read apart in a viewer.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// faceColor returns the palette entry for a polygon with n sides.
func faceColor(n int) string {
	return colorPalette[(max(n, 3)-3)%len(colorPalette)]
}

// App evaluates recipe scripts and turns the result into render data. It
// backs both the eval command and the HTTP service.
type App struct {
	kernel  kernel.Kernel
	timeout time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

// MeshData is the JSON-serializable mesh format sent to clients.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Colors   []string  `json:"colors"` // one per triangle
	Name     string    `json:"name"`
}

// EvalErrorData is a JSON-serializable eval error or validation finding.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Face    int    `json:"face"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating one script.
type EvalResult struct {
	Name     string          `json:"name"`
	Vertices int             `json:"vertices"`
	Edges    int             `json:"edges"`
	Faces    int             `json:"faces"`
	Mesh     *MeshData       `json:"mesh,omitempty"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	poly *polyhedron.Polyhedron
}

// OK reports whether evaluation produced a polyhedron without errors.
func (r EvalResult) OK() bool {
	return len(r.Errors) == 0 && r.poly != nil
}

// Polyhedron returns the evaluated polyhedron, or nil on failure.
func (r EvalResult) Polyhedron() *polyhedron.Polyhedron {
	return r.poly
}

// NewApp creates a new App with the sdfx kernel.
func NewApp(k kernel.Kernel, timeout time.Duration, log *zap.Logger, m *metrics.Metrics) *App {
	if k == nil {
		k = sdfx.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &App{kernel: k, timeout: timeout, log: log, metrics: m}
}

// Evaluate takes Lisp source and returns mesh data plus errors. Each call
// uses its own engine so scripts can be evaluated concurrently.
func (a *App) Evaluate(ctx context.Context, source string) EvalResult {
	start := time.Now()
	result, fatal := a.evaluate(ctx, source)

	outcome := metrics.OutcomeOK
	switch {
	case fatal:
		outcome = metrics.OutcomeFatal
	case !result.OK():
		outcome = metrics.OutcomeEvalError
	}
	a.metrics.ObserveEval(outcome, time.Since(start), result.Faces)
	return result
}

// evaluate reports fatal as true when the engine itself failed rather
// than the script.
func (a *App) evaluate(ctx context.Context, source string) (result EvalResult, fatal bool) {
	result = EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	eng := engine.NewEngine(engine.WithTimeout(a.timeout), engine.WithLogger(a.log))

	// Step 1: Evaluate the Lisp source into a polyhedron.
	p, evalErrs, err := eng.Evaluate(ctx, source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate fatal error", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, true
	}

	// Step 2: Convert eval errors to the client format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result, false
	}
	if p == nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: "script is empty"})
		return result, false
	}

	result.poly = p
	result.Name = p.Name()
	result.Vertices = p.VertexCount()
	result.Edges = p.EdgeCount()
	result.Faces = p.FaceCount()

	// Step 3: Validate.
	res := p.Validate()
	for _, e := range res.Errors {
		result.Errors = append(result.Errors, EvalErrorData{Face: e.Face, Message: e.Error()})
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Face: w.Face, Message: w.Error()})
	}
	if !res.OK() {
		return result, false
	}

	// Step 4: Tessellate into the client mesh format.
	m, err := a.kernel.ToMesh(p)
	if err != nil {
		a.log.Error("tessellate error", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result, false
	}
	colors := make([]string, len(m.Faces))
	for i, f := range m.Faces {
		colors[i] = faceColor(len(p.Faces[f]))
	}
	result.Mesh = &MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		Colors:   colors,
		Name:     m.Name,
	}
	return result, false
}

// SaveSTL writes an evaluated polyhedron to path.
func (a *App) SaveSTL(p *polyhedron.Polyhedron, path string) error {
	if err := a.kernel.SaveSTL(p, path); err != nil {
		return err
	}
	a.metrics.ObserveExport("stl")
	a.log.Info("wrote stl", zap.String("name", p.Name()), zap.String("path", path))
	return nil
}

// WriteOBJ writes an evaluated polyhedron as OBJ text, keeping its
// polygon faces.
func (a *App) WriteOBJ(p *polyhedron.Polyhedron, w io.Writer) error {
	if p == nil {
		return errors.New("no polyhedron to export")
	}
	if err := p.WriteOBJ(w); err != nil {
		return err
	}
	a.metrics.ObserveExport("obj")
	return nil
}

// SaveOBJ writes an evaluated polyhedron to an OBJ file at path.
func (a *App) SaveOBJ(p *polyhedron.Polyhedron, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := a.WriteOBJ(p, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Info("wrote obj", zap.String("name", p.Name()), zap.String("path", path))
	return nil
}
