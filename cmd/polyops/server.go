package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/chazu/conway/pkg/metrics"
	"github.com/chazu/conway/pkg/polyhedron"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server exposes an App over HTTP.
type Server struct {
	App         *App
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	MaxBodySize int64
}

// NewHandler creates the HTTP handler for the evaluation service.
func NewHandler(s *Server) http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.MaxBodySize <= 0 {
		s.MaxBodySize = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/seeds", s.Seeds)
	r.Get("/seeds/{name}", s.Seed)
	r.Post("/eval", s.Eval)
	r.Handle("/metrics", s.Metrics.Handler())
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

// Seeds handles GET /seeds.
func (s *Server) Seeds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, seedCatalog())
}

// Seed handles GET /seeds/{name} and returns the seed's summary.
func (s *Server) Seed(w http.ResponseWriter, r *http.Request) {
	p, err := polyhedron.Seed(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Eval handles POST /eval. The request body is the script source. With
// ?format=stl or ?format=obj a successful result is returned as a mesh
// file.
func (s *Server) Eval(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "script too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res := s.App.Evaluate(r.Context(), string(body))
	s.Log.Info("eval",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("name", res.Name),
		zap.Int("faces", res.Faces),
		zap.Int("errors", len(res.Errors)))

	if !res.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		s.Metrics.ObserveExport("json")
		writeJSON(w, http.StatusOK, res)
	case "stl":
		s.writeSTL(w, res)
	case "obj":
		s.writeOBJ(w, res)
	default:
		http.Error(w, "unknown format", http.StatusBadRequest)
	}
}

// writeOBJ buffers the export so a failure can still be reported as a 500.
func (s *Server) writeOBJ(w http.ResponseWriter, res EvalResult) {
	var buf bytes.Buffer
	if err := s.App.WriteOBJ(res.Polyhedron(), &buf); err != nil {
		s.Log.Error("obj export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "model/obj")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Name+`.obj"`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// writeSTL renders through a temporary file since the exporter writes to
// a path.
func (s *Server) writeSTL(w http.ResponseWriter, res EvalResult) {
	dir, err := os.MkdirTemp("", "polyops-stl-")
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "mesh.stl")
	if err := s.App.SaveSTL(res.Polyhedron(), path); err != nil {
		s.Log.Error("stl export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Name+`.stl"`)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
