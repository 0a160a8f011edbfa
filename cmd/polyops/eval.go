package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/chazu/conway/pkg/metrics"
	"github.com/chazu/conway/pkg/polyhedron"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	evalSTLDir string
	evalOBJDir string
	evalJSON   bool
	evalJobs   int
)

// scriptResult pairs a script path with its evaluation result.
type scriptResult struct {
	Path string `json:"path"`
	EvalResult
}

var evalCmd = &cobra.Command{
	Use:   "eval FILE...",
	Short: "Evaluate recipe scripts",
	Long: `Evaluates each script and prints the resulting polyhedron's name and
vertex, edge and face counts. Scripts are evaluated concurrently; output
keeps argument order. Use "-" to read a script from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp(metrics.New())
		results, err := evalScripts(cmd, app, args)
		if err != nil {
			return err
		}

		if evalSTLDir != "" {
			if err := writeMeshes(results, evalSTLDir, ".stl", app.SaveSTL); err != nil {
				return err
			}
		}
		if evalOBJDir != "" {
			if err := writeMeshes(results, evalOBJDir, ".obj", app.SaveOBJ); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if evalJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
		} else {
			for _, r := range results {
				printResult(out, r)
			}
		}

		failed := 0
		for _, r := range results {
			if !r.OK() {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scripts failed", failed, len(results))
		}
		return nil
	},
}

// evalScripts reads and evaluates every script with bounded concurrency.
// Read failures abort the whole run; script errors are kept per result.
func evalScripts(cmd *cobra.Command, app *App, paths []string) ([]scriptResult, error) {
	var stdinSrc string
	if n := slices.Index(paths, "-"); n >= 0 {
		if slices.Contains(paths[n+1:], "-") {
			return nil, errors.New("stdin (-) may be given only once")
		}
		src, err := readScript(cmd.InOrStdin(), "-")
		if err != nil {
			return nil, err
		}
		stdinSrc = src
	}

	results := make([]scriptResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, evalJobs))

	for i, path := range paths {
		g.Go(func() error {
			src := stdinSrc
			if path != "-" {
				var err error
				if src, err = readScript(cmd.InOrStdin(), path); err != nil {
					return err
				}
			}
			logger.Debug("evaluating", zap.String("path", path))
			results[i] = scriptResult{Path: path, EvalResult: app.Evaluate(ctx, src)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readScript(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// outputPath names the output file after the script, or after the
// polyhedron when reading stdin.
func outputPath(dir, ext string, r scriptResult) string {
	base := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
	if r.Path == "-" || base == "" {
		base = r.Name
	}
	return filepath.Join(dir, base+ext)
}

// resolveOutDir places relative output directories under output.dir.
func resolveOutDir(dir string) string {
	if filepath.IsAbs(dir) || cfg == nil {
		return dir
	}
	return filepath.Join(cfg.Output.Dir, dir)
}

// writeMeshes saves every successful result into dir with save.
func writeMeshes(results []scriptResult, dir, ext string, save func(*polyhedron.Polyhedron, string) error) error {
	dir = resolveOutDir(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		if err := save(r.Polyhedron(), outputPath(dir, ext, r)); err != nil {
			return err
		}
	}
	return nil
}

func printResult(w io.Writer, r scriptResult) {
	if !r.OK() {
		fmt.Fprintf(w, "%s: FAILED\n", r.Path)
		for _, e := range r.Errors {
			if e.Line > 0 {
				fmt.Fprintf(w, "  line %d: %s\n", e.Line, e.Message)
			} else {
				fmt.Fprintf(w, "  %s\n", e.Message)
			}
		}
		return
	}
	fmt.Fprintf(w, "%s: %s V=%d E=%d F=%d\n", r.Path, r.Name, r.Vertices, r.Edges, r.Faces)
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn.Message)
	}
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalSTLDir, "stl", "", "write an STL file per script into this directory (relative to output.dir)")
	evalCmd.Flags().StringVar(&evalOBJDir, "obj", "", "write an OBJ file per script into this directory (relative to output.dir)")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "print results as JSON including mesh data")
	evalCmd.Flags().IntVarP(&evalJobs, "jobs", "j", runtime.NumCPU(), "maximum scripts evaluated at once")
}
