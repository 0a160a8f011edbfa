package main

import (
	"fmt"
	"os"

	"github.com/chazu/conway/internal/config"
	"github.com/chazu/conway/pkg/kernel/sdfx"
	"github.com/chazu/conway/pkg/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "polyops",
	Short: "polyops applies Conway operators to polyhedra",
	Long: `polyops evaluates small Lisp recipes built from seed solids and the
join, kis and meta operators, reports the resulting mesh and exports it
as STL.

Example:
  polyops eval examples/meta_cube.conway --stl out/`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		lvl, err := cfg.Level()
		if err != nil {
			return err
		}
		if verbose {
			lvl = zapcore.DebugLevel
		}
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(lvl)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newApp builds an App from the loaded configuration.
func newApp(m *metrics.Metrics) *App {
	return NewApp(sdfx.New(sdfx.WithScale(cfg.Output.Scale)), cfg.GetEvalTimeout(), logger, m)
}
