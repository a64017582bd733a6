package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dppu/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded configuration and logger, set up before every command.
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dppu",
	Short: "dppu - torsionful curvature derivation pipeline",
	Long: `dppu derives the effective action of Einstein-Cartan gravity with a
Nieh-Yan term on compactified product geometries (S3xS1, T3xS1, Nil3xS1).

The derivation runs as a fixed sequence of symbolic steps, from frame and
connection construction through curvature, torsion invariants and the
Nieh-Yan density, down to a numeric stability classification of the radial
effective potential. Every intermediate tensor identity is checked by a
zero-proof oracle, and each step checkpoints its state so a run can resume
mid-derivation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = buildLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func buildLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dppu.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(surveyCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(checkpointsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
