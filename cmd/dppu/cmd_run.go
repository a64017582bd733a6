package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dppu/internal/action"
	"dppu/internal/engine"
	"dppu/internal/symbolic"
)

var (
	runTopology      string
	runMode          string
	runVariant       string
	runStartStep     int
	runID            string
	runNoCheckpoints bool
)

// runCmd executes the full derivation for one topology
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the derivation pipeline for one topology",
	Long: `Runs the full 17-step derivation and prints the resulting invariants
and the stability classification of the radial effective potential.

A run checkpoints after every step. To resume a failed or interrupted run,
pass the same --run-id together with --start-step; the state saved after
step N-1 is restored and the derivation continues at step N.

Examples:
  dppu run --topology S3xS1 --mode mixed
  dppu run --run-id 4f7d... --start-step 12`,
	RunE: runDerivation,
}

func init() {
	runCmd.Flags().StringVar(&runTopology, "topology", "", "Topology (S3xS1, T3xS1, Nil3xS1); overrides config")
	runCmd.Flags().StringVar(&runMode, "mode", "", "Torsion mode (axial, vector_trace, mixed); overrides config")
	runCmd.Flags().StringVar(&runVariant, "variant", "", "Nieh-Yan variant (full, tt, ree); overrides config")
	runCmd.Flags().IntVar(&runStartStep, "start-step", 1, "Step to start from (resume requires --run-id)")
	runCmd.Flags().StringVar(&runID, "run-id", "", "Run identifier for checkpointing")
	runCmd.Flags().BoolVar(&runNoCheckpoints, "no-checkpoints", false, "Disable checkpointing for this run")
}

func runDerivation(cmd *cobra.Command, args []string) error {
	if runTopology != "" {
		cfg.Run.Topology = runTopology
	}
	if runMode != "" {
		cfg.Run.Mode = runMode
	}
	if runVariant != "" {
		cfg.Run.Variant = runVariant
	}
	if runNoCheckpoints {
		cfg.Checkpoint.Enabled = false
	}

	pc, err := cfg.PipelineConfig()
	if err != nil {
		return err
	}
	pc.RunID = runID

	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := engine.New(pc, engine.NewZapLogger(logger), store)
	if err != nil {
		return err
	}

	logger.Info("starting derivation",
		zap.String("topology", cfg.Run.Topology),
		zap.String("mode", cfg.Run.Mode),
		zap.String("variant", cfg.Run.Variant),
		zap.String("run_id", p.RunID()),
		zap.Int("start_step", runStartStep))

	st, err := p.Run(runStartStep)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), p.RunID(), st)
	return nil
}

func printReport(w io.Writer, runID string, st *engine.State) {
	fmt.Fprintf(w, "\nDerivation complete: %s (run %s)\n\n", st.Topology, runID)

	printExpr(w, "Volume", st.TotalVolume)
	printExpr(w, "Ricci scalar (Levi-Civita)", st.RicciScalarLC)
	printExpr(w, "Weyl scalar C^2", st.WeylScalar)
	printExpr(w, "Ricci scalar (Einstein-Cartan)", st.RicciScalar)
	printExpr(w, "Torsion scalar T^2", st.TorsionScalar)
	printExpr(w, "Nieh-Yan TT", st.NYDensityTT)
	printExpr(w, "Nieh-Yan Ree", st.NYDensityRee)
	printExpr(w, "Nieh-Yan (adopted)", st.NiehYanDensity)
	printExpr(w, "Lagrangian", st.Lagrangian)
	printExpr(w, "Action", st.Action)
	printExpr(w, "Effective potential", st.Potential)

	if st.Equilibria != nil {
		fmt.Fprintf(w, "\nStability: %s\n", st.Equilibria.Type)
		switch st.Equilibria.Type {
		case action.TypeI, action.TypeII:
			fmt.Fprintf(w, "  r0      = %g\n", st.Equilibria.R0)
			fmt.Fprintf(w, "  V(r0)   = %g\n", st.Equilibria.VMin)
			fmt.Fprintf(w, "  barrier = %g\n", st.Equilibria.Barrier)
		default:
			fmt.Fprintf(w, "  reason: %s\n", st.Equilibria.Reason)
		}
	}
}

func printExpr(w io.Writer, label string, e symbolic.Expr) {
	if e == nil {
		return
	}
	fmt.Fprintf(w, "  %-32s %s\n", label+":", e.String())
}
