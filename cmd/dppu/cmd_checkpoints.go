package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dppu/internal/engine"
)

// stepsCmd lists the pipeline steps
var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the pipeline steps in order",
	Long: `Prints the ordered step list. Step numbers are what "dppu run
--start-step" expects when resuming a checkpointed run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, name := range engine.StepNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, name)
		}
		return nil
	},
}

// checkpointsCmd manages stored checkpoints
var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Inspect and prune stored checkpoints",
}

var checkpointsListCmd = &cobra.Command{
	Use:   "list [run-id]",
	Short: "List stored checkpoints, optionally for one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cfg.OpenStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runID := ""
		if len(args) == 1 {
			runID = args[0]
		}
		infos, err := store.List(runID)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No checkpoints.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tSTEP\tNAME\tCREATED")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
				info.RunID, info.Step, info.Name, info.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	},
}

var checkpointsClearCmd = &cobra.Command{
	Use:   "clear [run-id]",
	Short: "Delete checkpoints, all of them or one run's",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cfg.OpenStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runID := ""
		if len(args) == 1 {
			runID = args[0]
		}
		if err := store.Clear(runID); err != nil {
			return err
		}
		if runID == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all checkpoints.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared checkpoints for run %s.\n", runID)
		}
		return nil
	},
}

func init() {
	checkpointsCmd.AddCommand(checkpointsListCmd)
	checkpointsCmd.AddCommand(checkpointsClearCmd)
}
