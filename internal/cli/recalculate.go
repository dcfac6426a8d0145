package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RecalculateCmd rebuilds score snapshots from stored history.
func RecalculateCmd(load Loader) *cobra.Command {
	var workerID string
	var all bool

	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recompute worker scores from full history",
		Long: `Recompute one worker (--worker) or every worker (--all).

Recomputes read the complete assignment history, so the command is safe to
run repeatedly. A failing worker is reported and does not stop --all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (workerID == "") == !all {
				return errors.New("pass exactly one of --worker or --all")
			}
			app, cleanup, err := load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open application: %w", err)
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if workerID != "" {
				snapshot, err := app.Recalc.Recalculate(cmd.Context(), workerID)
				if err != nil {
					return fmt.Errorf("recalculate %s: %w", workerID, err)
				}
				fmt.Fprintf(out, "%s %s performance=%.2f reliability=%.2f tier=%s flags=%v\n",
					color.New(color.FgGreen).Sprint("✓"), workerID,
					snapshot.PerformanceScore, snapshot.ReliabilityScore, tierLabel(string(snapshot.Tier)), snapshot.Flags.Strings())
				return nil
			}

			result, err := app.Recalc.RecalculateAll(cmd.Context())
			if err != nil && result == nil {
				return fmt.Errorf("recalculate all: %w", err)
			}
			fmt.Fprintf(out, "Recalculated %d/%d workers\n", result.Succeeded, result.Total)
			if len(result.Failed) > 0 {
				ids := make([]string, 0, len(result.Failed))
				for id := range result.Failed {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(out, "%s %s: %s\n", color.New(color.FgRed).Sprint("✗"), id, result.Failed[id])
				}
				return fmt.Errorf("%d workers failed to recalculate", len(result.Failed))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&workerID, "worker", "", "Worker ID to recalculate")
	cmd.Flags().BoolVar(&all, "all", false, "Recalculate every worker")

	return cmd
}

func tierLabel(tier string) string {
	switch tier {
	case "Elite", "Strong":
		return color.New(color.FgHiGreen).Sprint(tier)
	case "Solid":
		return color.New(color.FgCyan).Sprint(tier)
	case "At Risk":
		return color.New(color.FgYellow).Sprint(tier)
	default:
		return color.New(color.FgRed).Sprint(tier)
	}
}
