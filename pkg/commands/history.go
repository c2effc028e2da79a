package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/runner/history"
	"tableflip.dev/fastlog/pkg/timeutil"
)

func addHistory(topLevel *cobra.Command) {
	var last string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Display fasts, meals and water logged recently, newest first",
		Long: `History merges the fasting, food and water logs within the specified time window.
Whole-day windows start at local midnight, so 1d is today.

Examples:
  fastlog history
  fastlog history --last 3d
  fastlog history --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				h := history.History{
					Service: svc,
					Last:    last,
					Printer: &printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return h.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	topLevel.AddCommand(cmd)
}
