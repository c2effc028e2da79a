package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/commands/options"
	"tableflip.dev/fastlog/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"dashboard"},
		Short:   "Today's totals, this week's charts and all-time summary.",
		Example: `
fastlog stats
fastlog stats --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := stats.Stats{
					Service: svc,
					JSON:    oo.JSON,
					Out:     cmd.OutOrStdout(),
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
