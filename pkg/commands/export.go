package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/runner/export"
)

func addExport(topLevel *cobra.Command) {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every log, the active fast and water settings to stdout.",
		Example: `
fastlog export > backup.json
fastlog export --format yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				e := export.Export{
					Service: svc,
					Format:  format,
					Out:     cmd.OutOrStdout(),
				}
				return e.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "Output format. One of 'json' or 'yaml'.")
	topLevel.AddCommand(cmd)
}
