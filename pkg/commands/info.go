package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the logs and where they are stored.",
		Example: `
fastlog info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc, cfg, err := load(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()
			s := info.Info{
				Config:  cfg,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			return s.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
