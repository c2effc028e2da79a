package commands

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"ui", "live"},
		Short:   "Live dashboard with a running fast timer.",
		Long: `Watch shows the fast in progress, today's totals and the week, updating
every interval. Changes made from another terminal are picked up as they
are written.

Keys: s start, e end, w log water, r reload, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("watch needs a terminal, try 'fastlog stats'")
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				w := watch.Watch{
					Service:  svc,
					Interval: interval,
				}
				return w.Do(ctx)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", fasting.DefaultTickInterval, "How often the timer refreshes.")
	topLevel.AddCommand(cmd)
}
