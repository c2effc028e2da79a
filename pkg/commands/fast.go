package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/commands/options"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/runner/list"
	"tableflip.dev/fastlog/pkg/store"
	"tableflip.dev/fastlog/pkg/timeutil"
)

func addFast(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "fast",
		Aliases: []string{"fasts", "fasting"},
		Short:   "Start, end and review fasts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addFastStart(cmd)
	addFastEnd(cmd)
	addFastStatus(cmd)
	addFastList(cmd)
	addFastEdit(cmd)
	addRemove(cmd, store.Fasting)

	topLevel.AddCommand(cmd)
}

func addFastStart(parent *cobra.Command) {
	fo := &options.FastOptions{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a fast.",
		Example: `
fastlog fast start
fastlog fast start --protocol 18:6
fastlog fast start -p omad
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				a, err := svc.StartFast(ctx, fo.Protocol)
				if err != nil {
					return err
				}
				return oo.Result(cmd.OutOrStdout(), a, fmt.Sprintf("Started a %s fast at %s",
					entry.ProtocolLabel(a.Protocol), timeutil.FormatTime(a.Start, time.Local)))
			})
		},
	}

	options.AddFastArgs(cmd, fo)
	_ = cmd.RegisterFlagCompletionFunc("protocol", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		labels := make([]string, 0, len(entry.Protocols))
		for _, p := range entry.Protocols {
			labels = append(labels, p.Label)
		}
		return labels, cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addFastEnd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the fast in progress.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s, ok, err := svc.EndFast(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return oo.Result(cmd.OutOrStdout(), nil, "No fast in progress.")
				}
				text := fmt.Sprintf("Ended a %s fast after %s (%.0f%%)", entry.ProtocolLabel(s.Protocol),
					timeutil.FormatClock(s.Elapsed()), s.PercentOfGoal())
				if s.GoalReached() {
					text += ", goal reached!"
				}
				return oo.Result(cmd.OutOrStdout(), s, text)
			})
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addFastStatus(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show progress of the fast in progress.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				p := svc.Status()
				if oo.JSON {
					return oo.Result(cmd.OutOrStdout(), p, "")
				}
				pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
				pp.Progress(p)
				return nil
			})
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addFastList(parent *cobra.Command) {
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List completed fasts, newest first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				l := list.List{
					Service:    svc,
					Collection: store.Fasting,
					ShowID:     lo.ShowID,
					Printer:    &printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return l.Do(ctx)
			})
		},
	}

	options.AddListArgs(cmd, lo, false)
	parent.AddCommand(cmd)
}

func addFastEdit(parent *cobra.Command) {
	eo := &options.EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Correct a completed fast.",
		Example: `
fastlog fast edit 0 --end 2024-03-07T12:30
fastlog fast edit 2 --protocol 18:6
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				e, err := svc.Editor.OpenFast(index)
				if err != nil {
					return err
				}
				options.Changed(cmd, "start", &e.Draft.Start, eo.Start)
				options.Changed(cmd, "end", &e.Draft.End, eo.End)
				if cmd.Flags().Changed("protocol") {
					if e.Draft.Protocol, err = entry.ParseProtocol(eo.Protocol); err != nil {
						return err
					}
				}
				s, err := svc.Editor.CommitFast(ctx, e)
				if err != nil {
					return err
				}
				return oo.Result(cmd.OutOrStdout(), s, fmt.Sprintf("Updated fast %d: %s of %s (%.0f%%)", index,
					timeutil.FormatClock(s.Elapsed()), entry.ProtocolLabel(s.Protocol), s.PercentOfGoal()))
			})
		},
	}

	options.AddFastEditArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addRemove(parent *cobra.Command, c store.Collection) {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   fmt.Sprintf("Delete a %s entry by id (see ls --show-id).", c),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				removed, err := svc.Delete(ctx, string(c), id)
				if err != nil {
					return err
				}
				text := fmt.Sprintf("Deleted %d.", id)
				if !removed {
					text = fmt.Sprintf("Nothing with id %d.", id)
				}
				return oo.Result(cmd.OutOrStdout(), map[string]bool{"removed": removed}, text)
			})
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func parseIndex(v string) (int, error) {
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index %q", v)
	}
	return i, nil
}
