package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/commands/options"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/runner/list"
	"tableflip.dev/fastlog/pkg/store"
)

func addWater(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "water",
		Aliases: []string{"drink"},
		Short:   "Log and review water intake.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addWaterAdd(cmd)
	addWaterList(cmd)
	addWaterEdit(cmd)
	addRemove(cmd, store.Water)
	addWaterGoal(cmd)
	addWaterPreset(cmd)

	topLevel.AddCommand(cmd)
}

func parseOunces(v string) (float64, error) {
	oz, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "oz"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", v)
	}
	return oz, nil
}

func addWaterAdd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add [amount]",
		Short: "Log water in ounces. Without an amount, the selected preset is logged.",
		Example: `
fastlog water add
fastlog water add 12
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if len(args) == 1 {
				var err error
				if amount, err = parseOunces(args[0]); err != nil {
					return err
				}
				if amount <= 0 {
					return store.ErrInvalidAmount
				}
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				w, err := svc.AddWater(ctx, amount)
				if err != nil {
					return err
				}
				return oo.Result(cmd.OutOrStdout(), w, "Logged "+printers.FormatOunces(w.Amount))
			})
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addWaterList(parent *cobra.Command) {
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List water logs, newest first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				l := list.List{
					Service:    svc,
					Collection: store.Water,
					Today:      lo.Today,
					ShowID:     lo.ShowID,
					Printer:    &printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return l.Do(ctx)
			})
		},
	}

	options.AddListArgs(cmd, lo, true)
	parent.AddCommand(cmd)
}

func addWaterEdit(parent *cobra.Command) {
	eo := &options.EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Correct a water log.",
		Example: `
fastlog water edit 0 --amount 20
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				e, err := svc.Editor.OpenWater(index)
				if err != nil {
					return err
				}
				options.Changed(cmd, "amount", &e.Draft.Amount, eo.Amount)
				options.Changed(cmd, "at", &e.Draft.At, eo.At)
				w, err := svc.Editor.CommitWater(ctx, e)
				if err != nil {
					return err
				}
				return oo.Result(cmd.OutOrStdout(), w, fmt.Sprintf("Updated water %d: %s", index, printers.FormatOunces(w.Amount)))
			})
		},
	}

	options.AddWaterEditArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addWaterGoal(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "goal [oz]",
		Short: "Show or set the daily water goal.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				if len(args) == 1 {
					goal, err := parseOunces(args[0])
					if err != nil {
						return err
					}
					if err := svc.Store.SetWaterGoal(ctx, goal); err != nil {
						return err
					}
				}
				goal := svc.Store.WaterGoal()
				return oo.Result(cmd.OutOrStdout(), map[string]float64{"waterGoal": goal},
					"Daily goal: "+printers.FormatOunces(goal))
			})
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addWaterPreset(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets"},
		Short:   "Manage quick-add water amounts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	printPresets := func(cmd *cobra.Command, svc *app.Service) error {
		presets := svc.Store.WaterPresets()
		labels := make([]string, 0, len(presets))
		for _, p := range presets {
			label := printers.FormatOunces(float64(p))
			if !entry.IsDefaultPreset(p) {
				label += "*"
			}
			labels = append(labels, label)
		}
		return oo.Result(cmd.OutOrStdout(), presets, "Presets: "+strings.Join(labels, ", "))
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List presets. Custom presets are marked with *.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(_ context.Context, svc *app.Service) error {
				return printPresets(cmd, svc)
			})
		},
	}

	mutate := func(use, short string, fn func(ctx context.Context, svc *app.Service, v int) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <oz>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid preset %q", args[0])
				}
				return run(cmd, func(ctx context.Context, svc *app.Service) error {
					if err := fn(ctx, svc, v); err != nil {
						return err
					}
					return printPresets(cmd, svc)
				})
			},
		}
	}

	add := mutate("add", "Add a custom preset (1 to 9999 oz).", func(ctx context.Context, svc *app.Service, v int) error {
		return svc.Store.AddWaterPreset(ctx, v)
	})
	rm := mutate("rm", "Remove a custom preset. The defaults are always kept.", func(ctx context.Context, svc *app.Service, v int) error {
		return svc.Store.RemoveWaterPreset(ctx, v)
	})

	for _, c := range []*cobra.Command{ls, add, rm} {
		options.AddOutputArg(c, oo)
		cmd.AddCommand(c)
	}
	parent.AddCommand(cmd)
}
