package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/commands/options"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/runner/list"
	"tableflip.dev/fastlog/pkg/store"
)

func addFood(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "food",
		Aliases: []string{"meal", "meals"},
		Short:   "Log and review meals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addFoodAdd(cmd)
	addFoodList(cmd)
	addFoodEdit(cmd)
	addRemove(cmd, store.Food)

	topLevel.AddCommand(cmd)
}

func addFoodAdd(parent *cobra.Command) {
	fo := &options.FoodOptions{}
	var name string

	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Log a meal.",
		Example: `
fastlog food add oatmeal with berries --cal 350
fastlog food add salad --cat lunch --note "no dressing"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				f, err := svc.AddFood(ctx, store.FoodInput{Name: name, Cal: fo.Cal, Cat: fo.Cat, Note: fo.Note})
				if err != nil {
					return err
				}
				text := fmt.Sprintf("Logged %s (%s)", f.Name, f.Cat)
				if f.Cal != "" {
					text = fmt.Sprintf("Logged %s (%s, %d cal)", f.Name, f.Cat, f.Cal.Value())
				}
				return oo.Result(cmd.OutOrStdout(), f, text)
			})
		},
	}

	options.AddFoodArgs(cmd, fo)
	_ = cmd.RegisterFlagCompletionFunc("cat", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return entry.Categories, cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addFoodList(parent *cobra.Command) {
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List meals, newest first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				l := list.List{
					Service:    svc,
					Collection: store.Food,
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

func addFoodEdit(parent *cobra.Command) {
	eo := &options.EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Correct a logged meal.",
		Example: `
fastlog food edit 0 --cal 420
fastlog food edit 1 --cat dinner --at 2024-03-07T19:15
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				e, err := svc.Editor.OpenFood(index)
				if err != nil {
					return err
				}
				options.Changed(cmd, "name", &e.Draft.Name, eo.Name)
				options.Changed(cmd, "cal", &e.Draft.Cal, eo.Cal)
				options.Changed(cmd, "cat", &e.Draft.Cat, eo.Cat)
				options.Changed(cmd, "note", &e.Draft.Note, eo.Note)
				options.Changed(cmd, "at", &e.Draft.At, eo.At)
				f, err := svc.Editor.CommitFood(ctx, e)
				if err != nil {
					return err
				}
				return oo.Result(cmd.OutOrStdout(), f, fmt.Sprintf("Updated meal %d: %s", index, f.Name))
			})
		},
	}

	options.AddFoodEditArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
