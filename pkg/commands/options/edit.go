package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/timeutil"
)

// EditOptions holds replacement values for an entry. Only flags that were
// set on the command line are applied.
type EditOptions struct {
	Start    string
	End      string
	Protocol string
	Name     string
	Cal      string
	Cat      string
	Note     string
	Amount   string
	At       string
}

const timeHelp = " (" + timeutil.InputLayout + ", local time)"

func AddFastEditArgs(cmd *cobra.Command, o *EditOptions) {
	cmd.Flags().StringVar(&o.Start, "start", "", "New start"+timeHelp)
	cmd.Flags().StringVar(&o.End, "end", "", "New end"+timeHelp)
	cmd.Flags().StringVarP(&o.Protocol, "protocol", "p", "", "New protocol.")
}

func AddFoodEditArgs(cmd *cobra.Command, o *EditOptions) {
	cmd.Flags().StringVar(&o.Name, "name", "", "New name.")
	cmd.Flags().StringVarP(&o.Cal, "cal", "c", "", "New calories.")
	cmd.Flags().StringVar(&o.Cat, "cat", "", "New category.")
	cmd.Flags().StringVarP(&o.Note, "note", "n", "", "New note.")
	cmd.Flags().StringVar(&o.At, "at", "", "New time"+timeHelp)
}

func AddWaterEditArgs(cmd *cobra.Command, o *EditOptions) {
	cmd.Flags().StringVarP(&o.Amount, "amount", "a", "", "New amount in ounces.")
	cmd.Flags().StringVar(&o.At, "at", "", "New time"+timeHelp)
}

// Changed copies v into dst when flag was given.
func Changed(cmd *cobra.Command, flag string, dst *string, v string) {
	if cmd.Flags().Changed(flag) {
		*dst = v
	}
}
