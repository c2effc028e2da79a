package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/fastlog/pkg/entry"
)

// FastOptions
type FastOptions struct {
	Protocol string
}

func AddFastArgs(cmd *cobra.Command, o *FastOptions) {
	cmd.Flags().StringVarP(&o.Protocol, "protocol", "p", entry.ProtocolLabel(entry.DefaultProtocol),
		"Fasting protocol: 16:8, 18:6, 20:4, OMAD or a number of hours.")
}

// FoodOptions
type FoodOptions struct {
	Cal  string
	Cat  string
	Note string
}

func AddFoodArgs(cmd *cobra.Command, o *FoodOptions) {
	cmd.Flags().StringVarP(&o.Cal, "cal", "c", "",
		"Calories, a non-negative integer.")
	cmd.Flags().StringVar(&o.Cat, "cat", entry.DefaultCategory,
		"Category: Breakfast, Lunch, Dinner, Snack or Drink.")
	cmd.Flags().StringVarP(&o.Note, "note", "n", "",
		"Free-form note.")
}

// ListOptions
type ListOptions struct {
	Today  bool
	ShowID bool
}

func AddListArgs(cmd *cobra.Command, o *ListOptions, today bool) {
	if today {
		cmd.Flags().BoolVarP(&o.Today, "today", "t", false,
			"Only show entries logged today.")
	}
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the id of each entry, used by rm.")
}
