// Package stats prints the dashboard of daily and weekly rollups.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/stats"
)

// Stats prints the current fast followed by the dashboard.
type Stats struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

// Report is the JSON shape of the stats output.
type Report struct {
	Fast      fasting.Progress `json:"fast"`
	Dashboard stats.Dashboard  `json:"dashboard"`
}

func (n *Stats) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not compute stats, no service")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	r := Report{
		Fast:      n.Service.Status(),
		Dashboard: n.Service.Dashboard(),
	}
	if n.JSON {
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	pp := printers.PrettyPrint{Out: out}
	pp.Title("Fast")
	pp.Progress(r.Fast)
	pp.NewLine()
	pp.Dashboard(r.Dashboard)
	return nil
}
