// Package history prints the three logs merged over a lookback window.
package history

import (
	"context"
	"errors"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/timeutil"
)

type History struct {
	Service *app.Service
	// Last is a lookback such as "3d" or "1w".
	Last    string
	Printer *printers.PrettyPrint
}

func (n *History) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show history, no service")
	}
	w, err := timeutil.ParseWindow(n.Last, n.Service.Now())
	if err != nil {
		return err
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.History(n.Service.History(w))
	return nil
}
