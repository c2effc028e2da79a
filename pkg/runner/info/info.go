package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/kv"
	"tableflip.dev/fastlog/pkg/store"
)

type Info struct {
	Config  kv.Config
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("FASTLOG_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "FASTLOG_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "FASTLOG_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = kv.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.backend:", n.Config.Backend())

	if n.Service == nil {
		return fmt.Errorf("no service configured")
	}

	_, _ = fmt.Fprintf(out, "Logs:\n")
	for _, c := range []store.Collection{store.Fasting, store.Food, store.Water} {
		_, _ = fmt.Fprintf(out, "  %-8s %d\n", c, n.Service.Store.Len(c))
	}
	_, _ = fmt.Fprintf(out, "Water goal: %g oz\n", n.Service.Store.WaterGoal())
	_, _ = fmt.Fprintf(out, "Presets: %v\n", n.Service.Store.WaterPresets())
	if a, ok := n.Service.Store.ActiveSession(); ok {
		_, _ = fmt.Fprintf(out, "Active fast: started %d, %dh goal\n", a.Start, a.Protocol)
	}
	return nil
}
