// Package export writes every log and setting in a portable format.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tableflip.dev/fastlog/pkg/app"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Export struct {
	Service *app.Service
	Format  string
	Out     io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no service")
	}
	out := n.Out
	if out == nil {
		out = os.Stdout
	}
	snap := n.Service.Export()

	switch strings.ToLower(strings.TrimSpace(n.Format)) {
	case "", FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", n.Format)
	}
}
