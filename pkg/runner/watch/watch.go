// Package watch runs the live dashboard.
package watch

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/fastlog/pkg/app"
)

type Watch struct {
	Service  *app.Service
	Interval time.Duration
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not watch, no service")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, n.Service, n.Interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
