package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/commands/options"
	"tableflip.dev/fastlog/pkg/kv"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	oo      = &options.OutputOptions{}
	verbose bool
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "fastlog",
		Short: base.Wrap80("Intermittent fasting, food and water tracking on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log storage details to stderr.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addFast(topLevel)
	addFood(topLevel)
	addWater(topLevel)
	addStats(topLevel)
	addHistory(topLevel)
	addExport(topLevel)
	addWatch(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func newLogger(cfg kv.Config) *zap.Logger {
	if !verbose && !cfg.Verbose() {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// load reads the configuration and opens the logs it points at. Callers
// close the returned service.
func load(ctx context.Context) (*app.Service, kv.Config, error) {
	cfg, err := kv.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	backing, err := kv.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	log := newLogger(cfg)
	log.Debug("opened store", zap.String("backend", cfg.Backend()), zap.String("path", cfg.BasePath()))
	return app.New(ctx, backing, app.WithLogger(log)), cfg, nil
}

// run loads the service, hands it to fn and closes it.
func run(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, _, err := load(ctx)
	if err != nil {
		return oo.HandleError(err)
	}
	defer func() { _ = svc.Close() }()
	return oo.HandleError(fn(ctx, svc))
}
