package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"anaam-stocks/internal/bootstrap"
	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/session"
)

// App carries the wired components shared by every command.
type App struct {
	Broker  interfaces.Broker
	Engine  interfaces.Engine
	Session interfaces.SessionStore
}

func main() {
	app := &App{}
	if err := newRootCmd(app).Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "stocksctl",
		Short:        "Query Kite historical data and AI commentary from the shell",
		Version:      bootstrap.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Engine != nil {
				return nil
			}
			return app.init(cmd.Context())
		},
	}

	root.AddCommand(
		newLoginURLCmd(app),
		newSessionCmd(app),
		newHistoryCmd(app),
		newLTPCmd(app),
		newAnalyzeCmd(app),
		newAdviseCmd(app),
	)
	return root
}

func (a *App) init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := bootstrap.InitializeSystem(); err != nil {
		return err
	}
	cfg, err := bootstrap.LoadConfig(ctx)
	if err != nil {
		return err
	}

	a.Broker = bootstrap.InitializeBroker(ctx, cfg)
	a.Engine = bootstrap.InitializeEngine(cfg, a.Broker, bootstrap.InitializeCompleter(ctx, cfg))
	a.Session = session.NewStatic(cfg.Secrets.KiteAccessToken)
	return nil
}
