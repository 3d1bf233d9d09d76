package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantgate/signal-sentinel/internal/config"
	"github.com/quantgate/signal-sentinel/internal/evaluator"
	"github.com/quantgate/signal-sentinel/internal/feed"
	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/internal/notifier"
	"github.com/quantgate/signal-sentinel/internal/replay"
	"github.com/quantgate/signal-sentinel/internal/server"
	"github.com/quantgate/signal-sentinel/internal/store"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/internal/version"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) (*logger.Logger, error) {
	if level == "" {
		return logger.NewLogger()
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return logger.NewLoggerWithLevel(parsed)
}

// openStore opens and initializes the signal store from the configuration.
func openStore(cfg config.Config, log *logger.Logger) (*store.DuckDBStore, error) {
	signalStore, err := store.NewDuckDBStore(cfg.Store.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := signalStore.Initialize(); err != nil {
		signalStore.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return signalStore, nil
}

// buildDispatcher assembles the notification dispatcher with every backend
// the configuration enables.
func buildDispatcher(cfg config.Config, log *logger.Logger) (*notifier.Dispatcher, error) {
	dispatcher := notifier.NewDispatcher(notifier.DispatcherConfig{
		QueueSize:   cfg.Notifier.QueueSize,
		MaxAttempts: cfg.Notifier.MaxAttempts,
		RetryDelay:  cfg.Notifier.RetryDelay,
	}, log)

	if cfg.Notifier.WebhookURL != "" {
		dispatcher.Register(notifier.NewWebhookNotifier(cfg.Notifier.WebhookURL))
	}

	if cfg.Notifier.TelegramToken != "" {
		telegram, err := notifier.NewTelegramNotifier(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to create telegram notifier: %w", err)
		}

		dispatcher.Register(telegram)
	}

	return dispatcher, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	signalStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer signalStore.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dispatcher, err := buildDispatcher(cfg, log)
	if err != nil {
		return err
	}
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	eval := evaluator.New(signalStore, dispatcher, log)

	srv := server.NewServer(eval, signalStore, log, cfg.Server.AuthSecret)
	if err := srv.Start(cfg.Server.ListenAddr); err != nil {
		return err
	}
	defer srv.Stop()

	log.Info("server listening", zap.String("address", srv.Address()))

	if cfg.Feed.Provider != "" {
		provider, err := feed.NewProvider(feed.ProviderType(cfg.Feed.Provider), feed.ProviderConfig{
			PolygonAPIKey: cfg.Feed.PolygonAPIKey,
			PollInterval:  cfg.Feed.PollInterval,
		})
		if err != nil {
			return err
		}

		runner := feed.NewRunner(provider, eval, log)

		go func() {
			if err := runner.Run(ctx, cfg.Feed.Symbols, types.Interval(cfg.Feed.Interval)); err != nil {
				log.Error("feed stopped", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutting down")

	return nil
}

func replayAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	signalStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer signalStore.Close()

	// Replay re-derives state only; no delivery backends are registered so
	// historical transitions do not notify anyone.
	dispatcher := notifier.NewDispatcher(notifier.DispatcherConfig{}, log)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	replayer := replay.NewReplayer(evaluator.New(signalStore, dispatcher, log), log)
	replayer.ShowProgress = !cmd.Bool("quiet")

	replayed, err := replayer.ReplayFile(ctx, cmd.String("file"))
	if err != nil {
		return err
	}

	log.Info("replay finished", zap.Int("candles", replayed))

	return nil
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	cfg := config.DefaultConfig()

	out, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(out)

	return nil
}

func versionAction(_ context.Context, _ *cli.Command) error {
	fmt.Println(version.Version)

	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML configuration file",
	}

	cmd := &cli.Command{
		Name:  "sentinel",
		Usage: "Trading signal lifecycle service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, notification dispatcher and optional market data feed",
				Flags:  []cli.Flag{configFlag},
				Action: serveAction,
			},
			{
				Name:  "replay",
				Usage: "Replay historical candles from a CSV file through the evaluator",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the candle CSV file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Disable the progress bar",
					},
				},
				Action: replayAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the configuration JSON schema",
				Action: schemaAction,
			},
			{
				Name:   "version",
				Usage:  "Print the build version",
				Action: versionAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
