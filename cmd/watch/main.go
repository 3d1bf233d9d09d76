package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

func watchAction(_ context.Context, cmd *cli.Command) error {
	model := NewModel(
		cmd.String("api"),
		ParseTickers(cmd.String("tickers")),
		cmd.Duration("interval"),
	)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	return nil
}

func main() {
	app := &cli.Command{
		Name:  "watch",
		Usage: "Live terminal dashboard for tracked signals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api",
				Usage: "Base URL of the sentinel API",
				Value: "http://localhost:8080",
			},
			&cli.StringFlag{
				Name:  "tickers",
				Usage: "Comma-separated tickers to watch (empty watches all)",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Poll interval",
				Value: 2 * time.Second,
			},
		},
		Action: watchAction,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
