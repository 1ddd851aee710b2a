package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/shared"
	"github.com/desertthunder/tunebase/internal/ui"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "tunebase",
		Usage:    "Music catalog backend: artists, songs, albums and playlists",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Load,
		After:    runner.Close,
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Debug("application error", "err", err)
		fmt.Fprintln(os.Stderr, ui.Failure("✗ "+err.Error()))
		os.Exit(1)
	}
}
