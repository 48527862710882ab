// Command busctl is the terminal client of the bus booking service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/cli"
	"github.com/iliyamo/bus-booking-client/internal/config"
	"github.com/iliyamo/bus-booking-client/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.Open(ctx, cfg, log, os.Stdout, os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "busctl:", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close", zap.Error(err))
		}
	}()

	if err := cli.Root(app).Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		return 1
	}
	return 0
}
