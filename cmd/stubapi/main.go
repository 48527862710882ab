// Command stubapi runs the in-memory bus booking API for local development
// of busctl.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/config"
	"github.com/iliyamo/bus-booking-client/internal/devserver"
	"github.com/iliyamo/bus-booking-client/internal/logging"
)

func main() {
	cfg, err := config.LoadStub()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	srv, err := devserver.New(cfg, log)
	if err != nil {
		log.Fatal("build server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Start(ctx); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
