package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/eventflow/app/demo"
	"github.com/dmitrymomot/eventflow/core/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := demo.NewApp()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		app.Logger().Error("flowdemo failed", logger.Error(err))
		return err
	}
	return nil
}
