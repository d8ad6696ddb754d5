package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tpgainz/recherche-entreprises/logger"
	"github.com/tpgainz/recherche-entreprises/runner"
	"github.com/tpgainz/recherche-entreprises/runner/searchrunner"
)

func main() {
	if _, err := os.Stat("/.dockerenv"); os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v (continuing without it)", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	runner.Banner(os.Stderr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan

		log.Println("Received signal, shutting down...")

		cancel()
	}()

	cfg, err := runner.ParseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		cancel()

		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		os.Stderr.WriteString(err.Error() + "\n")

		os.Exit(2)
	}

	zlog, err := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		cancel()
		os.Stderr.WriteString(err.Error() + "\n")

		os.Exit(2)
	}

	runnerInstance, err := runnerFactory(ctx, cfg, zlog)
	if err != nil {
		cancel()
		zlog.Error("cannot start", zap.Error(err))
		_ = zlog.Sync()

		os.Exit(1)
	}

	if err := runnerInstance.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Error("run failed", zap.Error(err))

		_ = runnerInstance.Close(ctx)
		_ = zlog.Sync()

		cancel()

		os.Exit(1)
	}

	_ = runnerInstance.Close(ctx)
	_ = zlog.Sync()

	cancel()

	os.Exit(0)
}

func runnerFactory(ctx context.Context, cfg *runner.Config, zlog *zap.Logger) (runner.Runner, error) {
	switch cfg.RunMode {
	case runner.RunModeSearch, runner.RunModeNearPoint:
		return searchrunner.New(ctx, cfg, zlog)
	default:
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}
}
