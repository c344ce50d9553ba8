package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/wavesync/internal/host"
	"github.com/desertthunder/wavesync/internal/middleware"
	"github.com/desertthunder/wavesync/internal/resolver"
	"github.com/desertthunder/wavesync/internal/shared"
	"github.com/desertthunder/wavesync/internal/tasks"
	"github.com/desertthunder/wavesync/internal/vcs"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	middlewareClient := middleware.NewRemoteClient(&http.Client{Timeout: 10 * time.Second}, config.Middleware.RateLimit)
	timelineHost := host.NewBridgeHost(config.Host.BridgeURL, nil)

	vcsClient, err := vcs.New(config.VCS.Client, config.VCS.P4Bin)
	if err != nil {
		logger.Fatalf("invalid vcs configuration: %v", err)
	}

	session := tasks.NewSession(tasks.SessionOpts{
		Config:     config,
		Middleware: middlewareClient,
		Host:       timelineHost,
		VCS:        vcsClient,
		Logger:     logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Session:   session,
		Resolver:  resolver.NewResolver(middlewareClient, logger),
		Scheduler: tasks.NewScheduler(logger),
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "wavesync",
		Usage:    "Round-trip audio between the middleware database & the timeline host",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
