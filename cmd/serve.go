package main

import (
	"context"
	"time"

	"github.com/desertthunder/wavesync/internal/server"
	"github.com/urfave/cli/v3"
)

// tickInterval is the scheduler resume rate for the serve loop.
const tickInterval = time.Second / 30

// Serve runs the localhost status/control server. A single ticker goroutine
// drives the scheduler; HTTP handlers only start tasks and read snapshots.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureConnected(ctx); err != nil {
		r.logger.Warn("middleware not reachable at startup; /import will fail until it is", "err", err)
	}

	engine := &server.Engine{
		Session:   r.session,
		Scheduler: r.scheduler,
		Resolver:  r.resolver,
		Logger:    r.logger,
	}

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	engine.Routes(router)

	srv := server.NewServer(r.config.Server, router, r.logger)

	tickCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				r.scheduler.Tick(tickCtx)
			}
		}
	}()

	return srv.Start()
}
