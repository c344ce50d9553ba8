package main

import (
	"context"

	"github.com/desertthunder/wavesync/internal/repositories"
	"github.com/urfave/cli/v3"
)

// Connect verifies the middleware is reachable with the configured address.
func (r *Runner) Connect(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureConnected(ctx); err != nil {
		return err
	}

	r.writeLine("connected to middleware at %s:%d", r.config.Middleware.Host, r.config.Middleware.Port)
	return nil
}

// SourcesResolve resolves the middleware's current selection and prints the
// deduplicated audio-file sources. With --cache, descriptors are also stored
// in the local cache database.
func (r *Runner) SourcesResolve(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureConnected(ctx); err != nil {
		return err
	}

	descriptors, err := r.resolver.ResolveSelection(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("cache") && len(descriptors) > 0 {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := repositories.NewSourceCacheRepository(db)
		stored, err := repo.CacheAll(descriptors)
		if err != nil {
			r.logger.Warn("descriptor caching stopped early", "stored", stored, "err", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(descriptors, cmd.Bool("pretty"))
	}

	for _, descriptor := range descriptors {
		r.writeLine("%s\t%s\t%s", descriptor.ID, descriptor.Name, descriptor.OriginalFilePath)
	}
	r.writeLine("%d audio-file sources", len(descriptors))
	return nil
}

// SourcesCached lists descriptors from the local cache database, no
// middleware connection required.
func (r *Runner) SourcesCached(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSourceCacheRepository(db)
	sources, err := repo.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sources, cmd.Bool("pretty"))
	}

	for _, source := range sources {
		r.writeLine("%s\t%s\t%s", source.SourceID, source.Name, source.OriginalFilePath)
	}
	r.writeLine("%d cached sources", len(sources))
	return nil
}
