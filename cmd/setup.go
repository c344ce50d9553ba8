package main

import (
	"context"

	"github.com/desertthunder/wavesync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config file if none exists and initializes the
// descriptor cache database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		r.logger.Warn("config file not created", "path", configPath, "err", err)
	} else {
		r.writeLine("created %s", configPath)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.writeLine("database ready at %s", r.config.Database.Path)
	return nil
}
