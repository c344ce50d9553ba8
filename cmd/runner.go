package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wavesync/internal/resolver"
	"github.com/desertthunder/wavesync/internal/shared"
	"github.com/desertthunder/wavesync/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	session   *tasks.Session
	resolver  *resolver.Resolver
	scheduler *tasks.Scheduler
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Session   *tasks.Session
	Resolver  *resolver.Resolver
	Scheduler *tasks.Scheduler
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Scheduler == nil {
		opts.Scheduler = tasks.NewScheduler(opts.Logger)
	}

	return &Runner{
		config:    opts.Config,
		session:   opts.Session,
		resolver:  opts.Resolver,
		scheduler: opts.Scheduler,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

// SetLogger replaces the runner's logger and the session's.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.session != nil {
		r.session.Logger = logger
	}
}

// ensureConnected connects the session's middleware client if needed.
func (r *Runner) ensureConnected(ctx context.Context) error {
	client := r.session.Middleware
	if client == nil {
		return fmt.Errorf("%w: middleware client not initialized", shared.ErrNotConnected)
	}
	if client.Connected() {
		return nil
	}
	return client.Connect(ctx, r.config.Middleware.Host, r.config.Middleware.Port)
}

// openDatabase opens the descriptor cache database from config and runs
// pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeLine(format string, args ...any) {
	fmt.Fprintf(r.output, format+"\n", args...)
}
