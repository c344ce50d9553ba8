package main

import (
	"context"
	"errors"

	"github.com/desertthunder/wavesync/internal/shared"
	"github.com/desertthunder/wavesync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import resolves the middleware selection and runs an import task to
// completion, printing the batch report.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureConnected(ctx); err != nil {
		return err
	}

	descriptors, err := r.resolver.ResolveSelection(ctx)
	if err != nil {
		return err
	}

	if len(descriptors) == 0 {
		r.writeLine("selection resolves to no audio-file sources; nothing to import")
		return nil
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	task := tasks.NewImportTask(r.session, descriptors, progress)

	if err := r.runTask(ctx, task, progress); err != nil {
		return err
	}

	report := task.Report()
	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writeLine("imported %d, failed %d (staged in %s)", report.Succeeded, report.Failed, task.StagingDir())
	return nil
}

// Render runs a render task over the host's current item selection,
// printing the per-file report.
func (r *Runner) Render(ctx context.Context, cmd *cli.Command) error {
	progress := make(chan tasks.ProgressUpdate, 50)
	task := tasks.NewRenderTask(r.session, progress)

	if err := r.runTask(ctx, task, progress); err != nil {
		// An empty selection or registry is a notice, not a failure.
		if errors.Is(err, shared.ErrNothingSelected) || errors.Is(err, shared.ErrEmptyRegistry) || errors.Is(err, shared.ErrEmptyRenderSet) {
			r.writeLine("%v", err)
			return nil
		}
		return err
	}

	report := task.Report()
	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writeLine("rendered %d, failed %d across %d directories", report.Succeeded, report.Failed, task.Groups())
	return nil
}

// runTask drives the scheduler to completion on the calling goroutine,
// logging progress updates as they arrive.
func (r *Runner) runTask(ctx context.Context, task tasks.Task, progress <-chan tasks.ProgressUpdate) error {
	if err := r.scheduler.Start(task); err != nil {
		return err
	}

	for r.scheduler.Tick(ctx) {
		r.drainProgress(progress)
	}
	r.drainProgress(progress)

	return r.scheduler.LastErr()
}

// drainProgress logs buffered progress updates without blocking.
func (r *Runner) drainProgress(progress <-chan tasks.ProgressUpdate) {
	for {
		select {
		case update := <-progress:
			r.logger.Info(update.Message, "phase", update.Phase)
		default:
			return
		}
	}
}
