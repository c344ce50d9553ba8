// Package tasks implements the synchronization engine's long-running
// operations as cooperative, suspendable units of work driven by a scheduler.
//
// # Core Operations
//
//  1. [ImportTask] : middleware → timeline host
//     - Stages a local copy of each resolved audio-file source
//     - Places each copy on a fresh container with constant spacing
//     - Records every successful placement in the session registry
//     - Per-item failures are counted and never abort the batch
//
//  2. [RenderTask] : timeline host → original files
//     - Maps the host's item selection back to registry records
//     - Groups the render set by destination directory
//     - Checks out each group's files, renders the group, verifies outputs
//     - Checkout results are not consulted before rendering proceeds
//
// # Scheduling
//
// The [Scheduler] runs at most one task at a time. Each call to
// [Scheduler.Tick] resumes the active task exactly one step; between steps a
// task runs one unit of work (one file copy and placement, or one render
// group phase) to completion, so the presentation layer never observes a
// half-done file. A step error forcibly terminates the task and returns the
// scheduler to idle. There is no cancellation API and no retry anywhere.
//
// # Progress Reporting
//
// Tasks publish [ProgressUpdate] values on a non-blocking channel for the
// TUI, and the scheduler exposes polled ProgressFraction/StatusText
// snapshots for the CLI and status server.
//
// # Session
//
// [Session] owns the registry and the middleware, host, and vcs clients.
// It is passed explicitly to tasks; the package keeps no globals.
package tasks
