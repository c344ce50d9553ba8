package tasks

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/wavesync/internal/host"
	"github.com/desertthunder/wavesync/internal/middleware"
	"github.com/desertthunder/wavesync/internal/registry"
	"github.com/desertthunder/wavesync/internal/shared"
	"github.com/desertthunder/wavesync/internal/vcs"
)

// Session holds the shared state of one synchronization session: the source
// registry plus the external collaborators tasks depend on. It is owned by
// whoever owns the [Scheduler] and passed to tasks by reference.
type Session struct {
	Config     *shared.Config
	Middleware middleware.Client
	Host       host.Host
	VCS        vcs.Client
	Registry   *registry.Registry
	Logger     *log.Logger
}

// SessionOpts contains dependencies for creating a Session.
type SessionOpts struct {
	Config     *shared.Config
	Middleware middleware.Client
	Host       host.Host
	VCS        vcs.Client
	Logger     *log.Logger
}

// NewSession creates a Session with an empty registry.
func NewSession(opts SessionOpts) *Session {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.VCS == nil {
		opts.VCS = vcs.NullClient{}
	}

	return &Session{
		Config:     opts.Config,
		Middleware: opts.Middleware,
		Host:       opts.Host,
		VCS:        opts.VCS,
		Registry:   registry.NewRegistry(),
		Logger:     opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
