package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wavesync/internal/shared"
)

// Task is a cooperative unit of work stepped once per scheduler tick.
type Task interface {
	// Kind identifies the task for presentation.
	Kind() Kind

	// Step resumes the task for one unit of work. Returns done once the
	// task has finished. An error forcibly terminates the task.
	Step(ctx context.Context) (bool, error)

	// Progress returns the completed fraction in [0,1].
	Progress() float64

	// Status returns a human-readable status line for the current step.
	Status() string
}

// Task kind enumeration
type Kind int

const (
	KindNone Kind = iota
	KindImport
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindRender:
		return "render"
	default:
		return "none"
	}
}

// Scheduler state enumeration
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Scheduler runs at most one task at a time, resuming it exactly one step
// per tick. Starting a task while another runs is rejected, never queued.
//
// Ticking happens on a single goroutine (the CLI loop, the TUI frame, or
// the status server's ticker); the mutex only guards the presentation
// layer's snapshot reads against that goroutine.
type Scheduler struct {
	mu      sync.Mutex
	logger  *log.Logger
	task    Task
	lastErr error
}

// NewScheduler creates an idle Scheduler.
func NewScheduler(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Scheduler{logger: logger}
}

// Start activates task. Returns [shared.ErrTaskRunning] if a task is
// already active; the running task is left untouched.
func (s *Scheduler) Start(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task != nil {
		return shared.ErrTaskRunning
	}

	s.task = task
	s.lastErr = nil
	s.logger.Info("task started", "kind", task.Kind())
	return nil
}

// Tick resumes the active task exactly one step. Returns true while a task
// remains active. A step error logs, forcibly terminates the task, and
// returns the scheduler to idle; the scheduler is never left stuck running
// a crashed task.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()

	if task == nil {
		return false
	}

	done, err := task.Step(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Error("task terminated", "kind", task.Kind(), "err", err)
		s.lastErr = err
		s.task = nil
		return false
	}

	if done {
		s.logger.Info("task finished", "kind", task.Kind(), "status", task.Status())
		s.task = nil
		return false
	}

	return true
}

// Run ticks the active task to completion. Convenience for the CLI path,
// where no frame loop drives the scheduler. Returns the terminating error,
// if any.
func (s *Scheduler) Run(ctx context.Context) error {
	for s.Tick(ctx) {
	}
	return s.LastErr()
}

// State returns whether a task is active.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task != nil {
		return StateRunning
	}
	return StateIdle
}

// ActiveKind returns the active task's kind, or KindNone when idle.
func (s *Scheduler) ActiveKind() Kind {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task == nil {
		return KindNone
	}
	return s.task.Kind()
}

// ProgressFraction returns the active task's progress, or 0 when idle.
func (s *Scheduler) ProgressFraction() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task == nil {
		return 0
	}
	return s.task.Progress()
}

// StatusText returns the active task's status line, or "" when idle.
func (s *Scheduler) StatusText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task == nil {
		return ""
	}
	return s.task.Status()
}

// LastErr returns the error that terminated the most recent task, if any.
// Reset on the next successful Start.
func (s *Scheduler) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
