package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Middleware connection and query errors
	ErrConnection   = fmt.Errorf("middleware connection failed")
	ErrNotConnected = fmt.Errorf("not connected to middleware")
	ErrQuery        = fmt.Errorf("middleware query failed")

	// Timeline host errors
	ErrHostUnavailable = fmt.Errorf("timeline host unavailable")
	ErrNoProject       = fmt.Errorf("no project open on timeline host")

	// Task errors
	ErrPrecondition    = fmt.Errorf("task precondition failed")
	ErrTaskRunning     = fmt.Errorf("a task is already running")
	ErrNothingSelected = fmt.Errorf("no items selected on timeline host")
	ErrEmptyRegistry   = fmt.Errorf("source registry is empty")
	ErrEmptyRenderSet  = fmt.Errorf("no selected item maps to an imported source")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
