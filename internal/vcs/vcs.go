// Package vcs provides the version control operations needed before
// rendering over tracked audio files.
//
// The depot requires an explicit checkout before a tracked file may be
// overwritten. Checkout is fire-and-forget from the render pipeline's point
// of view: a failure is logged by the caller but never blocks the render,
// since the file may already be writable or untracked.
package vcs

import "fmt"

// Client defines the checkout operation the render pipeline needs.
type Client interface {
	// Name returns the client's identifier (e.g. "p4", "none").
	Name() string

	// Checkout makes the file at path writable in the working copy.
	Checkout(path string) error
}

// New creates a Client by name. Supported names are "p4" and "none"
// (empty selects "none").
func New(name, binary string) (Client, error) {
	switch name {
	case "p4":
		return NewPerforce(binary), nil
	case "", "none":
		return NullClient{}, nil
	default:
		return nil, fmt.Errorf("unknown vcs client: %s", name)
	}
}

// NullClient is a no-op Client for working copies without version control.
type NullClient struct{}

// Name returns "none"
func (NullClient) Name() string { return "none" }

// Checkout does nothing and always succeeds.
func (NullClient) Checkout(path string) error { return nil }
