package vcs

import (
	"fmt"
	"os/exec"
	"strings"
)

// Perforce implements [Client] by shelling out to the p4 binary.
type Perforce struct {
	binary string
}

// NewPerforce creates a Perforce client using the given binary path.
// An empty binary defaults to "p4" on PATH.
func NewPerforce(binary string) *Perforce {
	if binary == "" {
		binary = "p4"
	}
	return &Perforce{binary: binary}
}

// Name returns "p4"
func (p *Perforce) Name() string { return "p4" }

// Checkout opens path for edit in the default changelist.
func (p *Perforce) Checkout(path string) error {
	cmd := exec.Command(p.binary, "edit", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("p4 edit %s: %w: %s", path, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Version returns the p4 binary version string.
func (p *Perforce) Version() (string, error) {
	cmd := exec.Command(p.binary, "-V")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get p4 version: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
