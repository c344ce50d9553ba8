package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Stage Phase = iota
	ImportFile
	CheckoutGroup
	RenderGroup
	VerifyOutputs
	Summary
)

func (p Phase) String() string {
	switch p {
	case Stage:
		return "stage"
	case ImportFile:
		return "import_file"
	case CheckoutGroup:
		return "checkout_group"
	case RenderGroup:
		return "render_group"
	case VerifyOutputs:
		return "verify_outputs"
	case Summary:
		return "summary"
	default:
		return ""
	}
}

func stagingUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Stage,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Staging into %s", dir),
	}
}

func importingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("importing (%d/%d) %s", step, total, name),
	}
}

func importFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func checkoutUpdate(dir string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckoutGroup,
		Step:    files,
		Total:   files,
		Message: fmt.Sprintf("checking out %s", dir),
	}
}

func renderingUpdate(dir string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenderGroup,
		Step:    files,
		Total:   files,
		Message: fmt.Sprintf("rendering %s (%d files)", dir, files),
	}
}

func verifyUpdate(processed, total, missing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   VerifyOutputs,
		Step:    processed,
		Total:   total,
		Message: fmt.Sprintf("verified %d/%d rendered files (%d missing)", processed, total, missing),
	}
}

func importSummaryUpdate(report ImportReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summary,
		Step:    report.Succeeded + report.Failed,
		Total:   report.Succeeded + report.Failed,
		Message: fmt.Sprintf("imported %d, failed %d", report.Succeeded, report.Failed),
		Data:    report,
	}
}

func renderSummaryUpdate(report RenderReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summary,
		Step:    report.Succeeded + report.Failed,
		Total:   report.Succeeded + report.Failed,
		Message: fmt.Sprintf("rendered %d, failed %d", report.Succeeded, report.Failed),
		Data:    report,
	}
}
