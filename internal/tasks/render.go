package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/wavesync/internal/host"
	"github.com/desertthunder/wavesync/internal/registry"
	"github.com/desertthunder/wavesync/internal/shared"
)

// RenderReport summarizes a render operation.
type RenderReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// renderGroup is the set of selected items whose originals share a
// destination directory. The host renders one directory at a time, so
// grouping lets a whole directory's files be checked out and rendered
// together and lets partial failure be attributed per directory.
type renderGroup struct {
	dir     string
	items   []host.ItemRef
	records []registry.SourceRecord
}

// renderPhase tracks which half of the current group the next step performs.
type renderPhase int

const (
	phaseCheckout renderPhase = iota
	phaseRender
)

// RenderTask maps the host's item selection back to registry records, groups
// them by destination directory, and renders each group over its original
// files.
//
// Each group takes two scheduler steps: one issuing a checkout per file and
// one performing the blocking host render followed by per-file existence
// checks. Checkout results are not consulted before rendering; a rendered
// file counts as succeeded if it exists afterwards, with no content check.
type RenderTask struct {
	session  *Session
	progress chan<- ProgressUpdate

	started    bool
	groups     []renderGroup
	groupIndex int
	phase      renderPhase
	processed  int
	total      int
	report     RenderReport
	status     string
	fraction   float64
}

// NewRenderTask creates a RenderTask over the host's current selection.
// The progress channel may be nil.
func NewRenderTask(session *Session, progress chan<- ProgressUpdate) *RenderTask {
	return &RenderTask{
		session:  session,
		progress: progress,
		status:   "preparing render",
	}
}

// Kind returns KindRender
func (t *RenderTask) Kind() Kind { return KindRender }

// Progress returns the completed fraction in [0,1].
func (t *RenderTask) Progress() float64 { return t.fraction }

// Status returns the human-readable status line for the current step.
func (t *RenderTask) Status() string { return t.status }

// Report returns the render summary. Valid once Step has reported done.
func (t *RenderTask) Report() RenderReport { return t.report }

// Groups returns the number of directory groups. Valid after the first step.
func (t *RenderTask) Groups() int { return len(t.groups) }

// Step runs one unit of work: the first call maps the selection to render
// groups, then each group consumes one checkout step and one render+verify
// step. Returns done after the last group's verification.
func (t *RenderTask) Step(ctx context.Context) (bool, error) {
	if !t.started {
		if err := t.begin(); err != nil {
			return false, err
		}
		t.started = true
		return false, nil
	}

	if t.groupIndex >= len(t.groups) {
		t.finish()
		return true, nil
	}

	group := t.groups[t.groupIndex]
	switch t.phase {
	case phaseCheckout:
		t.checkoutGroup(group)
		t.phase = phaseRender
	case phaseRender:
		t.renderGroup(group)
		t.phase = phaseCheckout
		t.groupIndex++
	}

	return false, nil
}

// begin maps the host selection to registry records and groups them by
// destination directory. No file-system work happens here, so failing out
// leaves no partial state behind.
func (t *RenderTask) begin() error {
	selection, err := t.session.Host.SelectedItems()
	if err != nil {
		return fmt.Errorf("%w: cannot read host selection: %v", shared.ErrPrecondition, err)
	}
	if len(selection) == 0 {
		return shared.ErrNothingSelected
	}
	if t.session.Registry.Count() == 0 {
		return shared.ErrEmptyRegistry
	}

	// Selected items that were never imported are silently excluded.
	byDir := make(map[string]*renderGroup)
	for _, item := range selection {
		record, ok := t.session.Registry.FindByItemRef(item)
		if !ok {
			continue
		}

		dir := filepath.Dir(record.OriginalFilePath)
		group, ok := byDir[dir]
		if !ok {
			group = &renderGroup{dir: dir}
			byDir[dir] = group
		}
		group.items = append(group.items, item)
		group.records = append(group.records, record)
		t.total++
	}

	if len(byDir) == 0 {
		return shared.ErrEmptyRenderSet
	}

	// Group order is whatever map iteration yields; nothing downstream
	// depends on it.
	for _, group := range byDir {
		t.groups = append(t.groups, *group)
	}

	if err := t.session.Host.BeginUndoGroup("Render to middleware sources"); err != nil {
		t.session.Logger.Warn("failed to open undo group", "err", err)
	}

	t.status = fmt.Sprintf("rendering %d files in %d directories", t.total, len(t.groups))
	return nil
}

// checkoutGroup issues one checkout per file in the group. Failures are
// logged and otherwise ignored; the render attempt proceeds regardless.
func (t *RenderTask) checkoutGroup(group renderGroup) {
	t.status = fmt.Sprintf("checking out %s", group.dir)
	sendProgress(t.progress, checkoutUpdate(group.dir, len(group.records)))

	for _, record := range group.records {
		if err := t.session.VCS.Checkout(record.OriginalFilePath); err != nil {
			t.session.Logger.Warn("checkout failed", "file", record.OriginalFilePath, "err", err)
		}
	}
}

// renderGroup selects the group's items, renders them into the group's
// directory, and verifies each expected output file exists.
func (t *RenderTask) renderGroup(group renderGroup) {
	t.status = fmt.Sprintf("rendering %s (%d files)", group.dir, len(group.records))
	sendProgress(t.progress, renderingUpdate(group.dir, len(group.records)))

	if err := t.renderTo(group); err != nil {
		// The whole directory's files are unaccounted for; count them all
		// as failed and move to the next group.
		t.report.Failed += len(group.records)
		t.session.Logger.Error("render failed", "dir", group.dir, "err", err)
	} else {
		t.verifyGroup(group)
	}

	t.processed += len(group.records)
	t.fraction = float64(t.processed) / float64(t.total)
}

// renderTo performs the blocking host render for the group. No timeout is
// enforced; a render that never returns stalls the scheduler.
func (t *RenderTask) renderTo(group renderGroup) error {
	if err := t.session.Host.SetSelection(group.items); err != nil {
		return fmt.Errorf("cannot select render set: %w", err)
	}
	return t.session.Host.RenderSelectionTo(group.dir)
}

// verifyGroup checks each expected output for existence. Presence is the
// only criterion; content is not inspected.
func (t *RenderTask) verifyGroup(group renderGroup) {
	missing := 0
	for _, record := range group.records {
		if _, err := os.Stat(record.OriginalFilePath); err != nil {
			t.report.Failed++
			missing++
			t.session.Logger.Warn("rendered file missing", "file", record.OriginalFilePath)
		} else {
			t.report.Succeeded++
		}
	}
	sendProgress(t.progress, verifyUpdate(t.processed+len(group.records), t.total, missing))
}

// finish closes the undo group and emits the render summary.
func (t *RenderTask) finish() {
	if err := t.session.Host.EndUndoGroup(); err != nil {
		t.session.Logger.Warn("failed to close undo group", "err", err)
	}

	t.fraction = 1
	t.status = fmt.Sprintf("rendered %d, failed %d", t.report.Succeeded, t.report.Failed)
	sendProgress(t.progress, renderSummaryUpdate(t.report))
}
