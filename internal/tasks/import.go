package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/desertthunder/wavesync/internal/host"
	"github.com/desertthunder/wavesync/internal/middleware"
	"github.com/desertthunder/wavesync/internal/registry"
	"github.com/desertthunder/wavesync/internal/shared"
)

// ImportReport summarizes an import batch.
type ImportReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ImportTask stages local copies of resolved audio-file sources, places them
// on a fresh timeline container, and records each placement in the session
// registry.
//
// The task is cooperative: each scheduler step imports exactly one
// descriptor. The staging directory must be resolvable from the host's
// project location before any file is touched; that failure is fatal.
// Everything after that is per-item: an unreadable source, a failed copy, or
// a failed placement is counted and logged, and the batch moves on. A
// staged file with a colliding name is overwritten unconditionally.
type ImportTask struct {
	session     *Session
	descriptors []middleware.SourceDescriptor
	progress    chan<- ProgressUpdate

	started    bool
	container  host.ContainerRef
	stagingDir string
	cursor     float64
	index      int
	report     ImportReport
	status     string
	fraction   float64
}

// NewImportTask creates an ImportTask over the given descriptors.
// The progress channel may be nil.
func NewImportTask(session *Session, descriptors []middleware.SourceDescriptor, progress chan<- ProgressUpdate) *ImportTask {
	return &ImportTask{
		session:     session,
		descriptors: descriptors,
		progress:    progress,
		status:      fmt.Sprintf("importing %d sources", len(descriptors)),
	}
}

// Kind returns KindImport
func (t *ImportTask) Kind() Kind { return KindImport }

// Progress returns the completed fraction in [0,1].
func (t *ImportTask) Progress() float64 { return t.fraction }

// Status returns the human-readable status line for the current step.
func (t *ImportTask) Status() string { return t.status }

// Report returns the batch summary. Valid once Step has reported done.
func (t *ImportTask) Report() ImportReport { return t.report }

// StagingDir returns the resolved staging directory, empty before the first step.
func (t *ImportTask) StagingDir() string { return t.stagingDir }

// Step runs one unit of work: the first call resolves the staging directory
// and creates the batch's container, each following call imports one
// descriptor. Returns done once every descriptor has been attempted.
func (t *ImportTask) Step(ctx context.Context) (bool, error) {
	if !t.started {
		if err := t.begin(); err != nil {
			return false, err
		}
		t.started = true
		return false, nil
	}

	if t.index >= len(t.descriptors) {
		t.finish()
		return true, nil
	}

	t.importNext()
	return false, nil
}

// begin resolves preconditions and creates the per-run container. Called
// before any file is touched; an error here aborts the whole batch.
func (t *ImportTask) begin() error {
	projectDir, err := t.session.Host.ProjectDirectory()
	if err != nil {
		return fmt.Errorf("%w: cannot resolve project directory: %v", shared.ErrPrecondition, err)
	}

	t.stagingDir = filepath.Join(projectDir, t.session.Config.Import.StagingSubdir)
	if err := os.MkdirAll(t.stagingDir, 0755); err != nil {
		return fmt.Errorf("%w: cannot create staging directory: %v", shared.ErrPrecondition, err)
	}

	if err := t.session.Host.BeginUndoGroup("Import middleware sources"); err != nil {
		t.session.Logger.Warn("failed to open undo group", "err", err)
	}

	// A fresh container per run: repeated imports accumulate side by side
	// instead of merging into an earlier run's container.
	name := fmt.Sprintf("Imported Sources %s", shared.GenerateID()[:8])
	container, err := t.session.Host.CreateContainer(name)
	if err != nil {
		return fmt.Errorf("%w: cannot create container: %v", shared.ErrPrecondition, err)
	}
	t.container = container

	t.status = fmt.Sprintf("staging into %s", t.stagingDir)
	sendProgress(t.progress, stagingUpdate(t.stagingDir))
	return nil
}

// importNext stages and places the descriptor at the current index.
func (t *ImportTask) importNext() {
	descriptor := t.descriptors[t.index]
	step := t.index + 1
	total := len(t.descriptors)

	t.fraction = float64(t.index) / float64(total)
	t.status = fmt.Sprintf("importing (%d/%d) %s", step, total, descriptor.Name)
	sendProgress(t.progress, importingUpdate(step, total, descriptor.Name))
	t.index++

	localPath := filepath.Join(t.stagingDir, filepath.Base(descriptor.OriginalFilePath))

	if err := copyFile(descriptor.OriginalFilePath, localPath); err != nil {
		t.fail(step, total, descriptor.Name, err)
		return
	}

	ref, duration, err := t.session.Host.PlaceMedia(t.container, localPath, t.cursor)
	if err != nil {
		t.fail(step, total, descriptor.Name, fmt.Errorf("placement failed: %w", err))
		return
	}

	t.session.Registry.Insert(registry.SourceRecord{
		ID:               descriptor.ID,
		Name:             descriptor.Name,
		MiddlewarePath:   descriptor.MiddlewarePath,
		OriginalFilePath: descriptor.OriginalFilePath,
		LocalFilePath:    localPath,
		ItemRef:          ref,
	})

	t.cursor += duration + t.session.Config.Import.GapSeconds
	t.report.Succeeded++
}

// fail records a per-item failure and leaves the batch running.
func (t *ImportTask) fail(step, total int, name string, err error) {
	t.report.Failed++
	t.session.Logger.Warn("import failed", "source", name, "err", err)
	sendProgress(t.progress, importFailedUpdate(step, total, name, err))
}

// finish closes the undo group and emits the batch summary.
func (t *ImportTask) finish() {
	if err := t.session.Host.EndUndoGroup(); err != nil {
		t.session.Logger.Warn("failed to close undo group", "err", err)
	}

	t.fraction = 1
	t.status = fmt.Sprintf("imported %d, failed %d", t.report.Succeeded, t.report.Failed)
	sendProgress(t.progress, importSummaryUpdate(t.report))
}

// copyFile copies the file at src to dst, overwriting dst if it exists.
// Last writer wins; colliding base names from different sources are not
// detected.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("source missing: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("cannot create staged copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	return out.Sync()
}
