package tasks

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/wavesync/internal/host"
	"github.com/desertthunder/wavesync/internal/registry"
	"github.com/desertthunder/wavesync/internal/shared"
	helpers "github.com/desertthunder/wavesync/internal/testing"
)

// registerRendered inserts a record whose original file exists on disk and
// returns its item ref.
func registerRendered(t *testing.T, session *Session, dir, name string, ref host.ItemRef) host.ItemRef {
	t.Helper()
	path := helpers.WriteSourceFile(t, dir, name, "pcm")
	session.Registry.Insert(registry.SourceRecord{
		ID:               "{" + name + "}",
		Name:             name,
		OriginalFilePath: path,
		LocalFilePath:    filepath.Join("staging", name),
		ItemRef:          ref,
	})
	return ref
}

func TestRenderTask(t *testing.T) {
	t.Run("groups selection by original directory", func(t *testing.T) {
		dirA := t.TempDir()
		dirB := t.TempDir()

		vcs := &mockVCS{}
		h := &mockHost{}
		session := newTestSession(h, vcs)

		h.selection = []host.ItemRef{
			registerRendered(t, session, dirA, "amb_wind.wav", "item-1"),
			registerRendered(t, session, dirA, "amb_rain.wav", "item-2"),
			registerRendered(t, session, dirB, "ui_click.wav", "item-3"),
		}

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if task.Groups() != 2 {
			t.Errorf("Groups() = %d, want 2", task.Groups())
		}
		if report := task.Report(); report.Succeeded != 3 || report.Failed != 0 {
			t.Errorf("Report = %+v, want 3 succeeded, 0 failed", report)
		}
		if len(vcs.checkouts) != 3 {
			t.Errorf("got %d checkouts, want 3", len(vcs.checkouts))
		}
		if len(h.renderedDirs) != 2 {
			t.Fatalf("rendered %d directories, want 2", len(h.renderedDirs))
		}

		seen := map[string]bool{}
		for _, dir := range h.renderedDirs {
			seen[dir] = true
		}
		if !seen[dirA] || !seen[dirB] {
			t.Errorf("rendered dirs %v, want both %s and %s", h.renderedDirs, dirA, dirB)
		}

		// Each group's selection was narrowed before its render.
		if len(h.setCalls) != 2 {
			t.Fatalf("got %d SetSelection calls, want 2", len(h.setCalls))
		}
		if got := len(h.setCalls[0]) + len(h.setCalls[1]); got != 3 {
			t.Errorf("selections covered %d items, want 3", got)
		}
		if task.Progress() != 1 {
			t.Errorf("Progress() = %v, want 1", task.Progress())
		}
		if h.undoBegun != 1 || h.undoEnded != 1 {
			t.Errorf("undo group begun %d ended %d, want 1 and 1", h.undoBegun, h.undoEnded)
		}
	})

	t.Run("rejects an empty selection", func(t *testing.T) {
		h := &mockHost{}
		session := newTestSession(h, nil)
		session.Registry.Insert(registry.SourceRecord{ID: "{x}", ItemRef: "item-1"})

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); !errors.Is(err, shared.ErrNothingSelected) {
			t.Fatalf("error = %v, want ErrNothingSelected", err)
		}
		if len(h.renderedDirs) != 0 {
			t.Errorf("rendered %d directories, want 0", len(h.renderedDirs))
		}
	})

	t.Run("rejects an empty registry", func(t *testing.T) {
		h := &mockHost{selection: []host.ItemRef{"item-1"}}
		session := newTestSession(h, nil)

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); !errors.Is(err, shared.ErrEmptyRegistry) {
			t.Fatalf("error = %v, want ErrEmptyRegistry", err)
		}
	})

	t.Run("rejects a selection with no imported items", func(t *testing.T) {
		h := &mockHost{selection: []host.ItemRef{"stranger-1", "stranger-2"}}
		session := newTestSession(h, nil)
		session.Registry.Insert(registry.SourceRecord{ID: "{x}", ItemRef: "item-1"})

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); !errors.Is(err, shared.ErrEmptyRenderSet) {
			t.Fatalf("error = %v, want ErrEmptyRenderSet", err)
		}
	})

	t.Run("excludes unmatched items from a mixed selection", func(t *testing.T) {
		dir := t.TempDir()
		h := &mockHost{}
		session := newTestSession(h, nil)

		matched := registerRendered(t, session, dir, "voice.wav", "item-1")
		h.selection = []host.ItemRef{matched, "stranger-1"}

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if report := task.Report(); report.Succeeded != 1 || report.Failed != 0 {
			t.Errorf("Report = %+v, want 1 succeeded, 0 failed", report)
		}
		if len(h.setCalls) != 1 || len(h.setCalls[0]) != 1 || h.setCalls[0][0] != matched {
			t.Errorf("SetSelection calls = %v, want just %s", h.setCalls, matched)
		}
	})

	t.Run("counts a failed render against the whole group", func(t *testing.T) {
		dir := t.TempDir()
		h := &mockHost{renderErr: errors.New("render queue busy")}
		session := newTestSession(h, nil)

		h.selection = []host.ItemRef{
			registerRendered(t, session, dir, "a.wav", "item-1"),
			registerRendered(t, session, dir, "b.wav", "item-2"),
		}

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if report := task.Report(); report.Succeeded != 0 || report.Failed != 2 {
			t.Errorf("Report = %+v, want 0 succeeded, 2 failed", report)
		}
		if task.Progress() != 1 {
			t.Errorf("Progress() = %v, want 1 after the failed group is processed", task.Progress())
		}
	})

	t.Run("counts missing outputs individually", func(t *testing.T) {
		dir := t.TempDir()
		h := &mockHost{}
		session := newTestSession(h, nil)

		present := registerRendered(t, session, dir, "present.wav", "item-1")
		session.Registry.Insert(registry.SourceRecord{
			ID:               "{ghost}",
			Name:             "ghost.wav",
			OriginalFilePath: filepath.Join(dir, "ghost.wav"),
			ItemRef:          "item-2",
		})
		h.selection = []host.ItemRef{present, "item-2"}

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if report := task.Report(); report.Succeeded != 1 || report.Failed != 1 {
			t.Errorf("Report = %+v, want 1 succeeded, 1 failed", report)
		}
	})

	t.Run("renders despite checkout failures", func(t *testing.T) {
		dir := t.TempDir()
		vcs := &mockVCS{err: errors.New("file not on client")}
		h := &mockHost{}
		session := newTestSession(h, vcs)

		h.selection = []host.ItemRef{
			registerRendered(t, session, dir, "locked.wav", "item-1"),
		}

		task := NewRenderTask(session, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if report := task.Report(); report.Succeeded != 1 || report.Failed != 0 {
			t.Errorf("Report = %+v, want the render to succeed anyway", report)
		}
		if len(vcs.checkouts) != 1 {
			t.Errorf("got %d checkouts, want 1", len(vcs.checkouts))
		}
	})

	t.Run("reports checkout and render phases per group", func(t *testing.T) {
		dir := t.TempDir()
		h := &mockHost{}
		session := newTestSession(h, nil)

		h.selection = []host.ItemRef{
			registerRendered(t, session, dir, "x.wav", "item-1"),
		}

		progress := make(chan ProgressUpdate, 16)
		task := NewRenderTask(session, progress)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}

		want := []Phase{CheckoutGroup, RenderGroup, VerifyOutputs, Summary}
		if len(phases) != len(want) {
			t.Fatalf("got %d updates %v, want %d", len(phases), phases, len(want))
		}
		for i, phase := range phases {
			if phase != want[i] {
				t.Errorf("update %d phase = %s, want %s", i, phase, want[i])
			}
		}
	})
}
