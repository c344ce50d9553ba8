package tasks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/wavesync/internal/middleware"
	"github.com/desertthunder/wavesync/internal/shared"
	helpers "github.com/desertthunder/wavesync/internal/testing"
)

func descriptorFor(path string) middleware.SourceDescriptor {
	name := filepath.Base(path)
	return middleware.SourceDescriptor{
		ID:               "{" + name + "}",
		Name:             name,
		MiddlewarePath:   "\\Actor-Mixer Hierarchy\\" + name,
		OriginalFilePath: path,
	}
}

func TestImportTask(t *testing.T) {
	t.Run("imports every descriptor with gap spacing", func(t *testing.T) {
		projectDir := t.TempDir()
		sourceDir := t.TempDir()

		descriptors := []middleware.SourceDescriptor{
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "kick.wav", "kick")),
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "snare.wav", "snare")),
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "hat.wav", "hat")),
		}

		h := &mockHost{projectDir: projectDir, duration: 2.0}
		session := newTestSession(h, nil)

		task := NewImportTask(session, descriptors, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if report := task.Report(); report.Succeeded != 3 || report.Failed != 0 {
			t.Errorf("Report = %+v, want 3 succeeded, 0 failed", report)
		}

		stagingDir := filepath.Join(projectDir, "Imports")
		helpers.AssertDirExists(t, stagingDir)
		helpers.AssertFileExists(t, filepath.Join(stagingDir, "kick.wav"))
		helpers.AssertFileExists(t, filepath.Join(stagingDir, "snare.wav"))
		helpers.AssertFileExists(t, filepath.Join(stagingDir, "hat.wav"))

		if session.Registry.Count() != 3 {
			t.Errorf("Registry.Count() = %d, want 3", session.Registry.Count())
		}

		// 2s clips with the default one-second gap land at 0, 3, 6.
		wantPositions := []float64{0, 3, 6}
		if len(h.placements) != 3 {
			t.Fatalf("got %d placements, want 3", len(h.placements))
		}
		for i, p := range h.placements {
			if p.position != wantPositions[i] {
				t.Errorf("placement %d at %v, want %v", i, p.position, wantPositions[i])
			}
			if p.container != h.placements[0].container {
				t.Errorf("placement %d landed in %s, want the batch container %s", i, p.container, h.placements[0].container)
			}
		}

		if len(h.containers) != 1 {
			t.Errorf("created %d containers, want 1", len(h.containers))
		}
		if h.undoBegun != 1 || h.undoEnded != 1 {
			t.Errorf("undo group begun %d ended %d, want 1 and 1", h.undoBegun, h.undoEnded)
		}
		if task.Progress() != 1 {
			t.Errorf("Progress() = %v, want 1", task.Progress())
		}
	})

	t.Run("counts unreadable sources without aborting the batch", func(t *testing.T) {
		projectDir := t.TempDir()
		sourceDir := t.TempDir()

		descriptors := []middleware.SourceDescriptor{
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "ok_a.wav", "a")),
			descriptorFor(filepath.Join(sourceDir, "gone.wav")),
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "ok_b.wav", "b")),
		}

		h := &mockHost{projectDir: projectDir, duration: 2.0}
		session := newTestSession(h, nil)

		task := NewImportTask(session, descriptors, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if report := task.Report(); report.Succeeded != 2 || report.Failed != 1 {
			t.Errorf("Report = %+v, want 2 succeeded, 1 failed", report)
		}
		if session.Registry.Count() != 2 {
			t.Errorf("Registry.Count() = %d, want 2", session.Registry.Count())
		}

		// The failed item does not advance the placement cursor.
		wantPositions := []float64{0, 3}
		if len(h.placements) != 2 {
			t.Fatalf("got %d placements, want 2", len(h.placements))
		}
		for i, p := range h.placements {
			if p.position != wantPositions[i] {
				t.Errorf("placement %d at %v, want %v", i, p.position, wantPositions[i])
			}
		}
	})

	t.Run("counts placement failures per item", func(t *testing.T) {
		projectDir := t.TempDir()
		sourceDir := t.TempDir()

		descriptors := []middleware.SourceDescriptor{
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "good.wav", "g")),
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "bad.wav", "b")),
		}

		h := &mockHost{
			projectDir: projectDir,
			placeErrs:  map[string]error{"bad.wav": errors.New("track locked")},
		}
		session := newTestSession(h, nil)

		task := NewImportTask(session, descriptors, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}

		if report := task.Report(); report.Succeeded != 1 || report.Failed != 1 {
			t.Errorf("Report = %+v, want 1 succeeded, 1 failed", report)
		}
		if session.Registry.Count() != 1 {
			t.Errorf("Registry.Count() = %d, want 1", session.Registry.Count())
		}
		// The staged copy exists even though placement failed.
		helpers.AssertFileExists(t, filepath.Join(projectDir, "Imports", "bad.wav"))
	})

	t.Run("overwrites a previously staged copy", func(t *testing.T) {
		projectDir := t.TempDir()
		sourceDir := t.TempDir()
		stagedPath := filepath.Join(projectDir, "Imports", "loop.wav")

		h := &mockHost{projectDir: projectDir}
		session := newTestSession(h, nil)

		first := helpers.WriteSourceFile(t, sourceDir, "loop.wav", "take one")
		task := NewImportTask(session, []middleware.SourceDescriptor{descriptorFor(first)}, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("first import: %v", err)
		}

		second := helpers.WriteSourceFile(t, sourceDir, "loop.wav", "take two")
		task = NewImportTask(session, []middleware.SourceDescriptor{descriptorFor(second)}, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("second import: %v", err)
		}

		if got := helpers.MustReadFile(t, stagedPath); got != "take two" {
			t.Errorf("staged copy = %q, want the later source content", got)
		}

		// Each run gets its own container, and the registry keeps one
		// record per run.
		if len(h.containers) != 2 {
			t.Errorf("created %d containers, want 2", len(h.containers))
		}
		if session.Registry.Count() != 2 {
			t.Errorf("Registry.Count() = %d, want 2", session.Registry.Count())
		}
	})

	t.Run("aborts before touching files when the project directory is unknown", func(t *testing.T) {
		sourceDir := t.TempDir()
		descriptors := []middleware.SourceDescriptor{
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "any.wav", "x")),
		}

		h := &mockHost{projectErr: errors.New("no project open")}
		session := newTestSession(h, nil)

		task := NewImportTask(session, descriptors, nil)
		err := stepToCompletion(t, task)
		if !errors.Is(err, shared.ErrPrecondition) {
			t.Fatalf("error = %v, want ErrPrecondition", err)
		}

		if session.Registry.Count() != 0 {
			t.Errorf("Registry.Count() = %d, want 0 after aborted batch", session.Registry.Count())
		}
		if len(h.containers) != 0 {
			t.Errorf("created %d containers, want 0", len(h.containers))
		}
	})

	t.Run("aborts when the container cannot be created", func(t *testing.T) {
		projectDir := t.TempDir()
		sourceDir := t.TempDir()
		descriptors := []middleware.SourceDescriptor{
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "any.wav", "x")),
		}

		h := &mockHost{projectDir: projectDir, containerErr: errors.New("host refused")}
		session := newTestSession(h, nil)

		task := NewImportTask(session, descriptors, nil)
		err := stepToCompletion(t, task)
		if !errors.Is(err, shared.ErrPrecondition) {
			t.Fatalf("error = %v, want ErrPrecondition", err)
		}
		if len(h.placements) != 0 {
			t.Errorf("got %d placements, want 0", len(h.placements))
		}
	})

	t.Run("finishes immediately on an empty batch", func(t *testing.T) {
		projectDir := t.TempDir()
		h := &mockHost{projectDir: projectDir}
		session := newTestSession(h, nil)

		task := NewImportTask(session, nil, nil)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}
		if report := task.Report(); report.Succeeded != 0 || report.Failed != 0 {
			t.Errorf("Report = %+v, want empty", report)
		}
		if _, err := os.Stat(filepath.Join(projectDir, "Imports")); err != nil {
			t.Errorf("staging directory missing: %v", err)
		}
	})

	t.Run("reports progress over the channel", func(t *testing.T) {
		projectDir := t.TempDir()
		sourceDir := t.TempDir()
		descriptors := []middleware.SourceDescriptor{
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "one.wav", "1")),
			descriptorFor(helpers.WriteSourceFile(t, sourceDir, "two.wav", "2")),
		}

		h := &mockHost{projectDir: projectDir}
		session := newTestSession(h, nil)

		progress := make(chan ProgressUpdate, 16)
		task := NewImportTask(session, descriptors, progress)
		if err := stepToCompletion(t, task); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}

		want := []Phase{Stage, ImportFile, ImportFile, Summary}
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
