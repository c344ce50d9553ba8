package tasks

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/desertthunder/wavesync/internal/host"
	"github.com/desertthunder/wavesync/internal/shared"
)

// placement records one PlaceMedia call.
type placement struct {
	container host.ContainerRef
	path      string
	position  float64
}

type mockHost struct {
	projectDir   string
	projectErr   error
	containerErr error
	containers   []string
	placements   []placement
	placeErrs    map[string]error // keyed by staged file base name
	duration     float64
	selection    []host.ItemRef
	selectionErr error
	setCalls     [][]host.ItemRef
	renderedDirs []string
	renderErr    error
	missing      map[host.ItemRef]bool
	undoBegun    int
	undoEnded    int
	nextItem     int
}

func (m *mockHost) ProjectDirectory() (string, error) {
	if m.projectErr != nil {
		return "", m.projectErr
	}
	return m.projectDir, nil
}

func (m *mockHost) CreateContainer(name string) (host.ContainerRef, error) {
	if m.containerErr != nil {
		return "", m.containerErr
	}
	m.containers = append(m.containers, name)
	return host.ContainerRef(fmt.Sprintf("container-%d", len(m.containers))), nil
}

func (m *mockHost) PlaceMedia(container host.ContainerRef, path string, position float64) (host.ItemRef, float64, error) {
	if err, ok := m.placeErrs[filepath.Base(path)]; ok {
		return "", 0, err
	}

	m.nextItem++
	m.placements = append(m.placements, placement{container: container, path: path, position: position})

	duration := m.duration
	if duration == 0 {
		duration = 2.0
	}
	return host.ItemRef(fmt.Sprintf("item-%d", m.nextItem)), duration, nil
}

func (m *mockHost) SelectedItems() ([]host.ItemRef, error) {
	if m.selectionErr != nil {
		return nil, m.selectionErr
	}
	return m.selection, nil
}

func (m *mockHost) SetSelection(items []host.ItemRef) error {
	m.setCalls = append(m.setCalls, items)
	return nil
}

func (m *mockHost) ItemExists(ref host.ItemRef) bool {
	return !m.missing[ref]
}

func (m *mockHost) RenderSelectionTo(dir string) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	m.renderedDirs = append(m.renderedDirs, dir)
	return nil
}

func (m *mockHost) BeginUndoGroup(name string) error {
	m.undoBegun++
	return nil
}

func (m *mockHost) EndUndoGroup() error {
	m.undoEnded++
	return nil
}

type mockVCS struct {
	checkouts []string
	err       error
}

func (m *mockVCS) Name() string { return "mock" }

func (m *mockVCS) Checkout(path string) error {
	m.checkouts = append(m.checkouts, path)
	return m.err
}

func newTestSession(h host.Host, v *mockVCS) *Session {
	if v == nil {
		v = &mockVCS{}
	}
	return NewSession(SessionOpts{
		Config: shared.DefaultConfig(),
		Host:   h,
		VCS:    v,
		Logger: shared.NewLogger(io.Discard),
	})
}

// stepToCompletion drives task until done or error, guarding against
// runaway step loops.
func stepToCompletion(t *testing.T, task Task) error {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		done, err := task.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	t.Fatal("task did not finish within 1000 steps")
	return nil
}
