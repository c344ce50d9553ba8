// package host defines interface Host for the timeline-editing application
// where imported audio is arranged and re-rendered
//
// The host owns tracks, items, and selection; this package only holds opaque
// handles to them. An [ItemRef] can go stale at any time if the user deletes
// the item in the host, so callers re-check validity with [Host.ItemExists]
// on every traversal instead of caching the answer.
package host

// ItemRef is an opaque handle to a timeline item owned by the host.
type ItemRef string

// ContainerRef is an opaque handle to a grouping unit (e.g. a track) on the host.
type ContainerRef string

// Host defines the operations the sync engine needs from the timeline host.
type Host interface {
	// ProjectDirectory returns the directory of the currently open project.
	// Returns an error if no project is open or the project is unsaved.
	ProjectDirectory() (string, error)

	// CreateContainer creates a new empty container (track) named name.
	CreateContainer(name string) (ContainerRef, error)

	// PlaceMedia places the media file at filePath on the container at the
	// given position in seconds. Returns the new item's handle and the
	// placed clip's duration in seconds.
	PlaceMedia(container ContainerRef, filePath string, position float64) (ItemRef, float64, error)

	// SelectedItems returns the handles of the items currently selected on
	// the host timeline.
	SelectedItems() ([]ItemRef, error)

	// SetSelection replaces the host's item selection with exactly items.
	SetSelection(items []ItemRef) error

	// ItemExists reports whether ref still resolves to a live item. A
	// transport failure reports false; a handle that cannot be verified is
	// treated as stale.
	ItemExists(ref ItemRef) bool

	// RenderSelectionTo renders the currently selected items into dir using
	// the host's last-used render settings. Blocks until rendering finishes.
	RenderSelectionTo(dir string) error

	// BeginUndoGroup opens an undo block named name. Paired with EndUndoGroup.
	BeginUndoGroup(name string) error

	// EndUndoGroup closes the current undo block.
	EndUndoGroup() error
}
