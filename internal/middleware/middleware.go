// package middleware defines interface Client for querying the audio
// middleware's asset database
//
// Objects form a hierarchy; only leaf audio-file sources materialize to a
// playable file on disk.
package middleware

import (
	"context"
)

// TypeAudioSource is the object type of a leaf audio-file source, an object
// that resolves to exactly one original file on disk.
const TypeAudioSource = "AudioFileSource"

// Client defines the interface for the middleware's remote query API.
type Client interface {
	// Connect establishes a session with the middleware at host:port.
	// Returns an error if the middleware is unreachable.
	Connect(ctx context.Context, host string, port int) error

	// Disconnect tears down the session. Safe to call when not connected.
	Disconnect() error

	// Connected reports whether a session is currently established.
	Connected() bool

	// QuerySelection retrieves the objects currently selected in the
	// middleware's authoring UI.
	QuerySelection(ctx context.Context) ([]SelectedObject, error)

	// QueryDescendants retrieves the full descendant set of an object,
	// including type and original file path attributes.
	QueryDescendants(ctx context.Context, objectID string) ([]Object, error)
}

// SelectedObject represents an object selected in the middleware's authoring UI
type SelectedObject struct {
	ID   string
	Name string
	Path string
}

// Object represents a node in the middleware's object hierarchy.
type Object struct {
	ID               string
	Name             string
	Type             string
	Path             string
	OriginalFilePath string // Empty for structural nodes without media
}

// SourceDescriptor describes a resolved audio-file source ready for import.
// Ephemeral query output; consumed once by the import task and not persisted.
type SourceDescriptor struct {
	ID               string // Unique within the middleware database
	Name             string
	MiddlewarePath   string
	OriginalFilePath string
}
