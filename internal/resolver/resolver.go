// package resolver flattens the middleware's current selection into a
// deduplicated list of audio-file source descriptors
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wavesync/internal/middleware"
	"github.com/desertthunder/wavesync/internal/shared"
)

// Resolver queries the middleware and resolves selections to importable
// audio-file sources.
type Resolver struct {
	client middleware.Client
	logger *log.Logger
}

// NewResolver creates a Resolver using the given middleware client.
func NewResolver(client middleware.Client, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{client: client, logger: logger}
}

// ResolveSelection resolves the middleware's current selection into a flat,
// deduplicated list of audio-file source descriptors.
//
// Each selected object's descendant set is queried independently: a query
// failure for one object is logged and narrows the result, but does not
// abort resolution of its siblings. Only a connection failure on the initial
// selection query is fatal. Descriptors are deduplicated by ID across the
// union of all descendant sets, keeping the first occurrence in selection
// order. An empty selection resolves to an empty result without error.
func (r *Resolver) ResolveSelection(ctx context.Context) ([]middleware.SourceDescriptor, error) {
	if r.client == nil || !r.client.Connected() {
		return nil, fmt.Errorf("%w: connect to the middleware first", shared.ErrNotConnected)
	}

	selection, err := r.client.QuerySelection(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrConnection) || errors.Is(err, shared.ErrNotConnected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: selection query failed: %v", shared.ErrQuery, err)
	}

	seen := make(map[string]bool)
	var descriptors []middleware.SourceDescriptor

	for _, selected := range selection {
		objects, err := r.client.QueryDescendants(ctx, selected.ID)
		if err != nil {
			// A connection drop mid-resolve is still fatal; anything else
			// narrows the result and moves on to the next selected object.
			if errors.Is(err, shared.ErrConnection) || errors.Is(err, shared.ErrNotConnected) {
				return nil, err
			}
			r.logger.Warn("descendant query failed", "object", selected.Name, "id", selected.ID, "err", err)
			continue
		}

		for _, obj := range objects {
			if obj.Type != middleware.TypeAudioSource {
				continue
			}
			if obj.OriginalFilePath == "" {
				// Structural node without media
				continue
			}
			if seen[obj.ID] {
				continue
			}
			seen[obj.ID] = true

			descriptors = append(descriptors, middleware.SourceDescriptor{
				ID:               obj.ID,
				Name:             obj.Name,
				MiddlewarePath:   obj.Path,
				OriginalFilePath: obj.OriginalFilePath,
			})
		}
	}

	return descriptors, nil
}
