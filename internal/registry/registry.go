// package registry implements the in-memory ledger of imported audio sources
//
// The registry maps a middleware source to its local working copy and its
// live timeline placement. It lives for the process only; nothing is
// persisted across restarts. Records are append-only: individual records are
// never updated or deleted, only the whole registry can be cleared.
package registry

import (
	"github.com/desertthunder/wavesync/internal/host"
)

// SourceRecord ties a middleware audio-file source to its staged local copy
// and its timeline placement.
//
// ItemRef is a back-reference to an item the host owns; the host may delete
// the item at any time, so callers verify the handle with the host before
// trusting it. Records are immutable after insertion.
type SourceRecord struct {
	ID               string // Middleware source ID, the deduplication key
	Name             string
	MiddlewarePath   string
	OriginalFilePath string // Writeback destination for the render pipeline
	LocalFilePath    string // Staged working copy
	ItemRef          host.ItemRef
}

// Registry is the in-memory source ledger. Not safe for concurrent use; all
// access happens on the scheduling goroutine.
type Registry struct {
	records []SourceRecord
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Insert appends a record. ID uniqueness is not enforced here: the import
// task is responsible for not re-importing, and duplicate IDs across
// successive import runs are an accepted limitation.
func (r *Registry) Insert(record SourceRecord) {
	r.records = append(r.records, record)
}

// Clear removes all records.
func (r *Registry) Clear() {
	r.records = nil
}

// FindByItemRef returns the record whose placement matches ref.
// The lookup is purely structural; callers that care about liveness check
// the handle against the host separately.
func (r *Registry) FindByItemRef(ref host.ItemRef) (SourceRecord, bool) {
	for _, record := range r.records {
		if record.ItemRef == ref {
			return record, true
		}
	}
	return SourceRecord{}, false
}

// All returns the records in insertion order. The returned slice is a copy.
func (r *Registry) All() []SourceRecord {
	out := make([]SourceRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Count returns the number of records.
func (r *Registry) Count() int {
	return len(r.records)
}
