// package repositories implements data access for the local descriptor cache
//
// The cache keeps the most recently resolved audio-file source descriptors
// per middleware source ID so they can be listed without a live middleware
// connection. It is a convenience only: the import registry itself is
// in-memory and never persisted.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/wavesync/internal/middleware"
)

// CachedSource is a persisted source descriptor row.
type CachedSource struct {
	ID               int64
	SourceID         string
	Name             string
	MiddlewarePath   string
	OriginalFilePath string
	ResolvedAt       time.Time
}

// SourceCacheRepository handles database operations for cached descriptors.
type SourceCacheRepository struct {
	db *sql.DB
}

// NewSourceCacheRepository creates a new SourceCacheRepository with the given database connection
func NewSourceCacheRepository(db *sql.DB) *SourceCacheRepository {
	return &SourceCacheRepository{db: db}
}

// Upsert stores a descriptor, replacing any previous row for the same
// middleware source ID.
func (r *SourceCacheRepository) Upsert(descriptor middleware.SourceDescriptor) error {
	query := `
		INSERT INTO cached_sources (source_id, name, middleware_path, original_file_path, resolved_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(source_id) DO UPDATE SET
			name = excluded.name,
			middleware_path = excluded.middleware_path,
			original_file_path = excluded.original_file_path,
			resolved_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.Exec(query, descriptor.ID, descriptor.Name, descriptor.MiddlewarePath, descriptor.OriginalFilePath)
	if err != nil {
		return fmt.Errorf("failed to cache source %s: %w", descriptor.ID, err)
	}

	return nil
}

// CacheAll upserts every descriptor and returns the number stored.
// The first failure stops the batch.
func (r *SourceCacheRepository) CacheAll(descriptors []middleware.SourceDescriptor) (int, error) {
	for i, descriptor := range descriptors {
		if err := r.Upsert(descriptor); err != nil {
			return i, err
		}
	}
	return len(descriptors), nil
}

// List returns all cached descriptors ordered by resolution time, newest first.
func (r *SourceCacheRepository) List() ([]CachedSource, error) {
	query := `
		SELECT id, source_id, name, middleware_path, original_file_path, resolved_at
		FROM cached_sources
		ORDER BY resolved_at DESC, id DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached sources: %w", err)
	}
	defer rows.Close()

	var sources []CachedSource
	for rows.Next() {
		var source CachedSource
		if err := rows.Scan(&source.ID, &source.SourceID, &source.Name, &source.MiddlewarePath, &source.OriginalFilePath, &source.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached source: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached sources: %w", err)
	}

	return sources, nil
}

// Get retrieves a cached descriptor by middleware source ID.
func (r *SourceCacheRepository) Get(sourceID string) (*CachedSource, error) {
	query := `
		SELECT id, source_id, name, middleware_path, original_file_path, resolved_at
		FROM cached_sources
		WHERE source_id = ?
	`

	var source CachedSource
	err := r.db.QueryRow(query, sourceID).Scan(&source.ID, &source.SourceID, &source.Name, &source.MiddlewarePath, &source.OriginalFilePath, &source.ResolvedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source %s not cached", sourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached source: %w", err)
	}

	return &source, nil
}

// Clear removes every cached descriptor.
func (r *SourceCacheRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM cached_sources"); err != nil {
		return fmt.Errorf("failed to clear source cache: %w", err)
	}
	return nil
}
