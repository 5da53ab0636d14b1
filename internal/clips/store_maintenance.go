package clips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// DuplicateGroups returns every URL stored on more than one clip, each with
// its member IDs in ascending order.
func (s *Store) DuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT url, GROUP_CONCAT(id)
		FROM clips
		GROUP BY url
		HAVING COUNT(1) > 1
		ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("duplicate groups: %w", err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var (
			url string
			raw string
		)
		if err := rows.Scan(&url, &raw); err != nil {
			return nil, err
		}
		ids, err := parseIDList(raw)
		if err != nil {
			return nil, fmt.Errorf("parse duplicate ids for %q: %w", url, err)
		}
		groups = append(groups, DuplicateGroup{URL: url, IDs: ids})
	}
	return groups, rows.Err()
}

// Stats returns clip counts by derived status.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ensureContext(ctx), `
		SELECT
			COUNT(1),
			COALESCE(SUM(CASE WHEN transcription IS NULL AND failed = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transcription IS NULL AND failed != 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transcription IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM clips`)
	if err := row.Scan(&stats.Total, &stats.Pending, &stats.Failed, &stats.Completed); err != nil {
		return Stats{}, fmt.Errorf("clip stats: %w", err)
	}
	return stats, nil
}

// CheckHealth returns diagnostic information about the clip database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("clip database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat clip database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("clip database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping clip database: %w", err)
	}
	health.DatabaseReadable = true

	health.SchemaVersion, err = s.userVersion(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}

	var tableName string
	err = s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'clips'").Scan(&tableName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return health, nil
	case err != nil:
		health.Error = err.Error()
		return health, fmt.Errorf("query table info: %w", err)
	}
	health.TableExists = true

	if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(1) FROM clips").Scan(&health.TotalClips); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count clips: %w", err)
	}
	return health, nil
}
