package clips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Add inserts a new pending clip for url.
func (s *Store) Add(ctx context.Context, url string) (*Clip, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidClip)
	}
	now := s.timestamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO clips (url, failed, created_at, updated_at) VALUES (?, 0, ?, ?)`,
		url, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert clip: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("clip id: %w", err)
	}
	return s.Get(ctx, id)
}

// AddMany inserts one pending clip per non-blank url inside a single
// transaction and returns the number inserted.
func (s *Store) AddMany(ctx context.Context, urls []string) (int, error) {
	ctx = ensureContext(ctx)
	inserted := 0
	err := retryOnBusy(ctx, func() error {
		inserted = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO clips (url, failed, created_at, updated_at) VALUES (?, 0, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		now := s.timestamp()
		for _, url := range urls {
			url = strings.TrimSpace(url)
			if url == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, url, now, now); err != nil {
				return err
			}
			inserted++
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("insert clips: %w", err)
	}
	return inserted, nil
}

// Get fetches a clip by ID.
func (s *Store) Get(ctx context.Context, id int64) (*Clip, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+clipColumns+` FROM clips WHERE id = ?`, id)
	clip, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get clip %d: %w", id, err)
	}
	return clip, nil
}

// List returns clips ordered by ID. With no statuses every clip is returned.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips`
	if len(statuses) > 0 {
		clauses := make([]string, 0, len(statuses))
		for _, status := range statuses {
			switch status {
			case StatusPending:
				clauses = append(clauses, "(transcription IS NULL AND failed = 0)")
			case StatusFailed:
				clauses = append(clauses, "(transcription IS NULL AND failed != 0)")
			case StatusCompleted:
				clauses = append(clauses, "(transcription IS NOT NULL)")
			default:
				return nil, fmt.Errorf("list clips: unknown status %q", status)
			}
		}
		query += " WHERE " + strings.Join(clauses, " OR ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ensureContext(ctx), query)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	clips, err := collectClips(rows)
	if err != nil {
		return nil, fmt.Errorf("scan clips: %w", err)
	}
	return clips, nil
}

// Candidates returns clips that have no transcript and are not flagged
// failed, oldest first. A positive limit caps the result.
func (s *Store) Candidates(ctx context.Context, limit int) ([]*Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips WHERE transcription IS NULL AND failed = 0 ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("candidate clips: %w", err)
	}
	clips, err := collectClips(rows)
	if err != nil {
		return nil, fmt.Errorf("scan candidate clips: %w", err)
	}
	return clips, nil
}

// ListContaining returns clips whose URL contains fragment.
func (s *Store) ListContaining(ctx context.Context, fragment string) ([]*Clip, error) {
	if fragment == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+clipColumns+` FROM clips WHERE instr(url, ?) > 0 ORDER BY id`, fragment)
	if err != nil {
		return nil, fmt.Errorf("list clips containing %q: %w", fragment, err)
	}
	clips, err := collectClips(rows)
	if err != nil {
		return nil, fmt.Errorf("scan clips: %w", err)
	}
	return clips, nil
}
