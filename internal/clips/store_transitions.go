package clips

import (
	"context"
	"database/sql"
	"fmt"
)

// UpdateURL rewrites the stored URL of one clip.
func (s *Store) UpdateURL(ctx context.Context, id int64, url string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE clips SET url = ?, updated_at = ? WHERE id = ?`,
		url, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("update clip %d url: %w", id, err)
	}
	return requireRow(res, id)
}

// MarkFailed sets the failed flag and records the failure reason.
func (s *Store) MarkFailed(ctx context.Context, id int64, reason string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE clips SET failed = 1, last_error = ?, updated_at = ? WHERE id = ?`,
		nullableString(reason), s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("mark clip %d failed: %w", id, err)
	}
	return requireRow(res, id)
}

// Complete stores the normalized transcript and clears the failed flag in
// one statement.
func (s *Store) Complete(ctx context.Context, id int64, transcript string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE clips SET transcription = ?, failed = 0, last_error = NULL, updated_at = ? WHERE id = ?`,
		transcript, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("complete clip %d: %w", id, err)
	}
	return requireRow(res, id)
}

// ClearFailed makes failed clips candidates again. With no ids every failed
// clip is cleared. It returns the number of clips changed.
func (s *Store) ClearFailed(ctx context.Context, ids ...int64) (int64, error) {
	query := `UPDATE clips SET failed = 0, last_error = NULL, updated_at = ? WHERE failed != 0 AND transcription IS NULL`
	args := []any{s.timestamp()}
	if len(ids) > 0 {
		query += ` AND id IN (` + makePlaceholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear failed clips: %w", err)
	}
	return res.RowsAffected()
}

// Remove deletes one clip by ID.
func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM clips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove clip %d: %w", id, err)
	}
	return requireRow(res, id)
}

// RemoveIDs deletes every listed clip in one statement and returns the
// number of rows removed.
func (s *Store) RemoveIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM clips WHERE id IN (`+makePlaceholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("remove clips: %w", err)
	}
	return res.RowsAffected()
}

// RemoveByURL deletes every clip whose URL equals url.
func (s *Store) RemoveByURL(ctx context.Context, url string) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM clips WHERE url = ?`, url)
	if err != nil {
		return 0, fmt.Errorf("remove clips by url: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
