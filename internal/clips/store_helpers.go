package clips

import (
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

const clipColumns = "id, url, transcription, failed, last_error, created_at, updated_at"

func scanClip(scanner interface{ Scan(dest ...any) error }) (*Clip, error) {
	var (
		id            int64
		url           string
		transcription sql.NullString
		failed        int64
		lastError     sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)
	if err := scanner.Scan(&id, &url, &transcription, &failed, &lastError, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	clip := &Clip{
		ID:        id,
		URL:       url,
		Failed:    failed != 0,
		LastError: lastError.String,
	}
	if transcription.Valid {
		text := transcription.String
		clip.Transcription = &text
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		clip.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		clip.UpdatedAt = updated
	}
	return clip, nil
}

func collectClips(rows *sql.Rows) ([]*Clip, error) {
	defer rows.Close()
	var out []*Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, clip)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}

// parseIDList decodes a GROUP_CONCAT of integer ids into ascending order.
func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
