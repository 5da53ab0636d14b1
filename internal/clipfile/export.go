package clipfile

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"clipscribe/internal/clips"
	"clipscribe/internal/fileutil"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Transcripts"

// ParseFormat maps user input (or a file extension) onto a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json, yaml, or xlsx)", value)
	}
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Record is one exported transcript.
type Record struct {
	ID            int64     `json:"id" yaml:"id"`
	URL           string    `json:"url" yaml:"url"`
	Transcription string    `json:"transcription" yaml:"transcription"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// FromClips keeps the completed clips and converts them to records.
func FromClips(list []*clips.Clip) []Record {
	records := make([]Record, 0, len(list))
	for _, clip := range list {
		if clip == nil || clip.Transcription == nil {
			continue
		}
		records = append(records, Record{
			ID:            clip.ID,
			URL:           clip.URL,
			Transcription: *clip.Transcription,
			UpdatedAt:     clip.UpdatedAt.UTC(),
		})
	}
	return records
}

// Write encodes records to w in the requested format.
func Write(w io.Writer, format Format, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatXLSX:
		return writeWorkbook(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile encodes records to path, replacing any existing file.
func WriteFile(path string, format Format, records []Record) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, format, records)
	})
}

func writeWorkbook(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	header := []any{"id", "url", "transcription", "updated_at"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		row := []any{record.ID, record.URL, record.Transcription, record.UpdatedAt.Format(time.RFC3339)}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheetName, "B", "B", 60); err != nil {
		return fmt.Errorf("size url column: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "C", 100); err != nil {
		return fmt.Errorf("size transcript column: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
