package clipfile

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ErrNoURLs reports an import source without any clip links.
var ErrNoURLs = errors.New("no clip urls found")

// ReadURLs loads clip links from path, choosing the parser by extension.
// Anything that is not .json, .yaml, .yml, or .xlsx is read as text.
func ReadURLs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	var urls []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		urls, err = readRecordURLs(file, json.Unmarshal)
	case ".yaml", ".yml":
		urls, err = readRecordURLs(file, yaml.Unmarshal)
	case ".xlsx":
		urls, err = ReadWorkbookURLs(file)
	default:
		urls, err = ReadTextURLs(file)
	}
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoURLs)
	}
	return urls, nil
}

// ReadTextURLs reads one link per line, skipping blank lines and # comments.
func ReadTextURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return urls, nil
}

// ReadWorkbookURLs reads links from the first sheet. The column is chosen by
// a header containing "url" or "link"; without one, the first column is used
// and the first row is treated as data.
func ReadWorkbookURLs(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	column := -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		if strings.Contains(l, "url") || strings.Contains(l, "link") {
			column = i
			break
		}
	}
	start := 1
	if column == -1 {
		column = 0
		start = 0
	}

	var urls []string
	for _, row := range rows[start:] {
		if column >= len(row) {
			continue
		}
		if value := strings.TrimSpace(row[column]); value != "" {
			urls = append(urls, value)
		}
	}
	return urls, nil
}

func readRecordURLs(r io.Reader, unmarshal func([]byte, any) error) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	var records []Record
	if err := unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	urls := make([]string, 0, len(records))
	for _, record := range records {
		if value := strings.TrimSpace(record.URL); value != "" {
			urls = append(urls, value)
		}
	}
	return urls, nil
}
