package scrape

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gradstats/app/clean"
)

// FileSource reads raw records from a file, either a single JSON array or
// newline-delimited JSON objects. Input that is neither is a fatal batch
// error, not a per-record one.
type FileSource struct {
	records []clean.RawRecord
	pos     int
}

var _ clean.Source = (*FileSource)(nil)

func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", clean.ErrFatalInput, path, err)
	}

	return &FileSource{records: records}, nil
}

func (s *FileSource) Next(_ context.Context) (*clean.RawRecord, error) {
	if s.pos >= len(s.records) {
		return nil, nil
	}
	record := s.records[s.pos]
	s.pos++
	return &record, nil
}

func (s *FileSource) Len() int {
	return len(s.records)
}

func decodeRecords(data []byte) ([]clean.RawRecord, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var records []clean.RawRecord
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var records []clean.RawRecord
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record clean.RawRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
