package scrape

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gradstats/app/clean"
)

// RecordWriter appends standardized records to an NDJSON file, one object
// per line. The pipeline writes to it from a single goroutine.
type RecordWriter struct {
	file    *os.File
	encoder *json.Encoder
}

var _ clean.Sink = (*RecordWriter)(nil)

func NewRecordWriter(path string) (*RecordWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	return &RecordWriter{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

func (w *RecordWriter) Write(rec clean.StandardizedRecord) error {
	if err := w.encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (w *RecordWriter) Close() error {
	return w.file.Close()
}
