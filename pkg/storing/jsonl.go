package storing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/taikt/sw-task/pkg/metrics"
)

const (
	jsonlBufferSize = 64 * 1024
	jsonlMaxLine    = 1024 * 1024
)

func init() {
	Register(&JSONLFormat{})
}

// JSONLFormat stores one snapshot per line.
type JSONLFormat struct{}

func (f *JSONLFormat) Name() string         { return "jsonl" }
func (f *JSONLFormat) Extension() string    { return ".jsonl" }
func (f *JSONLFormat) Reader() SeriesReader { return &jsonlReader{} }
func (f *JSONLFormat) Writer() SeriesWriter { return &jsonlWriter{} }

type jsonlReader struct {
	file    *os.File
	scanner *bufio.Scanner
}

func (r *jsonlReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	r.file = file
	r.scanner = bufio.NewScanner(file)
	r.scanner.Buffer(make([]byte, jsonlBufferSize), jsonlMaxLine)
	return nil
}

func (r *jsonlReader) Read() (metrics.Series, error) {
	var series metrics.Series
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var snap metrics.Snapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			// Skip malformed lines but keep reading.
			continue
		}
		series.Append(snap)
	}
	if err := r.scanner.Err(); err != nil {
		return series, fmt.Errorf("scanning jsonl: %w", err)
	}
	return series, nil
}

func (r *jsonlReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func (w *jsonlWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w.file = file
	w.writer = bufio.NewWriterSize(file, jsonlBufferSize)
	return nil
}

func (w *jsonlWriter) Write(snap metrics.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	return w.writer.WriteByte('\n')
}

func (w *jsonlWriter) Flush() error {
	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
