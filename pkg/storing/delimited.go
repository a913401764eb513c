package storing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/taikt/sw-task/pkg/metrics"
)

func init() {
	Register(&CSVFormat{})
	Register(&TSVFormat{})
}

// Flat column layout for delimited and parquet exports. The per-core array
// is dropped in flat exports; cores_active carries the derived count.
var flatColumns = []string{
	"timestamp",
	"process_cpu",
	"process_memory_mb",
	"process_threads",
	"system_cpu_avg",
	"cores_active",
	"system_memory_mb",
	"system_memory_percent",
	"virtual_mb",
}

// CSVFormat stores snapshots as comma-delimited rows.
type CSVFormat struct{}

func (f *CSVFormat) Name() string         { return "csv" }
func (f *CSVFormat) Extension() string    { return ".csv" }
func (f *CSVFormat) Reader() SeriesReader { return &delimitedReader{delimiter: ','} }
func (f *CSVFormat) Writer() SeriesWriter { return &delimitedWriter{delimiter: ','} }

// TSVFormat stores snapshots as tab-delimited rows.
type TSVFormat struct{}

func (f *TSVFormat) Name() string         { return "tsv" }
func (f *TSVFormat) Extension() string    { return ".tsv" }
func (f *TSVFormat) Reader() SeriesReader { return &delimitedReader{delimiter: '\t'} }
func (f *TSVFormat) Writer() SeriesWriter { return &delimitedWriter{delimiter: '\t'} }

type delimitedReader struct {
	file      *os.File
	reader    *csv.Reader
	header    []string
	delimiter rune
}

func (r *delimitedReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	r.file = file
	r.reader = csv.NewReader(file)
	r.reader.Comma = r.delimiter
	r.reader.FieldsPerRecord = -1

	header, err := r.reader.Read()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("reading header: %w", err)
	}
	r.header = header
	return nil
}

func (r *delimitedReader) Read() (metrics.Series, error) {
	var series metrics.Series
	for {
		row, err := r.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return series, fmt.Errorf("reading row: %w", err)
		}
		series.Append(r.rowToSnapshot(row))
	}
	return series, nil
}

func (r *delimitedReader) rowToSnapshot(row []string) metrics.Snapshot {
	var snap metrics.Snapshot
	for i, val := range row {
		if i >= len(r.header) || val == "" {
			continue
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			continue
		}
		switch r.header[i] {
		case "timestamp":
			snap.Timestamp = f
		case "process_cpu":
			snap.ProcessCPU = f
		case "process_memory_mb":
			snap.ProcessMemoryMB = f
		case "process_threads":
			snap.ProcessThreads = int(f)
		case "system_cpu_avg":
			snap.SystemCPUAvg = f
		case "cores_active":
			snap.CoresActive = int(f)
		case "system_memory_mb":
			snap.SystemMemoryMB = f
		case "system_memory_percent":
			snap.SystemMemoryPercent = f
		case "virtual_mb":
			snap.VirtualMB = f
		}
	}
	return snap
}

func (r *delimitedReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

type delimitedWriter struct {
	file      *os.File
	writer    *csv.Writer
	headerSet bool
	delimiter rune
}

func (w *delimitedWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w.file = file
	w.writer = csv.NewWriter(file)
	w.writer.Comma = w.delimiter
	return nil
}

func (w *delimitedWriter) Write(snap metrics.Snapshot) error {
	if !w.headerSet {
		if err := w.writer.Write(flatColumns); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		w.headerSet = true
	}

	row := []string{
		formatFloat(snap.Timestamp),
		formatFloat(snap.ProcessCPU),
		formatFloat(snap.ProcessMemoryMB),
		strconv.Itoa(snap.ProcessThreads),
		formatFloat(snap.SystemCPUAvg),
		strconv.Itoa(snap.CoresActive),
		formatFloat(snap.SystemMemoryMB),
		formatFloat(snap.SystemMemoryPercent),
		formatFloat(snap.VirtualMB),
	}
	return w.writer.Write(row)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (w *delimitedWriter) Flush() error {
	if w.writer != nil {
		w.writer.Flush()
		return w.writer.Error()
	}
	return nil
}

func (w *delimitedWriter) Close() error {
	if err := w.Flush(); err != nil {
		if w.file != nil {
			_ = w.file.Close()
		}
		return err
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
