package storing

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/taikt/sw-task/pkg/metrics"
)

func init() {
	Register(&ParquetFormat{})
}

// parquetRow is the flat snapshot schema for parquet exports, matching
// flatColumns.
type parquetRow struct {
	Timestamp           float64 `parquet:"timestamp"`
	ProcessCPU          float64 `parquet:"process_cpu"`
	ProcessMemoryMB     float64 `parquet:"process_memory_mb"`
	ProcessThreads      int64   `parquet:"process_threads"`
	SystemCPUAvg        float64 `parquet:"system_cpu_avg"`
	CoresActive         int64   `parquet:"cores_active"`
	SystemMemoryMB      float64 `parquet:"system_memory_mb"`
	SystemMemoryPercent float64 `parquet:"system_memory_percent"`
	VirtualMB           float64 `parquet:"virtual_mb"`
}

func toParquetRow(snap metrics.Snapshot) parquetRow {
	return parquetRow{
		Timestamp:           snap.Timestamp,
		ProcessCPU:          snap.ProcessCPU,
		ProcessMemoryMB:     snap.ProcessMemoryMB,
		ProcessThreads:      int64(snap.ProcessThreads),
		SystemCPUAvg:        snap.SystemCPUAvg,
		CoresActive:         int64(snap.CoresActive),
		SystemMemoryMB:      snap.SystemMemoryMB,
		SystemMemoryPercent: snap.SystemMemoryPercent,
		VirtualMB:           snap.VirtualMB,
	}
}

func (r parquetRow) snapshot() metrics.Snapshot {
	return metrics.Snapshot{
		Timestamp:           r.Timestamp,
		ProcessCPU:          r.ProcessCPU,
		ProcessMemoryMB:     r.ProcessMemoryMB,
		ProcessThreads:      int(r.ProcessThreads),
		SystemCPUAvg:        r.SystemCPUAvg,
		CoresActive:         int(r.CoresActive),
		SystemMemoryMB:      r.SystemMemoryMB,
		SystemMemoryPercent: r.SystemMemoryPercent,
		VirtualMB:           r.VirtualMB,
	}
}

// ParquetFormat stores snapshots as snappy-compressed parquet rows.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extension() string    { return ".parquet" }
func (f *ParquetFormat) Reader() SeriesReader { return &parquetReader{} }
func (f *ParquetFormat) Writer() SeriesWriter { return &parquetWriter{} }

type parquetReader struct {
	path string
}

func (r *parquetReader) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	r.path = path
	return nil
}

func (r *parquetReader) Read() (metrics.Series, error) {
	rows, err := parquet.ReadFile[parquetRow](r.path)
	if err != nil {
		return nil, fmt.Errorf("reading parquet %s: %w", r.path, err)
	}
	series := make(metrics.Series, 0, len(rows))
	for _, row := range rows {
		series.Append(row.snapshot())
	}
	return series, nil
}

func (r *parquetReader) Close() error { return nil }

type parquetWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[parquetRow]
}

func (w *parquetWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w.file = file
	w.writer = parquet.NewGenericWriter[parquetRow](file,
		parquet.Compression(&parquet.Snappy),
	)
	return nil
}

func (w *parquetWriter) Write(snap metrics.Snapshot) error {
	if _, err := w.writer.Write([]parquetRow{toParquetRow(snap)}); err != nil {
		return fmt.Errorf("writing parquet row: %w", err)
	}
	return nil
}

func (w *parquetWriter) Flush() error {
	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

func (w *parquetWriter) Close() error {
	if w.writer != nil {
		if err := w.writer.Close(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
