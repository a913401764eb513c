package storing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taikt/sw-task/pkg/metrics"
)

// Format defines a secondary export encoding for raw sample series.
type Format interface {
	Name() string
	Extension() string
	Reader() SeriesReader
	Writer() SeriesWriter
}

// SeriesReader reads snapshots back from an export file.
type SeriesReader interface {
	Open(path string) error
	Read() (metrics.Series, error)
	Close() error
}

// SeriesWriter writes snapshots to an export file.
type SeriesWriter interface {
	Init(path string) error
	Write(snap metrics.Snapshot) error
	Flush() error
	Close() error
}

var (
	registry    = make(map[string]Format)
	extRegistry = make(map[string]Format)
)

// Register adds a format to the registry.
func Register(f Format) {
	registry[strings.ToLower(f.Name())] = f
	extRegistry[strings.ToLower(f.Extension())] = f
}

// GetFormat returns a format by name.
func GetFormat(name string) (Format, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// GetFormatByPath returns a format based on the file's extension.
func GetFormatByPath(path string) (Format, bool) {
	f, ok := extRegistry[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Formats returns all registered format names.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// ExportSeries writes a full series to path using the format implied by the
// extension.
func ExportSeries(path string, series metrics.Series) error {
	f, ok := GetFormatByPath(path)
	if !ok {
		return fmt.Errorf("unsupported export format for %s (valid: %s)",
			path, strings.Join(Formats(), ", "))
	}

	w := f.Writer()
	if err := w.Init(path); err != nil {
		return fmt.Errorf("initializing %s export: %w", f.Name(), err)
	}
	for i, snap := range series {
		if err := w.Write(snap); err != nil {
			w.Close()
			return fmt.Errorf("exporting sample %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		w.Close()
		return fmt.Errorf("flushing %s export: %w", f.Name(), err)
	}
	return w.Close()
}

// LoadSeries reads an exported series back.
func LoadSeries(path string) (metrics.Series, error) {
	f, ok := GetFormatByPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported export format for %s", path)
	}

	r := f.Reader()
	if err := r.Open(path); err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Read()
}

// SeriesExportPath derives the export path placed next to a run document.
func SeriesExportPath(runPath, format string) string {
	ext := filepath.Ext(runPath)
	base := runPath[:len(runPath)-len(ext)]
	if f, ok := GetFormat(format); ok {
		return base + "_series" + f.Extension()
	}
	return base + "_series." + format
}
