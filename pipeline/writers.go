package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gkwa/noblenewtonia/models"
)

// PayloadWriter receives one decompressed payload per record.
type PayloadWriter interface {
	Write(index int, data []byte) error
	Close() error
}

// DirWriter writes each payload to its own file as <prefix><index>.txt.
type DirWriter struct {
	dir    string
	prefix string
}

// NewDirWriter creates the output directory if needed.
func NewDirWriter(dir, prefix string) (*DirWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", dir, err)
	}
	return &DirWriter{dir: dir, prefix: prefix}, nil
}

// Write stores one payload under its 1-based record index.
func (w *DirWriter) Write(index int, data []byte) error {
	name := filepath.Join(w.dir, fmt.Sprintf("%s%d.txt", w.prefix, index))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}
	return nil
}

// Close is a no-op; files are written eagerly.
func (w *DirWriter) Close() error { return nil }

// StreamWriter joins payloads onto one stream with a separator between
// consecutive records, preserving source order.
type StreamWriter struct {
	w         io.Writer
	separator string
	wrote     bool
}

// NewStreamWriter writes to w, typically standard output.
func NewStreamWriter(w io.Writer, separator string) *StreamWriter {
	return &StreamWriter{w: w, separator: separator}
}

// Write emits the separator before every payload but the first.
func (w *StreamWriter) Write(_ int, data []byte) error {
	if w.wrote {
		if _, err := io.WriteString(w.w, w.separator); err != nil {
			return fmt.Errorf("write separator: %w", err)
		}
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	w.wrote = true
	return nil
}

// Close is a no-op for streams the writer does not own.
func (w *StreamWriter) Close() error { return nil }

// YAMLWriter serializes normalized records as one YAML sequence document.
type YAMLWriter struct {
	path   string
	stdout bool
}

// NewYAMLWriter resolves the destination: "-" streams to standard output, a
// .yaml/.yml path names the document itself, and any other path is treated
// as a directory holding items.yaml.
func NewYAMLWriter(dest string) (*YAMLWriter, error) {
	if dest == "-" {
		return &YAMLWriter{stdout: true}, nil
	}
	ext := strings.ToLower(filepath.Ext(dest))
	if ext == ".yaml" || ext == ".yml" {
		if err := ensureDir(dest); err != nil {
			return nil, err
		}
		return &YAMLWriter{path: dest}, nil
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", dest, err)
	}
	return &YAMLWriter{path: filepath.Join(dest, "items.yaml")}, nil
}

// Path reports the resolved destination, or "-" for standard output.
func (w *YAMLWriter) Path() string {
	if w.stdout {
		return "-"
	}
	return w.path
}

// Write emits the full record list as a single document. An empty run
// still produces a valid empty-sequence document.
func (w *YAMLWriter) Write(records []*models.Record) error {
	if records == nil {
		records = []*models.Record{}
	}

	out := io.Writer(os.Stdout)
	if !w.stdout {
		f, err := os.Create(w.path)
		if err != nil {
			return fmt.Errorf("create yaml file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush yaml: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
