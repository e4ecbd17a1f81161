// Package ifcfile persists serialized models to the filesystem.
package ifcfile

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/spf13/afero"
)

// Ensure Writer implements domain.ModelWriter.
var _ domain.ModelWriter = (*Writer)(nil)

// Writer writes models to files on an afero filesystem.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a new Writer.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write serializes model into a temporary file next to path and renames it into place,
// so an existing file is never left half-written.
func (w *Writer) Write(path string, model io.WriterTo) error {
	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := model.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("serialize model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := w.fs.Rename(tmpName, path); err != nil {
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
