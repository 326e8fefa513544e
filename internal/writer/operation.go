package writer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

var (
	// ErrDirectoryNotFound is returned when the destination directory is missing.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrNilContent is returned when a write has no content at all.
	ErrNilContent = errors.New("content is nil")
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it and
// must not modify the file system.
//
// Description returns a human-readable description for output (e.g., "Write configs/a.config (234 bytes)").
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp writes content to a file, replacing any existing file.
//
// Validation behavior:
//   - Requires the parent directory to exist; it is never created
//   - Allows empty content (zero bytes) but rejects nil content
//
// Execution behavior:
//   - Writes to a temporary file in the same directory, then renames it over Path
//   - Applies Mode before any data is written
type WriteFileOp struct {
	Path    string      // File path to write
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)
}

func (op *WriteFileOp) Validate(ctx context.Context) error {
	if op.Content == nil {
		return fmt.Errorf("%w: %s", ErrNilContent, op.Path)
	}

	dir := filepath.Dir(op.Path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return fmt.Errorf("cannot access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := writeFileAtomically(op.Path, op.Content, op.Mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", op.Path, err)
	}
	return nil
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Write %s (%d bytes)", op.Path, len(op.Content))
}

// writeFileAtomically goes through renameio.TempFile rather than
// renameio.WriteFile so the mode is set before the data lands on disk.
func writeFileAtomically(path string, data []byte, mode fs.FileMode) error {
	t, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return err
	}
	defer func() {
		_ = t.Cleanup()
	}()

	if err := t.Chmod(mode); err != nil {
		return err
	}
	w := bufio.NewWriter(t)
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}
