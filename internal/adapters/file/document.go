package file

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aretw0/crank/pkg/domain"
)

// Document is an in-memory, line-oriented copy of a host file.
// Reads and inserts use 0-based indices; Delete takes a 1-based line number.
type Document struct {
	Path     string
	lines    []string
	original []string
	mode     os.FileMode
}

// Open reads path into a Document.
func Open(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.FileError{File: path, Op: "open", Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.FileError{File: path, Op: "read", Err: err}
	}
	d := New(path, splitLines(string(data)))
	d.mode = info.Mode().Perm()
	return d, nil
}

// New builds a Document from lines without touching the filesystem.
func New(path string, lines []string) *Document {
	return &Document{
		Path:     path,
		lines:    append([]string(nil), lines...),
		original: append([]string(nil), lines...),
		mode:     0644,
	}
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Line returns line i with surrounding whitespace stripped and internal
// whitespace runs collapsed. Out of range indices yield "".
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return strings.Join(strings.Fields(d.lines[i]), " ")
}

// Raw returns line i exactly as stored.
func (d *Document) Raw(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Lines returns a copy of the current lines.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Insert places text before index i; i == Len() appends.
func (d *Document) Insert(i int, text string) error {
	if i < 0 || i > len(d.lines) {
		return fmt.Errorf("insert index %d out of range [0,%d]", i, len(d.lines))
	}
	d.lines = append(d.lines, "")
	copy(d.lines[i+1:], d.lines[i:])
	d.lines[i] = text
	return nil
}

// Delete removes the line with 1-based number n.
func (d *Document) Delete(n int) error {
	i := n - 1
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("delete line %d out of range [1,%d]", n, len(d.lines))
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return nil
}

// Changed compares the current lines with the ones read at open.
func (d *Document) Changed() bool {
	if len(d.lines) != len(d.original) {
		return true
	}
	for i := range d.lines {
		if d.lines[i] != d.original[i] {
			return true
		}
	}
	return false
}

// Write stores every line followed by a newline. The file is replaced
// atomically: a temp file in the same directory is written, synced and
// renamed over the destination.
func (d *Document) Write() error {
	var sb strings.Builder
	for _, l := range d.lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	if err := writeAtomic(d.Path, []byte(sb.String()), d.mode); err != nil {
		return &domain.FileError{File: d.Path, Op: "write", Err: err}
	}
	d.original = append([]string(nil), d.lines...)
	return nil
}

func writeAtomic(destPath string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(destPath)

	// 1. Temp file on the same filesystem, required for an atomic rename
	tmpFile, err := os.CreateTemp(dir, ".crank-"+filepath.Base(destPath)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	// 2. Write and fsync
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	// 3. Rename over the destination.
	// Windows refuses to rename onto an existing file; elsewhere rename replaces it.
	if runtime.GOOS == "windows" {
		if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
