// Package shellconf reads and writes shell-style key/value files such as
// /etc/conf.d/hostname and /etc/machine-info without executing them.
//
// Reads expand shell parameter expressions (${VAR}, ${VAR-default},
// nested defaults) against the file's own assignments. Writes rewrite
// only the touched assignments and replace the file atomically, so a
// crash leaves either the old or the new file, never a torn one.
package shellconf

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/compose-spec/compose-go/v2/template"
	"github.com/moby/sys/atomicwriter"
)

const defaultFileMode = 0o644

// Assignment sets Key to Value. When AltKey is non-empty and Key is not
// yet assigned, an existing AltKey assignment is rewritten instead; if
// neither exists Key is appended.
type Assignment struct {
	Key    string
	AltKey string
	Value  string
}

// File is a shell-style key/value file on disk.
type File struct {
	path string
}

// New returns a File for path. The file need not exist.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Load parses the file. A missing file is an empty document.
func (f *File) Load() (*Document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("unable to read %q: %w", f.path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %q: %w", f.path, err)
	}
	return doc, nil
}

// Source expands expr against the file's assignments, like sourcing the
// file and echoing expr. A missing file is an error. Lines that cannot be
// parsed are skipped, so one bad line only hides its own assignment.
func (f *File) Source(expr string) (string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return "", fmt.Errorf("unable to source %q: %w", f.path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("unable to source %q: not a regular file", f.path)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("unable to read %q: %w", f.path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		var skipped error
		doc, skipped = ParseLines(data)
		slog.Debug("Skipping unparseable lines.", "path", f.path, "err", skipped)
	}
	out, err := template.SubstituteWithOptions(expr, doc.Get, template.WithoutLogging)
	if err != nil {
		return "", fmt.Errorf("unable to source %q: %w", f.path, err)
	}
	return out, nil
}

// SetAndSave applies every assignment and atomically replaces the file.
// Either all assignments become visible or none do.
func (f *File) SetAndSave(assignments ...Assignment) error {
	doc, err := f.Load()
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if !apply(doc, a) {
			return fmt.Errorf("unable to set %s in %q", a.Key, f.path)
		}
	}
	return f.save(doc)
}

func apply(doc *Document, a Assignment) bool {
	if a.AltKey == "" {
		return doc.Set(a.Key, a.Value, true)
	}
	return doc.Set(a.Key, a.Value, false) ||
		doc.Set(a.AltKey, a.Value, false) ||
		doc.Set(a.Key, a.Value, true)
}

func (f *File) save(doc *Document) error {
	mode := os.FileMode(defaultFileMode)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("unable to save %q: %w", f.path, err)
	}
	if err := atomicwriter.WriteFile(f.path, doc.Bytes(), mode); err != nil {
		return fmt.Errorf("unable to save %q: %w", f.path, err)
	}
	return nil
}
