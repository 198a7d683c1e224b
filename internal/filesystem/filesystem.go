// Package filesystem provides operations on the reports directory tree.
package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/choplin/cerebro/internal/category"
)

// ReportExt is the extension of indexable report files.
const ReportExt = ".md"

// ErrExists is returned when a move would overwrite another file.
var ErrExists = errors.New("destination already exists")

// EnsureLayout creates the content-type directories under root.
func EnsureLayout(root string) error {
	for _, t := range category.All() {
		if err := os.MkdirAll(filepath.Join(root, t.Dir()), 0o750); err != nil {
			return err
		}
	}
	return nil
}

// TypeDir returns the directory holding reports of the given type.
func TypeDir(root string, t category.ContentType) string {
	return filepath.Join(root, t.Dir())
}

// IsReportFile reports whether name looks like an indexable report:
// a markdown file that is not hidden.
func IsReportFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ReportExt) && !strings.HasPrefix(base, ".")
}

// ListReports returns the report files directly inside dir, sorted by name.
// A missing directory yields no files.
func ListReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsReportFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ReadReport reads a report file and returns its contents and modification time.
func ReadReport(path string) (string, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, err
	}
	if info.IsDir() {
		return "", time.Time{}, fmt.Errorf("%s is a directory", path)
	}

	content, err := ReadFile(path)
	if err != nil {
		return "", time.Time{}, err
	}
	return content, info.ModTime(), nil
}

// ReadFile reads a file from disk and returns its contents as a string.
func ReadFile(path string) (string, error) {
	//nolint:gosec // G304: path comes from the index or the reports tree
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MoveReport moves the file at src into the directory of contentType under
// root and returns the new path. The copy is written atomically and keeps the
// source modification time before the source is removed. Moving a file onto
// itself is a no-op.
func MoveReport(root, src string, contentType category.ContentType) (string, error) {
	dstDir := TypeDir(root, contentType)
	dst := filepath.Join(dstDir, filepath.Base(src))
	if filepath.Clean(src) == filepath.Clean(dst) {
		return dst, nil
	}
	if FileExists(dst) {
		return "", fmt.Errorf("%w: %s", ErrExists, dst)
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(src) //nolint:gosec // G304: path comes from the index
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dstDir, 0o750); err != nil {
		return "", err
	}
	if err := atomic.WriteFile(dst, bytes.NewReader(data)); err != nil {
		return "", err
	}
	// the copy is dropped on failure so the report exists in exactly one place
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}

// WriteReport atomically replaces the content of an existing report file.
func WriteReport(path, content string) error {
	if !FileExists(path) {
		return fmt.Errorf("report file %s: %w", path, os.ErrNotExist)
	}
	return atomic.WriteFile(path, strings.NewReader(content))
}

// DeleteFile removes a file if it exists.
func DeleteFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(path)
}

// FileExists reports whether the given path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
