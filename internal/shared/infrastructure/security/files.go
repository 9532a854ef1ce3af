// Package security validates user-supplied file paths before the CLI reads
// or writes them.
package security

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxImportSize caps how much ReadFile will load.
const MaxImportSize = 32 << 20

var (
	// ErrEmptyPath is returned for an empty path.
	ErrEmptyPath = errors.New("file path cannot be empty")
	// ErrTooLarge is returned when a file exceeds the read limit.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// shell metacharacters never expected in a data file path
var forbiddenChars = []string{";", "&", "|", "$", "`", "<", ">", "\n", "\r", "\x00"}

// ValidateFilePath cleans path, makes it absolute and resolves symlinks when
// the file exists. A path to a missing file is returned cleaned.
func ValidateFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	for _, c := range forbiddenChars {
		if strings.Contains(path, c) {
			return "", fmt.Errorf("file path contains forbidden character %q", c)
		}
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return abs, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// ReadFile reads a validated path, refusing files larger than limit bytes.
// A limit of zero or less means MaxImportSize.
func ReadFile(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxImportSize
	}
	clean, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is validated above
	f, err := os.Open(clean)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w (%d bytes)", clean, ErrTooLarge, limit)
	}
	return data, nil
}

// WriteFileAtomic writes data next to path and renames it into place, so a
// reader never sees a partial export.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	clean, err := ValidateFilePath(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(clean), "."+filepath.Base(clean)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, clean)
}
