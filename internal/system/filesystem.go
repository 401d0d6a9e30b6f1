package system

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// NewOperatingSystemFileSystem returns the host filesystem.
func NewOperatingSystemFileSystem() afero.Fs {
	return afero.NewOsFs()
}

// FileExists reports whether path names an existing regular file.
func FileExists(fileSystem afero.Fs, path string) (bool, error) {
	info, err := fileSystem.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

// AppendFile appends content to path, creating the file when it is missing.
func AppendFile(fileSystem afero.Fs, path string, content []byte, permissions fs.FileMode) error {
	file, err := fileSystem.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permissions)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}
	_, writeErr := file.Write(content)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("append to %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}
	return nil
}
