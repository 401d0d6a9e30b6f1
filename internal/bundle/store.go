package bundle

import (
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

const defaultBundleFilePermissions fs.FileMode = 0o644

// Store persists bundles to their platform location.
type Store struct {
	fileSystem  afero.Fs
	permissions fs.FileMode
}

// NewStore constructs a Store writing world-readable bundles.
func NewStore(fileSystem afero.Fs) Store {
	return Store{fileSystem: fileSystem, permissions: defaultBundleFilePermissions}
}

// Write replaces the file at location with bundle. The directory must already exist.
func (store Store) Write(bundle []byte, location Location) error {
	directoryExists, err := afero.DirExists(store.fileSystem, location.Directory)
	if err != nil {
		return fmt.Errorf("check bundle directory %s: %w", location.Directory, err)
	}
	if !directoryExists {
		return fmt.Errorf("bundle directory %s: %w", location.Directory, fs.ErrNotExist)
	}
	if err := afero.WriteFile(store.fileSystem, location.Path(), bundle, store.permissions); err != nil {
		return fmt.Errorf("write bundle %s: %w", location.Path(), err)
	}
	return nil
}
