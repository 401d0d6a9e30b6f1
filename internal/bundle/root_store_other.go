//go:build !windows

package bundle

import (
	"errors"
	"runtime"
)

type systemRootStore struct{}

// NewSystemRootStore returns a store that always fails outside Windows.
func NewSystemRootStore() RootStore {
	return systemRootStore{}
}

func (systemRootStore) Certificates() ([][]byte, error) {
	return nil, errors.New("windows root store is not available on " + runtime.GOOS)
}
