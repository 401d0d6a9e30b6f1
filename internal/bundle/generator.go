package bundle

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// Generator produces PEM text made of user supplied certificates followed by
// the operating system's trusted roots.
type Generator interface {
	Generate(ctx context.Context, userSupplied []byte) ([]byte, error)
}

// ErrGenerate marks failures to read the operating system's certificates.
var ErrGenerate = errors.New("generate certificate bundle")

// concatenate joins the sources in order without inserting separators.
func concatenate(userSupplied []byte, sources ...[]byte) []byte {
	totalLength := len(userSupplied)
	for _, source := range sources {
		totalLength += len(source)
	}
	combined := make([]byte, 0, totalLength)
	combined = append(combined, userSupplied...)
	for _, source := range sources {
		combined = append(combined, source...)
	}
	return combined
}

// LoadUserSupplied reads the supplementary PEM file. An empty path yields empty input.
func LoadUserSupplied(fileSystem afero.Fs, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	content, err := afero.ReadFile(fileSystem, path)
	if err != nil {
		return nil, fmt.Errorf("read user certificate file %s: %w", path, err)
	}
	return content, nil
}
