package bundle

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
)

// LinuxSystemBundlePath is the distribution-maintained CA bundle.
const LinuxSystemBundlePath = "/etc/ssl/certs/ca-certificates.crt"

// LinuxGenerator copies the distribution CA bundle behind the user certificates.
type LinuxGenerator struct {
	fileSystem afero.Fs
	sourcePath string
}

// NewLinuxGenerator constructs a LinuxGenerator reading LinuxSystemBundlePath.
func NewLinuxGenerator(fileSystem afero.Fs) *LinuxGenerator {
	return &LinuxGenerator{fileSystem: fileSystem, sourcePath: LinuxSystemBundlePath}
}

func (generator *LinuxGenerator) Generate(ctx context.Context, userSupplied []byte) ([]byte, error) {
	systemBundle, err := afero.ReadFile(generator.fileSystem, generator.sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrGenerate, generator.sourcePath, err)
	}
	return concatenate(userSupplied, systemBundle), nil
}
