package bundle

import (
	"context"

	"github.com/tyemirov/rootbundle/internal/system"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

const (
	commandNameSecurity = "security"

	// SystemRootCertificatesKeychain holds the roots shipped with macOS.
	SystemRootCertificatesKeychain = "/System/Library/Keychains/SystemRootCertificates.keychain"
	// SystemKeychain holds administrator-installed certificates.
	SystemKeychain = "/Library/Keychains/System.keychain"

	logFieldKeychain = "keychain"
)

// MacOSGenerator exports certificates from the system keychains with the security tool.
type MacOSGenerator struct {
	commandRunner  system.CommandRunner
	loggingService *logging.Service
	keychains      []string
}

// NewMacOSGenerator reads the root keychain first and the system keychain second.
func NewMacOSGenerator(commandRunner system.CommandRunner, loggingService *logging.Service) *MacOSGenerator {
	return &MacOSGenerator{
		commandRunner:  commandRunner,
		loggingService: loggingService,
		keychains:      []string{SystemRootCertificatesKeychain, SystemKeychain},
	}
}

// Generate never fails: a keychain whose export exits non-zero contributes nothing.
func (generator *MacOSGenerator) Generate(ctx context.Context, userSupplied []byte) ([]byte, error) {
	exports := make([][]byte, 0, len(generator.keychains))
	for _, keychain := range generator.keychains {
		result, err := generator.commandRunner.Run(ctx, commandNameSecurity, []string{"find-certificate", "-a", "-p", keychain})
		if err != nil {
			generator.loggingService.Warn("keychain export failed, continuing without it", err, logging.String(logFieldKeychain, keychain))
			continue
		}
		exports = append(exports, result.Stdout)
	}
	return concatenate(userSupplied, exports...), nil
}
