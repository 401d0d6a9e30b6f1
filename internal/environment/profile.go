package environment

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/spf13/afero"

	"github.com/tyemirov/rootbundle/internal/bundle"
	"github.com/tyemirov/rootbundle/internal/system"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

// Shell selects which profile file receives the exports.
type Shell int

const (
	Bash Shell = iota
	Zsh
)

const (
	profileFilePermissions fs.FileMode = 0o644

	logFieldProfile = "profile"
)

// ProfileFileName returns the profile file read by every instance of the shell.
func (shell Shell) ProfileFileName() string {
	if shell == Zsh {
		return ".zshenv"
	}
	return ".bashrc"
}

func (shell Shell) String() string {
	if shell == Zsh {
		return "zsh"
	}
	return "bash"
}

// ProfileBindings lists the exports written to a POSIX shell profile.
// Only CERT_PATH and CERT_DIR carry literal values; the rest reference them
// so the shell resolves them when the profile is sourced.
func ProfileBindings(location bundle.Location) []Binding {
	return []Binding{
		{Name: VariableCertificatePath, Value: shellescape.Quote(location.Path())},
		{Name: VariableCertificateDir, Value: shellescape.Quote(location.Directory)},
		{Name: VariableSSLCertificateFile, Value: "${" + VariableCertificatePath + "}"},
		{Name: VariableSSLCertificateDir, Value: "${" + VariableCertificateDir + "}"},
		{Name: VariableRequestsCABundle, Value: "${" + VariableCertificatePath + "}"},
		{Name: VariableNodeExtraCACerts, Value: "${" + VariableCertificatePath + "}"},
	}
}

// ExportBlock renders bindings as profile lines, each preceded by a newline
// so the block never joins a profile that lacks a trailing newline.
func ExportBlock(bindings []Binding) string {
	var builder strings.Builder
	for _, binding := range bindings {
		builder.WriteString("\nexport ")
		builder.WriteString(binding.Name)
		builder.WriteString("=")
		builder.WriteString(binding.Value)
	}
	return builder.String()
}

// ProfileConfigurator appends exports to a shell profile in the home directory.
// Every call appends again; existing exports are never detected or replaced.
type ProfileConfigurator struct {
	fileSystem     afero.Fs
	loggingService *logging.Service
	homeDirectory  string
	shell          Shell
}

// NewProfileConfigurator constructs a ProfileConfigurator for shell.
func NewProfileConfigurator(fileSystem afero.Fs, loggingService *logging.Service, homeDirectory string, shell Shell) *ProfileConfigurator {
	return &ProfileConfigurator{
		fileSystem:     fileSystem,
		loggingService: loggingService,
		homeDirectory:  homeDirectory,
		shell:          shell,
	}
}

// ProfilePath returns the profile file the configurator appends to.
func (configurator *ProfileConfigurator) ProfilePath() string {
	return filepath.Join(configurator.homeDirectory, configurator.shell.ProfileFileName())
}

func (configurator *ProfileConfigurator) Configure(ctx context.Context, location bundle.Location) error {
	if configurator.homeDirectory == "" {
		return fmt.Errorf("home directory is required for %s profile", configurator.shell)
	}
	profilePath := configurator.ProfilePath()
	configurator.loggingService.Info("writing environment variables", logging.String(logFieldProfile, profilePath))
	block := ExportBlock(ProfileBindings(location))
	if err := system.AppendFile(configurator.fileSystem, profilePath, []byte(block), profileFilePermissions); err != nil {
		return fmt.Errorf("update %s profile: %w", configurator.shell, err)
	}
	return nil
}
