package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/tyemirov/rootbundle/internal/bundle"
	"github.com/tyemirov/rootbundle/internal/environment"
	"github.com/tyemirov/rootbundle/internal/gitconfig"
	"github.com/tyemirov/rootbundle/internal/platform"
	"github.com/tyemirov/rootbundle/internal/system/systemtest"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

const (
	homeDirectory     = "/home/user"
	linuxBundlePath   = "/etc/ssl/certs/custom-root-bundle.pem"
	bashProfilePath   = "/home/user/.bashrc"
	zshProfilePath    = "/home/user/.zshenv"
	systemBundleValue = "CERT1\nCERT2\n"
)

type staticRootStore struct {
	certificates [][]byte
}

func (store staticRootStore) Certificates() ([][]byte, error) {
	return store.certificates, nil
}

func newLinuxFileSystem(t *testing.T) afero.Fs {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	if err := fileSystem.MkdirAll(homeDirectory, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	if err := afero.WriteFile(fileSystem, bundle.LinuxSystemBundlePath, []byte(systemBundleValue), 0o644); err != nil {
		t.Fatalf("seed system bundle: %v", err)
	}
	return fileSystem
}

func newDependencies(fileSystem afero.Fs, commandRunner *systemtest.RecordingCommandRunner) Dependencies {
	return Dependencies{
		CommandRunner:  commandRunner,
		FileSystem:     fileSystem,
		LoggingService: logging.NewTestService(logging.TypeConsole),
		HomeDirectory:  homeDirectory,
	}
}

func TestProvisionerLinuxEndToEnd(t *testing.T) {
	fileSystem := newLinuxFileSystem(t)
	commandRunner := systemtest.NewRecordingCommandRunner(systemtest.Output("git version 2.45.0\n"))
	provisioner := NewProvisioner(platform.Linux, newDependencies(fileSystem, commandRunner))

	report, err := provisioner.Run(context.Background(), Request{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.BundlePath != linuxBundlePath || report.BundleBytes != len(systemBundleValue) {
		t.Fatalf("unexpected report %+v", report)
	}
	stored, readErr := afero.ReadFile(fileSystem, linuxBundlePath)
	if readErr != nil {
		t.Fatalf("read bundle: %v", readErr)
	}
	if string(stored) != systemBundleValue {
		t.Fatalf("expected bundle %q, got %q", systemBundleValue, string(stored))
	}

	profile, profileErr := afero.ReadFile(fileSystem, bashProfilePath)
	if profileErr != nil {
		t.Fatalf("read profile: %v", profileErr)
	}
	exportLines := 0
	for _, line := range strings.Split(string(profile), "\n") {
		if strings.HasPrefix(line, "export ") {
			exportLines++
		}
	}
	if exportLines != 6 {
		t.Fatalf("expected six export lines, got %d", exportLines)
	}
	if !strings.Contains(string(profile), "export CERT_PATH="+linuxBundlePath) || !strings.Contains(string(profile), "export CERT_DIR=/etc/ssl/certs/") {
		t.Fatalf("profile does not reference the bundle location: %q", string(profile))
	}

	if report.Git != gitconfig.OutcomeConfigured {
		t.Fatalf("expected git to be configured, got %s", report.Git)
	}
	lastCommand := commandRunner.Executed[len(commandRunner.Executed)-1]
	if lastCommand.Arguments[len(lastCommand.Arguments)-1] != linuxBundlePath {
		t.Fatalf("expected git to receive bundle path, got %v", lastCommand.Arguments)
	}
}

func TestProvisionerPrependsUserCertificateFile(t *testing.T) {
	fileSystem := newLinuxFileSystem(t)
	if err := afero.WriteFile(fileSystem, "/tmp/corporate.pem", []byte("CORP\n"), 0o600); err != nil {
		t.Fatalf("seed user file: %v", err)
	}
	provisioner := NewProvisioner(platform.Linux, newDependencies(fileSystem, systemtest.NewRecordingCommandRunner()))

	if _, err := provisioner.Run(context.Background(), Request{CertificateFile: "/tmp/corporate.pem"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	stored, err := afero.ReadFile(fileSystem, linuxBundlePath)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	if string(stored) != "CORP\n"+systemBundleValue {
		t.Fatalf("unexpected bundle %q", string(stored))
	}
}

func TestProvisionerUnsupportedPlatformWritesNothing(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	commandRunner := systemtest.NewRecordingCommandRunner()
	loggingService, observedLogs := logging.NewObservedService(logging.TypeConsole)
	dependencies := newDependencies(fileSystem, commandRunner)
	dependencies.LoggingService = loggingService

	report, err := NewProvisioner(platform.Unsupported, dependencies).Run(context.Background(), Request{CertificateFile: "/does/not/matter.pem"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if report.Platform != platform.Unsupported || report.BundlePath != "" {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(commandRunner.Executed) != 0 {
		t.Fatalf("expected no commands, got %d", len(commandRunner.Executed))
	}
	entries, _ := afero.ReadDir(fileSystem, "/")
	if len(entries) != 0 {
		t.Fatalf("expected no filesystem writes, found %d entries", len(entries))
	}
	if observedLogs.FilterMessageSnippet("unsupported operating system").Len() != 1 {
		t.Fatalf("expected unsupported message")
	}
}

func TestProvisionerStopsWhenStoreFails(t *testing.T) {
	baseFileSystem := newLinuxFileSystem(t)
	commandRunner := systemtest.NewRecordingCommandRunner()
	provisioner := NewProvisioner(platform.Linux, newDependencies(afero.NewReadOnlyFs(baseFileSystem), commandRunner))

	_, err := provisioner.Run(context.Background(), Request{})
	var stageError *StageError
	if !errors.As(err, &stageError) || stageError.Stage != StageStore {
		t.Fatalf("expected store stage error, got %v", err)
	}
	if exists, _ := afero.Exists(baseFileSystem, bashProfilePath); exists {
		t.Fatalf("expected profile to stay untouched")
	}
	if len(commandRunner.Executed) != 0 {
		t.Fatalf("expected git to be skipped after a store failure, got %d commands", len(commandRunner.Executed))
	}
}

func TestProvisionerStopsWhenGenerationFails(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	commandRunner := systemtest.NewRecordingCommandRunner()
	_, err := NewProvisioner(platform.Linux, newDependencies(fileSystem, commandRunner)).Run(context.Background(), Request{})

	var stageError *StageError
	if !errors.As(err, &stageError) || stageError.Stage != StageGenerate {
		t.Fatalf("expected generate stage error, got %v", err)
	}
	if !errors.Is(err, bundle.ErrGenerate) {
		t.Fatalf("expected ErrGenerate in chain, got %v", err)
	}
	if len(commandRunner.Executed) != 0 {
		t.Fatalf("expected no commands, got %d", len(commandRunner.Executed))
	}
}

func TestProvisionerRejectsUnreadableUserFile(t *testing.T) {
	fileSystem := newLinuxFileSystem(t)
	_, err := NewProvisioner(platform.Linux, newDependencies(fileSystem, systemtest.NewRecordingCommandRunner())).Run(context.Background(), Request{CertificateFile: "/tmp/missing.pem"})

	var stageError *StageError
	if !errors.As(err, &stageError) || stageError.Stage != StageUserCertificates {
		t.Fatalf("expected user certificate stage error, got %v", err)
	}
	if exists, _ := afero.Exists(fileSystem, linuxBundlePath); exists {
		t.Fatalf("expected no bundle to be written")
	}
}

func TestProvisionerConfiguresGitAfterEnvironmentFailure(t *testing.T) {
	fileSystem := newLinuxFileSystem(t)
	commandRunner := systemtest.NewRecordingCommandRunner(systemtest.Output("git version 2.45.0\n"))
	dependencies := newDependencies(fileSystem, commandRunner)
	dependencies.HomeDirectory = ""

	report, err := NewProvisioner(platform.Linux, dependencies).Run(context.Background(), Request{})
	var stageError *StageError
	if !errors.As(err, &stageError) || stageError.Stage != StageEnvironment {
		t.Fatalf("expected environment stage error, got %v", err)
	}
	if report.Git != gitconfig.OutcomeConfigured {
		t.Fatalf("expected git to run after environment failure, got %s", report.Git)
	}
}

func TestProvisionerWindowsUsesMachineEnvironment(t *testing.T) {
	location, _ := bundle.LocationFor(platform.Windows)
	fileSystem := afero.NewMemMapFs()
	if err := fileSystem.MkdirAll(location.Directory, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	commandRunner := systemtest.NewRecordingCommandRunner()
	dependencies := newDependencies(fileSystem, commandRunner)
	dependencies.RootStore = staticRootStore{certificates: [][]byte{{0x30, 0x00}}}

	report, err := NewProvisioner(platform.Windows, dependencies).Run(context.Background(), Request{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	stored, readErr := afero.ReadFile(fileSystem, location.Path())
	if readErr != nil {
		t.Fatalf("read bundle: %v", readErr)
	}
	if !strings.HasPrefix(string(stored), "-----BEGIN CERTIFICATE-----") {
		t.Fatalf("expected pem bundle, got %q", string(stored))
	}
	setxCalls := 0
	for _, executed := range commandRunner.Executed {
		if executed.Executable == "SETX" {
			setxCalls++
		}
	}
	if setxCalls != 4 {
		t.Fatalf("expected four SETX calls, got %d", setxCalls)
	}
	if report.Git != gitconfig.OutcomeConfigured {
		t.Fatalf("expected git to be configured, got %s", report.Git)
	}
}

func TestNewStrategySelectsShellPerPlatform(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	dependencies := newDependencies(fileSystem, systemtest.NewRecordingCommandRunner())

	testCases := []struct {
		target          platform.Platform
		expectedProfile string
	}{
		{target: platform.MacOS, expectedProfile: zshProfilePath},
		{target: platform.Linux, expectedProfile: bashProfilePath},
	}
	for _, testCase := range testCases {
		t.Run(testCase.target.String(), func(t *testing.T) {
			strategy, supported := NewStrategy(testCase.target, dependencies)
			if !supported {
				t.Fatalf("expected %s to be supported", testCase.target)
			}
			profileConfigurator, ok := strategy.Configurator.(*environment.ProfileConfigurator)
			if !ok {
				t.Fatalf("expected profile configurator, got %T", strategy.Configurator)
			}
			if profileConfigurator.ProfilePath() != testCase.expectedProfile {
				t.Fatalf("expected %s, got %s", testCase.expectedProfile, profileConfigurator.ProfilePath())
			}
		})
	}

	if _, supported := NewStrategy(platform.Unsupported, dependencies); supported {
		t.Fatalf("expected unsupported platform to have no strategy")
	}
}
