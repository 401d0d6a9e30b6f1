package provision

import (
	"context"

	"github.com/spf13/afero"

	"github.com/tyemirov/rootbundle/internal/bundle"
	"github.com/tyemirov/rootbundle/internal/gitconfig"
	"github.com/tyemirov/rootbundle/internal/platform"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

const (
	logFieldPlatform    = "platform"
	logFieldBundlePath  = "bundle_path"
	logFieldBundleBytes = "bytes"
)

// Request holds the caller supplied input of a run.
type Request struct {
	// CertificateFile is an optional PEM file placed ahead of the system roots.
	CertificateFile string
}

// Report summarizes a finished run.
type Report struct {
	Platform    platform.Platform
	BundlePath  string
	BundleBytes int
	Git         gitconfig.Outcome
}

// Provisioner runs detect, generate, store, configure environment and configure git in order.
// No step is retried and nothing is rolled back.
type Provisioner struct {
	strategy       Strategy
	supported      bool
	fileSystem     afero.Fs
	store          bundle.Store
	gitIntegrator  *gitconfig.Integrator
	loggingService *logging.Service
}

// NewProvisioner selects the strategy for target once.
func NewProvisioner(target platform.Platform, dependencies Dependencies) *Provisioner {
	strategy, supported := NewStrategy(target, dependencies)
	return &Provisioner{
		strategy:       strategy,
		supported:      supported,
		fileSystem:     dependencies.FileSystem,
		store:          bundle.NewStore(dependencies.FileSystem),
		gitIntegrator:  gitconfig.NewIntegrator(dependencies.CommandRunner, dependencies.LoggingService),
		loggingService: dependencies.LoggingService,
	}
}

// Run executes the pipeline. An unsupported platform ends the run without writes
// and without error. Failures before the environment step stop the run; an
// environment failure is returned only after git has been configured.
func (provisioner *Provisioner) Run(ctx context.Context, request Request) (Report, error) {
	report := Report{Platform: provisioner.strategy.Platform}
	if !provisioner.supported {
		provisioner.loggingService.Info("unsupported operating system detected, nothing to configure", logging.String(logFieldPlatform, report.Platform.String()))
		return report, nil
	}
	provisioner.loggingService.Info("operating system detected", logging.String(logFieldPlatform, report.Platform.String()))
	location := provisioner.strategy.Location
	report.BundlePath = location.Path()

	userSupplied, err := bundle.LoadUserSupplied(provisioner.fileSystem, request.CertificateFile)
	if err != nil {
		return report, &StageError{Stage: StageUserCertificates, Err: err}
	}

	provisioner.loggingService.Info("generating certificate bundle")
	certificateBundle, err := provisioner.strategy.Generator.Generate(ctx, userSupplied)
	if err != nil {
		return report, &StageError{Stage: StageGenerate, Err: err}
	}
	report.BundleBytes = len(certificateBundle)

	provisioner.loggingService.Info("storing certificate bundle", logging.String(logFieldBundlePath, report.BundlePath), logging.Int(logFieldBundleBytes, report.BundleBytes))
	if err := provisioner.store.Write(certificateBundle, location); err != nil {
		return report, &StageError{Stage: StageStore, Err: err}
	}

	provisioner.loggingService.Info("storing ssl environment variables")
	var environmentErr error
	if err := provisioner.strategy.Configurator.Configure(ctx, location); err != nil {
		environmentErr = &StageError{Stage: StageEnvironment, Err: err}
		provisioner.loggingService.Error("environment configuration incomplete", err)
	}

	provisioner.loggingService.Info("checking git installation")
	report.Git, _ = provisioner.gitIntegrator.Configure(ctx, report.BundlePath)

	return report, environmentErr
}
