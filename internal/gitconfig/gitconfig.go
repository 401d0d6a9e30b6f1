package gitconfig

import (
	"context"
	"fmt"

	"github.com/tyemirov/rootbundle/internal/system"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

const (
	commandNameGit   = "git"
	configKeyCAInfo  = "http.sslcainfo"
	logFieldBundle   = "bundle_path"
	logFieldExitCode = "exit_code"
)

// Outcome describes what the integration did.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeConfigured
	OutcomeFailed
)

func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeConfigured:
		return "configured"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Integrator points Git's global TLS trust setting at the bundle.
type Integrator struct {
	commandRunner  system.CommandRunner
	loggingService *logging.Service
}

// NewIntegrator constructs an Integrator.
func NewIntegrator(commandRunner system.CommandRunner, loggingService *logging.Service) *Integrator {
	return &Integrator{commandRunner: commandRunner, loggingService: loggingService}
}

// Configure probes for git and, when it is installed, sets http.sslcainfo to bundlePath.
// A missing git is not an error.
func (integrator *Integrator) Configure(ctx context.Context, bundlePath string) (Outcome, error) {
	probeResult, probeErr := integrator.commandRunner.Run(ctx, commandNameGit, []string{"--version"})
	if probeErr != nil {
		integrator.loggingService.Info("git is not installed, skipping git ssl configuration", logging.Int(logFieldExitCode, probeResult.ExitCode))
		return OutcomeSkipped, nil
	}
	integrator.loggingService.Info("git is installed, updating certificate bundle")
	_, configErr := integrator.commandRunner.Run(ctx, commandNameGit, []string{"config", "--global", configKeyCAInfo, bundlePath})
	if configErr != nil {
		integrator.loggingService.Error("git ssl configuration failed", configErr, logging.String(logFieldBundle, bundlePath))
		return OutcomeFailed, fmt.Errorf("set git %s: %w", configKeyCAInfo, configErr)
	}
	integrator.loggingService.Info("git ssl configuration set", logging.String(logFieldBundle, bundlePath))
	return OutcomeConfigured, nil
}
