package gitconfig

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tyemirov/rootbundle/internal/system"
	"github.com/tyemirov/rootbundle/internal/system/systemtest"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

const bundlePath = "/etc/ssl/certs/custom-root-bundle.pem"

func TestIntegratorConfiguresWhenGitPresent(t *testing.T) {
	commandRunner := systemtest.NewRecordingCommandRunner(systemtest.Output("git version 2.45.0\n"))
	integrator := NewIntegrator(commandRunner, logging.NewTestService(logging.TypeConsole))

	outcome, err := integrator.Configure(context.Background(), bundlePath)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if outcome != OutcomeConfigured {
		t.Fatalf("expected configured outcome, got %s", outcome)
	}
	if len(commandRunner.Executed) != 2 {
		t.Fatalf("expected probe and config commands, got %d", len(commandRunner.Executed))
	}
	configCommand := commandRunner.Executed[1]
	if configCommand.Executable != commandNameGit {
		t.Fatalf("expected git, got %s", configCommand.Executable)
	}
	if strings.Join(configCommand.Arguments, " ") != "config --global http.sslcainfo "+bundlePath {
		t.Fatalf("unexpected config arguments %v", configCommand.Arguments)
	}
}

func TestIntegratorSkipsWhenProbeFails(t *testing.T) {
	testCases := []struct {
		name     string
		response systemtest.Response
	}{
		{name: "non-zero exit", response: systemtest.Failure(127)},
		{name: "start failure", response: systemtest.Response{Result: system.CommandResult{ExitCode: -1}, Err: errors.New("executable file not found")}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			commandRunner := systemtest.NewRecordingCommandRunner(testCase.response)
			loggingService, observedLogs := logging.NewObservedService(logging.TypeConsole)
			integrator := NewIntegrator(commandRunner, loggingService)

			outcome, err := integrator.Configure(context.Background(), bundlePath)
			if err != nil {
				t.Fatalf("expected skip without error, got %v", err)
			}
			if outcome != OutcomeSkipped {
				t.Fatalf("expected skipped outcome, got %s", outcome)
			}
			if len(commandRunner.Executed) != 1 {
				t.Fatalf("expected only the probe, got %d commands", len(commandRunner.Executed))
			}
			if observedLogs.FilterMessageSnippet("skipping git ssl configuration").Len() != 1 {
				t.Fatalf("expected skip message to be logged")
			}
		})
	}
}

func TestIntegratorReportsConfigFailure(t *testing.T) {
	commandRunner := systemtest.NewRecordingCommandRunner(systemtest.Output("git version 2.45.0\n"), systemtest.Failure(255))
	integrator := NewIntegrator(commandRunner, logging.NewTestService(logging.TypeConsole))

	outcome, err := integrator.Configure(context.Background(), bundlePath)
	if err == nil {
		t.Fatalf("expected config failure")
	}
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %s", outcome)
	}
	if len(commandRunner.Executed) != 2 {
		t.Fatalf("expected config to run exactly once, got %d commands", len(commandRunner.Executed))
	}
}
