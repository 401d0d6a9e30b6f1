// Package systemtest provides fakes for the system collaborators.
package systemtest

import (
	"context"
	"fmt"

	"github.com/tyemirov/rootbundle/internal/system"
)

// ExecutedCommand records one invocation seen by a RecordingCommandRunner.
type ExecutedCommand struct {
	Executable string
	Arguments  []string
}

// Response is the canned reply for one invocation.
type Response struct {
	Result system.CommandResult
	Err    error
}

// Failure builds a Response for a command exiting with exitCode.
func Failure(exitCode int) Response {
	return Response{
		Result: system.CommandResult{ExitCode: exitCode},
		Err:    fmt.Errorf("exit status %d", exitCode),
	}
}

// Output builds a successful Response carrying stdout.
func Output(stdout string) Response {
	return Response{Result: system.CommandResult{Stdout: []byte(stdout)}}
}

// RecordingCommandRunner replays responses in order and records every call.
// Once responses run out every command succeeds with empty output.
type RecordingCommandRunner struct {
	Executed  []ExecutedCommand
	responses []Response
}

// NewRecordingCommandRunner constructs a runner replaying responses.
func NewRecordingCommandRunner(responses ...Response) *RecordingCommandRunner {
	return &RecordingCommandRunner{Executed: []ExecutedCommand{}, responses: responses}
}

func (runner *RecordingCommandRunner) Run(ctx context.Context, executable string, arguments []string) (system.CommandResult, error) {
	runner.Executed = append(runner.Executed, ExecutedCommand{Executable: executable, Arguments: append([]string{}, arguments...)})
	if len(runner.responses) == 0 {
		return system.CommandResult{}, nil
	}
	next := runner.responses[0]
	runner.responses = runner.responses[1:]
	return next.Result, next.Err
}
