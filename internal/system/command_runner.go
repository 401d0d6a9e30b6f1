package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandResult holds what a finished external command produced.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandRunner executes system commands and captures their output.
type CommandRunner interface {
	Run(ctx context.Context, executable string, arguments []string) (CommandResult, error)
}

// ExecutableRunner executes commands using the local operating system.
type ExecutableRunner struct{}

// NewExecutableRunner constructs an ExecutableRunner.
func NewExecutableRunner() ExecutableRunner {
	return ExecutableRunner{}
}

// Run executes the executable with the provided arguments and waits for it to exit.
// A start failure or a non-zero exit status is reported as an error; the captured
// output is returned in both cases.
func (executableRunner ExecutableRunner) Run(ctx context.Context, executable string, arguments []string) (CommandResult, error) {
	command := exec.CommandContext(ctx, executable, arguments...)
	var stdoutBuffer bytes.Buffer
	var stderrBuffer bytes.Buffer
	command.Stdout = &stdoutBuffer
	command.Stderr = &stderrBuffer
	err := command.Run()
	result := CommandResult{
		ExitCode: command.ProcessState.ExitCode(),
		Stdout:   stdoutBuffer.Bytes(),
		Stderr:   stderrBuffer.Bytes(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			result.ExitCode = -1
		}
		return result, fmt.Errorf("execute %s: %w: %s", executable, err, strings.TrimSpace(stderrBuffer.String()))
	}
	return result, nil
}
