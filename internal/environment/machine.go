package environment

import (
	"context"
	"errors"
	"fmt"

	"github.com/tyemirov/rootbundle/internal/bundle"
	"github.com/tyemirov/rootbundle/internal/system"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

const (
	commandNameSetx = "SETX"
	setxMachineFlag = "/m"

	logFieldVariable = "variable"
)

// MachineConfigurator persists machine-level variables with SETX.
// Administrative privileges are required; nothing is rolled back on failure.
type MachineConfigurator struct {
	commandRunner  system.CommandRunner
	loggingService *logging.Service
}

// NewMachineConfigurator constructs a MachineConfigurator.
func NewMachineConfigurator(commandRunner system.CommandRunner, loggingService *logging.Service) *MachineConfigurator {
	return &MachineConfigurator{commandRunner: commandRunner, loggingService: loggingService}
}

// Configure attempts every binding and reports all failures together.
func (configurator *MachineConfigurator) Configure(ctx context.Context, location bundle.Location) error {
	var configurationErrors []error
	for _, binding := range MachineBindings(location) {
		_, err := configurator.commandRunner.Run(ctx, commandNameSetx, []string{binding.Name, binding.Value, setxMachineFlag})
		if err != nil {
			configurationErrors = append(configurationErrors, fmt.Errorf("set %s: %w", binding.Name, err))
			continue
		}
		configurator.loggingService.Info("machine environment variable set", logging.String(logFieldVariable, binding.Name))
	}
	return errors.Join(configurationErrors...)
}
