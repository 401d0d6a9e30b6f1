package provision

import (
	"github.com/spf13/afero"

	"github.com/tyemirov/rootbundle/internal/bundle"
	"github.com/tyemirov/rootbundle/internal/environment"
	"github.com/tyemirov/rootbundle/internal/platform"
	"github.com/tyemirov/rootbundle/internal/system"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

// Dependencies carries the collaborators shared by every strategy.
type Dependencies struct {
	CommandRunner  system.CommandRunner
	FileSystem     afero.Fs
	LoggingService *logging.Service
	HomeDirectory  string
	RootStore      bundle.RootStore
}

// Strategy bundles the platform specific pieces of a provisioning run.
type Strategy struct {
	Platform     platform.Platform
	Location     bundle.Location
	Generator    bundle.Generator
	Configurator environment.Configurator
}

// NewStrategy selects the strategy for target. It reports false for unsupported platforms.
func NewStrategy(target platform.Platform, dependencies Dependencies) (Strategy, bool) {
	location, supported := bundle.LocationFor(target)
	if !supported {
		return Strategy{Platform: target}, false
	}
	strategy := Strategy{Platform: target, Location: location}
	switch target {
	case platform.MacOS:
		strategy.Generator = bundle.NewMacOSGenerator(dependencies.CommandRunner, dependencies.LoggingService)
		strategy.Configurator = environment.NewProfileConfigurator(dependencies.FileSystem, dependencies.LoggingService, dependencies.HomeDirectory, environment.Zsh)
	case platform.Linux:
		strategy.Generator = bundle.NewLinuxGenerator(dependencies.FileSystem)
		strategy.Configurator = environment.NewProfileConfigurator(dependencies.FileSystem, dependencies.LoggingService, dependencies.HomeDirectory, environment.Bash)
	case platform.Windows:
		rootStore := dependencies.RootStore
		if rootStore == nil {
			rootStore = bundle.NewSystemRootStore()
		}
		strategy.Generator = bundle.NewWindowsGenerator(rootStore)
		strategy.Configurator = environment.NewMachineConfigurator(dependencies.CommandRunner, dependencies.LoggingService)
	}
	return strategy, true
}
