package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tyemirov/rootbundle/internal/platform"
	"github.com/tyemirov/rootbundle/internal/provision"
	"github.com/tyemirov/rootbundle/internal/system"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

type contextKey string

const (
	contextKeyApplicationResources contextKey = "application-resources"

	defaultConfigFileName  = "config"
	defaultConfigFileType  = "yaml"
	defaultApplicationName = "rootbundle"

	flagNameConfigFile      = "config"
	flagNameCertificateFile = "cert-file"
	flagNameLoggingType     = "logging-type"

	configKeyCertificateFile = "bundle.certificate_file"
	configKeyLoggingType     = "logging.type"

	logMessageFailedInitializeLogger = "failed to initialize logger"
	logMessageResolveUserConfigDir   = "resolve user config directory"
	logMessageCommandExecutionFailed = "command execution failed"
)

// Exit codes returned by Execute.
const (
	ExitCodeSuccess          = 0
	ExitCodeUsage            = 1
	ExitCodeUserCertificates = 2
	ExitCodeGenerate         = 3
	ExitCodeStore            = 4
	ExitCodeEnvironment      = 5
)

var exitCodesByStage = map[provision.Stage]int{
	provision.StageUserCertificates: ExitCodeUserCertificates,
	provision.StageGenerate:         ExitCodeGenerate,
	provision.StageStore:            ExitCodeStore,
	provision.StageEnvironment:      ExitCodeEnvironment,
}

type applicationResources struct {
	configurationManager *viper.Viper
	loggingService       *logging.Service
	defaultConfigDirPath string
	platform             platform.Platform
	fileSystem           afero.Fs
	commandRunner        system.CommandRunner
	homeDirectory        string
}

func (resources *applicationResources) updateLogger(loggingType string) error {
	normalizedType, err := logging.NormalizeType(loggingType)
	if err != nil {
		return err
	}
	if resources.loggingService != nil && resources.loggingService.Type() == normalizedType {
		return nil
	}
	service, err := logging.NewService(normalizedType)
	if err != nil {
		return err
	}
	if resources.loggingService != nil {
		_ = resources.loggingService.Sync()
	}
	resources.loggingService = service
	return nil
}

func (resources *applicationResources) provisioningDependencies() provision.Dependencies {
	return provision.Dependencies{
		CommandRunner:  resources.commandRunner,
		FileSystem:     resources.fileSystem,
		LoggingService: resources.loggingService,
		HomeDirectory:  resources.homeDirectory,
	}
}

// Execute runs the CLI using the provided context and arguments, returning an exit code.
func Execute(ctx context.Context, arguments []string) int {
	initialService, err := logging.NewService(logging.TypeConsole)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", logMessageFailedInitializeLogger, err)
		return ExitCodeUsage
	}
	configurationManager := newConfigurationManager()

	userConfigDir, userConfigErr := os.UserConfigDir()
	if userConfigErr != nil {
		initialService.Error(logMessageResolveUserConfigDir, userConfigErr)
		return ExitCodeUsage
	}
	// A missing home directory surfaces later as an environment failure.
	homeDirectory, _ := os.UserHomeDir()

	resources := &applicationResources{
		configurationManager: configurationManager,
		loggingService:       initialService,
		defaultConfigDirPath: filepath.Join(userConfigDir, defaultApplicationName),
		platform:             platform.Current(),
		fileSystem:           system.NewOperatingSystemFileSystem(),
		commandRunner:        system.NewExecutableRunner(),
		homeDirectory:        homeDirectory,
	}
	if err := resources.updateLogger(configurationManager.GetString(configKeyLoggingType)); err != nil {
		resources.loggingService = initialService
		resources.loggingService.Error(logMessageFailedInitializeLogger, err)
		return ExitCodeUsage
	}
	defer func() {
		if resources.loggingService != nil {
			_ = resources.loggingService.Sync()
		}
	}()

	return executeWithResources(ctx, resources, arguments)
}

func executeWithResources(ctx context.Context, resources *applicationResources, arguments []string) int {
	rootCommand := newRootCommand(resources)
	baseContext := context.WithValue(ctx, contextKeyApplicationResources, resources)
	rootCommand.SetContext(baseContext)
	rootCommand.SetArgs(arguments)

	if executionErr := rootCommand.Execute(); executionErr != nil {
		resources.loggingService.Error(logMessageCommandExecutionFailed, executionErr)
		return exitCodeForError(executionErr)
	}
	return ExitCodeSuccess
}

func newConfigurationManager() *viper.Viper {
	configurationManager := viper.New()
	configurationManager.SetEnvPrefix(strings.ToUpper(defaultApplicationName))
	configurationManager.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configurationManager.AutomaticEnv()
	configurationManager.SetDefault(configKeyCertificateFile, "")
	configurationManager.SetDefault(configKeyLoggingType, logging.TypeConsole)
	return configurationManager
}

func exitCodeForError(err error) int {
	var stageError *provision.StageError
	if errors.As(err, &stageError) {
		if exitCode, found := exitCodesByStage[stageError.Stage]; found {
			return exitCode
		}
	}
	return ExitCodeUsage
}

func loadConfigurationFile(cmd *cobra.Command) error {
	resources, err := getApplicationResources(cmd)
	if err != nil {
		return err
	}
	configurationManager := resources.configurationManager
	configFilePath, flagErr := cmd.Flags().GetString(flagNameConfigFile)
	if flagErr != nil {
		return fmt.Errorf("read config flag: %w", flagErr)
	}
	if configFilePath != "" {
		configurationManager.SetConfigFile(configFilePath)
	} else {
		configurationManager.AddConfigPath(resources.defaultConfigDirPath)
		configurationManager.SetConfigName(defaultConfigFileName)
		configurationManager.SetConfigType(defaultConfigFileType)
	}
	if readErr := configurationManager.ReadInConfig(); readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return fmt.Errorf("read configuration: %w", readErr)
		}
	}
	return resources.updateLogger(configurationManager.GetString(configKeyLoggingType))
}

func getApplicationResources(cmd *cobra.Command) (*applicationResources, error) {
	resourceValue := cmd.Context().Value(contextKeyApplicationResources)
	if resourceValue == nil {
		return nil, errors.New("application resources not configured")
	}
	resources, ok := resourceValue.(*applicationResources)
	if !ok {
		return nil, errors.New("invalid application resources type")
	}
	return resources, nil
}
