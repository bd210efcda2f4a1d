package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	"github.com/temirov/pkgvcs/cmd/cli/release"
	"github.com/temirov/pkgvcs/cmd/cli/workingcopy"
	"github.com/temirov/pkgvcs/internal/output"
	"github.com/temirov/pkgvcs/internal/utils"
	flagutils "github.com/temirov/pkgvcs/internal/utils/flags"
)

const (
	applicationNameConstant                 = "pkgvcs"
	applicationShortDescriptionConstant     = "Version control operations for package tooling"
	applicationLongDescriptionConstant      = "pkgvcs clones, inspects, and tags git working copies through one interface. Mercurial working copies are recognized but not yet supported."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	outputFlagNameConstant                  = "output"
	outputFlagUsageConstant                 = "Override the configured output format."
	versionFlagNameConstant                 = "version"
	versionFlagUsageConstant                = "Print the pkgvcs version and exit."
	versionOutputTemplateConstant           = "%s version: %s\n"
	versionArgumentConstant                 = "--" + versionFlagNameConstant
	unknownVersionConstant                  = "unknown"
	develVersionConstant                    = "(devel)"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	vcsConfigurationKeyConstant             = "vcs"
	releaseConfigurationKeyConstant         = "release"
	outputFormatConfigKeyConstant           = "output.format"
	environmentPrefixConstant               = "PKGVCS"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationOutputFormatFieldConstant  = "output_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	outputFormatErrorTemplateConstant       = "invalid output configuration: %w"
	commandBuildErrorTemplateConstant       = "unable to build commands: %w"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentsConstant               = "arguments"
	rootCommandDebugMessageConstant         = "pkgvcs invoked without subcommand"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = "pkgvcs"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration `mapstructure:"common"`
	VCS     environment.VCSConfiguration   `mapstructure:"vcs"`
	Release release.CommandConfiguration   `mapstructure:"release"`
	Output  ApplicationOutputConfiguration `mapstructure:"output"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationOutputConfiguration selects how command results are printed.
type ApplicationOutputConfiguration struct {
	Format string `mapstructure:"format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	outputFlagValue        string
	versionFlagValue       bool
	outputFormat           output.Format
	commandBuildError      error
	versionResolver        func(context.Context) string
	exitFunction           func(int)
	versionWriter          io.Writer
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		outputFormat:           output.FormatText,
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatStructured), []string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)}, logFormatFlagUsageConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.outputFlagValue, outputFlagNameConstant, string(output.FormatText), output.Formats(), outputFlagUsageConstant)
	persistentFlags.BoolVar(&application.versionFlagValue, versionFlagNameConstant, false, versionFlagUsageConstant)

	commandEnvironment := environment.Environment{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConsoleLoggerProvider: func() *zap.Logger {
			return application.consoleLogger
		},
		ConfigurationProvider: func() environment.VCSConfiguration {
			return application.configuration.VCS
		},
		OutputFormatProvider: func() output.Format {
			return application.outputFormat
		},
	}

	commandBuilders := []commandBuilder{
		&workingcopy.CloneCommandBuilder{Environment: commandEnvironment},
		&workingcopy.StatusCommandBuilder{Environment: commandEnvironment},
		&workingcopy.TagsCommandBuilder{Environment: commandEnvironment},
		&workingcopy.CheckoutCommandBuilder{Environment: commandEnvironment},
		&workingcopy.DetectCommandBuilder{Environment: commandEnvironment},
		&workingcopy.DiscoverCommandBuilder{Environment: commandEnvironment},
		&workingcopy.RemoveCommandBuilder{Environment: commandEnvironment},
		&release.CommandBuilder{
			Environment: commandEnvironment,
			ConfigurationProvider: func() release.CommandConfiguration {
				return application.configuration.Release
			},
		},
	}
	application.commandBuildError = registerSubcommands(cobraCommand, commandBuilders)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	if versionRequested(os.Args[1:]) {
		application.printVersion()
		application.exitFunction(0)
		return nil
	}

	if application.commandBuildError != nil {
		return application.commandBuildError
	}

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		outputFormatConfigKeyConstant:    string(output.FormatText),
	}
	for configurationKey, configurationValue := range environment.DefaultConfigurationValues(vcsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range release.DefaultConfigurationValues(releaseConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, outputFlagNameConstant) {
		application.configuration.Output.Format = application.outputFlagValue
	}

	outputFormat, outputFormatError := output.ParseFormat(application.configuration.Output.Format)
	if outputFormatError != nil {
		return fmt.Errorf(outputFormatErrorTemplateConstant, outputFormatError)
	}
	application.outputFormat = outputFormat

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationOutputFormatFieldConstant, string(application.outputFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

type commandBuilder interface {
	Build() (*cobra.Command, error)
}

// registerSubcommands adds every successfully built subcommand and reports the builders that failed.
func registerSubcommands(rootCommand *cobra.Command, builders []commandBuilder) error {
	var buildErrors []error
	for _, builder := range builders {
		subcommand, buildError := builder.Build()
		if buildError != nil {
			buildErrors = append(buildErrors, buildError)
			continue
		}
		rootCommand.AddCommand(subcommand)
	}
	if len(buildErrors) > 0 {
		return fmt.Errorf(commandBuildErrorTemplateConstant, errors.Join(buildErrors...))
	}
	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.versionFlagValue {
		application.printVersion()
		return nil
	}

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) printVersion() {
	writer := application.versionWriter
	if writer == nil {
		writer = os.Stdout
	}
	fmt.Fprintf(writer, versionOutputTemplateConstant, applicationNameConstant, application.versionResolver(application.rootCommand.Context()))
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := syncLoggerInstance(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

func syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func versionRequested(arguments []string) bool {
	for _, argument := range arguments {
		if argument == "--" {
			return false
		}
		if argument == versionArgumentConstant {
			return true
		}
	}
	return false
}

func resolveBuildVersion(context.Context) string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersionConstant
	}
	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) == 0 || moduleVersion == develVersionConstant {
		return unknownVersionConstant
	}
	return moduleVersion
}
