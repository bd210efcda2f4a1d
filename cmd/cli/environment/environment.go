// Package environment carries the collaborators shared by pkgvcs subcommands.
package environment

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/internal/execshell"
	"github.com/temirov/pkgvcs/internal/output"
	"github.com/temirov/pkgvcs/internal/repos/dependencies"
	pathutils "github.com/temirov/pkgvcs/internal/utils/path"
	"github.com/temirov/pkgvcs/internal/vcs"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// Environment resolves loggers, configuration, and version control collaborators for a command.
// Unset fields fall back to operating system backed defaults.
type Environment struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	ConfigurationProvider func() VCSConfiguration
	OutputFormatProvider  func() output.Format
	GitExecutor           vcs.GitExecutor
	FileSystem            vcs.FileSystem
	Detector              dependencies.WorkingCopyDetector
	Discoverer            dependencies.RepositoryDiscoverer
	HomeExpander          *pathutils.HomeExpander
}

// Logger returns the diagnostic logger, never nil.
func (environment Environment) Logger() *zap.Logger {
	return resolveLogger(environment.LoggerProvider)
}

// Configuration returns the sanitized VCS configuration.
func (environment Environment) Configuration() VCSConfiguration {
	if environment.ConfigurationProvider == nil {
		return DefaultVCSConfiguration()
	}
	return environment.ConfigurationProvider().Sanitize()
}

// OutputFormat returns the selected output format, text when unset.
func (environment Environment) OutputFormat() output.Format {
	if environment.OutputFormatProvider == nil {
		return output.FormatText
	}
	format := environment.OutputFormatProvider()
	if len(format) == 0 {
		return output.FormatText
	}
	return format
}

// GitExecutorFor returns the configured git executor or a shell-backed one.
func (environment Environment) GitExecutorFor() (vcs.GitExecutor, error) {
	configuration := environment.Configuration()

	var consoleLogger *zap.Logger
	if environment.ConsoleLoggerProvider != nil {
		consoleLogger = environment.ConsoleLoggerProvider()
	}

	return dependencies.ResolveGitExecutor(
		environment.GitExecutor,
		environment.Logger(),
		consoleLogger,
		execshell.WithExecutable(execshell.CommandGit, configuration.GitExecutable),
	)
}

// DetectorFor returns the configured detector or one built over the git executor.
func (environment Environment) DetectorFor() (dependencies.WorkingCopyDetector, error) {
	if environment.Detector != nil {
		return environment.Detector, nil
	}
	gitExecutor, executorError := environment.GitExecutorFor()
	if executorError != nil {
		return nil, executorError
	}
	return dependencies.ResolveDetector(nil, gitExecutor, environment.FileSystem)
}

// ClonerFor returns the cloner for kind, honoring the temporary directory settings.
func (environment Environment) ClonerFor(kind vcs.Kind) (vcs.Cloner, error) {
	gitExecutor, executorError := environment.GitExecutorFor()
	if executorError != nil {
		return nil, executorError
	}
	configuration := environment.Configuration()
	return vcs.NewCloner(
		kind,
		environment.Logger(),
		gitExecutor,
		dependencies.ResolveFileSystem(environment.FileSystem),
		vcs.WithTemporaryDirectoryPattern(configuration.TemporaryDirectoryPattern),
		vcs.WithTemporaryDirectoryParent(environment.expander().Expand(configuration.TemporaryDirectoryParent)),
	)
}

// DiscovererFor returns the configured discoverer or a filesystem walker.
func (environment Environment) DiscovererFor() dependencies.RepositoryDiscoverer {
	return dependencies.ResolveRepositoryDiscoverer(environment.Discoverer)
}

// RendererFor builds a renderer writing to the command's output stream.
func (environment Environment) RendererFor(command *cobra.Command) (*output.Renderer, error) {
	return output.NewRenderer(command.OutOrStdout(), environment.OutputFormat())
}

// WorkingTreePath normalizes an optional path argument, defaulting to the current directory.
func (environment Environment) WorkingTreePath(candidatePath string) string {
	sanitizer := pathutils.NewPathSanitizer(environment.expander(), pathutils.PathSanitizerConfiguration{DefaultToCurrentDirectory: true})
	return sanitizer.SanitizeSingle(candidatePath)
}

// SearchRoots normalizes discovery roots. Without arguments it uses the configured
// roots, then the current directory. Roots nested in other roots are dropped.
func (environment Environment) SearchRoots(arguments []string) []string {
	candidates := arguments
	if len(candidates) == 0 {
		candidates = environment.Configuration().DiscoverRoots
	}
	sanitizer := pathutils.NewPathSanitizer(environment.expander(), pathutils.PathSanitizerConfiguration{
		DefaultToCurrentDirectory: true,
		PruneNestedPaths:          true,
	})
	return sanitizer.Sanitize(candidates)
}

func (environment Environment) expander() *pathutils.HomeExpander {
	if environment.HomeExpander != nil {
		return environment.HomeExpander
	}
	return pathutils.NewHomeExpander()
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
