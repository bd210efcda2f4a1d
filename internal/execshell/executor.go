package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandGitNameConstant                    = "git"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedErrorTemplateConstant        = "%s exited with code %d%s"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %s"
	commandStartedLogMessageConstant          = "executing command"
	commandCompletedLogMessageConstant        = "command completed"
	commandFailedLogMessageConstant           = "command exited with non-zero status"
	commandExecutionFailedLogMessageConstant  = "command execution failed"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "standard_error"
	commandDescriptionSeparatorConstant       = " "
)

// CommandName identifies an external executable family.
type CommandName string

// CommandGit identifies the git executable.
const CommandGit CommandName = CommandName(commandGitNameConstant)

// ErrLoggerNotConfigured indicates a nil logger was supplied to NewShellExecutor.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates a nil runner was supplied to NewShellExecutor.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandDetails describes a single invocation of an external tool.
type CommandDetails struct {
	Arguments        []string
	WorkingDirectory string
}

// ShellCommand couples a command family with the invocation details.
type ShellCommand struct {
	Name       CommandName
	Executable string
	Details    CommandDetails
}

// ExecutablePath returns the program that will be spawned for the command.
func (command ShellCommand) ExecutablePath() string {
	trimmedExecutable := strings.TrimSpace(command.Executable)
	if len(trimmedExecutable) > 0 {
		return trimmedExecutable
	}
	return string(command.Name)
}

// ExecutionResult captures the fully buffered outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner spawns processes for shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command with its exit code and captured error output.
func (failure CommandFailedError) Error() string {
	diagnosticOutput := strings.TrimSpace(failure.Result.StandardError)
	if len(diagnosticOutput) == 0 {
		diagnosticOutput = strings.TrimSpace(failure.Result.StandardOutput)
	}
	diagnosticSuffix := ""
	if len(diagnosticOutput) > 0 {
		diagnosticSuffix = ": " + diagnosticOutput
	}
	return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode, diagnosticSuffix)
}

// CommandExecutionError reports a process that could not be started or waited for.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	causeDescription := unknownFailureMessageConstant
	if failure.Cause != nil {
		causeDescription = failure.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(failure.Command), causeDescription)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ExecutorOption customizes a ShellExecutor.
type ExecutorOption func(*ShellExecutor)

// WithExecutable overrides the program spawned for a command family.
func WithExecutable(name CommandName, executable string) ExecutorOption {
	return func(executor *ShellExecutor) {
		trimmedExecutable := strings.TrimSpace(executable)
		if len(trimmedExecutable) == 0 {
			return
		}
		executor.executables[name] = trimmedExecutable
	}
}

// WithObservers registers lifecycle observers notified around every command.
func WithObservers(observers ...CommandEventObserver) ExecutorOption {
	return func(executor *ShellExecutor) {
		for _, observer := range observers {
			if observer == nil {
				continue
			}
			executor.observers = append(executor.observers, observer)
		}
	}
}

// ShellExecutor runs external tools through a CommandRunner with logging and lifecycle notifications.
type ShellExecutor struct {
	logger      *zap.Logger
	runner      CommandRunner
	executables map[CommandName]string
	observers   CommandEventObservers
}

// NewShellExecutor constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, options ...ExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{
		logger:      logger,
		runner:      runner,
		executables: make(map[CommandName]string),
	}
	for _, option := range options {
		if option != nil {
			option(executor)
		}
	}
	return executor, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs the command and converts non-zero exit codes into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	if configuredExecutable, configured := executor.executables[command.Name]; configured && len(strings.TrimSpace(command.Executable)) == 0 {
		command.Executable = configuredExecutable
	}

	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, command.ExecutablePath()),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(commandStartedLogMessageConstant, commandFields...)
	executor.observers.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(commandExecutionFailedLogMessageConstant, append(commandFields, zap.Error(runError))...)
		executor.observers.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observers.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Debug(
			commandFailedLogMessageConstant,
			append(commandFields,
				zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
				zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
			)...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(commandCompletedLogMessageConstant, append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...)
	return executionResult, nil
}

func describeCommand(command ShellCommand) string {
	commandParts := append([]string{command.ExecutablePath()}, command.Details.Arguments...)
	return strings.Join(commandParts, commandDescriptionSeparatorConstant)
}
