package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitWorkTreeFlagPrefixConstant      = "--work-tree="
	gitCloneSubcommandNameConstant     = "clone"
	gitCheckoutSubcommandNameConstant  = "checkout"
	gitDiffSubcommandNameConstant      = "diff"
	gitAddSubcommandNameConstant       = "add"
	gitCommitSubcommandNameConstant    = "commit"
	gitTagSubcommandNameConstant       = "tag"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitCachedFlagConstant              = "--cached"
	gitListFlagConstant                = "-l"
	gitMessageFlagConstant             = "-m"
	gitDiffDifferencesExitCodeConstant = 1
	gitStagedChangesLabelConstant      = "staged"
	gitUnstagedChangesLabelConstant    = "unstaged"
)

const (
	gitCloneStartTemplateConstant                = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant              = "Cloned %s into %s"
	gitCloneFailureTemplateConstant              = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant     = "Unable to clone %s into %s: %s"
	gitCheckoutStartTemplateConstant             = "Checking out %s in %s"
	gitCheckoutSuccessTemplateConstant           = "Checked out %s in %s"
	gitCheckoutFailureTemplateConstant           = "Failed to check out %s in %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant  = "Unable to check out %s in %s: %s"
	gitDiffStartTemplateConstant                 = "Checking for %s changes in %s"
	gitDiffSuccessTemplateConstant               = "No %s changes in %s"
	gitDiffDifferencesTemplateConstant           = "Found %s changes in %s"
	gitDiffFailureTemplateConstant               = "Failed to check for %s changes in %s (exit code %d%s)"
	gitDiffExecutionFailureTemplateConstant      = "Unable to check for %s changes in %s: %s"
	gitAddStartTemplateConstant                  = "Staging %s in %s"
	gitAddSuccessTemplateConstant                = "Staged %s in %s"
	gitAddFailureTemplateConstant                = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant       = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant               = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant             = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant             = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant    = "Unable to create commit in %s with message %q: %s"
	gitTagListStartTemplateConstant              = "Listing tags in %s"
	gitTagListSuccessTemplateConstant            = "Listed tags in %s"
	gitTagListFailureTemplateConstant            = "Failed to list tags in %s (exit code %d%s)"
	gitTagListExecutionFailureTemplateConstant   = "Unable to list tags in %s: %s"
	gitTagCreateStartTemplateConstant            = "Creating tag %s in %s"
	gitTagCreateSuccessTemplateConstant          = "Created tag %s in %s"
	gitTagCreateFailureTemplateConstant          = "Failed to create tag %s in %s (exit code %d%s)"
	gitTagCreateExecutionFailureTemplateConstant = "Unable to create tag %s in %s: %s"
	gitRevParseStartTemplateConstant             = "Resolving %s in %s"
	gitRevParseSuccessTemplateConstant           = "Resolved %s in %s"
	gitRevParseFailureTemplateConstant           = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevParseExecutionFailureTemplateConstant  = "Unable to resolve %s in %s: %s"
)

// stageTemplates groups the four lifecycle templates of one git operation.
type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// IsExpectedNonZeroExit reports whether a non-zero exit is a regular outcome rather than a failure,
// such as git diff --exit-code signalling that differences exist.
func (formatter CommandMessageFormatter) IsExpectedNonZeroExit(command ShellCommand, result ExecutionResult) bool {
	if command.Name != CommandGit {
		return false
	}
	subcommand, _ := formatter.splitGitArguments(command.Details.Arguments)
	return subcommand == gitDiffSubcommandNameConstant && result.ExitCode == gitDiffDifferencesExitCodeConstant
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	subcommand, subcommandArguments := formatter.splitGitArguments(command.Details.Arguments)
	location := formatter.describeGitLocation(command)

	switch subcommand {
	case gitCloneSubcommandNameConstant:
		remote := formatter.ensureValue(formatter.argumentAtIndex(formatter.nonFlagArguments(subcommandArguments), 0))
		destination := formatter.ensureValue(formatter.argumentAtIndex(formatter.nonFlagArguments(subcommandArguments), 1))
		templates := stageTemplates{gitCloneStartTemplateConstant, gitCloneSuccessTemplateConstant, gitCloneFailureTemplateConstant, gitCloneExecutionFailureTemplateConstant}
		return formatter.formatStage(templates, []any{remote, destination}, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		reference := formatter.ensureValue(formatter.argumentAtIndex(formatter.nonFlagArguments(subcommandArguments), 0))
		templates := stageTemplates{gitCheckoutStartTemplateConstant, gitCheckoutSuccessTemplateConstant, gitCheckoutFailureTemplateConstant, gitCheckoutExecutionFailureTemplateConstant}
		return formatter.formatStage(templates, []any{reference, location}, result, failure, stage)
	case gitDiffSubcommandNameConstant:
		return formatter.describeGitDiffMessage(subcommandArguments, location, result, failure, stage)
	case gitAddSubcommandNameConstant:
		target := formatter.ensureValue(formatter.argumentAtIndex(formatter.nonFlagArguments(subcommandArguments), 0))
		templates := stageTemplates{gitAddStartTemplateConstant, gitAddSuccessTemplateConstant, gitAddFailureTemplateConstant, gitAddExecutionFailureTemplateConstant}
		return formatter.formatStage(templates, []any{target, location}, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		commitMessage := formatter.extractCommitMessage(subcommandArguments)
		templates := stageTemplates{gitCommitStartTemplateConstant, gitCommitSuccessTemplateConstant, gitCommitFailureTemplateConstant, gitCommitExecutionFailureTemplateConstant}
		return formatter.formatStage(templates, []any{location, commitMessage}, result, failure, stage)
	case gitTagSubcommandNameConstant:
		if containsArgument(subcommandArguments, gitListFlagConstant) || len(subcommandArguments) == 0 {
			templates := stageTemplates{gitTagListStartTemplateConstant, gitTagListSuccessTemplateConstant, gitTagListFailureTemplateConstant, gitTagListExecutionFailureTemplateConstant}
			return formatter.formatStage(templates, []any{location}, result, failure, stage)
		}
		tagName := formatter.ensureValue(formatter.argumentAtIndex(formatter.nonFlagArguments(subcommandArguments), 0))
		templates := stageTemplates{gitTagCreateStartTemplateConstant, gitTagCreateSuccessTemplateConstant, gitTagCreateFailureTemplateConstant, gitTagCreateExecutionFailureTemplateConstant}
		return formatter.formatStage(templates, []any{tagName, location}, result, failure, stage)
	case gitRevParseSubcommandNameConstant:
		reference := formatter.resolveRevisionReference(subcommandArguments)
		templates := stageTemplates{gitRevParseStartTemplateConstant, gitRevParseSuccessTemplateConstant, gitRevParseFailureTemplateConstant, gitRevParseExecutionFailureTemplateConstant}
		return formatter.formatStage(templates, []any{reference, location}, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitDiffMessage(arguments []string, location string, result ExecutionResult, failure error, stage messageStage) string {
	changesLabel := gitUnstagedChangesLabelConstant
	if containsArgument(arguments, gitCachedFlagConstant) {
		changesLabel = gitStagedChangesLabelConstant
	}
	if stage == messageStageFailure && result.ExitCode == gitDiffDifferencesExitCodeConstant {
		return fmt.Sprintf(gitDiffDifferencesTemplateConstant, changesLabel, location)
	}
	templates := stageTemplates{gitDiffStartTemplateConstant, gitDiffSuccessTemplateConstant, gitDiffFailureTemplateConstant, gitDiffExecutionFailureTemplateConstant}
	return formatter.formatStage(templates, []any{changesLabel, location}, result, failure, stage)
}

func (formatter CommandMessageFormatter) formatStage(templates stageTemplates, values []any, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, values...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, values...)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, append(values, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, append(values, formatter.describeFailure(failure))...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

// splitGitArguments separates global options such as --work-tree from the subcommand and its arguments.
func (formatter CommandMessageFormatter) splitGitArguments(arguments []string) (string, []string) {
	for index, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		return trimmedArgument, arguments[index+1:]
	}
	return emptyStringConstant, nil
}

func (formatter CommandMessageFormatter) describeGitLocation(command ShellCommand) string {
	for _, argument := range command.Details.Arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, gitWorkTreeFlagPrefixConstant) {
			return formatter.ensureValue(strings.TrimPrefix(trimmedArgument, gitWorkTreeFlagPrefixConstant))
		}
	}
	return formatter.describeWorkingDirectory(command)
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := command.ExecutablePath()
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) nonFlagArguments(arguments []string) []string {
	positionalArguments := make([]string, 0, len(arguments))
	skipNext := false
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if skipNext {
			skipNext = false
			continue
		}
		if trimmedArgument == gitMessageFlagConstant {
			skipNext = true
			continue
		}
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		positionalArguments = append(positionalArguments, trimmedArgument)
	}
	return positionalArguments
}

func (formatter CommandMessageFormatter) resolveRevisionReference(arguments []string) string {
	if len(arguments) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	lastArgument := strings.TrimSpace(arguments[len(arguments)-1])
	if len(lastArgument) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return lastArgument
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}
