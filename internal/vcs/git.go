package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/pkgvcs/internal/execshell"
)

const (
	gitWorkTreeFlagTemplateConstant    = "--work-tree=%s"
	gitDirectoryFlagTemplateConstant   = "--git-dir=%s"
	gitDiffSubcommandConstant          = "diff"
	gitCachedFlagConstant              = "--cached"
	gitQuietFlagConstant               = "--quiet"
	gitExitCodeFlagConstant            = "--exit-code"
	gitNameOnlyFlagConstant            = "--name-only"
	gitAddSubcommandConstant           = "add"
	gitCommitSubcommandConstant        = "commit"
	gitMessageFlagConstant             = "-m"
	gitTagSubcommandConstant           = "tag"
	gitListFlagConstant                = "-l"
	gitCheckoutSubcommandConstant      = "checkout"
	gitRevParseSubcommandConstant      = "rev-parse"
	gitHeadReferenceConstant           = "HEAD"
	gitDiffDifferencesExitCodeConstant = 1
	outputLineSeparatorConstant        = "\n"
)

// Git manipulates a git working tree by invoking the git executable.
// Every command names the work tree and metadata directory explicitly,
// so the current directory of the process does not matter.
type Git struct {
	worktreePath string
	metadataPath string
	executor     GitExecutor
	fileSystem   FileSystem
}

// NewGit constructs a handle for the git working tree at worktreePath.
func NewGit(worktreePath string, executor GitExecutor, fileSystem FileSystem) (*Git, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	trimmedPath := strings.TrimSpace(worktreePath)
	if len(trimmedPath) == 0 {
		return nil, ErrWorkingDirectoryRequired
	}
	absolutePath, absoluteError := fileSystem.Abs(trimmedPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(resolveWorkingDirectoryErrorTemplateConstant, trimmedPath, absoluteError)
	}

	return &Git{
		worktreePath: absolutePath,
		metadataPath: filepath.Join(absolutePath, gitMetadataDirectoryNameConstant),
		executor:     executor,
		fileSystem:   fileSystem,
	}, nil
}

// Kind reports KindGit.
func (repository *Git) Kind() Kind {
	return KindGit
}

// WorkingDirectory returns the absolute work tree path.
func (repository *Git) WorkingDirectory() string {
	return repository.worktreePath
}

// MetadataDirectory returns the absolute path of the .git directory.
func (repository *Git) MetadataDirectory() string {
	return repository.metadataPath
}

// IsClean runs two quiet diffs, one for unstaged and one for staged changes.
// Exit code 1 from either means the tree is dirty. Any other failure is returned as an error.
func (repository *Git) IsClean(executionContext context.Context) (bool, error) {
	diffInvocations := [][]string{
		{gitDiffSubcommandConstant, gitQuietFlagConstant, gitExitCodeFlagConstant},
		{gitDiffSubcommandConstant, gitCachedFlagConstant, gitQuietFlagConstant, gitExitCodeFlagConstant},
	}

	for _, diffArguments := range diffInvocations {
		_, diffError := repository.execute(executionContext, diffArguments...)
		if diffError == nil {
			continue
		}
		var failedCommand execshell.CommandFailedError
		if errors.As(diffError, &failedCommand) && failedCommand.Result.ExitCode == gitDiffDifferencesExitCodeConstant {
			return false, nil
		}
		return false, repository.operationError(OperationStatus, diffError)
	}
	return true, nil
}

// ModifiedFiles lists tracked paths with unstaged or staged modifications,
// relative to the work tree root, sorted and without duplicates.
func (repository *Git) ModifiedFiles(executionContext context.Context) ([]string, error) {
	diffInvocations := [][]string{
		{gitDiffSubcommandConstant, gitNameOnlyFlagConstant},
		{gitDiffSubcommandConstant, gitCachedFlagConstant, gitNameOnlyFlagConstant},
	}

	modifiedPaths := []string{}
	seenPaths := map[string]struct{}{}
	for _, diffArguments := range diffInvocations {
		executionResult, diffError := repository.execute(executionContext, diffArguments...)
		if diffError != nil {
			return nil, repository.operationError(OperationStatus, diffError)
		}
		for _, line := range strings.Split(executionResult.StandardOutput, outputLineSeparatorConstant) {
			trimmedLine := strings.TrimSpace(line)
			if len(trimmedLine) == 0 {
				continue
			}
			if _, seen := seenPaths[trimmedLine]; seen {
				continue
			}
			seenPaths[trimmedLine] = struct{}{}
			modifiedPaths = append(modifiedPaths, trimmedLine)
		}
	}
	sort.Strings(modifiedPaths)
	return modifiedPaths, nil
}

// MarkForCommit stages the file at relativePath inside the work tree.
func (repository *Git) MarkForCommit(executionContext context.Context, relativePath string) error {
	if len(strings.TrimSpace(relativePath)) == 0 {
		return repository.operationError(OperationMarkForCommit, ErrRelativePathRequired)
	}
	targetPath := filepath.Join(repository.worktreePath, relativePath)
	if _, addError := repository.execute(executionContext, gitAddSubcommandConstant, targetPath); addError != nil {
		return repository.operationError(OperationMarkForCommit, addError)
	}
	return nil
}

// Commit records the staged changes and then creates a lightweight tag when tagName is set.
// A failed tag leaves the commit in place.
func (repository *Git) Commit(executionContext context.Context, message string, tagName string) error {
	if len(strings.TrimSpace(message)) == 0 {
		return repository.operationError(OperationCommit, ErrCommitMessageRequired)
	}
	if _, commitError := repository.execute(executionContext, gitCommitSubcommandConstant, gitMessageFlagConstant, message); commitError != nil {
		return repository.operationError(OperationCommit, commitError)
	}

	trimmedTagName := strings.TrimSpace(tagName)
	if len(trimmedTagName) == 0 {
		return nil
	}
	if _, tagError := repository.execute(executionContext, gitTagSubcommandConstant, trimmedTagName); tagError != nil {
		return repository.operationError(OperationTag, tagError)
	}
	return nil
}

// Tags lists tag names. Blank lines are dropped, so a repository without tags yields an empty slice.
func (repository *Git) Tags(executionContext context.Context) ([]string, error) {
	executionResult, listError := repository.execute(executionContext, gitTagSubcommandConstant, gitListFlagConstant)
	if listError != nil {
		return nil, repository.operationError(OperationListTags, listError)
	}

	tagNames := []string{}
	for _, line := range strings.Split(executionResult.StandardOutput, outputLineSeparatorConstant) {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		tagNames = append(tagNames, trimmedLine)
	}
	return tagNames, nil
}

// UpdateToTag checks out tagName, leaving the work tree on a detached HEAD.
func (repository *Git) UpdateToTag(executionContext context.Context, tagName string) error {
	trimmedTagName := strings.TrimSpace(tagName)
	if len(trimmedTagName) == 0 {
		return repository.operationError(OperationCheckout, ErrTagNameRequired)
	}
	if _, checkoutError := repository.execute(executionContext, gitCheckoutSubcommandConstant, trimmedTagName); checkoutError != nil {
		return repository.operationError(OperationCheckout, checkoutError)
	}
	return nil
}

// CurrentRevision returns the full hash of HEAD.
func (repository *Git) CurrentRevision(executionContext context.Context) (string, error) {
	executionResult, revisionError := repository.execute(executionContext, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
	if revisionError != nil {
		return "", repository.operationError(OperationRevision, revisionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// Remove deletes the work tree, including the metadata directory.
func (repository *Git) Remove() error {
	if removeError := repository.fileSystem.RemoveAll(repository.worktreePath); removeError != nil {
		return repository.operationError(OperationRemove, removeError)
	}
	return nil
}

func (repository *Git) execute(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	scopedArguments := append([]string{
		fmt.Sprintf(gitWorkTreeFlagTemplateConstant, repository.worktreePath),
		fmt.Sprintf(gitDirectoryFlagTemplateConstant, repository.metadataPath),
	}, arguments...)
	return repository.executor.ExecuteGit(executionContext, execshell.CommandDetails{Arguments: scopedArguments})
}

func (repository *Git) operationError(operation Operation, cause error) error {
	return newOperationError(KindGit, operation, repository.worktreePath, cause)
}
