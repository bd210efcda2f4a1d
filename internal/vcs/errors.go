package vcs

import (
	"errors"
	"fmt"
	"strings"
)

// Operation names a handle operation in errors.
type Operation string

// Handle operations.
const (
	OperationClone         Operation = "clone"
	OperationCheckout      Operation = "checkout"
	OperationStatus        Operation = "status"
	OperationMarkForCommit Operation = "add"
	OperationCommit        Operation = "commit"
	OperationTag           Operation = "tag"
	OperationListTags      Operation = "list tags"
	OperationRevision      Operation = "resolve revision"
	OperationRemove        Operation = "remove"
)

const (
	unimplementedMessageConstant                 = "operation not implemented for this version control system"
	remoteRequiredMessageConstant                = "remote repository location required"
	directoryRequiredMessageConstant             = "destination directory required"
	workingDirectoryRequiredMessageConstant      = "working directory required"
	relativePathRequiredMessageConstant          = "path to mark for commit required"
	commitMessageRequiredMessageConstant         = "commit message required"
	tagNameRequiredMessageConstant               = "tag name required"
	gitExecutorNotConfiguredMessageConstant      = "git executor not configured"
	fileSystemNotConfiguredMessageConstant       = "filesystem not configured"
	operationErrorTemplateConstant               = "%s %s in %s: %v"
	operationErrorWithoutPathTemplateConstant    = "%s %s: %v"
	unsupportedKindErrorTemplateConstant         = "unsupported version control system %q"
	resolveWorkingDirectoryErrorTemplateConstant = "unable to resolve working directory %s: %w"
)

var (
	// ErrUnimplemented is returned by backends that do not support an operation.
	ErrUnimplemented = errors.New(unimplementedMessageConstant)
	// ErrRemoteRequired indicates an empty remote location.
	ErrRemoteRequired = errors.New(remoteRequiredMessageConstant)
	// ErrDirectoryRequired indicates an empty clone destination.
	ErrDirectoryRequired = errors.New(directoryRequiredMessageConstant)
	// ErrWorkingDirectoryRequired indicates a handle was requested without a working tree.
	ErrWorkingDirectoryRequired = errors.New(workingDirectoryRequiredMessageConstant)
	// ErrRelativePathRequired indicates MarkForCommit was called without a path.
	ErrRelativePathRequired = errors.New(relativePathRequiredMessageConstant)
	// ErrCommitMessageRequired indicates Commit was called with a blank message.
	ErrCommitMessageRequired = errors.New(commitMessageRequiredMessageConstant)
	// ErrTagNameRequired indicates UpdateToTag was called without a tag.
	ErrTagNameRequired = errors.New(tagNameRequiredMessageConstant)
	// ErrGitExecutorNotConfigured indicates a nil git executor.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)
	// ErrFileSystemNotConfigured indicates a nil filesystem.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
)

// OperationError reports a failed handle operation. Err is typically an
// execshell.CommandFailedError carrying the command, exit code and output,
// an execshell.CommandExecutionError, or ErrUnimplemented.
type OperationError struct {
	Kind      Kind
	Operation Operation
	Path      string
	Err       error
}

// Error describes the failed operation.
func (operationError *OperationError) Error() string {
	if len(strings.TrimSpace(operationError.Path)) == 0 {
		return fmt.Sprintf(operationErrorWithoutPathTemplateConstant, operationError.Kind, operationError.Operation, operationError.Err)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Kind, operationError.Operation, operationError.Path, operationError.Err)
}

// Unwrap exposes the underlying failure.
func (operationError *OperationError) Unwrap() error {
	return operationError.Err
}

func newOperationError(kind Kind, operation Operation, path string, cause error) error {
	return &OperationError{Kind: kind, Operation: operation, Path: path, Err: cause}
}
