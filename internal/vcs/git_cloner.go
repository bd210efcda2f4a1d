package vcs

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/internal/execshell"
)

const (
	defaultTemporaryDirectoryPatternConstant = "pkgvcs-clone-*"
	gitCloneSubcommandConstant               = "clone"
	gitEndOfOptionsConstant                  = "--"
	cloneStartedLogMessageConstant           = "will clone"
	cloneCompletedLogMessageConstant         = "cloned"
	checkoutStartedLogMessageConstant        = "will check out tag"
	temporaryCloneCleanupLogMessageConstant  = "failed to clean up temporary clone directory"
	logFieldRemoteConstant                   = "remote"
	logFieldDirectoryConstant                = "directory"
	logFieldTagConstant                      = "tag"
)

// GitClonerOption customizes a GitCloner.
type GitClonerOption func(*GitCloner)

// WithTemporaryDirectoryPattern sets the os.MkdirTemp pattern used for temporary clones.
func WithTemporaryDirectoryPattern(pattern string) GitClonerOption {
	return func(cloner *GitCloner) {
		trimmedPattern := strings.TrimSpace(pattern)
		if len(trimmedPattern) > 0 {
			cloner.temporaryDirectoryPattern = trimmedPattern
		}
	}
}

// WithTemporaryDirectoryParent allocates temporary clones under parentDirectory instead of the system temporary directory.
func WithTemporaryDirectoryParent(parentDirectory string) GitClonerOption {
	return func(cloner *GitCloner) {
		cloner.temporaryDirectoryParent = strings.TrimSpace(parentDirectory)
	}
}

// GitCloner clones remote git repositories into local working trees.
type GitCloner struct {
	logger                    *zap.Logger
	executor                  GitExecutor
	fileSystem                FileSystem
	temporaryDirectoryPattern string
	temporaryDirectoryParent  string
}

// NewGitCloner constructs a GitCloner. A nil logger disables logging.
func NewGitCloner(logger *zap.Logger, executor GitExecutor, fileSystem FileSystem, options ...GitClonerOption) (*GitCloner, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cloner := &GitCloner{
		logger:                    logger,
		executor:                  executor,
		fileSystem:                fileSystem,
		temporaryDirectoryPattern: defaultTemporaryDirectoryPatternConstant,
	}
	for _, option := range options {
		if option != nil {
			option(cloner)
		}
	}
	return cloner, nil
}

// CloneToTemporaryDirectory clones remote into a new unique directory. The
// directory is deleted again when the clone fails.
func (cloner *GitCloner) CloneToTemporaryDirectory(executionContext context.Context, remote string) (Handle, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return nil, newOperationError(KindGit, OperationClone, "", ErrRemoteRequired)
	}

	temporaryDirectory, allocationError := cloner.fileSystem.MkdirTemp(cloner.temporaryDirectoryParent, cloner.temporaryDirectoryPattern)
	if allocationError != nil {
		return nil, newOperationError(KindGit, OperationClone, cloner.temporaryDirectoryParent, allocationError)
	}

	repository, cloneError := cloner.clone(executionContext, trimmedRemote, temporaryDirectory)
	if cloneError != nil {
		if cleanupError := cloner.fileSystem.RemoveAll(temporaryDirectory); cleanupError != nil {
			cloner.logger.Warn(temporaryCloneCleanupLogMessageConstant, zap.String(logFieldDirectoryConstant, temporaryDirectory), zap.Error(cleanupError))
		}
		return nil, cloneError
	}
	return repository, nil
}

// CloneToDirectory clones remote into directory, then checks out tagName when it is not empty.
// When the checkout fails the cloned tree stays on disk.
func (cloner *GitCloner) CloneToDirectory(executionContext context.Context, remote string, directory string, tagName string) (Handle, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return nil, newOperationError(KindGit, OperationClone, directory, ErrRemoteRequired)
	}
	trimmedDirectory := strings.TrimSpace(directory)
	if len(trimmedDirectory) == 0 {
		return nil, newOperationError(KindGit, OperationClone, "", ErrDirectoryRequired)
	}

	repository, cloneError := cloner.clone(executionContext, trimmedRemote, trimmedDirectory)
	if cloneError != nil {
		return nil, cloneError
	}

	trimmedTagName := strings.TrimSpace(tagName)
	if len(trimmedTagName) == 0 {
		return repository, nil
	}
	cloner.logger.Debug(checkoutStartedLogMessageConstant, zap.String(logFieldDirectoryConstant, repository.WorkingDirectory()), zap.String(logFieldTagConstant, trimmedTagName))
	if checkoutError := repository.UpdateToTag(executionContext, trimmedTagName); checkoutError != nil {
		return nil, checkoutError
	}
	return repository, nil
}

func (cloner *GitCloner) clone(executionContext context.Context, remote string, directory string) (*Git, error) {
	absoluteDirectory, absoluteError := cloner.fileSystem.Abs(directory)
	if absoluteError != nil {
		return nil, newOperationError(KindGit, OperationClone, directory, absoluteError)
	}

	cloner.logger.Debug(cloneStartedLogMessageConstant, zap.String(logFieldRemoteConstant, remote), zap.String(logFieldDirectoryConstant, absoluteDirectory))
	_, cloneError := cloner.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, gitEndOfOptionsConstant, remote, absoluteDirectory},
	})
	if cloneError != nil {
		return nil, newOperationError(KindGit, OperationClone, absoluteDirectory, cloneError)
	}
	cloner.logger.Debug(cloneCompletedLogMessageConstant, zap.String(logFieldRemoteConstant, remote), zap.String(logFieldDirectoryConstant, absoluteDirectory))

	return NewGit(absoluteDirectory, cloner.executor, cloner.fileSystem)
}
