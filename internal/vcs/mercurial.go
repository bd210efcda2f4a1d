package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Mercurial is a placeholder handle for Mercurial working copies. It is
// returned by Detector so callers can recognize such trees, but every
// operation fails with ErrUnimplemented.
type Mercurial struct {
	worktreePath string
}

// NewMercurial constructs a placeholder handle for the working copy at worktreePath.
func NewMercurial(worktreePath string, fileSystem FileSystem) (*Mercurial, error) {
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
	return &Mercurial{worktreePath: filepath.Clean(absolutePath)}, nil
}

// Kind reports KindMercurial.
func (repository *Mercurial) Kind() Kind {
	return KindMercurial
}

// WorkingDirectory returns the absolute path of the working copy.
func (repository *Mercurial) WorkingDirectory() string {
	return repository.worktreePath
}

func (repository *Mercurial) IsClean(context.Context) (bool, error) {
	return false, repository.unimplemented(OperationStatus)
}

func (repository *Mercurial) ModifiedFiles(context.Context) ([]string, error) {
	return nil, repository.unimplemented(OperationStatus)
}

func (repository *Mercurial) MarkForCommit(context.Context, string) error {
	return repository.unimplemented(OperationMarkForCommit)
}

func (repository *Mercurial) Commit(context.Context, string, string) error {
	return repository.unimplemented(OperationCommit)
}

func (repository *Mercurial) Tags(context.Context) ([]string, error) {
	return nil, repository.unimplemented(OperationListTags)
}

func (repository *Mercurial) UpdateToTag(context.Context, string) error {
	return repository.unimplemented(OperationCheckout)
}

func (repository *Mercurial) CurrentRevision(context.Context) (string, error) {
	return "", repository.unimplemented(OperationRevision)
}

func (repository *Mercurial) Remove() error {
	return repository.unimplemented(OperationRemove)
}

func (repository *Mercurial) unimplemented(operation Operation) error {
	return newOperationError(KindMercurial, operation, repository.worktreePath, ErrUnimplemented)
}

// MercurialCloner is the placeholder Cloner for Mercurial remotes.
type MercurialCloner struct{}

func (MercurialCloner) CloneToTemporaryDirectory(context.Context, string) (Handle, error) {
	return nil, newOperationError(KindMercurial, OperationClone, "", ErrUnimplemented)
}

func (MercurialCloner) CloneToDirectory(_ context.Context, _ string, directory string, _ string) (Handle, error) {
	return nil, newOperationError(KindMercurial, OperationClone, directory, ErrUnimplemented)
}
