package vcs

import (
	"context"
	"io/fs"

	"github.com/temirov/pkgvcs/internal/execshell"
)

// Handle manipulates one working tree of a version control system.
// A nil Handle means no working copy was found.
type Handle interface {
	// Kind reports the backend managing the working tree.
	Kind() Kind
	// WorkingDirectory returns the absolute path of the working tree.
	WorkingDirectory() string
	// IsClean reports whether the tree has neither unstaged nor staged modifications.
	// Untracked files do not make a tree dirty.
	IsClean(executionContext context.Context) (bool, error)
	// ModifiedFiles lists tracked paths, relative to the working tree, that IsClean would count as changes.
	ModifiedFiles(executionContext context.Context) ([]string, error)
	// MarkForCommit stages a path given relative to the working tree.
	MarkForCommit(executionContext context.Context, relativePath string) error
	// Commit records staged changes and, when tagName is not empty, tags the new commit.
	Commit(executionContext context.Context, message string, tagName string) error
	// Tags lists the tag names of the repository.
	Tags(executionContext context.Context) ([]string, error)
	// UpdateToTag checks out the named tag.
	UpdateToTag(executionContext context.Context, tagName string) error
	// CurrentRevision returns the identifier of the checked out commit.
	CurrentRevision(executionContext context.Context) (string, error)
	// Remove deletes the working tree from disk.
	Remove() error
}

// Cloner creates working trees from remote repositories.
type Cloner interface {
	// CloneToTemporaryDirectory clones into a freshly allocated, uniquely named directory.
	CloneToTemporaryDirectory(executionContext context.Context, remote string) (Handle, error)
	// CloneToDirectory clones into directory and checks out tagName when it is not empty.
	CloneToDirectory(executionContext context.Context, remote string, directory string, tagName string) (Handle, error)
}

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileSystem provides the filesystem primitives the handles rely on.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	MkdirTemp(parentDirectory string, pattern string) (string, error)
	RemoveAll(path string) error
}
