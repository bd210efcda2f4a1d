package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/internal/execshell"
	"github.com/temirov/pkgvcs/internal/repos/discovery"
	"github.com/temirov/pkgvcs/internal/repos/filesystem"
	"github.com/temirov/pkgvcs/internal/ui"
	"github.com/temirov/pkgvcs/internal/vcs"
)

// RepositoryDiscoverer locates working copies beneath root directories.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// WorkingCopyDetector resolves a path into a version control handle.
type WorkingCopyDetector interface {
	Detect(path string) (vcs.Handle, error)
	Open(kind vcs.Kind, path string) (vcs.Handle, error)
}

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing RepositoryDiscoverer) RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer()
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing vcs.FileSystem) vcs.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// A non-nil consoleLogger receives human readable command events.
func ResolveGitExecutor(existing vcs.GitExecutor, logger *zap.Logger, consoleLogger *zap.Logger, options ...execshell.ExecutorOption) (vcs.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	executorOptions := append([]execshell.ExecutorOption{}, options...)
	if consoleLogger != nil {
		executorOptions = append(executorOptions, execshell.WithObservers(ui.NewConsoleCommandEventLogger(consoleLogger)))
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveDetector returns the provided detector or builds one over the executor and filesystem.
func ResolveDetector(existing WorkingCopyDetector, executor vcs.GitExecutor, fileSystem vcs.FileSystem) (WorkingCopyDetector, error) {
	if existing != nil {
		return existing, nil
	}
	detector, creationError := vcs.NewDetector(executor, ResolveFileSystem(fileSystem))
	if creationError != nil {
		return nil, creationError
	}
	return detector, nil
}
