package dependencies_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/pkgvcs/internal/execshell"
	"github.com/temirov/pkgvcs/internal/repos/dependencies"
	"github.com/temirov/pkgvcs/internal/repos/filesystem"
	"github.com/temirov/pkgvcs/internal/vcs"
)

type stubGitExecutor struct {
	invocations int
}

func (executor *stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations++
	return execshell.ExecutionResult{}, nil
}

type stubDiscoverer struct{}

func (stubDiscoverer) DiscoverRepositories([]string) ([]string, error) {
	return nil, nil
}

func TestResolversPreferProvidedDependencies(testInstance *testing.T) {
	providedExecutor := &stubGitExecutor{}

	resolvedExecutor, executorError := dependencies.ResolveGitExecutor(providedExecutor, zap.NewNop(), nil)
	require.NoError(testInstance, executorError)
	require.Same(testInstance, providedExecutor, resolvedExecutor)

	providedDiscoverer := stubDiscoverer{}
	require.Equal(testInstance, providedDiscoverer, dependencies.ResolveRepositoryDiscoverer(providedDiscoverer))

	providedFileSystem := filesystem.OSFileSystem{}
	require.Equal(testInstance, providedFileSystem, dependencies.ResolveFileSystem(providedFileSystem))
}

func TestResolversBuildDefaults(testInstance *testing.T) {
	require.NotNil(testInstance, dependencies.ResolveRepositoryDiscoverer(nil))
	require.IsType(testInstance, filesystem.OSFileSystem{}, dependencies.ResolveFileSystem(nil))

	resolvedExecutor, executorError := dependencies.ResolveGitExecutor(nil, zap.NewNop(), nil)
	require.NoError(testInstance, executorError)
	require.IsType(testInstance, &execshell.ShellExecutor{}, resolvedExecutor)

	detector, detectorError := dependencies.ResolveDetector(nil, resolvedExecutor, nil)
	require.NoError(testInstance, detectorError)
	require.NotNil(testInstance, detector)
}

func TestResolveGitExecutorRequiresLogger(testInstance *testing.T) {
	resolvedExecutor, executorError := dependencies.ResolveGitExecutor(nil, nil, nil)
	require.ErrorIs(testInstance, executorError, execshell.ErrLoggerNotConfigured)
	require.Nil(testInstance, resolvedExecutor)
}

func TestResolveDetectorRequiresExecutor(testInstance *testing.T) {
	detector, detectorError := dependencies.ResolveDetector(nil, nil, nil)
	require.ErrorIs(testInstance, detectorError, vcs.ErrGitExecutorNotConfigured)
	require.Nil(testInstance, detector)
}

func TestResolveGitExecutorAttachesConsoleEvents(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.InfoLevel)

	resolvedExecutor, executorError := dependencies.ResolveGitExecutor(
		nil,
		zap.NewNop(),
		zap.New(observerCore),
		execshell.WithExecutable(execshell.CommandGit, "pkgvcs-missing-git"),
	)
	require.NoError(testInstance, executorError)

	_, executionError := resolvedExecutor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"status"}})
	require.Error(testInstance, executionError)
	require.NotEmpty(testInstance, observedLogs.All())
}

func TestDefaultDiscovererFindsGitAndMercurialCopies(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	for _, relativeMetadataPath := range []string{filepath.Join("alpha", ".git"), filepath.Join("beta", ".hg")} {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(rootDirectory, relativeMetadataPath), 0o755))
	}

	discovered, discoveryError := dependencies.ResolveRepositoryDiscoverer(nil).DiscoverRepositories([]string{rootDirectory})
	require.NoError(testInstance, discoveryError)
	require.Equal(testInstance, []string{filepath.Join(rootDirectory, "alpha"), filepath.Join(rootDirectory, "beta")}, discovered)
}
