package vcs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/internal/execshell"
	"github.com/temirov/pkgvcs/internal/repos/filesystem"
	"github.com/temirov/pkgvcs/internal/vcs"
)

type gitTestEnvironment struct {
	cloner          *vcs.GitCloner
	detector        *vcs.Detector
	temporaryParent string
}

func newGitTestEnvironment(testInstance *testing.T) gitTestEnvironment {
	testInstance.Helper()
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)

	temporaryParent := testInstance.TempDir()
	cloner, clonerError := vcs.NewGitCloner(zap.NewNop(), shellExecutor, filesystem.OSFileSystem{}, vcs.WithTemporaryDirectoryParent(temporaryParent))
	require.NoError(testInstance, clonerError)

	detector, detectorError := vcs.NewDetector(shellExecutor, filesystem.OSFileSystem{})
	require.NoError(testInstance, detectorError)

	return gitTestEnvironment{cloner: cloner, detector: detector, temporaryParent: temporaryParent}
}
