// Package testsupport builds throwaway git repositories for tests.
package testsupport

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture file names and tags.
const (
	ReadmeFileName = "README.md"
	ModuleFileName = "module.json"
	FirstTagName   = "v1.0.0"
	SecondTagName  = "v1.1.0"
)

const (
	gitExecutableNameConstant     = "git"
	userNameConstant              = "Fixture Author"
	userEmailConstant             = "fixture@example.com"
	filePermissionsConstant       = 0o644
	directoryPermissionsConstant  = 0o755
	remoteDirectoryNameConstant   = "remote"
	gitUnavailableMessageConstant = "git executable not available"
)

// TaggedRemote is a source repository with two tagged commits followed by an untagged one.
type TaggedRemote struct {
	Path         string
	TagRevisions map[string]string
	HeadRevision string
}

// RequireGitExecutable skips the test when git is not installed.
func RequireGitExecutable(testInstance testing.TB) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(gitExecutableNameConstant); lookupError != nil {
		testInstance.Skip(gitUnavailableMessageConstant)
	}
}

// RunGit runs git in directory with a fixed identity and returns its trimmed combined output.
func RunGit(testInstance testing.TB, directory string, arguments ...string) string {
	testInstance.Helper()
	command := exec.Command(gitExecutableNameConstant, arguments...)
	command.Dir = directory
	command.Env = append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME="+userNameConstant,
		"GIT_AUTHOR_EMAIL="+userEmailConstant,
		"GIT_COMMITTER_NAME="+userNameConstant,
		"GIT_COMMITTER_EMAIL="+userEmailConstant,
	)
	output, runError := command.CombinedOutput()
	require.NoError(testInstance, runError, string(output))
	return strings.TrimSpace(string(output))
}

// ConfigureCommitIdentity stores an author identity in the repository configuration so
// commits made through a handle succeed without any global git configuration.
func ConfigureCommitIdentity(testInstance testing.TB, worktreePath string) {
	testInstance.Helper()
	RunGit(testInstance, worktreePath, "config", "user.name", userNameConstant)
	RunGit(testInstance, worktreePath, "config", "user.email", userEmailConstant)
	RunGit(testInstance, worktreePath, "config", "commit.gpgsign", "false")
	RunGit(testInstance, worktreePath, "config", "tag.gpgsign", "false")
}

// WriteFile replaces the content of path.
func WriteFile(testInstance testing.TB, path string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(path, []byte(content), filePermissionsConstant))
}

// CommitFile writes, stages and commits fileName and returns the new HEAD revision.
func CommitFile(testInstance testing.TB, repositoryPath string, fileName string, content string, message string) string {
	testInstance.Helper()
	WriteFile(testInstance, filepath.Join(repositoryPath, fileName), content)
	RunGit(testInstance, repositoryPath, "add", fileName)
	RunGit(testInstance, repositoryPath, "commit", "-q", "-m", message)
	return RunGit(testInstance, repositoryPath, "rev-parse", "HEAD")
}

// InitRepository creates an empty repository in a fresh temporary directory.
func InitRepository(testInstance testing.TB) string {
	testInstance.Helper()
	RequireGitExecutable(testInstance)
	repositoryPath := filepath.Join(testInstance.TempDir(), remoteDirectoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(repositoryPath, directoryPermissionsConstant))
	RunGit(testInstance, repositoryPath, "init", "-q")
	ConfigureCommitIdentity(testInstance, repositoryPath)
	return repositoryPath
}

// CreateTaggedRemote creates a repository tagged FirstTagName and SecondTagName with one more commit on top.
func CreateTaggedRemote(testInstance testing.TB) TaggedRemote {
	testInstance.Helper()
	repositoryPath := InitRepository(testInstance)
	remote := TaggedRemote{Path: repositoryPath, TagRevisions: map[string]string{}}

	remote.TagRevisions[FirstTagName] = CommitFile(testInstance, repositoryPath, ModuleFileName, `{"version": "1.0.0"}`, "Release 1.0.0")
	RunGit(testInstance, repositoryPath, "tag", FirstTagName)
	remote.TagRevisions[SecondTagName] = CommitFile(testInstance, repositoryPath, ModuleFileName, `{"version": "1.1.0"}`, "Release 1.1.0")
	RunGit(testInstance, repositoryPath, "tag", SecondTagName)
	remote.HeadRevision = CommitFile(testInstance, repositoryPath, ReadmeFileName, "# fixture\n", "Document fixture")

	return remote
}

// CreateUntaggedRemote creates a repository holding one commit and no tags.
func CreateUntaggedRemote(testInstance testing.TB) string {
	testInstance.Helper()
	repositoryPath := InitRepository(testInstance)
	CommitFile(testInstance, repositoryPath, ReadmeFileName, "# untagged\n", "Initial commit")
	return repositoryPath
}

// CommitCount returns the number of commits reachable from HEAD.
func CommitCount(testInstance testing.TB, worktreePath string) string {
	testInstance.Helper()
	return RunGit(testInstance, worktreePath, "rev-list", "--count", "HEAD")
}
