package discovery_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pkgvcs/internal/repos/discovery"
	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	developerDirectoryName             = "Dev"
	engineeringGroupDirectoryName      = "Group1"
	applicationRepositoryDirectoryName = "Repo1"
	serviceRepositoryDirectoryName     = "Repo2"
	toolsRepositoryDirectoryName       = "Repo3"
	gitMetadataDirectoryName           = ".git"
	mercurialMetadataDirectoryName     = ".hg"
	singleRootSubtestTitle             = "discoversRepositoriesFromSingleRoot"
	combinedRootsSubtestTitle          = "discoversRepositoriesFromParentAndNestedRoots"
	repositoryDirectoryPermissions     = 0o755
)

type repositoryDefinition struct {
	directorySegments     []string
	metadataDirectoryName string
}

func (definition repositoryDefinition) repositoryPath(rootDirectory string) string {
	segments := append([]string{rootDirectory}, definition.directorySegments...)
	return filepath.Join(segments...)
}

func (definition repositoryDefinition) metadataPath(rootDirectory string) string {
	segments := append([]string{rootDirectory}, definition.directorySegments...)
	metadataDirectoryName := definition.metadataDirectoryName
	if len(metadataDirectoryName) == 0 {
		metadataDirectoryName = gitMetadataDirectoryName
	}
	segments = append(segments, metadataDirectoryName)
	return filepath.Join(segments...)
}

type filesystemDiscoveryTestScenario struct {
	title                      string
	rootDirectoriesConstructor func(string) []string
}

func (scenario filesystemDiscoveryTestScenario) execute(
	testFramework *testing.T,
	repositoryDefinitions []repositoryDefinition,
) {
	testFramework.Helper()

	temporaryRootDirectory := testFramework.TempDir()
	for _, repositoryDefinition := range repositoryDefinitions {
		metadataDirectoryPath := repositoryDefinition.metadataPath(temporaryRootDirectory)
		creationError := os.MkdirAll(metadataDirectoryPath, repositoryDirectoryPermissions)
		require.NoError(testFramework, creationError)
	}

	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories(
		scenario.rootDirectoriesConstructor(temporaryRootDirectory),
	)
	require.NoError(testFramework, discoveryError)

	expectedRepositories := make([]string, 0, len(repositoryDefinitions))
	for _, repositoryDefinition := range repositoryDefinitions {
		expectedRepositories = append(expectedRepositories, repositoryDefinition.repositoryPath(temporaryRootDirectory))
	}

	sort.Strings(expectedRepositories)
	sort.Strings(discoveredRepositories)
	require.Equal(testFramework, expectedRepositories, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererDiscoversNestedLayouts(testFramework *testing.T) {
	repositoryDefinitions := []repositoryDefinition{
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, applicationRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, serviceRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, toolsRepositoryDirectoryName}, metadataDirectoryName: mercurialMetadataDirectoryName},
	}

	testScenarios := []filesystemDiscoveryTestScenario{
		{
			title: singleRootSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				return []string{rootDirectory}
			},
		},
		{
			title: combinedRootsSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				developerDirectoryPath := filepath.Join(rootDirectory, developerDirectoryName)
				engineeringGroupDirectoryPath := filepath.Join(developerDirectoryPath, engineeringGroupDirectoryName)
				return []string{rootDirectory, developerDirectoryPath, engineeringGroupDirectoryPath}
			},
		},
	}

	for _, testScenario := range testScenarios {
		testFramework.Run(testScenario.title, func(testFramework *testing.T) {
			testScenario.execute(testFramework, repositoryDefinitions)
		})
	}
}

func TestFilesystemRepositoryDiscovererIgnoresMetadataFilesAndNestedCopies(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()

	worktreeFileRepository := filepath.Join(temporaryRootDirectory, "linked")
	require.NoError(testFramework, os.MkdirAll(worktreeFileRepository, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.WriteFile(filepath.Join(worktreeFileRepository, gitMetadataDirectoryName), []byte("gitdir: elsewhere"), 0o644))

	outerRepository := filepath.Join(temporaryRootDirectory, "outer")
	require.NoError(testFramework, os.MkdirAll(filepath.Join(outerRepository, gitMetadataDirectoryName, "modules", "inner", gitMetadataDirectoryName), repositoryDirectoryPermissions))

	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories([]string{temporaryRootDirectory, outerRepository})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{outerRepository}, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererHonorsExplicitMetadataNames(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()
	gitRepository := filepath.Join(temporaryRootDirectory, "git")
	mercurialRepository := filepath.Join(temporaryRootDirectory, "hg")
	require.NoError(testFramework, os.MkdirAll(filepath.Join(gitRepository, gitMetadataDirectoryName), repositoryDirectoryPermissions))
	require.NoError(testFramework, os.MkdirAll(filepath.Join(mercurialRepository, mercurialMetadataDirectoryName), repositoryDirectoryPermissions))

	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer(mercurialMetadataDirectoryName)
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories([]string{temporaryRootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{mercurialRepository}, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererDefaultsToKnownKinds(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()

	expectedRepositories := []string{}
	for index, metadataDirectoryName := range vcs.MetadataDirectoryNames() {
		repositoryPath := filepath.Join(temporaryRootDirectory, fmt.Sprintf("repository-%d", index))
		require.NoError(testFramework, os.MkdirAll(filepath.Join(repositoryPath, metadataDirectoryName), repositoryDirectoryPermissions))
		expectedRepositories = append(expectedRepositories, repositoryPath)
	}
	require.NoError(testFramework, os.MkdirAll(filepath.Join(temporaryRootDirectory, "subversion", ".svn"), repositoryDirectoryPermissions))

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{temporaryRootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, expectedRepositories, discoveredRepositories)
}
