package environment_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	"github.com/temirov/pkgvcs/internal/execshell"
	"github.com/temirov/pkgvcs/internal/output"
	pathutils "github.com/temirov/pkgvcs/internal/utils/path"
	"github.com/temirov/pkgvcs/internal/vcs"
)

const testHomeDirectoryConstant = "/home/pkgvcs"

func newHomeExpander() *pathutils.HomeExpander {
	return pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
}

func TestVCSConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration environment.VCSConfiguration
		expected      environment.VCSConfiguration
	}{
		{
			name:          "blank_values_use_defaults",
			configuration: environment.VCSConfiguration{GitExecutable: " ", DiscoverRoots: []string{"", " "}},
			expected:      environment.DefaultVCSConfiguration(),
		},
		{
			name: "explicit_values_trimmed",
			configuration: environment.VCSConfiguration{
				GitExecutable:             " /opt/git/bin/git ",
				TemporaryDirectoryPattern: "release-*",
				TemporaryDirectoryParent:  " /var/tmp ",
				DiscoverRoots:             []string{" ~/src "},
			},
			expected: environment.VCSConfiguration{
				GitExecutable:             "/opt/git/bin/git",
				TemporaryDirectoryPattern: "release-*",
				TemporaryDirectoryParent:  "/var/tmp",
				DiscoverRoots:             []string{"~/src"},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.configuration.Sanitize())
		})
	}
}

func TestDefaultConfigurationValuesArePrefixed(testInstance *testing.T) {
	defaults := environment.DefaultConfigurationValues("vcs")
	require.Equal(testInstance, "git", defaults["vcs.git_executable"])
	require.NotContains(testInstance, defaults, "vcs.hg_executable")
	require.Equal(testInstance, "pkgvcs-clone-*", defaults["vcs.temporary_directory_pattern"])
	require.Equal(testInstance, "", defaults["vcs.temporary_directory_parent"])
	require.Equal(testInstance, []string{}, defaults["vcs.discover_roots"])
}

func TestEnvironmentDefaults(testInstance *testing.T) {
	commandEnvironment := environment.Environment{HomeExpander: newHomeExpander()}

	require.NotNil(testInstance, commandEnvironment.Logger())
	require.Equal(testInstance, output.FormatText, commandEnvironment.OutputFormat())
	require.Equal(testInstance, environment.DefaultVCSConfiguration(), commandEnvironment.Configuration())
	require.Equal(testInstance, ".", commandEnvironment.WorkingTreePath("  "))
	require.Equal(testInstance, testHomeDirectoryConstant+"/module", commandEnvironment.WorkingTreePath("~/module"))
	require.Equal(testInstance, []string{"."}, commandEnvironment.SearchRoots(nil))
	require.Equal(testInstance, []string{"/srv"}, commandEnvironment.SearchRoots([]string{"/srv/nested", "/srv"}))

	detector, detectorError := commandEnvironment.DetectorFor()
	require.NoError(testInstance, detectorError)
	require.IsType(testInstance, &vcs.Detector{}, detector)

	gitCloner, gitClonerError := commandEnvironment.ClonerFor(vcs.KindGit)
	require.NoError(testInstance, gitClonerError)
	require.IsType(testInstance, &vcs.GitCloner{}, gitCloner)

	require.NotNil(testInstance, commandEnvironment.DiscovererFor())
}

func TestEnvironmentRendererUsesCommandOutput(testInstance *testing.T) {
	commandEnvironment := environment.Environment{OutputFormatProvider: func() output.Format { return output.FormatJSON }}
	command := &cobra.Command{}
	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)

	renderer, rendererError := commandEnvironment.RendererFor(command)
	require.NoError(testInstance, rendererError)
	require.Equal(testInstance, output.FormatJSON, renderer.Format())
	require.NoError(testInstance, renderer.Render(map[string]string{"kind": "git"}))
	require.Equal(testInstance, "{\n  \"kind\": \"git\"\n}\n", outputBuffer.String())
}

func TestEnvironmentAppliesConfiguredGitExecutable(testInstance *testing.T) {
	commandEnvironment := environment.Environment{
		ConfigurationProvider: func() environment.VCSConfiguration {
			return environment.VCSConfiguration{GitExecutable: "pkgvcs-missing-git"}
		},
	}

	gitExecutor, executorError := commandEnvironment.GitExecutorFor()
	require.NoError(testInstance, executorError)

	_, executionError := gitExecutor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"--version"}})
	var commandExecutionError execshell.CommandExecutionError
	require.ErrorAs(testInstance, executionError, &commandExecutionError)
	require.Equal(testInstance, "pkgvcs-missing-git", commandExecutionError.Command.ExecutablePath())
}
