package workingcopy

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	"github.com/temirov/pkgvcs/internal/output"
	pathutils "github.com/temirov/pkgvcs/internal/utils/path"
	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	testWorkingDirectoryConstant = "/srv/module"
	testRevisionConstant         = "0123456789abcdef"
	testHomeDirectoryConstant    = "/home/pkgvcs"
)

type stubHandle struct {
	kind         vcs.Kind
	clean        bool
	cleanError   error
	tags         []string
	checkedOut   []string
	removeCalls  int
	removeError  error
	revisionText string
}

func (handle *stubHandle) Kind() vcs.Kind           { return handle.kind }
func (handle *stubHandle) WorkingDirectory() string { return testWorkingDirectoryConstant }

func (handle *stubHandle) IsClean(context.Context) (bool, error) {
	return handle.clean, handle.cleanError
}

func (handle *stubHandle) ModifiedFiles(context.Context) ([]string, error) { return []string{}, nil }

func (handle *stubHandle) MarkForCommit(context.Context, string) error { return nil }

func (handle *stubHandle) Commit(context.Context, string, string) error { return nil }

func (handle *stubHandle) Tags(context.Context) ([]string, error) { return handle.tags, nil }

func (handle *stubHandle) UpdateToTag(_ context.Context, tagName string) error {
	handle.checkedOut = append(handle.checkedOut, tagName)
	return nil
}

func (handle *stubHandle) CurrentRevision(context.Context) (string, error) {
	return handle.revisionText, nil
}

func (handle *stubHandle) Remove() error {
	handle.removeCalls++
	return handle.removeError
}

type stubDetector struct {
	handles       map[string]vcs.Handle
	detectedPaths []string
}

func (detector *stubDetector) Detect(path string) (vcs.Handle, error) {
	detector.detectedPaths = append(detector.detectedPaths, path)
	handle, found := detector.handles[path]
	if !found {
		return nil, nil
	}
	return handle, nil
}

func (detector *stubDetector) Open(vcs.Kind, string) (vcs.Handle, error) {
	return nil, vcs.ErrUnimplemented
}

type stubDiscoverer struct {
	repositories  []string
	receivedRoots []string
}

func (discoverer *stubDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	discoverer.receivedRoots = roots
	return discoverer.repositories, nil
}

type commandBuilder interface {
	Build() (*cobra.Command, error)
}

func newTestEnvironment(detector *stubDetector, format output.Format) environment.Environment {
	return environment.Environment{
		Detector:             detector,
		OutputFormatProvider: func() output.Format { return format },
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return testHomeDirectoryConstant, nil
		}),
	}
}

func runCommand(testInstance *testing.T, builder commandBuilder, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(append([]string{}, arguments...))
	command.SetContext(context.Background())

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestStatusCommandReportsCleanliness(testInstance *testing.T) {
	testCases := []struct {
		name           string
		clean          bool
		format         output.Format
		expectedOutput string
	}{
		{name: "clean_text", clean: true, format: output.FormatText, expectedOutput: "clean\n"},
		{name: "dirty_text", clean: false, format: output.FormatText, expectedOutput: "dirty\n"},
		{
			name:           "dirty_json",
			clean:          false,
			format:         output.FormatJSON,
			expectedOutput: "{\n  \"working_directory\": \"/srv/module\",\n  \"kind\": \"git\",\n  \"clean\": false,\n  \"revision\": \"0123456789abcdef\"\n}\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			handle := &stubHandle{kind: vcs.KindGit, clean: testCase.clean, revisionText: testRevisionConstant}
			detector := &stubDetector{handles: map[string]vcs.Handle{testWorkingDirectoryConstant: handle}}

			commandOutput, executionError := runCommand(testInstance, &StatusCommandBuilder{Environment: newTestEnvironment(detector, testCase.format)}, testWorkingDirectoryConstant)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedOutput, commandOutput)
		})
	}
}

func TestStatusCommandDefaultsToCurrentDirectory(testInstance *testing.T) {
	detector := &stubDetector{handles: map[string]vcs.Handle{".": &stubHandle{kind: vcs.KindGit, clean: true}}}

	commandOutput, executionError := runCommand(testInstance, &StatusCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "clean\n", commandOutput)
	require.Equal(testInstance, []string{"."}, detector.detectedPaths)
}

func TestCommandsRejectMissingWorkingCopy(testInstance *testing.T) {
	testCases := []struct {
		name      string
		builder   func(environment.Environment) commandBuilder
		arguments []string
	}{
		{name: "status", builder: func(env environment.Environment) commandBuilder { return &StatusCommandBuilder{Environment: env} }, arguments: []string{"/srv/missing"}},
		{name: "tags", builder: func(env environment.Environment) commandBuilder { return &TagsCommandBuilder{Environment: env} }, arguments: []string{"/srv/missing"}},
		{name: "checkout", builder: func(env environment.Environment) commandBuilder { return &CheckoutCommandBuilder{Environment: env} }, arguments: []string{"v1.0.0", "/srv/missing"}},
		{name: "remove", builder: func(env environment.Environment) commandBuilder { return &RemoveCommandBuilder{Environment: env} }, arguments: []string{"/srv/missing"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			detector := &stubDetector{}
			_, executionError := runCommand(testInstance, testCase.builder(newTestEnvironment(detector, output.FormatText)), testCase.arguments...)
			require.ErrorIs(testInstance, executionError, ErrWorkingCopyNotFound)
			require.Contains(testInstance, executionError.Error(), "/srv/missing")
		})
	}
}

func TestStatusCommandSurfacesUnimplementedBackend(testInstance *testing.T) {
	handle := &stubHandle{kind: vcs.KindMercurial, cleanError: vcs.ErrUnimplemented}
	detector := &stubDetector{handles: map[string]vcs.Handle{testWorkingDirectoryConstant: handle}}

	_, executionError := runCommand(testInstance, &StatusCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)}, testWorkingDirectoryConstant)
	require.ErrorIs(testInstance, executionError, vcs.ErrUnimplemented)
}

func TestTagsCommandListsTags(testInstance *testing.T) {
	handle := &stubHandle{kind: vcs.KindGit, tags: []string{"v1.0.0", "v1.1.0"}}
	detector := &stubDetector{handles: map[string]vcs.Handle{testWorkingDirectoryConstant: handle}}

	textOutput, textError := runCommand(testInstance, &TagsCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)}, testWorkingDirectoryConstant)
	require.NoError(testInstance, textError)
	require.Equal(testInstance, "v1.0.0\nv1.1.0\n", textOutput)

	yamlOutput, yamlError := runCommand(testInstance, &TagsCommandBuilder{Environment: newTestEnvironment(detector, output.FormatYAML)}, testWorkingDirectoryConstant)
	require.NoError(testInstance, yamlError)
	require.Equal(testInstance, "working_directory: /srv/module\nkind: git\ntags:\n  - v1.0.0\n  - v1.1.0\n", yamlOutput)
}

func TestCheckoutCommandMovesToTag(testInstance *testing.T) {
	handle := &stubHandle{kind: vcs.KindGit, revisionText: testRevisionConstant}
	detector := &stubDetector{handles: map[string]vcs.Handle{testWorkingDirectoryConstant: handle}}

	commandOutput, executionError := runCommand(testInstance, &CheckoutCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)}, "v1.0.0", testWorkingDirectoryConstant)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"v1.0.0"}, handle.checkedOut)
	require.Equal(testInstance, "Checked out v1.0.0 at 0123456789abcdef\n", commandOutput)

	_, blankTagError := runCommand(testInstance, &CheckoutCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)}, " ", testWorkingDirectoryConstant)
	require.ErrorIs(testInstance, blankTagError, vcs.ErrTagNameRequired)
}

func TestDetectCommandOutputs(testInstance *testing.T) {
	detector := &stubDetector{handles: map[string]vcs.Handle{
		testWorkingDirectoryConstant: &stubHandle{kind: vcs.KindMercurial},
	}}

	foundOutput, foundError := runCommand(testInstance, &DetectCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)}, testWorkingDirectoryConstant)
	require.NoError(testInstance, foundError)
	require.Equal(testInstance, "hg\t/srv/module\n", foundOutput)

	missingOutput, missingError := runCommand(testInstance, &DetectCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)}, "~/elsewhere")
	require.NoError(testInstance, missingError)
	require.Equal(testInstance, "none\n", missingOutput)
	require.Equal(testInstance, "/home/pkgvcs/elsewhere", detector.detectedPaths[len(detector.detectedPaths)-1])
}

func TestDiscoverCommandListsWorkingCopies(testInstance *testing.T) {
	detector := &stubDetector{handles: map[string]vcs.Handle{
		"/srv/alpha": &stubHandle{kind: vcs.KindGit},
		"/srv/beta":  &stubHandle{kind: vcs.KindMercurial},
	}}
	discoverer := &stubDiscoverer{repositories: []string{"/srv/alpha", "/srv/beta", "/srv/vanished"}}
	commandEnvironment := newTestEnvironment(detector, output.FormatJSON)
	commandEnvironment.Discoverer = discoverer

	commandOutput, executionError := runCommand(testInstance, &DiscoverCommandBuilder{Environment: commandEnvironment}, "/srv", "/srv/alpha")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"/srv"}, discoverer.receivedRoots)
	require.Contains(testInstance, commandOutput, "\"kind\": \"git\"")
	require.Contains(testInstance, commandOutput, "\"kind\": \"hg\"")
	require.NotContains(testInstance, commandOutput, "vanished")
}

func TestDiscoverCommandUsesConfiguredRoots(testInstance *testing.T) {
	discoverer := &stubDiscoverer{}
	commandEnvironment := newTestEnvironment(&stubDetector{}, output.FormatText)
	commandEnvironment.Discoverer = discoverer
	commandEnvironment.ConfigurationProvider = func() environment.VCSConfiguration {
		return environment.VCSConfiguration{DiscoverRoots: []string{" ~/src ", ""}}
	}

	commandOutput, executionError := runCommand(testInstance, &DiscoverCommandBuilder{Environment: commandEnvironment})
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, commandOutput)
	require.Equal(testInstance, []string{"/home/pkgvcs/src"}, discoverer.receivedRoots)
}

func TestRemoveCommandDeletesWorkingTree(testInstance *testing.T) {
	handle := &stubHandle{kind: vcs.KindGit}
	detector := &stubDetector{handles: map[string]vcs.Handle{testWorkingDirectoryConstant: handle}}

	commandOutput, executionError := runCommand(testInstance, &RemoveCommandBuilder{Environment: newTestEnvironment(detector, output.FormatText)}, testWorkingDirectoryConstant)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, 1, handle.removeCalls)
	require.Equal(testInstance, "Removed /srv/module\n", commandOutput)
}

func TestRemoveCommandValidation(testInstance *testing.T) {
	failingHandle := &stubHandle{kind: vcs.KindGit, removeError: errors.New("permission denied")}
	detector := &stubDetector{handles: map[string]vcs.Handle{testWorkingDirectoryConstant: failingHandle}}
	commandEnvironment := newTestEnvironment(detector, output.FormatText)

	_, blankError := runCommand(testInstance, &RemoveCommandBuilder{Environment: commandEnvironment}, "  ")
	require.ErrorIs(testInstance, blankError, vcs.ErrWorkingDirectoryRequired)
	require.Empty(testInstance, detector.detectedPaths)

	_, missingArgumentError := runCommand(testInstance, &RemoveCommandBuilder{Environment: commandEnvironment})
	require.Error(testInstance, missingArgumentError)

	_, removeError := runCommand(testInstance, &RemoveCommandBuilder{Environment: commandEnvironment}, testWorkingDirectoryConstant)
	require.EqualError(testInstance, removeError, "permission denied")
}
