package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/pkgvcs/internal/utils/path"
)

const (
	testHomeDirectoryConstant          = "/home/pkgvcs"
	testRelativeProjectPathConstant    = "Projects/example"
	testDefaultCaseNameConstant        = "default_configuration"
	testCurrentDirectoryCaseConstant   = "defaults_to_current_directory"
	testPruneNestedCaseNameConstant    = "prunes_nested_paths"
	testDuplicatePathsCaseNameConstant = "drops_duplicate_paths"
)

func staticHomeExpander() *pathutils.HomeExpander {
	return pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
}

func TestPathSanitizerNormalizesInputs(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	nestedDirectory := filepath.Join(rootDirectory, "nested", "child")
	siblingDirectory := testInstance.TempDir()
	expandedProject := filepath.Join(testHomeDirectoryConstant, testRelativeProjectPathConstant)

	testCases := []struct {
		name            string
		configuration   pathutils.PathSanitizerConfiguration
		inputs          []string
		expectedOutputs []string
	}{
		{
			name:            testDefaultCaseNameConstant,
			inputs:          []string{"", "  " + rootDirectory + "\t", " ~/" + testRelativeProjectPathConstant},
			expectedOutputs: []string{rootDirectory, expandedProject},
		},
		{
			name:            testCurrentDirectoryCaseConstant,
			configuration:   pathutils.PathSanitizerConfiguration{DefaultToCurrentDirectory: true},
			inputs:          []string{"   "},
			expectedOutputs: []string{"."},
		},
		{
			name:            testPruneNestedCaseNameConstant,
			configuration:   pathutils.PathSanitizerConfiguration{PruneNestedPaths: true},
			inputs:          []string{nestedDirectory, siblingDirectory, rootDirectory},
			expectedOutputs: []string{siblingDirectory, rootDirectory},
		},
		{
			name:            testDuplicatePathsCaseNameConstant,
			configuration:   pathutils.PathSanitizerConfiguration{PruneNestedPaths: true},
			inputs:          []string{rootDirectory, rootDirectory + string(filepath.Separator)},
			expectedOutputs: []string{rootDirectory},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			sanitizer := pathutils.NewPathSanitizer(staticHomeExpander(), testCase.configuration)
			require.Equal(testInstance, testCase.expectedOutputs, sanitizer.Sanitize(testCase.inputs))
		})
	}
}

func TestPathSanitizerReturnsNilForEmptyResults(testInstance *testing.T) {
	sanitizer := pathutils.NewPathSanitizer(staticHomeExpander(), pathutils.PathSanitizerConfiguration{})
	require.Nil(testInstance, sanitizer.Sanitize([]string{"   ", "\n"}))
	require.Empty(testInstance, sanitizer.SanitizeSingle(" "))
	require.Equal(testInstance, testHomeDirectoryConstant, sanitizer.SanitizeSingle("~"))
}

func TestHomeExpanderExpansion(testInstance *testing.T) {
	testCases := []struct {
		name         string
		provider     pathutils.HomeDirectoryProvider
		input        string
		expectedPath string
	}{
		{name: "bare_tilde", provider: func() (string, error) { return testHomeDirectoryConstant, nil }, input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", provider: func() (string, error) { return testHomeDirectoryConstant, nil }, input: "~/repo", expectedPath: filepath.Join(testHomeDirectoryConstant, "repo")},
		{name: "other_user_untouched", provider: func() (string, error) { return testHomeDirectoryConstant, nil }, input: "~other/repo", expectedPath: "~other/repo"},
		{name: "absolute_untouched", provider: func() (string, error) { return testHomeDirectoryConstant, nil }, input: "/srv/repo", expectedPath: "/srv/repo"},
		{name: "lookup_failure", provider: func() (string, error) { return "", errors.New("no home") }, input: "~/repo", expectedPath: "~/repo"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(testCase.provider)
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}
