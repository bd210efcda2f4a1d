package environment

import (
	"strings"

	"github.com/temirov/pkgvcs/internal/execshell"
)

const (
	gitExecutableKeyConstant             = "git_executable"
	temporaryDirectoryPatternKeyConstant = "temporary_directory_pattern"
	temporaryDirectoryParentKeyConstant  = "temporary_directory_parent"
	discoverRootsKeyConstant             = "discover_roots"
	configurationKeySeparatorConstant    = "."
	defaultTemporaryPatternConstant      = "pkgvcs-clone-*"
)

// VCSConfiguration holds the settings shared by every working copy command.
type VCSConfiguration struct {
	GitExecutable             string   `mapstructure:"git_executable"`
	TemporaryDirectoryPattern string   `mapstructure:"temporary_directory_pattern"`
	TemporaryDirectoryParent  string   `mapstructure:"temporary_directory_parent"`
	DiscoverRoots             []string `mapstructure:"discover_roots"`
}

// DefaultVCSConfiguration returns the built-in settings.
func DefaultVCSConfiguration() VCSConfiguration {
	return VCSConfiguration{
		GitExecutable:             string(execshell.CommandGit),
		TemporaryDirectoryPattern: defaultTemporaryPatternConstant,
	}
}

// DefaultConfigurationValues exposes the defaults keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultVCSConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + gitExecutableKeyConstant:             defaults.GitExecutable,
		prefix + configurationKeySeparatorConstant + temporaryDirectoryPatternKeyConstant: defaults.TemporaryDirectoryPattern,
		prefix + configurationKeySeparatorConstant + temporaryDirectoryParentKeyConstant:  defaults.TemporaryDirectoryParent,
		prefix + configurationKeySeparatorConstant + discoverRootsKeyConstant:             []string{},
	}
}

// Sanitize trims values and restores defaults for blank executables and patterns.
func (configuration VCSConfiguration) Sanitize() VCSConfiguration {
	defaults := DefaultVCSConfiguration()
	sanitized := VCSConfiguration{
		GitExecutable:             strings.TrimSpace(configuration.GitExecutable),
		TemporaryDirectoryPattern: strings.TrimSpace(configuration.TemporaryDirectoryPattern),
		TemporaryDirectoryParent:  strings.TrimSpace(configuration.TemporaryDirectoryParent),
	}
	if len(sanitized.GitExecutable) == 0 {
		sanitized.GitExecutable = defaults.GitExecutable
	}
	if len(sanitized.TemporaryDirectoryPattern) == 0 {
		sanitized.TemporaryDirectoryPattern = defaults.TemporaryDirectoryPattern
	}
	for _, root := range configuration.DiscoverRoots {
		if trimmedRoot := strings.TrimSpace(root); len(trimmedRoot) > 0 {
			sanitized.DiscoverRoots = append(sanitized.DiscoverRoots, trimmedRoot)
		}
	}
	return sanitized
}
