// Package release provides the command that commits release files and tags the commit.
package release

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	"github.com/temirov/pkgvcs/internal/releases"
)

const (
	commandUseConstant               = "release <tag> <file> [files...]"
	commandShortDescriptionConstant  = "Commit release files and tag the commit"
	commandLongDescriptionConstant   = "release stages the listed files, which are relative to the working tree, commits them with a message rendered from the template, and tags the new commit. The tag must not exist yet. By default the working tree must be clean before anything is staged."
	commandExampleConstant           = "pkgvcs release v1.2.0 module.json --message-template 'release {{version}}'"
	pathFlagNameConstant             = "path"
	pathFlagUsageConstant            = "Working tree to release from."
	dryRunFlagNameConstant           = "dry-run"
	dryRunFlagUsageConstant          = "Report the release without staging, committing, or tagging."
	messageTemplateFlagNameConstant  = "message-template"
	messageTemplateFlagUsageConstant = "Commit message template; {{tag}}, {{version}} and {{files}} are expanded."
	allowDirtyFlagNameConstant       = "allow-dirty"
	allowDirtyFlagUsageConstant      = "Release even when the working tree has uncommitted changes."
	missingTagErrorMessageConstant   = "tag name is required"
	missingFilesErrorMessageConstant = "at least one file is required"
)

// CommandBuilder assembles the release command.
type CommandBuilder struct {
	Environment           environment.Environment
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the release command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}

	command.Flags().String(pathFlagNameConstant, "", pathFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	command.Flags().String(messageTemplateFlagNameConstant, "", messageTemplateFlagUsageConstant)
	command.Flags().Bool(allowDirtyFlagNameConstant, false, allowDirtyFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) == 0 || len(strings.TrimSpace(arguments[0])) == 0 {
		_ = command.Help()
		return errors.New(missingTagErrorMessageConstant)
	}
	if len(arguments) < 2 {
		_ = command.Help()
		return errors.New(missingFilesErrorMessageConstant)
	}

	configuration := builder.resolveConfiguration()

	messageTemplate := configuration.MessageTemplate
	if command.Flags().Changed(messageTemplateFlagNameConstant) {
		messageTemplate, _ = command.Flags().GetString(messageTemplateFlagNameConstant)
	}
	requireClean := configuration.RequireClean
	if allowDirty, _ := command.Flags().GetBool(allowDirtyFlagNameConstant); allowDirty {
		requireClean = false
	}
	dryRun, _ := command.Flags().GetBool(dryRunFlagNameConstant)
	pathValue, _ := command.Flags().GetString(pathFlagNameConstant)

	detector, detectorError := builder.Environment.DetectorFor()
	if detectorError != nil {
		return detectorError
	}

	service, serviceError := releases.NewService(releases.ServiceDependencies{
		Logger:   builder.Environment.Logger(),
		Detector: detector,
	})
	if serviceError != nil {
		return serviceError
	}

	result, releaseError := service.Release(command.Context(), releases.Options{
		RepositoryPath:  builder.Environment.WorkingTreePath(pathValue),
		TagName:         strings.TrimSpace(arguments[0]),
		Files:           arguments[1:],
		MessageTemplate: messageTemplate,
		RequireClean:    requireClean,
		DryRun:          dryRun,
	})
	if releaseError != nil {
		return releaseError
	}

	renderer, rendererError := builder.Environment.RendererFor(command)
	if rendererError != nil {
		return rendererError
	}
	return renderer.Render(result)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
