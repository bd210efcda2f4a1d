package workingcopy

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	flagutils "github.com/temirov/pkgvcs/internal/utils/flags"
	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	cloneCommandUseConstant              = "clone <remote> [directory]"
	cloneCommandShortDescriptionConstant = "Clone a remote repository"
	cloneCommandLongDescriptionConstant  = "clone copies a remote repository into the given directory, or into a new temporary directory when none is given, optionally checking out a tag. The working directory is printed on success."
	cloneCommandExampleConstant          = "pkgvcs clone https://github.com/example/module.git --tag v1.2.0"
	tagFlagNameConstant                  = "tag"
	tagFlagUsageConstant                 = "Tag to check out after cloning."
	kindFlagNameConstant                 = "vcs"
	kindFlagUsageConstant                = "Version control system of the remote."
	cloneCompletedLogMessageConstant     = "clone completed"
	cloneCleanupFailedLogMessageConstant = "unable to remove temporary clone"
	logFieldRemoteConstant               = "remote"
	logFieldWorkingDirectoryConstant     = "working_directory"
)

// CloneCommandBuilder assembles the clone command.
type CloneCommandBuilder struct {
	Environment environment.Environment
}

// Build constructs the clone command.
func (builder *CloneCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     cloneCommandUseConstant,
		Short:   cloneCommandShortDescriptionConstant,
		Long:    cloneCommandLongDescriptionConstant,
		Example: cloneCommandExampleConstant,
		Args:    cobra.RangeArgs(1, 2),
		RunE:    builder.run,
	}

	command.Flags().String(tagFlagNameConstant, "", tagFlagUsageConstant)
	var selectedKind string
	flagutils.AddChoiceFlag(command.Flags(), &selectedKind, kindFlagNameConstant, string(vcs.KindGit), vcs.KindNames(), kindFlagUsageConstant)

	return command, nil
}

func (builder *CloneCommandBuilder) run(command *cobra.Command, arguments []string) error {
	remote := strings.TrimSpace(arguments[0])
	if len(remote) == 0 {
		return vcs.ErrRemoteRequired
	}

	tagName, _ := command.Flags().GetString(tagFlagNameConstant)
	tagName = strings.TrimSpace(tagName)

	kind, kindError := vcs.ParseKind(command.Flags().Lookup(kindFlagNameConstant).Value.String())
	if kindError != nil {
		return kindError
	}

	cloner, clonerError := builder.Environment.ClonerFor(kind)
	if clonerError != nil {
		return clonerError
	}

	var handle vcs.Handle
	var cloneError error
	if directory := optionalArgument(arguments, 1); len(strings.TrimSpace(directory)) > 0 {
		handle, cloneError = cloner.CloneToDirectory(command.Context(), remote, builder.Environment.WorkingTreePath(directory), tagName)
	} else {
		handle, cloneError = cloner.CloneToTemporaryDirectory(command.Context(), remote)
		if cloneError == nil && len(tagName) > 0 {
			if checkoutError := handle.UpdateToTag(command.Context(), tagName); checkoutError != nil {
				if removeError := handle.Remove(); removeError != nil {
					builder.Environment.Logger().Warn(
						cloneCleanupFailedLogMessageConstant,
						zap.String(logFieldWorkingDirectoryConstant, handle.WorkingDirectory()),
						zap.Error(removeError),
					)
				}
				return checkoutError
			}
		}
	}
	if cloneError != nil {
		return cloneError
	}

	result := CloneResult{Remote: remote, Kind: handle.Kind(), WorkingDirectory: handle.WorkingDirectory(), Tag: tagName}
	if revision, revisionError := handle.CurrentRevision(command.Context()); revisionError == nil {
		result.Revision = revision
	}

	builder.Environment.Logger().Info(
		cloneCompletedLogMessageConstant,
		zap.String(logFieldRemoteConstant, remote),
		zap.String(logFieldWorkingDirectoryConstant, result.WorkingDirectory),
	)

	return render(builder.Environment, command, result)
}
