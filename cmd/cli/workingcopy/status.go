package workingcopy

import (
	"github.com/spf13/cobra"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
)

const (
	statusCommandUseConstant              = "status [path]"
	statusCommandShortDescriptionConstant = "Report whether a working tree is clean"
	statusCommandLongDescriptionConstant  = "status prints clean when the working tree has neither unstaged nor staged modifications and dirty otherwise. Untracked files are ignored."
)

// StatusCommandBuilder assembles the status command.
type StatusCommandBuilder struct {
	Environment environment.Environment
}

// Build constructs the status command.
func (builder *StatusCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   statusCommandUseConstant,
		Short: statusCommandShortDescriptionConstant,
		Long:  statusCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}, nil
}

func (builder *StatusCommandBuilder) run(command *cobra.Command, arguments []string) error {
	handle, handleError := requireWorkingCopy(builder.Environment, optionalArgument(arguments, 0))
	if handleError != nil {
		return handleError
	}

	clean, cleanError := handle.IsClean(command.Context())
	if cleanError != nil {
		return cleanError
	}

	result := StatusResult{WorkingDirectory: handle.WorkingDirectory(), Kind: handle.Kind(), Clean: clean}
	if revision, revisionError := handle.CurrentRevision(command.Context()); revisionError == nil {
		result.Revision = revision
	}
	return render(builder.Environment, command, result)
}
