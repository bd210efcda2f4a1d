package workingcopy

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	removeCommandUseConstant              = "remove <path>"
	removeCommandShortDescriptionConstant = "Delete a working tree from disk"
	removeCommandLongDescriptionConstant  = "remove deletes the working tree at path, including its metadata directory. The path must hold a detected working copy."
	workingTreeRemovedLogMessageConstant  = "working tree removed"
)

// RemoveCommandBuilder assembles the remove command.
type RemoveCommandBuilder struct {
	Environment environment.Environment
}

// Build constructs the remove command.
func (builder *RemoveCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   removeCommandUseConstant,
		Short: removeCommandShortDescriptionConstant,
		Long:  removeCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}, nil
}

func (builder *RemoveCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(strings.TrimSpace(arguments[0])) == 0 {
		return vcs.ErrWorkingDirectoryRequired
	}

	handle, handleError := requireWorkingCopy(builder.Environment, arguments[0])
	if handleError != nil {
		return handleError
	}

	if removeError := handle.Remove(); removeError != nil {
		return removeError
	}

	builder.Environment.Logger().Info(workingTreeRemovedLogMessageConstant, zap.String(logFieldWorkingDirectoryConstant, handle.WorkingDirectory()))

	return render(builder.Environment, command, RemoveResult{WorkingDirectory: handle.WorkingDirectory(), Kind: handle.Kind()})
}
