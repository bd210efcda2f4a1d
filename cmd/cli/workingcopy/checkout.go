package workingcopy

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	checkoutCommandUseConstant              = "checkout <tag> [path]"
	checkoutCommandShortDescriptionConstant = "Move a working tree to a tag"
	checkoutCommandExampleConstant          = "pkgvcs checkout v1.0.0 ~/src/module"
)

// CheckoutCommandBuilder assembles the checkout command.
type CheckoutCommandBuilder struct {
	Environment environment.Environment
}

// Build constructs the checkout command.
func (builder *CheckoutCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:     checkoutCommandUseConstant,
		Short:   checkoutCommandShortDescriptionConstant,
		Example: checkoutCommandExampleConstant,
		Args:    cobra.RangeArgs(1, 2),
		RunE:    builder.run,
	}, nil
}

func (builder *CheckoutCommandBuilder) run(command *cobra.Command, arguments []string) error {
	tagName := strings.TrimSpace(arguments[0])
	if len(tagName) == 0 {
		return vcs.ErrTagNameRequired
	}

	handle, handleError := requireWorkingCopy(builder.Environment, optionalArgument(arguments, 1))
	if handleError != nil {
		return handleError
	}

	if checkoutError := handle.UpdateToTag(command.Context(), tagName); checkoutError != nil {
		return checkoutError
	}

	revision, revisionError := handle.CurrentRevision(command.Context())
	if revisionError != nil {
		return revisionError
	}

	return render(builder.Environment, command, CheckoutResult{
		WorkingDirectory: handle.WorkingDirectory(),
		Kind:             handle.Kind(),
		Tag:              tagName,
		Revision:         revision,
	})
}
