package workingcopy

import (
	"github.com/spf13/cobra"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
)

const (
	tagsCommandUseConstant              = "tags [path]"
	tagsCommandShortDescriptionConstant = "List the tags of a working copy"
)

// TagsCommandBuilder assembles the tags command.
type TagsCommandBuilder struct {
	Environment environment.Environment
}

// Build constructs the tags command.
func (builder *TagsCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   tagsCommandUseConstant,
		Short: tagsCommandShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}, nil
}

func (builder *TagsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	handle, handleError := requireWorkingCopy(builder.Environment, optionalArgument(arguments, 0))
	if handleError != nil {
		return handleError
	}

	tags, tagsError := handle.Tags(command.Context())
	if tagsError != nil {
		return tagsError
	}

	return render(builder.Environment, command, TagsResult{WorkingDirectory: handle.WorkingDirectory(), Kind: handle.Kind(), Tags: tags})
}
