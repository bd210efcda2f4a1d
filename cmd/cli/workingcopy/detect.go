package workingcopy

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
)

const (
	detectCommandUseConstant              = "detect [path]"
	detectCommandShortDescriptionConstant = "Identify the version control system of a directory"
	detectCommandLongDescriptionConstant  = "detect looks for a .git directory and then a .hg directory directly inside the path and prints the kind and working directory, or none. Parent directories are not searched."
)

// DetectCommandBuilder assembles the detect command.
type DetectCommandBuilder struct {
	Environment environment.Environment
}

// Build constructs the detect command.
func (builder *DetectCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   detectCommandUseConstant,
		Short: detectCommandShortDescriptionConstant,
		Long:  detectCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}, nil
}

func (builder *DetectCommandBuilder) run(command *cobra.Command, arguments []string) error {
	workingTreePath := builder.Environment.WorkingTreePath(optionalArgument(arguments, 0))

	detector, detectorError := builder.Environment.DetectorFor()
	if detectorError != nil {
		return detectorError
	}

	handle, detectError := detector.Detect(workingTreePath)
	if detectError != nil {
		return fmt.Errorf(detectErrorTemplateConstant, workingTreePath, detectError)
	}

	return render(builder.Environment, command, newDetectResult(workingTreePath, handle))
}
