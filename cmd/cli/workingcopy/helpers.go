// Package workingcopy provides the pkgvcs subcommands that inspect and manipulate working trees.
package workingcopy

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	workingCopyNotFoundMessageConstant  = "working copy not found"
	workingCopyNotFoundTemplateConstant = "%w at %s"
	detectErrorTemplateConstant         = "unable to detect working copy at %s: %w"
)

// ErrWorkingCopyNotFound indicates the target path holds neither a git nor a Mercurial working copy.
var ErrWorkingCopyNotFound = errors.New(workingCopyNotFoundMessageConstant)

func optionalArgument(arguments []string, index int) string {
	if index < len(arguments) {
		return arguments[index]
	}
	return ""
}

func requireWorkingCopy(commandEnvironment environment.Environment, candidatePath string) (vcs.Handle, error) {
	workingTreePath := commandEnvironment.WorkingTreePath(candidatePath)

	detector, detectorError := commandEnvironment.DetectorFor()
	if detectorError != nil {
		return nil, detectorError
	}

	handle, detectError := detector.Detect(workingTreePath)
	if detectError != nil {
		return nil, fmt.Errorf(detectErrorTemplateConstant, workingTreePath, detectError)
	}
	if handle == nil {
		return nil, fmt.Errorf(workingCopyNotFoundTemplateConstant, ErrWorkingCopyNotFound, workingTreePath)
	}
	return handle, nil
}

func render(commandEnvironment environment.Environment, command *cobra.Command, result any) error {
	renderer, rendererError := commandEnvironment.RendererFor(command)
	if rendererError != nil {
		return rendererError
	}
	return renderer.Render(result)
}
