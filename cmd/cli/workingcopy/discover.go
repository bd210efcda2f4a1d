package workingcopy

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/cmd/cli/environment"
)

const (
	discoverCommandUseConstant              = "discover [roots...]"
	discoverCommandShortDescriptionConstant = "Find working copies beneath directories"
	discoverCommandLongDescriptionConstant  = "discover walks each root, which defaults to the configured discover roots or the current directory, and lists every git or Mercurial working copy beneath it."
	discoverErrorTemplateConstant           = "unable to discover working copies: %w"
	discoveryCompletedLogMessageConstant    = "discovery completed"
	logFieldRootsConstant                   = "roots"
	logFieldCountConstant                   = "count"
)

// DiscoverCommandBuilder assembles the discover command.
type DiscoverCommandBuilder struct {
	Environment environment.Environment
}

// Build constructs the discover command.
func (builder *DiscoverCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   discoverCommandUseConstant,
		Short: discoverCommandShortDescriptionConstant,
		Long:  discoverCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *DiscoverCommandBuilder) run(command *cobra.Command, arguments []string) error {
	roots := builder.Environment.SearchRoots(arguments)

	repositoryPaths, discoveryError := builder.Environment.DiscovererFor().DiscoverRepositories(roots)
	if discoveryError != nil {
		return fmt.Errorf(discoverErrorTemplateConstant, discoveryError)
	}

	detector, detectorError := builder.Environment.DetectorFor()
	if detectorError != nil {
		return detectorError
	}

	result := DiscoverResult{Roots: roots, WorkingCopies: make([]DetectResult, 0, len(repositoryPaths))}
	for _, repositoryPath := range repositoryPaths {
		handle, detectError := detector.Detect(repositoryPath)
		if detectError != nil {
			return fmt.Errorf(detectErrorTemplateConstant, repositoryPath, detectError)
		}
		if handle == nil {
			continue
		}
		result.WorkingCopies = append(result.WorkingCopies, newDetectResult(repositoryPath, handle))
	}

	builder.Environment.Logger().Debug(
		discoveryCompletedLogMessageConstant,
		zap.Strings(logFieldRootsConstant, roots),
		zap.Int(logFieldCountConstant, len(result.WorkingCopies)),
	)

	return render(builder.Environment, command, result)
}
