package workingcopy

import (
	"fmt"

	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	cleanStateConstant          = "clean"
	dirtyStateConstant          = "dirty"
	noneKindConstant            = "none"
	kindAndPathTemplateConstant = "%s\t%s"
	removedTemplateConstant     = "Removed %s"
	checkedOutTemplateConstant  = "Checked out %s at %s"
)

// CloneResult describes a freshly cloned working tree.
type CloneResult struct {
	Remote           string   `json:"remote" yaml:"remote"`
	Kind             vcs.Kind `json:"kind" yaml:"kind"`
	WorkingDirectory string   `json:"working_directory" yaml:"working_directory"`
	Tag              string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Revision         string   `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// TextLines prints the working directory alone so scripts can capture it.
func (result CloneResult) TextLines() []string {
	return []string{result.WorkingDirectory}
}

// StatusResult reports whether a working tree has uncommitted changes.
type StatusResult struct {
	WorkingDirectory string   `json:"working_directory" yaml:"working_directory"`
	Kind             vcs.Kind `json:"kind" yaml:"kind"`
	Clean            bool     `json:"clean" yaml:"clean"`
	Revision         string   `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// TextLines prints clean or dirty.
func (result StatusResult) TextLines() []string {
	if result.Clean {
		return []string{cleanStateConstant}
	}
	return []string{dirtyStateConstant}
}

// TagsResult lists the tags of a working tree.
type TagsResult struct {
	WorkingDirectory string   `json:"working_directory" yaml:"working_directory"`
	Kind             vcs.Kind `json:"kind" yaml:"kind"`
	Tags             []string `json:"tags" yaml:"tags"`
}

// TextLines prints one tag per line.
func (result TagsResult) TextLines() []string {
	return result.Tags
}

// CheckoutResult describes a working tree moved to a tag.
type CheckoutResult struct {
	WorkingDirectory string   `json:"working_directory" yaml:"working_directory"`
	Kind             vcs.Kind `json:"kind" yaml:"kind"`
	Tag              string   `json:"tag" yaml:"tag"`
	Revision         string   `json:"revision" yaml:"revision"`
}

// TextLines summarizes the checkout.
func (result CheckoutResult) TextLines() []string {
	return []string{fmt.Sprintf(checkedOutTemplateConstant, result.Tag, result.Revision)}
}

// DetectResult describes the working copy found at a path, if any.
type DetectResult struct {
	Path             string   `json:"path" yaml:"path"`
	Found            bool     `json:"found" yaml:"found"`
	Kind             vcs.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
	WorkingDirectory string   `json:"working_directory,omitempty" yaml:"working_directory,omitempty"`
}

// TextLines prints the kind and working directory, or none.
func (result DetectResult) TextLines() []string {
	if !result.Found {
		return []string{noneKindConstant}
	}
	return []string{fmt.Sprintf(kindAndPathTemplateConstant, result.Kind, result.WorkingDirectory)}
}

// DiscoverResult lists the working copies found beneath search roots.
type DiscoverResult struct {
	Roots         []string       `json:"roots" yaml:"roots"`
	WorkingCopies []DetectResult `json:"working_copies" yaml:"working_copies"`
}

// TextLines prints one working copy per line.
func (result DiscoverResult) TextLines() []string {
	lines := make([]string, 0, len(result.WorkingCopies))
	for _, workingCopy := range result.WorkingCopies {
		lines = append(lines, workingCopy.TextLines()...)
	}
	return lines
}

// RemoveResult describes a deleted working tree.
type RemoveResult struct {
	WorkingDirectory string   `json:"working_directory" yaml:"working_directory"`
	Kind             vcs.Kind `json:"kind" yaml:"kind"`
}

// TextLines confirms the removal.
func (result RemoveResult) TextLines() []string {
	return []string{fmt.Sprintf(removedTemplateConstant, result.WorkingDirectory)}
}

func newDetectResult(path string, handle vcs.Handle) DetectResult {
	if handle == nil {
		return DetectResult{Path: path}
	}
	return DetectResult{Path: path, Found: true, Kind: handle.Kind(), WorkingDirectory: handle.WorkingDirectory()}
}
