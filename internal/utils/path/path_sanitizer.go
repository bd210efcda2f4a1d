package pathutils

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

const (
	currentDirectoryPathConstant   = "."
	windowsOperatingSystemConstant = "windows"
)

// PathSanitizerConfiguration controls how command line paths are normalized.
type PathSanitizerConfiguration struct {
	// DefaultToCurrentDirectory yields "." when no usable path remains.
	DefaultToCurrentDirectory bool
	// PruneNestedPaths drops paths located inside another provided path.
	PruneNestedPaths bool
}

// PathSanitizer normalizes working tree and search root arguments.
type PathSanitizer struct {
	homeExpander  *HomeExpander
	configuration PathSanitizerConfiguration
}

// NewPathSanitizer constructs a PathSanitizer; a nil expander uses the operating system home directory.
func NewPathSanitizer(homeExpander *HomeExpander, configuration PathSanitizerConfiguration) *PathSanitizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &PathSanitizer{homeExpander: homeExpander, configuration: configuration}
}

// Sanitize trims whitespace, expands home shortcuts, and drops empty entries.
func (sanitizer *PathSanitizer) Sanitize(candidatePaths []string) []string {
	if sanitizer == nil {
		sanitizer = NewPathSanitizer(nil, PathSanitizerConfiguration{})
	}

	sanitizedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePath)
		if len(trimmedCandidate) == 0 {
			continue
		}
		sanitizedPaths = append(sanitizedPaths, sanitizer.homeExpander.Expand(trimmedCandidate))
	}

	if len(sanitizedPaths) == 0 {
		if sanitizer.configuration.DefaultToCurrentDirectory {
			return []string{currentDirectoryPathConstant}
		}
		return nil
	}

	if sanitizer.configuration.PruneNestedPaths {
		return pruneNestedPaths(sanitizedPaths)
	}
	return sanitizedPaths
}

// SanitizeSingle normalizes one optional path argument.
func (sanitizer *PathSanitizer) SanitizeSingle(candidatePath string) string {
	sanitizedPaths := sanitizer.Sanitize([]string{candidatePath})
	if len(sanitizedPaths) == 0 {
		return ""
	}
	return sanitizedPaths[0]
}

type comparablePath struct {
	position   int
	value      string
	comparison string
}

func pruneNestedPaths(candidatePaths []string) []string {
	orderedPaths := make([]comparablePath, 0, len(candidatePaths))
	for position, candidatePath := range candidatePaths {
		orderedPaths = append(orderedPaths, comparablePath{
			position:   position,
			value:      candidatePath,
			comparison: comparisonForm(candidatePath),
		})
	}

	sort.SliceStable(orderedPaths, func(first int, second int) bool {
		return len(orderedPaths[first].comparison) < len(orderedPaths[second].comparison)
	})

	retainedPaths := make([]comparablePath, 0, len(orderedPaths))
	for _, candidate := range orderedPaths {
		covered := false
		for _, retained := range retainedPaths {
			if containsPath(retained.comparison, candidate.comparison) {
				covered = true
				break
			}
		}
		if !covered {
			retainedPaths = append(retainedPaths, candidate)
		}
	}

	sort.SliceStable(retainedPaths, func(first int, second int) bool {
		return retainedPaths[first].position < retainedPaths[second].position
	})

	prunedPaths := make([]string, 0, len(retainedPaths))
	for _, retained := range retainedPaths {
		prunedPaths = append(prunedPaths, retained.value)
	}
	return prunedPaths
}

func comparisonForm(candidatePath string) string {
	comparison := filepath.Clean(candidatePath)
	if absolutePath, absoluteError := filepath.Abs(comparison); absoluteError == nil {
		comparison = absolutePath
	}
	if runtime.GOOS == windowsOperatingSystemConstant {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}

func containsPath(parentPath string, candidatePath string) bool {
	if candidatePath == parentPath {
		return true
	}
	if !strings.HasPrefix(candidatePath, parentPath) {
		return false
	}
	if strings.HasSuffix(parentPath, string(os.PathSeparator)) {
		return true
	}
	return candidatePath[len(parentPath)] == os.PathSeparator
}
