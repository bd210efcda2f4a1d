package vcs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"
)

const inspectMetadataErrorTemplateConstant = "unable to inspect %s: %w"

// Detector recognizes working copies by their metadata directory.
type Detector struct {
	gitExecutor GitExecutor
	fileSystem  FileSystem
}

// NewDetector constructs a Detector whose git handles run commands through gitExecutor.
func NewDetector(gitExecutor GitExecutor, fileSystem FileSystem) (*Detector, error) {
	if gitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Detector{gitExecutor: gitExecutor, fileSystem: fileSystem}, nil
}

// Detect checks path for a .git directory, then for a .hg directory, and
// returns a handle for the first one present. It returns a nil Handle and a
// nil error when path holds neither. Only the named directory itself is
// inspected, without walking up to parents or validating its contents.
func (detector *Detector) Detect(path string) (Handle, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return nil, ErrWorkingDirectoryRequired
	}

	for _, kind := range detectionOrder {
		metadataPath := filepath.Join(trimmedPath, kind.MetadataDirectoryName())
		metadataInfo, statError := detector.fileSystem.Stat(metadataPath)
		if statError != nil {
			if errors.Is(statError, fs.ErrNotExist) || errors.Is(statError, syscall.ENOTDIR) {
				continue
			}
			return nil, fmt.Errorf(inspectMetadataErrorTemplateConstant, metadataPath, statError)
		}
		if !metadataInfo.IsDir() {
			continue
		}
		return detector.handleFor(kind, trimmedPath)
	}
	return nil, nil
}

// Open returns a handle of the given kind without checking the metadata directory.
func (detector *Detector) Open(kind Kind, path string) (Handle, error) {
	return detector.handleFor(kind, path)
}

func (detector *Detector) handleFor(kind Kind, path string) (Handle, error) {
	switch kind {
	case KindGit:
		repository, creationError := NewGit(path, detector.gitExecutor, detector.fileSystem)
		if creationError != nil {
			return nil, creationError
		}
		return repository, nil
	case KindMercurial:
		repository, creationError := NewMercurial(path, detector.fileSystem)
		if creationError != nil {
			return nil, creationError
		}
		return repository, nil
	default:
		return nil, fmt.Errorf(unsupportedKindErrorTemplateConstant, string(kind))
	}
}
