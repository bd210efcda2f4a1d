package vcs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Kind identifies a version control system backend.
type Kind string

// Supported backends.
const (
	KindGit       Kind = "git"
	KindMercurial Kind = "hg"
)

const (
	gitMetadataDirectoryNameConstant       = ".git"
	mercurialMetadataDirectoryNameConstant = ".hg"
)

// detectionOrder lists backends in the order Detector checks them.
var detectionOrder = []Kind{KindGit, KindMercurial}

// MetadataDirectoryName returns the directory a backend keeps inside a working tree.
func (kind Kind) MetadataDirectoryName() string {
	switch kind {
	case KindGit:
		return gitMetadataDirectoryNameConstant
	case KindMercurial:
		return mercurialMetadataDirectoryNameConstant
	default:
		return ""
	}
}

// String returns the backend identifier.
func (kind Kind) String() string {
	return string(kind)
}

// MetadataDirectoryNames lists the metadata directories of all known backends in detection order.
func MetadataDirectoryNames() []string {
	names := make([]string, 0, len(detectionOrder))
	for _, kind := range detectionOrder {
		names = append(names, kind.MetadataDirectoryName())
	}
	return names
}

// KindNames lists the identifiers of all known backends in detection order.
func KindNames() []string {
	names := make([]string, 0, len(detectionOrder))
	for _, kind := range detectionOrder {
		names = append(names, kind.String())
	}
	return names
}

// ParseKind converts a backend identifier such as "git" or "hg" into a Kind.
func ParseKind(value string) (Kind, error) {
	normalizedValue := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range detectionOrder {
		if normalizedValue == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf(unsupportedKindErrorTemplateConstant, value)
}

// NewCloner returns the Cloner for kind. Options apply to git clones only.
func NewCloner(kind Kind, logger *zap.Logger, gitExecutor GitExecutor, fileSystem FileSystem, options ...GitClonerOption) (Cloner, error) {
	switch kind {
	case KindGit:
		cloner, creationError := NewGitCloner(logger, gitExecutor, fileSystem, options...)
		if creationError != nil {
			return nil, creationError
		}
		return cloner, nil
	case KindMercurial:
		return MercurialCloner{}, nil
	default:
		return nil, fmt.Errorf(unsupportedKindErrorTemplateConstant, string(kind))
	}
}
