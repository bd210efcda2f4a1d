package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/temirov/pkgvcs/internal/vcs"
)

// FilesystemRepositoryDiscoverer locates working copies on disk by their metadata directories.
type FilesystemRepositoryDiscoverer struct {
	metadataDirectoryNames map[string]struct{}
}

// NewFilesystemRepositoryDiscoverer constructs a discoverer backed by filepath.WalkDir.
// Without explicit names it recognizes the metadata directories of every known vcs.Kind.
func NewFilesystemRepositoryDiscoverer(metadataDirectoryNames ...string) *FilesystemRepositoryDiscoverer {
	if len(metadataDirectoryNames) == 0 {
		metadataDirectoryNames = vcs.MetadataDirectoryNames()
	}
	recognizedNames := make(map[string]struct{}, len(metadataDirectoryNames))
	for _, metadataDirectoryName := range metadataDirectoryNames {
		recognizedNames[metadataDirectoryName] = struct{}{}
	}
	return &FilesystemRepositoryDiscoverer{metadataDirectoryNames: recognizedNames}
}

// DiscoverRepositories walks the provided roots and returns directories containing a recognized metadata directory.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var repositories []string

	for _, root := range roots {
		walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return nil
			}

			if !directoryEntry.IsDir() {
				return nil
			}
			if _, recognized := discoverer.metadataDirectoryNames[directoryEntry.Name()]; !recognized {
				return nil
			}

			repositoryPath := filepath.Dir(path)
			if _, alreadySeen := seen[repositoryPath]; !alreadySeen {
				seen[repositoryPath] = struct{}{}
				repositories = append(repositories, repositoryPath)
			}
			return fs.SkipDir
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(repositories)
	return repositories, nil
}
