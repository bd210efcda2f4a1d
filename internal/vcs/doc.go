// Package vcs abstracts the version control operations a package manager needs:
// cloning a remote, checking working tree cleanliness, staging and committing
// files, creating and listing tags, and removing a working tree.
//
// Git is fully supported by shelling out to the git executable. Mercurial is
// recognized by Detector but every operation on it fails with ErrUnimplemented.
package vcs
