// Package releases records a package release in a working copy: it stages the
// release files, commits them with a templated message and tags the commit.
package releases
