package vfs

import (
	"path/filepath"

	"github.com/sourcepack/sourcepack/internal/errors"
)

// RemoteTree is a TreeContainer over a flat listing of repository file paths
// fetched once from a non-local source. Every listed path is a file; their
// ancestors are directories.
type RemoteTree struct {
	base
	children map[string][]string
	files    map[string]struct{}
}

// NewRemoteTree indexes a flat file listing into parent/child sets.
func NewRemoteTree(paths []string) *RemoteTree {
	tree := &RemoteTree{
		children: make(map[string][]string),
		files:    make(map[string]struct{}),
	}
	tree.base.outer = tree

	seen := make(map[string]struct{})

	for _, p := range paths {
		cleaned := filepath.Clean(p)
		tree.files[cleaned] = struct{}{}

		// Register the file and each ancestor directory under its parent,
		// preserving first-seen listing order.
		child := cleaned

		for {
			parent := filepath.Dir(child)
			if parent == child {
				break
			}

			if _, ok := seen[child]; !ok {
				seen[child] = struct{}{}
				tree.children[parent] = append(tree.children[parent], filepath.Base(child))
			}

			// Ancestors of a listed file are directories.
			if child != cleaned {
				if _, ok := tree.children[child]; !ok {
					tree.children[child] = nil
				}
			}

			child = parent
		}
	}

	return tree
}

// Exists implements TreeContainer.
func (tree *RemoteTree) Exists(path string) bool {
	cleaned := filepath.Clean(path)

	if _, ok := tree.files[cleaned]; ok {
		return true
	}

	_, ok := tree.children[cleaned]

	return ok
}

// IsDirectory implements TreeContainer.
func (tree *RemoteTree) IsDirectory(path string) (bool, error) {
	cleaned := filepath.Clean(path)

	if _, ok := tree.files[cleaned]; ok {
		return false, nil
	}

	if _, ok := tree.children[cleaned]; ok {
		return true, nil
	}

	return false, errors.Errorf("path %q is not present in the remote listing", path)
}

// ReadDirectory implements TreeContainer.
func (tree *RemoteTree) ReadDirectory(path string) ([]string, error) {
	names, ok := tree.children[filepath.Clean(path)]
	if !ok {
		return nil, errors.Errorf("directory %q is not present in the remote listing", path)
	}

	return names, nil
}
