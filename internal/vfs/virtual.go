package vfs

import (
	"path/filepath"
	"strings"

	"github.com/sourcepack/sourcepack/internal/errors"
)

// VirtualDirectory is one record of a virtual tree: a directory path and its
// immediate child names. A child name ending in "/" is a directory even when
// no record of its own exists.
type VirtualDirectory struct {
	Path     string
	Children []string
}

// VirtualTree is an in-memory TreeContainer built from explicit directory
// records. It is used for deterministic, disk-free resolution, including
// simulating non-local sources.
type VirtualTree struct {
	base
	children map[string][]string
	files    map[string]struct{}
	data     map[string][]byte
}

// NewVirtualTree builds a virtual tree from directory records.
func NewVirtualTree(dirs []VirtualDirectory) *VirtualTree {
	tree := &VirtualTree{
		children: make(map[string][]string),
		files:    make(map[string]struct{}),
		data:     make(map[string][]byte),
	}
	tree.base.outer = tree

	// First pass registers every directory so the second pass can tell file
	// children apart from directory children.
	for _, dir := range dirs {
		cleaned := filepath.Clean(dir.Path)
		if _, ok := tree.children[cleaned]; !ok {
			tree.children[cleaned] = nil
		}

		for _, child := range dir.Children {
			if strings.HasSuffix(child, "/") {
				full := filepath.Join(cleaned, strings.TrimSuffix(child, "/"))
				if _, ok := tree.children[full]; !ok {
					tree.children[full] = nil
				}
			}
		}
	}

	for _, dir := range dirs {
		cleaned := filepath.Clean(dir.Path)

		for _, child := range dir.Children {
			name := strings.TrimSuffix(child, "/")
			full := filepath.Join(cleaned, name)

			tree.children[cleaned] = append(tree.children[cleaned], name)

			if _, isDir := tree.children[full]; !isDir {
				tree.files[full] = struct{}{}
			}
		}
	}

	return tree
}

// WithFileData attaches contents to a file path so ignore-rule files can be
// loaded from the virtual tree.
func (tree *VirtualTree) WithFileData(path string, data []byte) *VirtualTree {
	tree.data[filepath.Clean(path)] = data
	return tree
}

// Exists implements TreeContainer.
func (tree *VirtualTree) Exists(path string) bool {
	cleaned := filepath.Clean(path)

	if _, ok := tree.children[cleaned]; ok {
		return true
	}

	_, ok := tree.files[cleaned]

	return ok
}

// IsDirectory implements TreeContainer.
func (tree *VirtualTree) IsDirectory(path string) (bool, error) {
	cleaned := filepath.Clean(path)

	if _, ok := tree.children[cleaned]; ok {
		return true, nil
	}

	if _, ok := tree.files[cleaned]; ok {
		return false, nil
	}

	return false, errors.Errorf("path %q is not present in the virtual tree", path)
}

// ReadDirectory implements TreeContainer.
func (tree *VirtualTree) ReadDirectory(path string) ([]string, error) {
	names, ok := tree.children[filepath.Clean(path)]
	if !ok {
		return nil, errors.Errorf("directory %q is not present in the virtual tree", path)
	}

	return names, nil
}

// ReadFile implements ContentReader.
func (tree *VirtualTree) ReadFile(path string) ([]byte, error) {
	data, ok := tree.data[filepath.Clean(path)]
	if !ok {
		return nil, errors.Errorf("no contents registered for %q", path)
	}

	return data, nil
}
