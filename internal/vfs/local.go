package vfs

import (
	"sort"

	"github.com/spf13/afero"

	"github.com/sourcepack/sourcepack/internal/errors"
)

// ContentReader is implemented by tree containers that can read file
// contents. Ignore-rule loading relies on it; trees without contents simply
// never deny anything.
type ContentReader interface {
	ReadFile(path string) ([]byte, error)
}

// LocalTree is a TreeContainer over an afero filesystem. Production use binds
// the operating system filesystem; tests bind an in-memory one.
type LocalTree struct {
	base
	fs afero.Fs
}

// NewLocalTree returns a tree container over the real filesystem.
func NewLocalTree() *LocalTree {
	return NewLocalTreeFromFs(afero.NewOsFs())
}

// NewLocalTreeFromFs returns a tree container over the given filesystem.
func NewLocalTreeFromFs(fs afero.Fs) *LocalTree {
	tree := &LocalTree{fs: fs}
	tree.base.outer = tree

	return tree
}

// Exists implements TreeContainer.
func (tree *LocalTree) Exists(path string) bool {
	_, err := tree.fs.Stat(path)
	return err == nil
}

// IsDirectory implements TreeContainer.
func (tree *LocalTree) IsDirectory(path string) (bool, error) {
	info, err := tree.fs.Stat(path)
	if err != nil {
		return false, errors.WithStackTraceAndPrefix(err, "could not stat %q", path)
	}

	return info.IsDir(), nil
}

// ReadDirectory implements TreeContainer.
func (tree *LocalTree) ReadDirectory(path string) ([]string, error) {
	infos, err := afero.ReadDir(tree.fs, path)
	if err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "could not read directory %q", path)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}

	sort.Strings(names)

	return names, nil
}

// ReadFile implements ContentReader.
func (tree *LocalTree) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(tree.fs, path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	return data, nil
}
