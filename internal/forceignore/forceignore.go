// Package forceignore implements the gitignore-style path exclusion policy
// applied during resolution. An ignore file scopes the subtree rooted at its
// own directory; resolution binds one instance per top-level call.
package forceignore

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/sourcepack/sourcepack/internal/vfs"
)

// FileName is the name of the ignore-rule file searched for during binding.
const FileName = ".forceignore"

// ForceIgnore answers whether a path is excluded from resolution.
// The zero value denies nothing.
type ForceIgnore struct {
	matcher *ignore.GitIgnore
	dir     string
}

// FindFor walks upward from seed until an ignore-rule file is found or the
// tree root is reached. Trees that cannot serve file contents yield a
// ForceIgnore that denies nothing.
func FindFor(seed string, tree vfs.TreeContainer) *ForceIgnore {
	reader, ok := tree.(vfs.ContentReader)
	if !ok {
		return &ForceIgnore{}
	}

	dir := filepath.Clean(seed)

	// A file seed starts the search at its parent directory.
	if isDir, err := tree.IsDirectory(dir); err == nil && !isDir {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if tree.Exists(candidate) {
			data, err := reader.ReadFile(candidate)
			if err != nil {
				return &ForceIgnore{}
			}

			return &ForceIgnore{
				matcher: ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...),
				dir:     dir,
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &ForceIgnore{}
		}

		dir = parent
	}
}

// Denies reports whether the path is excluded by the bound ignore rules.
// Paths outside the ignore file's subtree are never denied.
func (fi *ForceIgnore) Denies(path string) bool {
	if fi == nil || fi.matcher == nil {
		return false
	}

	rel, err := filepath.Rel(fi.dir, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}

	return fi.matcher.MatchesPath(filepath.ToSlash(rel))
}
