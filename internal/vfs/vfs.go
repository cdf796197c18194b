// Package vfs provides the tree container abstraction the resolver walks.
// It wraps afero for local filesystem access and offers in-memory variants
// for deterministic, disk-free resolution.
package vfs

import (
	"path/filepath"
	"strings"

	"github.com/sourcepack/sourcepack/internal/registry"
)

// MetaXMLSuffix is the suffix that marks a file as a metadata descriptor.
const MetaXMLSuffix = "-meta.xml"

// TreeContainer is the read-only view of a directory tree that resolution
// runs against. Implementations must return child names in a stable order.
type TreeContainer interface {
	// Exists reports whether the path is known to the tree.
	Exists(path string) bool

	// IsDirectory reports whether the path is a directory.
	// It fails if the path is unknown to the tree.
	IsDirectory(path string) (bool, error)

	// ReadDirectory returns the immediate child names of a directory.
	ReadDirectory(path string) ([]string, error)

	// Walk returns a depth-first flattened list of non-directory descendant
	// paths of dir, excluding any path present in the ignore set.
	Walk(dir string, ignore map[string]struct{}) ([]string, error)

	// FindContent locates a file under dir whose name begins with fullName
	// and is not a metadata descriptor. Returns "" when there is no match.
	FindContent(dir string, fullName string) string

	// FindMetadataXML locates a file under dir whose name begins with
	// fullName and is a metadata descriptor. Returns "" when there is no match.
	FindMetadataXML(dir string, fullName string) string

	// FindXMLFromContentPath computes the type-rooted content path for a
	// content file belonging to the given type and locates the metadata
	// descriptor for that root's base name in its parent directory.
	FindXMLFromContentPath(contentPath string, t *registry.MetadataType) string
}

// IsMetadataXML reports whether a file name is a metadata descriptor.
func IsMetadataXML(name string) bool {
	return strings.HasSuffix(name, MetaXMLSuffix) && len(name) > len(MetaXMLSuffix)
}

// TrimMetaXML strips the descriptor suffix from a file name.
// "Foo.cls-meta.xml" becomes "Foo.cls".
func TrimMetaXML(name string) string {
	return strings.TrimSuffix(name, MetaXMLSuffix)
}

// BaseName returns the file name of path without its descriptor suffix and
// without its extension. "classes/Foo.cls-meta.xml" becomes "Foo".
func BaseName(path string) string {
	name := TrimMetaXML(filepath.Base(path))

	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}

	return name
}

// DescriptorSuffix extracts the embedded type suffix from a descriptor file
// name. "Foo.cls-meta.xml" yields "cls". The second return is false when the
// name is not a descriptor or carries no suffix.
func DescriptorSuffix(name string) (string, bool) {
	if !IsMetadataXML(name) {
		return "", false
	}

	trimmed := TrimMetaXML(name)

	ext := filepath.Ext(trimmed)
	if ext == "" {
		return "", false
	}

	return strings.TrimPrefix(ext, "."), true
}

// Suffix returns the raw file extension of path without the leading dot.
func Suffix(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// Segments splits a path into its slash-normalized segments.
func Segments(path string) []string {
	return strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
}

// TrimToContentRoot trims contentPath to the type's directory segment plus a
// fixed offset: two segments normally, three for folder-scoped types so the
// folder-name segment is skipped as well. Returns "" when the type directory
// does not appear in the path.
func TrimToContentRoot(contentPath string, t *registry.MetadataType) string {
	segments := Segments(contentPath)

	index := -1

	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == t.DirectoryName {
			index = i
			break
		}
	}

	if index < 0 {
		return ""
	}

	offset := 2
	if t.InFolder {
		offset = 3
	}

	if index+offset > len(segments) {
		offset = len(segments) - index
	}

	return filepath.FromSlash(strings.Join(segments[:index+offset], "/"))
}

// base carries the shared find and walk logic. Variants only implement the
// primitive operations; everything else is derived through the outer
// reference set by the variant constructor.
type base struct {
	outer TreeContainer
}

// Walk implements TreeContainer.
func (b *base) Walk(dir string, ignore map[string]struct{}) ([]string, error) {
	names, err := b.outer.ReadDirectory(dir)
	if err != nil {
		return nil, err
	}

	var results []string

	for _, name := range names {
		full := filepath.Join(dir, name)
		if _, denied := ignore[full]; denied {
			continue
		}

		isDir, err := b.outer.IsDirectory(full)
		if err != nil {
			return nil, err
		}

		if !isDir {
			results = append(results, full)
			continue
		}

		children, err := b.outer.Walk(full, ignore)
		if err != nil {
			return nil, err
		}

		results = append(results, children...)
	}

	return results, nil
}

// FindContent implements TreeContainer.
func (b *base) FindContent(dir string, fullName string) string {
	return b.find(dir, fullName, false)
}

// FindMetadataXML implements TreeContainer.
func (b *base) FindMetadataXML(dir string, fullName string) string {
	return b.find(dir, fullName, true)
}

// FindXMLFromContentPath implements TreeContainer.
func (b *base) FindXMLFromContentPath(contentPath string, t *registry.MetadataType) string {
	root := TrimToContentRoot(contentPath, t)
	if root == "" {
		return ""
	}

	return b.outer.FindMetadataXML(filepath.Dir(root), BaseName(root))
}

// find locates the first sibling under dir whose name begins with fullName
// and whose descriptor-ness matches wantMeta, in listing order.
func (b *base) find(dir string, fullName string, wantMeta bool) string {
	names, err := b.outer.ReadDirectory(dir)
	if err != nil {
		return ""
	}

	for _, name := range names {
		if name != fullName && !strings.HasPrefix(name, fullName+".") {
			continue
		}

		if IsMetadataXML(name) != wantMeta {
			continue
		}

		return filepath.Join(dir, name)
	}

	return ""
}
