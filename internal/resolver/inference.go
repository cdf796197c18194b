package resolver

import (
	"path/filepath"

	"github.com/sourcepack/sourcepack/internal/registry"
	"github.com/sourcepack/sourcepack/internal/vfs"
)

// determineType infers the metadata type of a path. Three ordered strategies,
// first match wins:
//
//  1. a path segment equals a registered mixed-content directory name;
//  2. the path is a metadata descriptor and its embedded suffix is registered;
//  3. the path's raw extension is registered.
//
// The mixed-content match is skipped when the type is folder-scoped and the
// path's immediate parent is exactly the type directory: that shape is a
// folder component, not a content component, and must fall through to the
// suffix strategies.
//
// A suffix match for a type with StrictDirectoryName only stands when the
// type's declared directory appears somewhere in the path.
func determineType(reg *registry.Registry, path string) (*registry.MetadataType, bool) {
	segments := vfs.Segments(path)

	for i, segment := range segments {
		t, ok := reg.TypeByDirectoryName(segment)
		if !ok {
			continue
		}

		if t.InFolder && i == len(segments)-2 {
			continue
		}

		return t, true
	}

	name := filepath.Base(path)

	if suffix, ok := vfs.DescriptorSuffix(name); ok {
		if t, ok := reg.TypeBySuffix(suffix); ok && inDeclaredDirectory(t, segments) {
			return t, true
		}
	}

	if suffix := vfs.Suffix(name); suffix != "" {
		if t, ok := reg.TypeBySuffix(suffix); ok && inDeclaredDirectory(t, segments) {
			return t, true
		}
	}

	return nil, false
}

// inDeclaredDirectory reports whether a suffix match may stand. Types with
// StrictDirectoryName require their declared directory as a path segment;
// all other types infer from the suffix alone.
func inDeclaredDirectory(t *registry.MetadataType, segments []string) bool {
	if !t.StrictDirectoryName {
		return true
	}

	for _, segment := range segments {
		if segment == t.DirectoryName {
			return true
		}
	}

	return false
}
