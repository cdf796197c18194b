package resolver

import (
	"path/filepath"
	"strings"

	"github.com/sourcepack/sourcepack/internal/component"
	"github.com/sourcepack/sourcepack/internal/registry"
	"github.com/sourcepack/sourcepack/internal/vfs"
)

// sourceAdapter constructs a concrete component for an inferred type and a
// path. Adapters are pure constructors over their inputs; they never mutate
// shared state. A nil component with a nil error means the path carried no
// resolvable component, e.g. a content-only probe with no descriptor.
type sourceAdapter interface {
	GetComponent(path string) (*component.SourceComponent, error)
}

// newAdapter selects the adapter variant registered for the type. The
// variant set is closed; unregistered variants fall back to the default.
func newAdapter(reg *registry.Registry, tree vfs.TreeContainer, t *registry.MetadataType) sourceAdapter {
	base := adapterBase{reg: reg, tree: tree, typ: t}

	switch t.Adapter {
	case registry.AdapterMatchingContentFile:
		return &matchingContentFileAdapter{adapterBase: base}
	case registry.AdapterMixedContent:
		return &mixedContentAdapter{adapterBase: base}
	case registry.AdapterBundle:
		return &bundleAdapter{adapterBase: base}
	case registry.AdapterInFolder:
		return &inFolderAdapter{adapterBase: base}
	default:
		return &defaultAdapter{adapterBase: base}
	}
}

type adapterBase struct {
	reg  *registry.Registry
	tree vfs.TreeContainer
	typ  *registry.MetadataType
}

// newComponent builds the component with the full name derived from the
// descriptor base name, prefixed with the folder segment for folder-scoped
// types.
func (a adapterBase) newComponent(samplePath, name, xmlPath, contentPath string) *component.SourceComponent {
	fullName := name

	if a.typ.InFolder {
		if folder := a.folderSegment(samplePath); folder != "" {
			fullName = folder + "/" + name
		}
	}

	return component.NewSourceComponent(a.reg, a.typ, fullName, xmlPath, contentPath, a.tree)
}

// folderSegment returns the folder-container name for a path under a
// folder-scoped type directory, or "" when the path sits directly in it.
func (a adapterBase) folderSegment(path string) string {
	segments := vfs.Segments(path)

	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != a.typ.DirectoryName {
			continue
		}

		if i+2 < len(segments) {
			return segments[i+1]
		}

		return ""
	}

	return ""
}

// defaultAdapter handles a single descriptor with an optional sibling
// content file. The given path may be either of the two.
type defaultAdapter struct {
	adapterBase
}

func (a *defaultAdapter) GetComponent(path string) (*component.SourceComponent, error) {
	name := vfs.BaseName(path)
	dir := filepath.Dir(path)

	if vfs.IsMetadataXML(filepath.Base(path)) {
		content := a.tree.FindContent(dir, name)
		return a.newComponent(path, name, path, content), nil
	}

	xml := a.tree.FindMetadataXML(dir, name)
	if xml == "" {
		return nil, nil
	}

	return a.newComponent(path, name, xml, path), nil
}

// matchingContentFileAdapter handles types whose content is a single file
// with the descriptor's base name and the type's own suffix.
type matchingContentFileAdapter struct {
	adapterBase
}

func (a *matchingContentFileAdapter) GetComponent(path string) (*component.SourceComponent, error) {
	name := vfs.BaseName(path)

	if vfs.IsMetadataXML(filepath.Base(path)) {
		content := vfs.TrimMetaXML(path)
		if !a.tree.Exists(content) {
			content = ""
		}

		return a.newComponent(path, name, path, content), nil
	}

	if vfs.Suffix(path) != a.typ.Suffix {
		return nil, nil
	}

	xml := path + vfs.MetaXMLSuffix
	if !a.tree.Exists(xml) {
		return nil, nil
	}

	return a.newComponent(path, name, xml, path), nil
}

// mixedContentAdapter handles types whose content may be a directory or a
// file of arbitrary suffix. When the content is a directory, everything under
// it belongs to the same component.
type mixedContentAdapter struct {
	adapterBase
}

func (a *mixedContentAdapter) GetComponent(path string) (*component.SourceComponent, error) {
	if vfs.IsMetadataXML(filepath.Base(path)) {
		name := vfs.BaseName(path)
		content := a.tree.FindContent(filepath.Dir(path), name)

		return a.newComponent(path, name, path, content), nil
	}

	xml := a.tree.FindXMLFromContentPath(path, a.typ)
	if xml == "" {
		return nil, nil
	}

	content := vfs.TrimToContentRoot(path, a.typ)

	return a.newComponent(xml, vfs.BaseName(xml), xml, content), nil
}

// bundleAdapter handles components composed of multiple descriptor fragments
// under one content root. Children are built lazily by the component itself.
type bundleAdapter struct {
	adapterBase
}

func (a *bundleAdapter) GetComponent(path string) (*component.SourceComponent, error) {
	root := vfs.TrimToContentRoot(path, a.typ)
	if root == "" {
		// The path does not pass through the type directory; treat it as a
		// stand-alone descriptor or content root.
		root = path
	}

	if vfs.IsMetadataXML(filepath.Base(root)) {
		return a.newComponent(root, vfs.BaseName(root), root, ""), nil
	}

	name := strings.TrimSuffix(filepath.Base(root), filepath.Ext(filepath.Base(root)))

	xml := a.tree.FindMetadataXML(root, name)

	return a.newComponent(root, name, xml, root), nil
}

// inFolderAdapter handles content living directly under a folder named for
// the type. Folder-level descriptors carry the registered folder type's
// suffix and are resolved by the default adapter instead.
type inFolderAdapter struct {
	adapterBase
}

func (a *inFolderAdapter) GetComponent(path string) (*component.SourceComponent, error) {
	name := vfs.BaseName(path)
	dir := filepath.Dir(path)

	if vfs.IsMetadataXML(filepath.Base(path)) {
		content := a.tree.FindContent(dir, name)
		return a.newComponent(path, name, path, content), nil
	}

	xml := a.tree.FindMetadataXML(dir, name)
	if xml == "" {
		return nil, nil
	}

	return a.newComponent(path, name, xml, path), nil
}
