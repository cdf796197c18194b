package component

import (
	"path/filepath"
	"strings"

	"github.com/sourcepack/sourcepack/internal/registry"
	"github.com/sourcepack/sourcepack/internal/vfs"
)

// SourceComponent is a resolved component: identity plus the descriptor and
// content paths backing it, and the tree they were resolved against.
//
// The tree reference is shared and read-only; a SourceComponent never
// mutates it. Children are computed on demand and cached for the lifetime of
// the component, which is sound because the backing tree does not mutate
// during one resolution pass.
type SourceComponent struct {
	reg      *registry.Registry
	typ      *registry.MetadataType
	fullName string

	xmlPath     string
	contentPath string

	tree   vfs.TreeContainer
	parent *SourceComponent

	children       []*SourceComponent
	childrenLoaded bool
}

// NewSourceComponent constructs a resolved component. Either of xmlPath or
// contentPath may be empty when the corresponding file could not be located.
func NewSourceComponent(reg *registry.Registry, t *registry.MetadataType, fullName, xmlPath, contentPath string, tree vfs.TreeContainer) *SourceComponent {
	return &SourceComponent{
		reg:         reg,
		typ:         t,
		fullName:    fullName,
		xmlPath:     xmlPath,
		contentPath: contentPath,
		tree:        tree,
	}
}

// FullName implements Component.
func (c *SourceComponent) FullName() string {
	return c.fullName
}

// Type implements Component.
func (c *SourceComponent) Type() *registry.MetadataType {
	return c.typ
}

// Key implements Component.
func (c *SourceComponent) Key() string {
	return KeyFor(c.typ, c.fullName)
}

// SourceKey is the full identity tuple used for deduplication: two components
// with the same logical name but different concrete paths are distinct.
func (c *SourceComponent) SourceKey() string {
	return strings.Join([]string{c.typ.ID, c.fullName, c.xmlPath, c.contentPath}, "#")
}

// XMLPath returns the path of the metadata descriptor, or "".
func (c *SourceComponent) XMLPath() string {
	return c.xmlPath
}

// ContentPath returns the path of the content file or directory, or "".
func (c *SourceComponent) ContentPath() string {
	return c.contentPath
}

// Tree returns the tree container the component was resolved against.
func (c *SourceComponent) Tree() vfs.TreeContainer {
	return c.tree
}

// Parent returns the owning component for composed/decomposed children, or nil.
func (c *SourceComponent) Parent() *SourceComponent {
	return c.parent
}

// SetParent records the owning component. The reference is used only for
// lookup, never for traversal back down, so no cycle forms.
func (c *SourceComponent) SetParent(parent *SourceComponent) {
	c.parent = parent
}

// Children constructs one child component per file under the content root
// matching a declared child type. The result is memoized.
func (c *SourceComponent) Children() []*SourceComponent {
	if c.childrenLoaded {
		return c.children
	}

	c.children = c.loadChildren()
	c.childrenLoaded = true

	return c.children
}

func (c *SourceComponent) loadChildren() []*SourceComponent {
	if len(c.typ.Children) == 0 || c.contentPath == "" || c.tree == nil {
		return nil
	}

	if isDir, err := c.tree.IsDirectory(c.contentPath); err != nil || !isDir {
		return nil
	}

	files, err := c.tree.Walk(c.contentPath, nil)
	if err != nil {
		return nil
	}

	var children []*SourceComponent

	for _, file := range files {
		if file == c.xmlPath {
			continue
		}

		childType, ok := c.childTypeFor(filepath.Base(file))
		if !ok {
			continue
		}

		name := c.fullName + "." + vfs.BaseName(file)

		var xml, content string
		if vfs.IsMetadataXML(filepath.Base(file)) {
			xml = file
		} else {
			content = file
		}

		child := NewSourceComponent(c.reg, childType, name, xml, content, c.tree)
		child.SetParent(c)

		children = append(children, child)
	}

	return children
}

// childTypeFor matches a file name against the declared child types by
// descriptor suffix first, raw extension second.
func (c *SourceComponent) childTypeFor(name string) (*registry.MetadataType, bool) {
	if suffix, ok := vfs.DescriptorSuffix(name); ok {
		if child, ok := c.reg.ChildTypeBySuffix(c.typ, suffix); ok {
			return child, true
		}
	}

	if suffix := vfs.Suffix(name); suffix != "" {
		if child, ok := c.reg.ChildTypeBySuffix(c.typ, suffix); ok {
			return child, true
		}
	}

	return nil, false
}
