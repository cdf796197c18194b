// Package collections provides the component set: the aggregate view over
// resolved and manifest-declared components used for packaging and manifest
// round-tripping.
package collections

import (
	"github.com/sourcepack/sourcepack/internal/component"
	"github.com/sourcepack/sourcepack/internal/errors"
	"github.com/sourcepack/sourcepack/internal/manifest"
	"github.com/sourcepack/sourcepack/internal/registry"
	"github.com/sourcepack/sourcepack/internal/resolver"
	"github.com/sourcepack/sourcepack/internal/vfs"
	"github.com/sourcepack/sourcepack/pkg/log"
)

// Set aggregates components under normalized (type, fullName) keys. An entry
// may hold zero concrete source components, meaning the member is referenced
// abstractly, e.g. from a manifest with no backing files yet.
//
// Size counts keys while full iteration yields one item per concrete source
// component when any exist, so the two can diverge for a member with several
// source representations. Consumers must not assume they agree.
//
// A Set is mutated only through its add methods by a single owning caller;
// once shared it is read-only and safe for concurrent readers.
type Set struct {
	reg        *registry.Registry
	apiVersion string

	order   []string
	entries map[string]*entry

	wildcardTypes map[string]struct{}
}

type entry struct {
	member  component.Component
	sources []*component.SourceComponent
	seen    map[string]struct{}
}

// NewSet creates an empty set bound to the registry's API version.
func NewSet(reg *registry.Registry) *Set {
	return &Set{
		reg:           reg,
		apiVersion:    reg.APIVersion(),
		entries:       make(map[string]*entry),
		wildcardTypes: make(map[string]struct{}),
	}
}

// FromManifest builds a set of abstract members from a manifest document.
// A wildcard member is preserved literally unless resolveWildcards is set, in
// which case it is dropped from direct membership and only participates in
// filter semantics.
func FromManifest(reg *registry.Registry, data []byte, resolveWildcards bool) (*Set, error) {
	pkg, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}

	s := NewSet(reg)
	if pkg.Version != "" {
		s.apiVersion = pkg.Version
	}

	for _, block := range pkg.Types {
		t, err := reg.TypeByName(block.Name)
		if err != nil {
			return nil, err
		}

		for _, name := range block.Members {
			if name == manifest.Wildcard && resolveWildcards {
				s.wildcardTypes[t.ID] = struct{}{}
				continue
			}

			s.Add(component.NewMember(t, name))
		}
	}

	return s, nil
}

// WithAPIVersion overrides the version stamped on serialized manifests.
func (s *Set) WithAPIVersion(version string) *Set {
	s.apiVersion = version
	return s
}

// APIVersion returns the version stamped on serialized manifests.
func (s *Set) APIVersion() string {
	return s.apiVersion
}

// Add upserts a component. Source-backed components are also recorded under
// their full identity tuple; abstract members only create or confirm the key.
func (s *Set) Add(c component.Component) {
	e, ok := s.entries[c.Key()]
	if !ok {
		e = &entry{member: component.NewMember(c.Type(), c.FullName()), seen: make(map[string]struct{})}
		s.entries[c.Key()] = e
		s.order = append(s.order, c.Key())
	}

	sc, ok := c.(*component.SourceComponent)
	if !ok {
		return
	}

	if _, dup := e.seen[sc.SourceKey()]; dup {
		return
	}

	e.seen[sc.SourceKey()] = struct{}{}
	e.sources = append(e.sources, sc)
}

// Has reports key membership only: source identity is ignored, which is what
// makes wildcard and parent-containment checks possible.
func (s *Set) Has(c component.Component) bool {
	_, ok := s.entries[c.Key()]
	return ok
}

// HasWildcardFor reports whether the set carries a wildcard member for the type.
func (s *Set) HasWildcardFor(t *registry.MetadataType) bool {
	if _, ok := s.wildcardTypes[t.ID]; ok {
		return true
	}

	_, ok := s.entries[component.KeyFor(t, component.WildcardMember)]

	return ok
}

// Size counts distinct (type, fullName) keys, regardless of how many source
// representations share a key.
func (s *Set) Size() int {
	return len(s.entries)
}

// All yields, per key, every concrete source component if any exist, else the
// abstract member for that key. Its length can exceed Size.
func (s *Set) All() []component.Component {
	var out []component.Component

	for _, key := range s.order {
		e := s.entries[key]

		if len(e.sources) == 0 {
			out = append(out, e.member)
			continue
		}

		for _, sc := range e.sources {
			out = append(out, sc)
		}
	}

	return out
}

// SourceComponents yields every source-backed component across the set.
func (s *Set) SourceComponents() []*component.SourceComponent {
	var out []*component.SourceComponent

	for _, key := range s.order {
		out = append(out, s.entries[key].sources...)
	}

	return out
}

// SourceComponentsFor yields the source components addressing the given
// member. When the member's type has a registered parent type, children of
// stored parent components are searched first, so a child can be addressed
// even when only its parent was resolved.
func (s *Set) SourceComponentsFor(member component.Component) []*component.SourceComponent {
	var out []*component.SourceComponent

	if parent := s.reg.ParentType(member.Type()); parent != nil {
		for _, key := range s.order {
			e := s.entries[key]
			if e.member.Type().ID != parent.ID {
				continue
			}

			for _, sc := range e.sources {
				for _, child := range sc.Children() {
					if child.FullName() == member.FullName() {
						out = append(out, child)
					}
				}
			}
		}
	}

	if e, ok := s.entries[member.Key()]; ok {
		out = append(out, e.sources...)
	}

	return out
}

// Object groups all keys by resolved type name, substituting a folder
// container's content type where applicable, in first-seen order.
func (s *Set) Object() *manifest.Package {
	pkg := &manifest.Package{Version: s.apiVersion}

	index := make(map[string]int)

	for _, key := range s.order {
		e := s.entries[key]

		t := e.member.Type()
		if t.IsFolderType() {
			if content, ok := s.reg.TypeByID(t.FolderContentType); ok {
				t = content
			}
		}

		i, ok := index[t.Name]
		if !ok {
			i = len(pkg.Types)
			index[t.Name] = i

			pkg.Types = append(pkg.Types, manifest.TypeMembers{Name: t.Name})
		}

		pkg.Types[i].Members = append(pkg.Types[i].Members, e.member.FullName())
	}

	return pkg
}

// PackageXML serializes the set as a package manifest.
func (s *Set) PackageXML() ([]byte, error) {
	return s.Object().Marshal()
}

// ResolveOptions configures a filtered resolution pass.
type ResolveOptions struct {
	// Tree is the container to resolve against.
	Tree vfs.TreeContainer

	// Filter restricts which resolved components are added. Nil adds all.
	Filter *Set

	// Logger is used for trace output. Nil falls back to the default logger.
	Logger log.Logger
}

// ResolveSourceComponents runs the resolver over path and adds the results.
//
// With a filter, a component is added when the filter contains it exactly,
// contains a wildcard for its type, or contains its parent exactly or via
// wildcard. A component failing all three has each of its children tested
// individually against the same conditions instead.
//
// The returned slice holds the components actually added during this call,
// for collaborators that need to know what was newly pulled in.
func (s *Set) ResolveSourceComponents(path string, opts ResolveOptions) ([]*component.SourceComponent, error) {
	if opts.Tree == nil {
		return nil, errors.Errorf("no tree container to resolve %q against", path)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	res := resolver.New(s.reg, opts.Tree, resolver.WithLogger(logger))

	components, err := res.GetComponentsFromPath(path)
	if err != nil {
		return nil, err
	}

	var added []*component.SourceComponent

	for _, c := range components {
		if opts.Filter == nil || opts.Filter.accepts(c) {
			s.Add(c)
			added = append(added, c)

			continue
		}

		for _, child := range c.Children() {
			if opts.Filter.accepts(child) {
				s.Add(child)
				added = append(added, child)
			}
		}
	}

	return added, nil
}

// accepts applies the three-way filter test.
func (s *Set) accepts(c *component.SourceComponent) bool {
	if s.Has(c) || s.HasWildcardFor(c.Type()) {
		return true
	}

	if parent := c.Parent(); parent != nil {
		return s.Has(parent) || s.HasWildcardFor(parent.Type())
	}

	return false
}
