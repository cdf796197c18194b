package collections_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcepack/sourcepack/internal/collections"
	"github.com/sourcepack/sourcepack/internal/component"
	"github.com/sourcepack/sourcepack/internal/registry"
	"github.com/sourcepack/sourcepack/internal/vfs"
)

func mustType(t *testing.T, reg *registry.Registry, id string) *registry.MetadataType {
	t.Helper()

	typ, ok := reg.TypeByID(id)
	require.True(t, ok)

	return typ
}

func TestAddAndHas(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	apex := mustType(t, reg, "apexclass")

	set := collections.NewSet(reg)

	set.Add(component.NewMember(apex, "Foo"))
	set.Add(component.NewMember(apex, "Foo"))
	set.Add(component.NewMember(apex, "Bar"))

	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Has(component.NewMember(apex, "Foo")))
	assert.False(t, set.Has(component.NewMember(apex, "Baz")))

	all := set.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Foo", all[0].FullName())
	assert.Equal(t, "Bar", all[1].FullName())
}

func TestSizeAndIterationDiverge(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	apex := mustType(t, reg, "apexclass")

	set := collections.NewSet(reg)

	// Two concrete representations of the same logical component.
	set.Add(component.NewSourceComponent(reg, apex, "Foo", "a/classes/Foo.cls-meta.xml", "a/classes/Foo.cls", nil))
	set.Add(component.NewSourceComponent(reg, apex, "Foo", "b/classes/Foo.cls-meta.xml", "b/classes/Foo.cls", nil))

	// The same representation twice is deduplicated.
	set.Add(component.NewSourceComponent(reg, apex, "Foo", "a/classes/Foo.cls-meta.xml", "a/classes/Foo.cls", nil))

	assert.Equal(t, 1, set.Size())
	assert.Len(t, set.All(), 2)
	assert.Len(t, set.SourceComponents(), 2)
}

func TestAbstractMembersIterate(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	apex := mustType(t, reg, "apexclass")

	set := collections.NewSet(reg)
	set.Add(component.NewMember(apex, "Foo"))

	all := set.All()
	require.Len(t, all, 1)

	_, isSource := all[0].(*component.SourceComponent)
	assert.False(t, isSource)
	assert.Empty(t, set.SourceComponents())
}

func TestFromManifest(t *testing.T) {
	t.Parallel()

	reg := registry.Default()

	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Package xmlns="http://soap.sforce.com/2006/04/metadata">
    <types>
        <members>Foo</members>
        <members>*</members>
        <name>ApexClass</name>
    </types>
    <version>59.0</version>
</Package>`)

	apex := mustType(t, reg, "apexclass")

	// Literal mode keeps the wildcard as a member.
	set, err := collections.FromManifest(reg, data, false)
	require.NoError(t, err)
	assert.Equal(t, "59.0", set.APIVersion())
	assert.Equal(t, 2, set.Size())
	assert.True(t, set.HasWildcardFor(apex))

	// Resolve mode drops the wildcard from membership but keeps it for
	// filtering.
	set, err = collections.FromManifest(reg, data, true)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Size())
	assert.True(t, set.HasWildcardFor(apex))
}

func TestFromManifestUnknownType(t *testing.T) {
	t.Parallel()

	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Package xmlns="http://soap.sforce.com/2006/04/metadata">
    <types>
        <members>X</members>
        <name>NoSuchType</name>
    </types>
    <version>61.0</version>
</Package>`)

	_, err := collections.FromManifest(registry.Default(), data, false)
	require.Error(t, err)

	var missingErr registry.MissingTypeError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "NoSuchType", missingErr.Name)
}

func TestObjectGroupsByType(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	apex := mustType(t, reg, "apexclass")
	layout := mustType(t, reg, "layout")

	set := collections.NewSet(reg)
	set.Add(component.NewMember(apex, "Foo"))
	set.Add(component.NewMember(layout, "My Layout"))
	set.Add(component.NewMember(apex, "Bar"))

	pkg := set.Object()

	require.Len(t, pkg.Types, 2)
	assert.Equal(t, "ApexClass", pkg.Types[0].Name)
	assert.Equal(t, []string{"Foo", "Bar"}, pkg.Types[0].Members)
	assert.Equal(t, "Layout", pkg.Types[1].Name)
	assert.Equal(t, []string{"My Layout"}, pkg.Types[1].Members)
	assert.Equal(t, reg.APIVersion(), pkg.Version)
}

func TestObjectSubstitutesFolderContentType(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	folder := mustType(t, reg, "reportfolder")
	report := mustType(t, reg, "report")

	set := collections.NewSet(reg)
	set.Add(component.NewMember(folder, "MyFolder"))
	set.Add(component.NewMember(report, "MyFolder/Rpt"))

	pkg := set.Object()

	// Folder containers are declared under the content type's name.
	require.Len(t, pkg.Types, 1)
	assert.Equal(t, "Report", pkg.Types[0].Name)
	assert.Equal(t, []string{"MyFolder", "MyFolder/Rpt"}, pkg.Types[0].Members)
}

func TestPackageXMLRoundTrip(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	apex := mustType(t, reg, "apexclass")

	set := collections.NewSet(reg)
	set.Add(component.NewMember(apex, "Foo"))
	set.Add(component.NewMember(apex, "Bar"))
	set.WithAPIVersion("58.0")

	data, err := set.PackageXML()
	require.NoError(t, err)

	parsed, err := collections.FromManifest(reg, data, false)
	require.NoError(t, err)

	assert.Equal(t, 2, parsed.Size())
	assert.Equal(t, "58.0", parsed.APIVersion())
	assert.True(t, parsed.Has(component.NewMember(apex, "Foo")))
	assert.True(t, parsed.Has(component.NewMember(apex, "Bar")))
}

func projectTree() *vfs.VirtualTree {
	return vfs.NewVirtualTree([]vfs.VirtualDirectory{
		{Path: "pkg", Children: []string{"classes/", "objects/"}},
		{Path: "pkg/classes", Children: []string{"Foo.cls", "Foo.cls-meta.xml"}},
		{Path: "pkg/objects", Children: []string{"Account/"}},
		{Path: "pkg/objects/Account", Children: []string{"Account.object-meta.xml", "fields/", "validationRules/"}},
		{Path: "pkg/objects/Account/fields", Children: []string{"Name.field-meta.xml"}},
		{Path: "pkg/objects/Account/validationRules", Children: []string{"Check.validationRule-meta.xml"}},
	})
}

func TestResolveSourceComponents(t *testing.T) {
	t.Parallel()

	reg := registry.Default()

	set := collections.NewSet(reg)

	added, err := set.ResolveSourceComponents("pkg", collections.ResolveOptions{Tree: projectTree()})
	require.NoError(t, err)
	require.Len(t, added, 2)

	assert.Equal(t, "Foo", added[0].FullName())
	assert.Equal(t, "Account", added[1].FullName())
	assert.Equal(t, 2, set.Size())
}

func TestResolveSourceComponentsRequiresTree(t *testing.T) {
	t.Parallel()

	set := collections.NewSet(registry.Default())

	_, err := set.ResolveSourceComponents("pkg", collections.ResolveOptions{})
	require.Error(t, err)
}

func TestResolveWithWildcardFilter(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	apex := mustType(t, reg, "apexclass")

	filter := collections.NewSet(reg)
	filter.Add(component.NewMember(apex, component.WildcardMember))

	set := collections.NewSet(reg)

	added, err := set.ResolveSourceComponents("pkg", collections.ResolveOptions{
		Tree:   projectTree(),
		Filter: filter,
	})
	require.NoError(t, err)

	require.Len(t, added, 1)
	assert.Equal(t, "Foo", added[0].FullName())
}

func TestResolveWithChildFilter(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	rule := mustType(t, reg, "validationrule")

	// The resolved parent fails the filter, so its children are tested
	// individually.
	filter := collections.NewSet(reg)
	filter.Add(component.NewMember(rule, "Account.Check"))

	set := collections.NewSet(reg)

	added, err := set.ResolveSourceComponents("pkg/objects", collections.ResolveOptions{
		Tree:   projectTree(),
		Filter: filter,
	})
	require.NoError(t, err)

	require.Len(t, added, 1)
	assert.Equal(t, "Account.Check", added[0].FullName())
	assert.Equal(t, "validationrule", added[0].Type().ID)
	require.NotNil(t, added[0].Parent())
	assert.Equal(t, "Account", added[0].Parent().FullName())
}

func TestResolveWithParentFilter(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	obj := mustType(t, reg, "customobject")

	filter := collections.NewSet(reg)
	filter.Add(component.NewMember(obj, "Account"))

	set := collections.NewSet(reg)

	added, err := set.ResolveSourceComponents("pkg", collections.ResolveOptions{
		Tree:   projectTree(),
		Filter: filter,
	})
	require.NoError(t, err)

	require.Len(t, added, 1)
	assert.Equal(t, "Account", added[0].FullName())
}

func TestSourceComponentsFor(t *testing.T) {
	t.Parallel()

	reg := registry.Default()
	field := mustType(t, reg, "customfield")

	set := collections.NewSet(reg)

	_, err := set.ResolveSourceComponents("pkg/objects", collections.ResolveOptions{Tree: projectTree()})
	require.NoError(t, err)

	// A child member is served from the stored parent's children.
	matches := set.SourceComponentsFor(component.NewMember(field, "Account.Name"))
	require.Len(t, matches, 1)
	assert.Equal(t, "customfield", matches[0].Type().ID)
	assert.Equal(t, "pkg/objects/Account/fields/Name.field-meta.xml", matches[0].XMLPath())

	assert.Empty(t, set.SourceComponentsFor(component.NewMember(field, "Account.Missing")))
}
