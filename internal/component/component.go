// Package component provides the types for resolved metadata components.
//
// This package contains only data types and their associated methods, with no
// resolution logic. It exists separately from the resolver package so that
// other packages (like collections) can depend on these types without
// creating circular dependencies.
package component

import (
	"github.com/sourcepack/sourcepack/internal/registry"
)

// WildcardMember is the member name that stands for every member of a type.
const WildcardMember = "*"

// Component is the minimal identity needed to reference a metadata component
// in a manifest, independent of whether source files exist for it.
// It is implemented by Member and SourceComponent.
type Component interface {
	FullName() string
	Type() *registry.MetadataType
	Key() string
}

// KeyFor builds the normalized identity key for a (type, fullName) pair.
func KeyFor(t *registry.MetadataType, fullName string) string {
	return t.ID + "#" + fullName
}

// Member is an abstract component reference, e.g. one declared by a manifest
// with no backing files.
type Member struct {
	typ      *registry.MetadataType
	fullName string
}

// NewMember returns an abstract component reference.
func NewMember(t *registry.MetadataType, fullName string) Member {
	return Member{typ: t, fullName: fullName}
}

// FullName implements Component.
func (m Member) FullName() string {
	return m.fullName
}

// Type implements Component.
func (m Member) Type() *registry.MetadataType {
	return m.typ
}

// Key implements Component.
func (m Member) Key() string {
	return KeyFor(m.typ, m.fullName)
}

// IsWildcard reports whether the member stands for every member of its type.
func (m Member) IsWildcard() bool {
	return m.fullName == WildcardMember
}
