// Package registry provides the immutable metadata type-rule table that drives
// type inference and source adapter selection.
//
// The registry is loaded once from a pre-validated JSON blob and must be
// treated as deeply immutable afterwards. All lookups go through accessor
// methods; callers never mutate the returned descriptors.
package registry

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/sourcepack/sourcepack/internal/errors"
)

//go:embed registry.json
var defaultBlob []byte

// AdapterVariant names the construction strategy used to build a source
// component for a type. The variant set is closed; the registry never refers
// to a strategy outside of it.
type AdapterVariant string

const (
	// AdapterDefault handles single descriptor files with an optional sibling content file.
	AdapterDefault AdapterVariant = "default"
	// AdapterMatchingContentFile handles content files whose base name and suffix match the descriptor.
	AdapterMatchingContentFile AdapterVariant = "matchingContentFile"
	// AdapterMixedContent handles content of arbitrary suffix, file or directory.
	AdapterMixedContent AdapterVariant = "mixedContent"
	// AdapterBundle handles components composed of multiple fragments under one content root.
	AdapterBundle AdapterVariant = "bundle"
	// AdapterInFolder handles content organized under named folder containers.
	AdapterInFolder AdapterVariant = "inFolder"
)

// MetadataType is a single type descriptor from the registry.
// Instances are shared and read-only after Load.
type MetadataType struct {
	// ID is the lowercase registry identifier.
	ID string `json:"id"`
	// Name is the display name used in manifests.
	Name string `json:"name"`
	// DirectoryName is the on-disk directory that holds instances of the type.
	DirectoryName string `json:"directoryName"`
	// Suffix is the file suffix of the type's own files, if any.
	Suffix string `json:"suffix"`
	// InFolder marks types whose instances live under named folder containers.
	InFolder bool `json:"inFolder"`
	// StrictDirectoryName requires an exact type directory match before inferring.
	StrictDirectoryName bool `json:"strictDirectoryName"`
	// FolderType is the ID of the folder-container type, for InFolder types.
	FolderType string `json:"folderType"`
	// FolderContentType is the ID of the contained type, for folder types.
	FolderContentType string `json:"folderContentType"`
	// Children lists the IDs of child types for composed/decomposed layouts.
	Children []string `json:"children"`
	// Adapter is the construction strategy for the type.
	Adapter AdapterVariant `json:"adapter"`
}

// IsFolderType reports whether the type is a folder container for another type.
func (t *MetadataType) IsFolderType() bool {
	return t.FolderContentType != ""
}

// blob is the raw registry wire shape.
type blob struct {
	APIVersion       string                   `json:"apiVersion"`
	Types            map[string]*MetadataType `json:"types"`
	Suffixes         map[string]string        `json:"suffixes"`
	MixedContentDirs map[string]string        `json:"mixedContentDirectories"`
}

// Registry is the loaded, immutable type-rule table.
type Registry struct {
	apiVersion       string
	types            map[string]*MetadataType
	byName           map[string]*MetadataType
	suffixes         map[string]string
	mixedContentDirs map[string]string
	parentOf         map[string]string
}

// Load parses a registry blob. The blob is assumed pre-validated; Load only
// fails on malformed JSON or dangling type references.
func Load(data []byte) (*Registry, error) {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "could not parse registry blob")
	}

	reg := &Registry{
		apiVersion:       b.APIVersion,
		types:            b.Types,
		byName:           make(map[string]*MetadataType, len(b.Types)),
		suffixes:         b.Suffixes,
		mixedContentDirs: b.MixedContentDirs,
		parentOf:         make(map[string]string),
	}

	for id, t := range b.Types {
		t.ID = id
		reg.byName[strings.ToLower(t.Name)] = t

		for _, childID := range t.Children {
			if _, ok := b.Types[childID]; !ok {
				return nil, errors.New(MissingTypeError{Name: childID})
			}

			reg.parentOf[childID] = id
		}
	}

	return reg, nil
}

// Default returns the registry loaded from the embedded blob.
// The embedded blob is validated at build time, so a failure here is a bug.
func Default() *Registry {
	reg, err := Load(defaultBlob)
	if err != nil {
		panic(err)
	}

	return reg
}

// APIVersion returns the API version the registry data was built against.
func (reg *Registry) APIVersion() string {
	return reg.apiVersion
}

// TypeByID looks up a type descriptor by its lowercase identifier.
func (reg *Registry) TypeByID(id string) (*MetadataType, bool) {
	t, ok := reg.types[strings.ToLower(id)]
	return t, ok
}

// TypeByName looks up a type descriptor by display name, case-insensitively.
// A miss is a MissingTypeError.
func (reg *Registry) TypeByName(name string) (*MetadataType, error) {
	if t, ok := reg.byName[strings.ToLower(name)]; ok {
		return t, nil
	}

	return nil, errors.New(MissingTypeError{Name: name})
}

// TypeBySuffix looks up the type owning the given file suffix.
// Child suffixes map to the owning parent type.
func (reg *Registry) TypeBySuffix(suffix string) (*MetadataType, bool) {
	id, ok := reg.suffixes[suffix]
	if !ok {
		return nil, false
	}

	return reg.TypeByID(id)
}

// TypeByDirectoryName looks up the mixed-content type owning the given
// directory name, if any.
func (reg *Registry) TypeByDirectoryName(dir string) (*MetadataType, bool) {
	id, ok := reg.mixedContentDirs[dir]
	if !ok {
		return nil, false
	}

	return reg.TypeByID(id)
}

// IsMixedContent reports whether the type's content may carry any suffix.
func (reg *Registry) IsMixedContent(t *MetadataType) bool {
	id, ok := reg.mixedContentDirs[t.DirectoryName]
	return ok && id == t.ID
}

// ParentType returns the parent type descriptor for a child type, or nil when
// the type has no registered parent.
func (reg *Registry) ParentType(t *MetadataType) *MetadataType {
	parentID, ok := reg.parentOf[t.ID]
	if !ok {
		return nil
	}

	parent, _ := reg.TypeByID(parentID)

	return parent
}

// ChildTypeBySuffix finds the child type of parent whose suffix matches.
func (reg *Registry) ChildTypeBySuffix(parent *MetadataType, suffix string) (*MetadataType, bool) {
	for _, childID := range parent.Children {
		child, ok := reg.TypeByID(childID)
		if ok && child.Suffix == suffix {
			return child, true
		}
	}

	return nil, false
}

// MissingTypeError is returned when a type lookup by name finds no registry entry.
type MissingTypeError struct {
	Name string
}

func (e MissingTypeError) Error() string {
	return "missing metadata type definition for " + e.Name
}
