// Package manifest serializes and parses the package description XML that
// enumerates (type, member-name) pairs.
package manifest

import (
	"encoding/xml"

	"github.com/sourcepack/sourcepack/internal/errors"
)

// Namespace is the XML namespace emitted on serialization.
const Namespace = "http://soap.sforce.com/2006/04/metadata"

// Wildcard is the member name that stands for every member of a type.
const Wildcard = "*"

// Package is the manifest document: zero or more type blocks, each with an
// ordered list of member full-names and a type name, plus a version element.
type Package struct {
	XMLName xml.Name      `xml:"Package"`
	Xmlns   string        `xml:"xmlns,attr"`
	Types   []TypeMembers `xml:"types"`
	Version string        `xml:"version"`
}

// TypeMembers is one type block of the manifest.
type TypeMembers struct {
	Members []string `xml:"members"`
	Name    string   `xml:"name"`
}

// Parse reads a manifest document.
func Parse(data []byte) (*Package, error) {
	var pkg Package
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "could not parse package manifest")
	}

	return &pkg, nil
}

// Marshal serializes the manifest with the XML header, the namespace
// declaration, and four-space indentation. Round-trip holds: parsing the
// output reproduces the same (type, members) groupings.
func (pkg *Package) Marshal() ([]byte, error) {
	out := *pkg
	out.Xmlns = Namespace

	data, err := xml.MarshalIndent(&out, "", "    ")
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	result := make([]byte, 0, len(xml.Header)+len(data)+1)
	result = append(result, xml.Header...)
	result = append(result, data...)
	result = append(result, '\n')

	return result, nil
}
