// Package v33 holds the rustdoc JSON types for format_version 33.
package v33

import (
	"fmt"
	"strconv"
)

// FormatVersion is the format_version value documents of this schema carry.
const FormatVersion uint32 = 33

// Id identifies an item within a crate. From this version on ids are plain
// integers rather than "crate:index" strings. As a value an Id must be a JSON
// integer; as an object key it is the integer's decimal text.
type Id uint32

func (id *Id) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	v, err := parseUint32(b)
	if err != nil {
		return fmt.Errorf("item id %s: %w", b, err)
	}
	*id = Id(v)
	return nil
}

func (id *Id) UnmarshalText(b []byte) error {
	v, err := parseUint32(b)
	if err != nil {
		return fmt.Errorf("item id %q: %w", b, err)
	}
	*id = Id(v)
	return nil
}

func parseUint32(b []byte) (uint32, error) {
	v, err := strconv.ParseUint(string(b), 10, 32)
	return uint32(v), err
}

// Crate is the document root.
type Crate struct {
	Root            *Id                        `json:"root" validate:"required"`  // pointer: id 0 is valid
	CrateVersion    *string                    `json:"crate_version"`
	IncludesPrivate bool                       `json:"includes_private"`
	Index           map[Id]Item                `json:"index" validate:"required"`
	Paths           map[Id]ItemSummary         `json:"paths"`
	ExternalCrates  map[CrateNum]ExternalCrate `json:"external_crates"`
	FormatVersion   uint32                     `json:"format_version"`
}

// CrateNum keys Crate.ExternalCrates. Leading zeros are accepted ("01" is
// crate 1).
type CrateNum uint32

func (n *CrateNum) UnmarshalText(b []byte) error {
	v, err := parseUint32(b)
	if err != nil {
		return fmt.Errorf("crate number %q: %w", b, err)
	}
	*n = CrateNum(v)
	return nil
}

type ExternalCrate struct {
	Name        string  `json:"name"`
	HTMLRootURL *string `json:"html_root_url"`
}

// ItemSummary is the entry for an item in Crate.Paths.
type ItemSummary struct {
	CrateID uint32   `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

type Item struct {
	ID          Id             `json:"id"`
	CrateID     uint32         `json:"crate_id"`
	Name        *string        `json:"name"`
	Span        *Span          `json:"span"`
	Visibility  any            `json:"visibility"`
	Docs        *string        `json:"docs"`
	Links       map[string]Id  `json:"links"`
	Attrs       []string       `json:"attrs"`
	Deprecation *Deprecation   `json:"deprecation"`
	Inner       map[string]any `json:"inner"`
}

// Span locates an item in source. Begin and End are (line, column) pairs.
type Span struct {
	Filename string    `json:"filename"`
	Begin    [2]uint64 `json:"begin"`
	End      [2]uint64 `json:"end"`
}

type Deprecation struct {
	Since *string `json:"since"`
	Note  *string `json:"note"`
}
