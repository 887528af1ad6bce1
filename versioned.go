package rustdocjson

import "strconv"

// VersionedCrate is a rustdoc crate tagged with its format_version. The set of
// implementations is closed: one variant type (V28, V29, ...) per version the
// build supports. Callers switch on the concrete type to reach the typed
// crate; the accessors below exist for summaries and do not normalize items
// across versions.
type VersionedCrate interface {
	// FormatVersion returns the tag, always equal to the detected version.
	FormatVersion() uint32
	// Root returns the root item id rendered as text.
	Root() string
	// ItemCount returns the number of entries in the crate index.
	ItemCount() int
	// CrateVersion returns the crate's declared version, or "" when absent.
	CrateVersion() string

	isVersionedCrate()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatStringID[T ~string](id *T) string {
	if id == nil {
		return ""
	}
	return string(*id)
}

func formatUintID[T ~uint32](id *T) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
