//go:build !rustdocjson_no_v29

package rustdocjson

import v29 "github.com/reoring/rustdocjson/schema/v29"

// V29 is a crate parsed under format_version 29.
type V29 struct{ Crate *v29.Crate }

func (V29) FormatVersion() uint32  { return v29.FormatVersion }
func (c V29) Root() string         { return formatStringID(c.Crate.Root) }
func (c V29) ItemCount() int       { return len(c.Crate.Index) }
func (c V29) CrateVersion() string { return derefString(c.Crate.CrateVersion) }
func (V29) isVersionedCrate()      {}

func init() {
	register(bind(v29.FormatVersion, func(c *v29.Crate) VersionedCrate { return V29{Crate: c} }))
}
