//go:build !rustdocjson_no_v28

package rustdocjson

import v28 "github.com/reoring/rustdocjson/schema/v28"

// V28 is a crate parsed under format_version 28.
type V28 struct{ Crate *v28.Crate }

func (V28) FormatVersion() uint32  { return v28.FormatVersion }
func (c V28) Root() string         { return formatStringID(c.Crate.Root) }
func (c V28) ItemCount() int       { return len(c.Crate.Index) }
func (c V28) CrateVersion() string { return derefString(c.Crate.CrateVersion) }
func (V28) isVersionedCrate()      {}

func init() {
	register(bind(v28.FormatVersion, func(c *v28.Crate) VersionedCrate { return V28{Crate: c} }))
}
