//go:build !rustdocjson_no_v32

package rustdocjson

import v32 "github.com/reoring/rustdocjson/schema/v32"

// V32 is a crate parsed under format_version 32.
type V32 struct{ Crate *v32.Crate }

func (V32) FormatVersion() uint32  { return v32.FormatVersion }
func (c V32) Root() string         { return formatStringID(c.Crate.Root) }
func (c V32) ItemCount() int       { return len(c.Crate.Index) }
func (c V32) CrateVersion() string { return derefString(c.Crate.CrateVersion) }
func (V32) isVersionedCrate()      {}

func init() {
	register(bind(v32.FormatVersion, func(c *v32.Crate) VersionedCrate { return V32{Crate: c} }))
}
