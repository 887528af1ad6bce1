//go:build !rustdocjson_no_v30

package rustdocjson

import v30 "github.com/reoring/rustdocjson/schema/v30"

// V30 is a crate parsed under format_version 30.
type V30 struct{ Crate *v30.Crate }

func (V30) FormatVersion() uint32  { return v30.FormatVersion }
func (c V30) Root() string         { return formatStringID(c.Crate.Root) }
func (c V30) ItemCount() int       { return len(c.Crate.Index) }
func (c V30) CrateVersion() string { return derefString(c.Crate.CrateVersion) }
func (V30) isVersionedCrate()      {}

func init() {
	register(bind(v30.FormatVersion, func(c *v30.Crate) VersionedCrate { return V30{Crate: c} }))
}
