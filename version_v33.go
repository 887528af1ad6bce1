//go:build !rustdocjson_no_v33

package rustdocjson

import v33 "github.com/reoring/rustdocjson/schema/v33"

// V33 is a crate parsed under format_version 33. Item ids are integers from
// this version on.
type V33 struct{ Crate *v33.Crate }

func (V33) FormatVersion() uint32  { return v33.FormatVersion }
func (c V33) Root() string         { return formatUintID(c.Crate.Root) }
func (c V33) ItemCount() int       { return len(c.Crate.Index) }
func (c V33) CrateVersion() string { return derefString(c.Crate.CrateVersion) }
func (V33) isVersionedCrate()      {}

func init() {
	register(bind(v33.FormatVersion, func(c *v33.Crate) VersionedCrate { return V33{Crate: c} }))
}
