// Package rustdocjson loads rustdoc JSON documents and returns them as typed
// values tagged with the rustdoc format_version they were parsed under.
//
// Design policy:
// - The set of understood format versions is fixed at build time. Every
//   version is compiled in by default; build with -tags rustdocjson_no_vNN to
//   leave version NN out.
// - A document is never parsed under a version other than the one it
//   declares. Unknown versions are reported as ErrUnsupportedVersion, known
//   versions with broken bodies as ErrSchemaMismatch.
// - Two load strategies share one contract. StrategyStandard sniffs the
//   version from the text and then decodes the text again; StrategyAccelerated
//   parses the bytes once into a tape and serves both steps from it.
//
// Typical usage:
//
//	doc, err := rustdocjson.Load("target/doc/mycrate.json")
//	if errors.Is(err, rustdocjson.ErrUnsupportedVersion) { ... }
//	switch c := doc.(type) {
//	case rustdocjson.V30:
//		_ = c.Crate.Index
//	}
//
//	l := rustdocjson.New(rustdocjson.WithStrategy(rustdocjson.StrategyAccelerated))
//	doc, err = l.Load(path)
package rustdocjson
