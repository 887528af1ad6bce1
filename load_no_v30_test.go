//go:build rustdocjson_no_v30

package rustdocjson_test

import (
	"testing"

	rustdocjson "github.com/reoring/rustdocjson"
)

// Run with: go test -tags rustdocjson_no_v30 .
func TestLoad_ExcludedVersionIsUnsupported(t *testing.T) {
	if rustdocjson.IsSupported(30) {
		t.Fatalf("format version 30 still registered")
	}
	for _, v := range rustdocjson.SupportedVersions() {
		if v == 30 {
			t.Fatalf("SupportedVersions lists 30: %v", rustdocjson.SupportedVersions())
		}
	}
	path := writeDoc(t, `{"format_version": 30, "index": {}, "root": "0:0"}`)
	for _, s := range strategies {
		_, err := load(t, s, path)
		le := mustLoadError(t, err, rustdocjson.KindUnsupportedVersion)
		if le.Version != 30 {
			t.Fatalf("%s: version = %d, want 30", s, le.Version)
		}
	}
}
