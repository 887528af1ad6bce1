package rustdocjson_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	rustdocjson "github.com/reoring/rustdocjson"
)

// FuzzLoad_StrategiesAgree checks that both strategies return the same value,
// or fail with the same Kind, for arbitrary input.
func FuzzLoad_StrategiesAgree(f *testing.F) {
	for _, v := range rustdocjson.SupportedVersions() {
		root, key := idText(v, 0)
		f.Add([]byte(minimalDoc(v)))
		f.Add([]byte(richDoc(v)))
		f.Add([]byte(fmt.Sprintf(`{"format_version": %d, "index": {%s: {"docs": "😀", "inner": {"x": [[1e3, -0.5]]}}}, "root": %s, "external_crates": {"01": {"name": "core"}}}`, v, key, root)))
		f.Add([]byte(fmt.Sprintf(`{"format_version": %d, "index": {}, "root": ""}`, v)))
	}
	f.Add([]byte(`{"format_version": 99}`))
	f.Add([]byte(`{"format_version": 30, "index": {}, "root": "0:\ud800"}`))
	f.Add([]byte("{\"format_version\": 30, \"root\": \"\xff\"}"))
	f.Add([]byte(`{"format_version": 30, "index": {"a": {"inner": {"n": 1e400}}}, "root": "a"}`))
	f.Add([]byte(`{"format_version": 30, "index": {}, "root": "\q"}`))
	f.Add([]byte(`[`))

	f.Fuzz(func(t *testing.T, data []byte) {
		path := filepath.Join(t.TempDir(), "crate.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write input: %v", err)
		}
		std, stdErr := rustdocjson.New().Load(path)
		acc, accErr := rustdocjson.New(rustdocjson.WithStrategy(rustdocjson.StrategyAccelerated)).Load(path)
		if (stdErr == nil) != (accErr == nil) {
			t.Fatalf("strategies disagree on %q: standard=%v accelerated=%v", data, stdErr, accErr)
		}
		if stdErr != nil {
			stdLE, _ := rustdocjson.AsLoadError(stdErr)
			accLE, _ := rustdocjson.AsLoadError(accErr)
			if stdLE == nil || accLE == nil || stdLE.Kind != accLE.Kind {
				t.Fatalf("error kinds disagree on %q: standard=%v accelerated=%v", data, stdErr, accErr)
			}
			return
		}
		if diff := cmp.Diff(std, acc); diff != "" {
			t.Fatalf("strategies disagree on %q (-standard +accelerated):\n%s", data, diff)
		}
	})
}
