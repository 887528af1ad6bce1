package rustdocjson_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	rustdocjson "github.com/reoring/rustdocjson"
)

// generateCrate returns a v30 document with numItems function items, each
// carrying a span, docs and a small inner payload.
func generateCrate(numItems int) []byte {
	var buf bytes.Buffer
	buf.Grow(numItems * 256)
	buf.WriteString(`{"root":"0:0","crate_version":"0.0.1","includes_private":false,"format_version":30,"index":{`)
	for i := 0; i < numItems; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"0:%d":{"id":"0:%d","crate_id":0,"name":"f%d","span":{"filename":"src/lib.rs","begin":[%d,0],"end":[%d,1]},`+
			`"visibility":"public","docs":"Function number %d.","links":{},"attrs":["#[inline]"],"deprecation":null,`+
			`"inner":{"function":{"sig":{"inputs":[],"output":null,"is_c_variadic":false},"has_body":true}}}`,
			i, i, i, i+1, i+3, i)
	}
	buf.WriteString(`},"paths":{},"external_crates":{}}`)
	return buf.Bytes()
}

func benchmarkLoad(b *testing.B, strategy rustdocjson.Strategy, numItems int) {
	b.Helper()
	if !rustdocjson.IsSupported(30) {
		b.Skip("format version 30 excluded from this build")
	}
	data := generateCrate(numItems)
	path := filepath.Join(b.TempDir(), "crate.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		b.Fatalf("write fixture: %v", err)
	}
	loader := rustdocjson.New(rustdocjson.WithStrategy(strategy))
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc, err := loader.Load(path)
		if err != nil {
			b.Fatalf("load: %v", err)
		}
		if doc.ItemCount() != numItems {
			b.Fatalf("items: got %d want %d", doc.ItemCount(), numItems)
		}
	}
}

func BenchmarkLoad_Standard_1k(b *testing.B)    { benchmarkLoad(b, rustdocjson.StrategyStandard, 1000) }
func BenchmarkLoad_Accelerated_1k(b *testing.B) { benchmarkLoad(b, rustdocjson.StrategyAccelerated, 1000) }

func BenchmarkLoad_Standard_20k(b *testing.B) { benchmarkLoad(b, rustdocjson.StrategyStandard, 20000) }
func BenchmarkLoad_Accelerated_20k(b *testing.B) {
	benchmarkLoad(b, rustdocjson.StrategyAccelerated, 20000)
}
