package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	rustdocjson "github.com/reoring/rustdocjson"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func firstVersionDoc(t *testing.T) (uint32, string) {
	t.Helper()
	vs := rustdocjson.SupportedVersions()
	if len(vs) == 0 {
		t.Skip("no format versions compiled in")
	}
	v := vs[0]
	root := `"0:0"`
	if v >= 33 {
		root = "0"
	}
	return v, fmt.Sprintf(`{"format_version": %d, "crate_version": "0.1.0", "index": {}, "root": %s}`, v, root)
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}
}

func TestLoad_JSONOutputMixedResults(t *testing.T) {
	v, body := firstVersionDoc(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", body)
	unsupported := writeFile(t, dir, "future.json", `{"format_version": 99}`)
	missing := filepath.Join(dir, "missing.json")

	for _, strategy := range []string{"standard", "accelerated"} {
		var stdout, stderr bytes.Buffer
		code := run([]string{"load", "-strategy", strategy, "-output", "json", good, unsupported, missing}, &stdout, &stderr)
		if code != 1 {
			t.Fatalf("%s: exit code %d, want 1 (stderr: %s)", strategy, code, stderr.String())
		}
		var got []result
		if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
			t.Fatalf("%s: decode output: %v\n%s", strategy, err, stdout.String())
		}
		if len(got) != 3 {
			t.Fatalf("%s: expected 3 results, got %d", strategy, len(got))
		}
		wantFirst := result{Path: good, FormatVersion: v, Root: got[0].Root, CrateVersion: "0.1.0"}
		if diff := cmp.Diff(wantFirst, got[0]); diff != "" {
			t.Fatalf("%s: first result (-want +got):\n%s", strategy, diff)
		}
		if got[1].ErrorKind != "unsupported_version" || got[1].FormatVersion != 99 {
			t.Fatalf("%s: second result %+v", strategy, got[1])
		}
		if got[2].ErrorKind != "io" {
			t.Fatalf("%s: third result %+v", strategy, got[2])
		}
	}
}

func TestLoad_AllGoodExitsZero(t *testing.T) {
	_, body := firstVersionDoc(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", body)
	b := writeFile(t, dir, "b.json", body)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"load", "-concurrency", "1", a, b}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d (stderr: %s)", code, stderr.String())
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "PATH") || !strings.Contains(out, a) || !strings.Contains(out, b) {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}

func TestLoad_ConfigFileSuppliesPaths(t *testing.T) {
	_, body := firstVersionDoc(t)
	dir := t.TempDir()
	doc := writeFile(t, dir, "a.json", body)
	cfg := writeFile(t, dir, "cfg.yaml", fmt.Sprintf("strategy: tape\noutput: yaml\npaths:\n  - %s\n", doc))
	var stdout, stderr bytes.Buffer
	if code := run([]string{"load", "-config", cfg}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d (stderr: %s)", code, stderr.String())
	}
	var got []result
	if err := yaml.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, stdout.String())
	}
	if len(got) != 1 || got[0].Path != doc || got[0].Error != "" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestLoad_FailFastStopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"format_version": `)
	var stdout, stderr bytes.Buffer
	code := run([]string{"load", "-fail-fast", "-concurrency", "1", "-output", "json", bad, bad, bad}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	var got []result
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(got) == 0 || len(got) == 3 {
		t.Fatalf("expected fail-fast to stop early, got %d results", len(got))
	}
	if got[0].ErrorKind != "detection" {
		t.Fatalf("unexpected error kind %q", got[0].ErrorKind)
	}
}

func TestLoad_RejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"load", "-strategy", "streaming", "x.json"}, &stdout, &stderr); code != 2 {
		t.Fatalf("bad strategy: exit code %d", code)
	}
	if code := run([]string{"load", "-concurrency", "0", "x.json"}, &stdout, &stderr); code != 2 {
		t.Fatalf("bad concurrency: exit code %d", code)
	}
	if code := run([]string{"load"}, &stdout, &stderr); code != 2 {
		t.Fatalf("no paths: exit code %d", code)
	}
}

func TestVersions(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"versions", "-output", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	var got struct {
		SupportedVersions []uint32 `json:"supported_versions"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(rustdocjson.SupportedVersions(), got.SupportedVersions); diff != "" {
		t.Fatalf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestNewLogger_LevelPrecedence(t *testing.T) {
	cases := []struct {
		name      string
		env       string
		fileLevel string
		flagLevel string
		want      zerolog.Level
	}{
		{name: "default", want: zerolog.WarnLevel},
		{name: "file", fileLevel: "info", want: zerolog.InfoLevel},
		{name: "env over file", env: "debug", fileLevel: "info", want: zerolog.DebugLevel},
		{name: "flag over env", env: "debug", fileLevel: "info", flagLevel: "error", want: zerolog.ErrorLevel},
		{name: "bad env keeps file", env: "loud", fileLevel: "error", want: zerolog.ErrorLevel},
	}
	for _, tc := range cases {
		getenv := func(k string) string {
			if k == "RUSTDOCJSON_LOG_LEVEL" {
				return tc.env
			}
			return ""
		}
		log := newLogger(&bytes.Buffer{}, getenv, tc.fileLevel, tc.flagLevel)
		if got := log.GetLevel(); got != tc.want {
			t.Fatalf("%s: level %v, want %v", tc.name, got, tc.want)
		}
	}
}
