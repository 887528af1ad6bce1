package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	rustdocjson "github.com/reoring/rustdocjson"
	"github.com/reoring/rustdocjson/internal/config"
	"github.com/reoring/rustdocjson/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "load":
		return loadCmd(args[1:], stdout, stderr)
	case "versions":
		return versionsCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "rustdocjson CLI\n\nUsage:\n  rustdocjson load [-config file.yaml] [-strategy standard|accelerated] [-concurrency N] [-fail-fast] [-output text|json|yaml] PATH...\n  rustdocjson versions [-output text|json|yaml]\n\nNotes:\n  - Every path is loaded independently; failures are reported per file unless -fail-fast is set.")
}

// result is one line of load output.
type result struct {
	Path          string `json:"path" yaml:"path"`
	FormatVersion uint32 `json:"format_version,omitempty" yaml:"format_version,omitempty"`
	Root          string `json:"root,omitempty" yaml:"root,omitempty"`
	Items         int    `json:"items,omitempty" yaml:"items,omitempty"`
	CrateVersion  string `json:"crate_version,omitempty" yaml:"crate_version,omitempty"`
	ErrorKind     string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

func loadCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  string
		strategy    string
		concurrency int
		failFast    bool
		output      string
		logLevel    string
		flagLevel   string
	)
	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.StringVar(&strategy, "strategy", "standard", "parsing strategy: standard or accelerated")
	fs.IntVar(&concurrency, "concurrency", 4, "number of files loaded in parallel")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first failing file")
	fs.StringVar(&output, "output", config.OutputText, "output format: text, json or yaml")
	fs.StringVar(&logLevel, "log-level", "", "log level (overrides RUSTDOCJSON_LOG_LEVEL and the config file)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		cfg = c
	}
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			s, err := rustdocjson.ParseStrategy(strategy)
			if err != nil {
				flagErr = err
			}
			cfg.Strategy = s
		case "concurrency":
			cfg.Concurrency = concurrency
		case "fail-fast":
			cfg.FailFast = failFast
		case "output":
			cfg.Output = output
		case "log-level":
			flagLevel = logLevel
		}
	})
	if flagErr != nil {
		fmt.Fprintln(stderr, flagErr)
		return 2
	}
	if fs.NArg() > 0 {
		cfg.Paths = fs.Args()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if len(cfg.Paths) == 0 {
		fmt.Fprintln(stderr, "load: at least one path is required")
		return 2
	}

	log := newLogger(stderr, os.Getenv, cfg.LogLevel, flagLevel)
	loader := rustdocjson.New(rustdocjson.WithStrategy(cfg.Strategy), rustdocjson.WithLogger(log))
	results, err := loadAll(context.Background(), loader, cfg)
	if err != nil {
		log.Error().Err(err).Msg("aborted")
	}
	if werr := writeResults(stdout, cfg.Output, results); werr != nil {
		fmt.Fprintln(stderr, werr)
		return 1
	}
	for _, r := range results {
		if r.Error != "" {
			return 1
		}
	}
	if err != nil {
		return 1
	}
	return 0
}

// loadAll loads every configured path with at most cfg.Concurrency loads in
// flight. Results keep the input order. With FailFast the first failure stops
// scheduling further files and results holds only what finished.
func loadAll(ctx context.Context, loader *rustdocjson.Loader, cfg config.Config) ([]result, error) {
	results := make([]result, len(cfg.Paths))
	done := make([]bool, len(cfg.Paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, path := range cfg.Paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = loadOne(loader, path)
			done[i] = true
			if cfg.FailFast && results[i].Error != "" {
				return errors.New(results[i].Error)
			}
			return nil
		})
	}
	err := g.Wait()
	out := results[:0]
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}
	return out, err
}

func loadOne(loader *rustdocjson.Loader, path string) result {
	doc, err := loader.Load(path)
	if err != nil {
		r := result{Path: path, Error: err.Error()}
		if le, ok := rustdocjson.AsLoadError(err); ok {
			r.ErrorKind = le.Kind.String()
			if le.HasVersion {
				r.FormatVersion = le.Version
			}
		}
		return r
	}
	return result{
		Path:          path,
		FormatVersion: doc.FormatVersion(),
		Root:          doc.Root(),
		Items:         doc.ItemCount(),
		CrateVersion:  doc.CrateVersion(),
	}
}

func writeResults(w io.Writer, format string, results []result) error {
	switch strings.ToLower(format) {
	case config.OutputJSON:
		b, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tVERSION\tROOT\tITEMS\tCRATE VERSION\tERROR")
		for _, r := range results {
			version := "-"
			if r.FormatVersion != 0 || r.ErrorKind == "" {
				version = fmt.Sprintf("v%d", r.FormatVersion)
			}
			errCol := "-"
			if r.Error != "" {
				errCol = r.ErrorKind + ": " + r.Error
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", r.Path, version, dash(r.Root), r.Items, dash(r.CrateVersion), errCol)
		}
		return tw.Flush()
	}
}

func versionsCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("versions", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var output string
	fs.StringVar(&output, "output", config.OutputText, "output format: text, json or yaml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	vs := rustdocjson.SupportedVersions()
	switch strings.ToLower(output) {
	case config.OutputJSON:
		b, err := json.Marshal(map[string][]uint32{"supported_versions": vs})
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, string(b))
	case config.OutputYAML:
		b, err := yaml.Marshal(map[string][]uint32{"supported_versions": vs})
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		_, _ = stdout.Write(b)
	case config.OutputText:
		for _, v := range vs {
			fmt.Fprintf(stdout, "v%d\n", v)
		}
	default:
		fmt.Fprintf(stderr, "unknown output %q\n", output)
		return 2
	}
	return 0
}

// newLogger resolves the level from lowest to highest precedence: the
// default, the config file, RUSTDOCJSON_LOG_*, then the -log-level flag.
func newLogger(w io.Writer, getenv func(string) string, fileLevel, flagLevel string) zerolog.Logger {
	cfg := logging.DefaultConfig()
	if lvl, ok := logging.ParseLevel(fileLevel); ok {
		cfg.Level = lvl
	}
	logging.ApplyEnv(&cfg, getenv)
	if lvl, ok := logging.ParseLevel(flagLevel); ok {
		cfg.Level = lvl
	}
	return logging.New(w, cfg)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
