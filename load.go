package rustdocjson

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Strategy selects how a Loader parses documents. Both strategies return
// equal values for every valid document.
type Strategy int

const (
	// StrategyStandard sniffs format_version from the text and then decodes
	// the text again into the matching schema.
	StrategyStandard Strategy = iota
	// StrategyAccelerated parses the bytes once into a tape and serves both
	// version detection and typed decoding from it.
	StrategyAccelerated
)

func (s Strategy) String() string {
	switch s {
	case StrategyStandard:
		return "standard"
	case StrategyAccelerated:
		return "accelerated"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "standard" (alias "text") and "accelerated" (aliases
// "tape", "simd"), case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "text", "":
		return StrategyStandard, nil
	case "accelerated", "tape", "simd":
		return StrategyAccelerated, nil
	default:
		return StrategyStandard, fmt.Errorf("rustdocjson: unknown strategy %q", s)
	}
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Loader loads rustdoc JSON files. A Loader holds no per-document state and
// may be used from multiple goroutines.
type Loader struct {
	strategy Strategy
	log      zerolog.Logger
	validate *validator.Validate
	drv      driver
}

// Option configures a Loader.
type Option func(*Loader)

// WithStrategy selects the parsing strategy. The default is StrategyStandard.
func WithStrategy(s Strategy) Option {
	return func(l *Loader) { l.strategy = s }
}

// WithLogger sets the logger for per-load debug events. The default discards
// everything.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{strategy: StrategyStandard, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	l.validate = newValidator()
	l.drv = newDriver(l.strategy, l.log)
	return l
}

// Strategy reports the configured strategy.
func (l *Loader) Strategy() Strategy { return l.strategy }

// Load reads path and returns the crate tagged with its format version. Every
// failure is a *LoadError; no partial result is ever returned.
func (l *Loader) Load(path string) (VersionedCrate, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}
	l.log.Debug().Str("path", path).Str("driver", l.drv.name()).Int("bytes", len(data)).Msg("read rustdoc JSON")

	doc, err := l.parse(path, data)
	if err != nil {
		l.log.Debug().Err(err).Str("path", path).Msg("load failed")
		return nil, err
	}
	l.log.Debug().Str("path", path).Uint32("format_version", doc.FormatVersion()).Int("items", doc.ItemCount()).Msg("parsed rustdoc JSON")
	return doc, nil
}

// Load reads path with StrategyStandard.
func Load(path string) (VersionedCrate, error) {
	return New().Load(path)
}

// LoadAccelerated reads path with StrategyAccelerated.
func LoadAccelerated(path string) (VersionedCrate, error) {
	return New(WithStrategy(StrategyAccelerated)).Load(path)
}

// readAll buffers the whole file; both drivers decode from one contiguous
// slice.
func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, "open", err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, ioError(path, "read", err)
	}
	return data, nil
}

func (l *Loader) parse(path string, data []byte) (VersionedCrate, error) {
	p, err := l.drv.build(path, data)
	if err != nil {
		return nil, err
	}
	version, err := p.version()
	if err != nil {
		return nil, err
	}
	l.log.Debug().Str("path", path).Uint32("format_version", version).Msg("detected format version")

	b, ok := lookupBinding(version)
	if !ok {
		return nil, unsupportedVersion(path, version)
	}
	doc, err := p.decode(b, l.validate)
	if err != nil {
		return nil, schemaMismatch(path, version, err)
	}
	return doc, nil
}
