package rustdocjson

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a load failure.
type Kind int

const (
	// KindIO reports that the file could not be opened or read.
	KindIO Kind = iota + 1
	// KindEncoding reports that the file contents are not valid UTF-8 text or
	// contain an escape for an unpaired UTF-16 surrogate.
	KindEncoding
	// KindDetection reports that format_version could not be extracted, either
	// because the document is not well-formed JSON or the field is missing or
	// not an unsigned integer.
	KindDetection
	// KindUnsupportedVersion reports a format_version this build was not
	// compiled to understand.
	KindUnsupportedVersion
	// KindSchemaMismatch reports a supported format_version whose body does not
	// satisfy that version's schema.
	KindSchemaMismatch
)

// Sentinels usable with errors.Is against any *LoadError of the same Kind.
var (
	ErrIO                 = errors.New("rustdocjson: io error")
	ErrEncoding           = errors.New("rustdocjson: encoding error")
	ErrDetection          = errors.New("rustdocjson: detection error")
	ErrUnsupportedVersion = errors.New("rustdocjson: unsupported version")
	ErrSchemaMismatch     = errors.New("rustdocjson: schema mismatch")
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindEncoding:
		return "encoding"
	case KindDetection:
		return "detection"
	case KindUnsupportedVersion:
		return "unsupported_version"
	case KindSchemaMismatch:
		return "schema_mismatch"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindEncoding:
		return ErrEncoding
	case KindDetection:
		return ErrDetection
	case KindUnsupportedVersion:
		return ErrUnsupportedVersion
	case KindSchemaMismatch:
		return ErrSchemaMismatch
	default:
		return nil
	}
}

// LoadError is the only error type returned by Loader.Load. Path is always
// set; Version is meaningful only when HasVersion is true.
type LoadError struct {
	Kind       Kind
	Path       string
	Version    uint32
	HasVersion bool
	Err        error // Optional: underlying cause.

	op string // "open" or "read" for KindIO
}

func (e *LoadError) Error() string {
	b := &strings.Builder{}
	switch e.Kind {
	case KindIO:
		op := e.op
		if op == "" {
			op = "read"
		}
		fmt.Fprintf(b, "failed to %s rustdoc JSON file %s", op, e.Path)
	case KindEncoding:
		fmt.Fprintf(b, "rustdoc JSON file %s is not valid Unicode text", e.Path)
	case KindDetection:
		fmt.Fprintf(b, "unrecognized rustdoc format for file %s", e.Path)
	case KindUnsupportedVersion:
		fmt.Fprintf(b, "rustdoc format v%d for file %s is not supported", e.Version, e.Path)
	case KindSchemaMismatch:
		fmt.Fprintf(b, "unexpected parse error for v%d rustdoc for file %s", e.Version, e.Path)
	default:
		fmt.Fprintf(b, "rustdoc load failed for file %s", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is matches the Kind sentinels so callers can write errors.Is(err, ErrSchemaMismatch).
func (e *LoadError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// AsLoadError extracts a *LoadError from an error chain.
func AsLoadError(err error) (*LoadError, bool) {
	if err == nil {
		return nil, false
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

func ioError(path, op string, err error) *LoadError {
	return &LoadError{Kind: KindIO, Path: path, Err: err, op: op}
}

func encodingError(path string, err error) *LoadError {
	return &LoadError{Kind: KindEncoding, Path: path, Err: err}
}

func detectionError(path string, err error) *LoadError {
	return &LoadError{Kind: KindDetection, Path: path, Err: err}
}

func unsupportedVersion(path string, version uint32) *LoadError {
	return &LoadError{Kind: KindUnsupportedVersion, Path: path, Version: version, HasVersion: true}
}

func schemaMismatch(path string, version uint32, err error) *LoadError {
	return &LoadError{Kind: KindSchemaMismatch, Path: path, Version: version, HasVersion: true, Err: err}
}
