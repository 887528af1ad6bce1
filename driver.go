package rustdocjson

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/reoring/rustdocjson/internal/jsontext"
	"github.com/reoring/rustdocjson/internal/tape"
)

// driver turns the bytes of one file into a parsed document. Every Strategy
// maps to exactly one driver; drivers hold no per-document state.
type driver interface {
	name() string
	// build validates the encoding and prepares whatever version and decode
	// share. Errors are *LoadError values.
	build(path string, data []byte) (parsed, error)
}

// parsed is the state of one load between build and decode.
type parsed interface {
	version() (uint32, error)
	decode(b binding, val *validator.Validate) (VersionedCrate, error)
}

func newDriver(s Strategy, log zerolog.Logger) driver {
	if s == StrategyAccelerated {
		return tapeDriver{log: log}
	}
	return textDriver{}
}

// textDriver scans the text once for the version and again for the body.
type textDriver struct{}

func (textDriver) name() string { return "text" }

func (textDriver) build(path string, data []byte) (parsed, error) {
	if err := jsontext.Validate(data); err != nil {
		return nil, encodingError(path, err)
	}
	return textDoc{path: path, data: data}, nil
}

type textDoc struct {
	path string
	data []byte
}

func (d textDoc) version() (uint32, error) { return detectText(d.path, d.data) }

func (d textDoc) decode(b binding, val *validator.Validate) (VersionedCrate, error) {
	return b.decodeText(d.data, val)
}

// tapeDriver parses once into a tape. Documents nesting deeper than the tape
// allows are handed to the text pipeline so both strategies accept the same
// inputs.
type tapeDriver struct {
	log zerolog.Logger
}

func (tapeDriver) name() string { return "tape" }

func (d tapeDriver) build(path string, data []byte) (parsed, error) {
	t, err := tape.Build(data)
	switch {
	case err == nil:
		return tapeDoc{path: path, t: t}, nil
	case errors.Is(err, jsontext.ErrInvalidUTF8), errors.Is(err, jsontext.ErrLoneSurrogate):
		return nil, encodingError(path, err)
	case errors.Is(err, tape.ErrTooDeep):
		d.log.Debug().Str("path", path).Msg("document too deep for the tape, decoding from text")
		return textDoc{path: path, data: data}, nil
	default:
		return nil, detectionError(path, err)
	}
}

type tapeDoc struct {
	path string
	t    *tape.Tape
}

func (d tapeDoc) version() (uint32, error) { return detectTape(d.path, d.t) }

func (d tapeDoc) decode(b binding, val *validator.Validate) (VersionedCrate, error) {
	return b.decodeTape(d.t, val)
}
