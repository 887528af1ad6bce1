package rustdocjson

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/valyala/fastjson"

	"github.com/reoring/rustdocjson/internal/tape"
)

const formatVersionKey = "format_version"

var (
	errMalformedJSON  = errors.New("document is not well-formed JSON")
	errMissingVersion = errors.New("format_version is missing or null")
)

// versionHeader decodes only the version marker. Every other key is skipped,
// but the whole document is still validated first.
type versionHeader struct {
	FormatVersion *uint32 `json:"format_version"`
}

// detectText reads format_version from the raw text. This walks the entire
// document even though only one field is kept. Syntax is checked by the same
// validator the tape uses, so both strategies reject exactly the same
// documents; number ranges are left to the schema decode.
func detectText(path string, data []byte) (uint32, error) {
	if err := fastjson.ValidateBytes(data); err != nil {
		return 0, detectionError(path, fmt.Errorf("%w: %v", errMalformedJSON, err))
	}
	var hdr versionHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return 0, detectionError(path, err)
	}
	if hdr.FormatVersion == nil {
		return 0, detectionError(path, errMissingVersion)
	}
	return *hdr.FormatVersion, nil
}

// detectTape reads format_version from an already built tape without touching
// the raw bytes again.
func detectTape(path string, t *tape.Tape) (uint32, error) {
	v, err := t.Uint32(formatVersionKey)
	if err != nil {
		if errors.Is(err, tape.ErrNotFound) {
			return 0, detectionError(path, errMissingVersion)
		}
		return 0, detectionError(path, err)
	}
	return v, nil
}
