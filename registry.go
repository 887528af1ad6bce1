package rustdocjson

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/reoring/rustdocjson/internal/tape"
)

// binding ties one format_version to its typed schema. decodeText and
// decodeTape must produce equal values for the same document.
type binding struct {
	version    uint32
	decodeText func(data []byte, val *validator.Validate) (VersionedCrate, error)
	decodeTape func(t *tape.Tape, val *validator.Validate) (VersionedCrate, error)
}

// bindings is filled by the init functions of the version_vNN.go files the
// build includes and is read-only afterwards.
var bindings = map[uint32]binding{}

func register(b binding) {
	if _, dup := bindings[b.version]; dup {
		panic(fmt.Sprintf("rustdocjson: format version %d registered twice", b.version))
	}
	bindings[b.version] = b
}

// bind builds the binding for schema root type T. wrap tags the decoded value
// with its variant.
func bind[T any](version uint32, wrap func(*T) VersionedCrate) binding {
	return binding{
		version: version,
		decodeText: func(data []byte, val *validator.Validate) (VersionedCrate, error) {
			c := new(T)
			if err := json.Unmarshal(data, c); err != nil {
				return nil, err
			}
			if err := checkRequired(val, c); err != nil {
				return nil, err
			}
			return wrap(c), nil
		},
		decodeTape: func(t *tape.Tape, val *validator.Validate) (VersionedCrate, error) {
			c := new(T)
			if err := t.Decode(c); err != nil {
				return nil, err
			}
			if err := checkRequired(val, c); err != nil {
				return nil, err
			}
			return wrap(c), nil
		},
	}
}

func lookupBinding(version uint32) (binding, bool) {
	b, ok := bindings[version]
	return b, ok
}

// SupportedVersions lists the format versions compiled into this build in
// ascending order.
func SupportedVersions() []uint32 {
	out := make([]uint32, 0, len(bindings))
	for v := range bindings {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// IsSupported reports whether documents of the given format version can be
// loaded by this build.
func IsSupported(version uint32) bool {
	_, ok := bindings[version]
	return ok
}

// ---- required structure ----

// MissingFieldsError lists required fields absent (or null) in a document
// body, named by their JSON keys.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required field(s): " + strings.Join(e.Fields, ", ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkRequired(val *validator.Validate, c any) error {
	err := val.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := &MissingFieldsError{}
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			return err
		}
		missing.Fields = append(missing.Fields, fe.Field())
	}
	return missing
}
