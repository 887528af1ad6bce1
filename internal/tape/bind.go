package tape

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// unmarshaler matches json.Unmarshaler without tying the binder to one JSON
// package.
type unmarshaler interface {
	UnmarshalJSON([]byte) error
}

var (
	unmarshalerType     = reflect.TypeOf((*unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

type hook uint8

const (
	hookNone hook = iota
	hookJSON
	hookText
)

// TypeError reports a JSON value that cannot be stored in the Go destination.
type TypeError struct {
	Path  string // JSON Pointer of the offending value, "/" for the root.
	Value string // JSON type of the value.
	Type  reflect.Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("tape: cannot decode %s into %s at %s", e.Value, e.Type, e.Path)
}

// decoder binds fastjson values to Go values following encoding/json rules:
// json tags name fields, unknown keys are ignored, null clears nillable
// destinations and leaves others untouched, and numbers stored in any become
// float64. Types implementing UnmarshalJSON receive the value's JSON text,
// TextUnmarshaler types receive strings and map keys. Struct layouts are
// cached per decode only.
type decoder struct {
	fields map[reflect.Type]*fieldSet
	hooks  map[reflect.Type]hook
}

func newDecoder() *decoder {
	return &decoder{
		fields: make(map[reflect.Type]*fieldSet),
		hooks:  make(map[reflect.Type]hook),
	}
}

func (d *decoder) hookOf(t reflect.Type) hook {
	h, ok := d.hooks[t]
	if ok {
		return h
	}
	pt := reflect.PointerTo(t)
	switch {
	case t.Kind() == reflect.Pointer:
		h = hookNone
	case pt.Implements(unmarshalerType):
		h = hookJSON
	case pt.Implements(textUnmarshalerType):
		h = hookText
	}
	d.hooks[t] = h
	return h
}

func (d *decoder) decodeInto(v *fastjson.Value, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("tape: Decode requires a non-nil pointer, got %T", dst)
	}
	return d.decode(v, rv.Elem(), "")
}

func (d *decoder) decode(v *fastjson.Value, rv reflect.Value, path string) error {
	switch d.hookOf(rv.Type()) {
	case hookJSON:
		u := rv.Addr().Interface().(unmarshaler)
		if err := u.UnmarshalJSON(v.MarshalTo(nil)); err != nil {
			return fmt.Errorf("tape: %s at %s: %w", rv.Type(), pointer(path), err)
		}
		return nil
	case hookText:
		if v.Type() == fastjson.TypeNull {
			return nil
		}
		if v.Type() != fastjson.TypeString {
			return typeErr(path, v, rv.Type())
		}
		sb, _ := v.StringBytes()
		u := rv.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText(sb); err != nil {
			return fmt.Errorf("tape: %s at %s: %w", rv.Type(), pointer(path), err)
		}
		return nil
	}
	if v.Type() == fastjson.TypeNull {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
		}
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.decode(v, rv.Elem(), path)
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return typeErr(path, v, rv.Type())
		}
		a, err := toAny(v)
		if err != nil {
			return fmt.Errorf("tape: at %s: %w", pointer(path), err)
		}
		if a == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		rv.Set(reflect.ValueOf(a))
		return nil
	case reflect.Struct:
		return d.decodeStruct(v, rv, path)
	case reflect.Map:
		return d.decodeMap(v, rv, path)
	case reflect.Slice:
		arr, err := v.Array()
		if err != nil {
			return typeErr(path, v, rv.Type())
		}
		out := reflect.MakeSlice(rv.Type(), len(arr), len(arr))
		for i, ev := range arr {
			if err := d.decode(ev, out.Index(i), path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		arr, err := v.Array()
		if err != nil {
			return typeErr(path, v, rv.Type())
		}
		for i := 0; i < rv.Len(); i++ {
			if i >= len(arr) {
				rv.Index(i).Set(reflect.Zero(rv.Type().Elem()))
				continue
			}
			if err := d.decode(arr[i], rv.Index(i), path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.String:
		if v.Type() != fastjson.TypeString {
			return typeErr(path, v, rv.Type())
		}
		sb, _ := v.StringBytes()
		rv.SetString(string(sb))
		return nil
	case reflect.Bool:
		b, err := v.Bool()
		if err != nil {
			return typeErr(path, v, rv.Type())
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() != fastjson.TypeNumber {
			return typeErr(path, v, rv.Type())
		}
		n, err := v.Int64()
		if err != nil || rv.OverflowInt(n) {
			return typeErr(path, v, rv.Type())
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Type() != fastjson.TypeNumber {
			return typeErr(path, v, rv.Type())
		}
		n, err := v.Uint64()
		if err != nil || rv.OverflowUint(n) {
			return typeErr(path, v, rv.Type())
		}
		rv.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		if v.Type() != fastjson.TypeNumber {
			return typeErr(path, v, rv.Type())
		}
		f, err := parseFloat(v)
		if err != nil || rv.OverflowFloat(f) {
			return typeErr(path, v, rv.Type())
		}
		rv.SetFloat(f)
		return nil
	}
	return fmt.Errorf("tape: unsupported destination type %s at %s", rv.Type(), pointer(path))
}

func (d *decoder) decodeStruct(v *fastjson.Value, rv reflect.Value, path string) error {
	obj, err := v.Object()
	if err != nil {
		return typeErr(path, v, rv.Type())
	}
	fs := d.fieldsOf(rv.Type())
	var firstErr error
	obj.Visit(func(k []byte, fv *fastjson.Value) {
		if firstErr != nil {
			return
		}
		key := string(k)
		idx, ok := fs.lookup(key)
		if !ok {
			return
		}
		firstErr = d.decode(fv, rv.Field(idx), path+"/"+escapeToken(key))
	})
	return firstErr
}

func (d *decoder) decodeMap(v *fastjson.Value, rv reflect.Value, path string) error {
	obj, err := v.Object()
	if err != nil {
		return typeErr(path, v, rv.Type())
	}
	mt := rv.Type()
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mt, obj.Len()))
	}
	var firstErr error
	obj.Visit(func(k []byte, ev *fastjson.Value) {
		if firstErr != nil {
			return
		}
		key := string(k)
		kv, err := mapKey(key, mt.Key())
		if err != nil {
			firstErr = fmt.Errorf("tape: map key %q at %s: %w", key, pointer(path), err)
			return
		}
		elem := reflect.New(mt.Elem()).Elem()
		if err := d.decode(ev, elem, path+"/"+escapeToken(key)); err != nil {
			firstErr = err
			return
		}
		rv.SetMapIndex(kv, elem)
	})
	return firstErr
}

func mapKey(key string, kt reflect.Type) (reflect.Value, error) {
	if reflect.PointerTo(kt).Implements(textUnmarshalerType) {
		kp := reflect.New(kt)
		if err := kp.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
			return reflect.Value{}, err
		}
		return kp.Elem(), nil
	}
	kv := reflect.New(kt).Elem()
	switch kt.Kind() {
	case reflect.String:
		kv.SetString(key)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(key, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		kv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(key, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		kv.SetUint(n)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported key type %s", kt)
	}
	return kv, nil
}

// toAny mirrors what a JSON decoder stores in an untyped destination.
func toAny(v *fastjson.Value) (any, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()
		m := make(map[string]any, obj.Len())
		var firstErr error
		obj.Visit(func(k []byte, ev *fastjson.Value) {
			if firstErr != nil {
				return
			}
			a, err := toAny(ev)
			if err != nil {
				firstErr = err
				return
			}
			m[string(k)] = a
		})
		if firstErr != nil {
			return nil, firstErr
		}
		return m, nil
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]any, len(arr))
		for i, ev := range arr {
			a, err := toAny(ev)
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	case fastjson.TypeString:
		sb, _ := v.StringBytes()
		return string(sb), nil
	case fastjson.TypeNumber:
		return parseFloat(v)
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	default:
		return nil, nil
	}
}

// parseFloat reads a number from its source text with strconv, so rounding
// and range errors match the text decoder exactly.
func parseFloat(v *fastjson.Value) (float64, error) {
	return strconv.ParseFloat(string(v.MarshalTo(nil)), 64)
}

// ---- struct field resolution ----

type fieldSet struct {
	byName map[string]int
	names  []string
	index  []int
}

// lookup prefers an exact key match and falls back to a case-insensitive one.
func (fs *fieldSet) lookup(key string) (int, bool) {
	if i, ok := fs.byName[key]; ok {
		return i, true
	}
	for j, name := range fs.names {
		if strings.EqualFold(name, key) {
			return fs.index[j], true
		}
	}
	return 0, false
}

func (d *decoder) fieldsOf(t reflect.Type) *fieldSet {
	if fs, ok := d.fields[t]; ok {
		return fs
	}
	fs := &fieldSet{byName: make(map[string]int, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := structKey(sf)
		if name == "-" {
			continue
		}
		fs.byName[name] = i
		fs.names = append(fs.names, name)
		fs.index = append(fs.index, i)
	}
	d.fields[t] = fs
	return fs
}

// structKey resolves the external key of a struct field: json tag name, then
// the Go field name; "-" disables the field.
func structKey(sf reflect.StructField) string {
	jt := sf.Tag.Get("json")
	if jt == "-" {
		return "-"
	}
	if i := strings.IndexByte(jt, ','); i >= 0 {
		jt = jt[:i]
	}
	if jt == "" {
		return sf.Name
	}
	return jt
}

func typeErr(path string, v *fastjson.Value, t reflect.Type) error {
	return &TypeError{Path: pointer(path), Value: v.Type().String(), Type: t}
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func escapeToken(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
