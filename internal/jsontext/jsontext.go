// Package jsontext holds byte-level checks on raw JSON text that both load
// strategies apply before any parser sees the input.
package jsontext

import (
	"bytes"
	"errors"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports input that is not UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
	// ErrLoneSurrogate reports a \u escape naming half of a UTF-16 surrogate
	// pair without its other half.
	ErrLoneSurrogate = errors.New("input contains an unpaired UTF-16 surrogate escape")
)

// Validate checks that data is UTF-8 and that every \u escape decodes to a
// Unicode scalar value. Syntax is not checked.
func Validate(data []byte) error {
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	if hasLoneSurrogate(data) {
		return ErrLoneSurrogate
	}
	return nil
}

func hasLoneSurrogate(data []byte) bool {
	for i := bytes.IndexByte(data, '\\'); i >= 0 && i < len(data); {
		// data[i] is a backslash; data[i+1] is the escaped byte.
		if i+1 >= len(data) {
			return false
		}
		if data[i+1] != 'u' {
			i = next(data, i+2)
			continue
		}
		r, ok := hex4(data, i+2)
		if !ok {
			i = next(data, i+2)
			continue
		}
		switch {
		case r >= 0xDC00 && r <= 0xDFFF:
			return true
		case r >= 0xD800 && r <= 0xDBFF:
			j := i + 6
			if j+1 >= len(data) || data[j] != '\\' || data[j+1] != 'u' {
				return true
			}
			lo, ok := hex4(data, j+2)
			if !ok || utf16.DecodeRune(r, lo) == utf8.RuneError {
				return true
			}
			i = next(data, j+6)
		default:
			i = next(data, i+6)
		}
	}
	return false
}

// next returns the index of the first backslash at or after from, or -1.
func next(data []byte, from int) int {
	if from >= len(data) {
		return -1
	}
	j := bytes.IndexByte(data[from:], '\\')
	if j < 0 {
		return -1
	}
	return from + j
}

func hex4(data []byte, at int) (rune, bool) {
	if at+4 > len(data) {
		return 0, false
	}
	var r rune
	for _, c := range data[at : at+4] {
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	return r, true
}

// ExceedsDepth reports whether arrays and objects in data nest deeper than
// max. Brackets inside strings are ignored.
func ExceedsDepth(data []byte, max int) bool {
	depth := 0
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
			if depth > max {
				return true
			}
		case ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return false
}
