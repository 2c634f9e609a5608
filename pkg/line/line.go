// Package line holds the binary print line handed to the schedulers and
// the glue that turns arbitrary text into one.
package line

import (
	"strings"

	"chainprinter-go/pkg/errors"
)

// SanitizeWidth is the number of characters Sanitize keeps.
const SanitizeWidth = 8

// Line is an immutable sequence of '0'/'1' symbols.
type Line struct {
	bits []byte
}

// Parse validates s and returns it as a Line. It fails with an
// INVALID_LINE error for an empty string or any symbol other than '0'/'1'.
func Parse(s string) (Line, error) {
	if s == "" {
		return Line{}, errors.InvalidLineError(-1, 0)
	}
	bits := make([]byte, 0, len(s))
	for _, r := range s {
		switch r {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		default:
			return Line{}, errors.InvalidLineError(len(bits), r)
		}
	}
	return Line{bits: bits}, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Line {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// FromBits builds a Line from 0/1 values.
func FromBits(bits []byte) (Line, error) {
	if len(bits) == 0 {
		return Line{}, errors.InvalidLineError(-1, 0)
	}
	out := make([]byte, len(bits))
	for i, b := range bits {
		if b > 1 {
			return Line{}, errors.InvalidLineError(i, rune('0'+b))
		}
		out[i] = b
	}
	return Line{bits: out}, nil
}

// Len returns the number of columns.
func (l Line) Len() int { return len(l.bits) }

// Bit returns the symbol at column i as 0 or 1.
func (l Line) Bit(i int) byte { return l.bits[i] }

// String renders the line as '0'/'1' characters.
func (l Line) String() string {
	var sb strings.Builder
	sb.Grow(len(l.bits))
	for _, b := range l.bits {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// Sanitize maps free text onto the printer alphabet. Only the first
// SanitizeWidth runes of text are kept; ASCII '0', '1' and ' ' pass through
// and every other rune becomes '0', including other scripts' digits.
//
// Spaces are kept as is, so the result is not necessarily a valid Line.
func Sanitize(text string) string {
	var sb strings.Builder
	n := 0
	for _, r := range text {
		if n == SanitizeWidth {
			break
		}
		switch r {
		case '0', '1', ' ':
			sb.WriteRune(r)
		default:
			sb.WriteByte('0')
		}
		n++
	}
	return sb.String()
}
