package isa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chiiko/chiiko/internal/chiikoerr"
)

// ParseNumeral parses a decimal, 0x-hex, 0o-octal, or 0b-binary literal into
// an unsigned integer. The base prefix, when present, is case-insensitive.
func ParseNumeral(literal string) (uint64, error) {
	s := literal
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base = 8
		s = s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base = 2
		s = s[2:]
	}

	if s == "" {
		return 0, &chiikoerr.NumeralError{Literal: literal, Cause: fmt.Errorf("%w: empty digits", chiikoerr.ErrBadNumeral)}
	}

	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, &chiikoerr.NumeralError{Literal: literal, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrBadNumeral, err)}
	}
	return v, nil
}

// LooksNumeric reports whether s begins with an ASCII digit, the shape the
// lexer and parser use to decide between a numeral and an identifier.
func LooksNumeric(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
