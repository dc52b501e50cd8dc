package util

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"

	"vtc-go/packages/compiler/src/core"
)

// UnicodeRegExpSource is the character-class fragment of letters allowed in
// html tags, component names and property paths.
// using https://www.w3.org/TR/html53/semantics-scripting.html#potentialcustomelementname
// The supplementary planes (U+10000-U+EFFFF) are left out.
const UnicodeRegExpSource = `a-zA-Z\x{00B7}\x{00C0}-\x{00D6}\x{00D8}-\x{00F6}\x{00F8}-\x{037D}` +
	`\x{037F}-\x{1FFF}\x{200C}-\x{200D}\x{203F}-\x{2040}\x{2070}-\x{218F}` +
	`\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}`

// UnicodeLetters is UnicodeRegExpSource as a range table.
var UnicodeLetters = rangetable.Merge(
	&unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 'A', Hi: 'Z', Stride: 1},
			{Lo: 'a', Hi: 'z', Stride: 1},
		},
		LatinOffset: 2,
	},
	&unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x00B7, Hi: 0x00B7, Stride: 1},
			{Lo: 0x00C0, Hi: 0x00D6, Stride: 1},
			{Lo: 0x00D8, Hi: 0x00F6, Stride: 1},
			{Lo: 0x00F8, Hi: 0x037D, Stride: 1},
			{Lo: 0x037F, Hi: 0x1FFF, Stride: 1},
			{Lo: 0x200C, Hi: 0x200D, Stride: 1},
			{Lo: 0x203F, Hi: 0x2040, Stride: 1},
			{Lo: 0x2070, Hi: 0x218F, Stride: 1},
			{Lo: 0x2C00, Hi: 0x2FEF, Stride: 1},
			{Lo: 0x3001, Hi: 0xD7FF, Stride: 1},
			{Lo: 0xF900, Hi: 0xFDCF, Stride: 1},
			{Lo: 0xFDF0, Hi: 0xFFFD, Stride: 1},
		},
		LatinOffset: 3,
	},
)

var (
	ncname       = `[a-zA-Z_][\-\.0-9_` + UnicodeRegExpSource + `]*`
	qnameRegExp  = regexp.MustCompile(`^(?:` + ncname + `:)?` + ncname + `$`)
	errEmptyName = errors.New("empty name")
)

var (
	// ErrInvalidComponentName is returned for names that are not valid
	// custom element names.
	ErrInvalidComponentName = errors.New("invalid component name")
	// ErrReservedComponentName is returned for built-in or platform tags.
	ErrReservedComponentName = errors.New("reserved component name")
)

// IsQName reports whether s is a (possibly prefixed) XML qualified name
// whose letters fall in UnicodeLetters.
func IsQName(s string) bool {
	return qnameRegExp.MatchString(s)
}

// IsNameChar reports whether r may appear after the first character of a
// component name.
func IsNameChar(r rune) bool {
	switch r {
	case core.CharMINUS, core.CharPERIOD, core.CharUnderscore:
		return true
	}
	return core.IsDigit(int(r)) || unicode.Is(UnicodeLetters, r)
}

// ValidateComponentName checks name against the html5 custom element name
// rules and against built-in and reserved tags. isReservedTag may be nil.
func ValidateComponentName(name string, isReservedTag TagPredicate) error {
	if name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidComponentName, errEmptyName)
	}
	first, size := utf8.DecodeRuneInString(name)
	valid := first < utf8.RuneSelf && core.IsAsciiLetter(int(first))
	for _, r := range name[size:] {
		if !valid {
			break
		}
		valid = IsNameChar(r)
	}
	if !valid {
		return fmt.Errorf("%w: %q. Component names should conform to valid custom element name in html5 specification", ErrInvalidComponentName, name)
	}
	if IsBuiltInTag(name) || (isReservedTag != nil && isReservedTag(name)) {
		return fmt.Errorf("%w: do not use built-in or reserved HTML elements as component id: %s", ErrReservedComponentName, name)
	}
	return nil
}
