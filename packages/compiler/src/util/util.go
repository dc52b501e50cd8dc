package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	camelizeRE  = regexp.MustCompile(`-(\w)`)
	hyphenateRE = regexp.MustCompile(`\B([A-Z])`)
)

// Camelize converts a kebab-case name to camelCase.
func Camelize(s string) string {
	return camelizeRE.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Hyphenate converts a camelCase or PascalCase name to kebab-case.
func Hyphenate(s string) string {
	return strings.ToLower(hyphenateRE.ReplaceAllString(s, "-$1"))
}
