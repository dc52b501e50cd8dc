package core

// Character codes.
const (
	CharDQ = 34
	CharSQ = 39

	CharLPAREN = 40
	CharRPAREN = 41
	CharMINUS  = 45
	CharPERIOD = 46

	Char0 = 48
	Char9 = 57

	CharA = 65
	CharZ = 90

	CharUnderscore = 95

	CharLowerA = 97
	CharLowerZ = 122
)

// IsDigit checks if a character code represents a digit
func IsDigit(code int) bool {
	return Char0 <= code && code <= Char9
}

// IsAsciiLetter checks if a character code represents an ASCII letter
func IsAsciiLetter(code int) bool {
	return (code >= CharLowerA && code <= CharLowerZ) || (code >= CharA && code <= CharZ)
}

// IsQuote checks if a character code opens a string literal
func IsQuote(code int) bool {
	return code == CharSQ || code == CharDQ
}
