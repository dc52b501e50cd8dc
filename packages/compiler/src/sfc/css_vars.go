package sfc

import (
	"regexp"
	"slices"
	"strings"

	"vtc-go/packages/compiler/src/core"
)

var (
	cssCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	vBindRE      = regexp.MustCompile(`v-bind\s*\(`)
	varNameRE    = regexp.MustCompile(`[^\w-]`)
)

type lexerState int

const (
	inParens lexerState = iota
	inSingleQuoteString
	inDoubleQuoteString
)

// ParseCSSVars returns the expressions of every v-bind() in the style
// blocks of d, deduplicated, in source order. v-bind() inside /* */
// comments is ignored.
func ParseCSSVars(d *Descriptor) []string {
	vars := []string{}
	for _, style := range d.Styles {
		content := cssCommentRE.ReplaceAllString(style.Content, "")
		for _, loc := range vBindRE.FindAllStringIndex(content, -1) {
			start := loc[1]
			end, ok := lexBinding(content, start)
			if !ok {
				continue
			}
			variable := normalizeExpression(content[start:end])
			if !slices.Contains(vars, variable) {
				vars = append(vars, variable)
			}
		}
	}
	return vars
}

// ResolveCSSVars stores ParseCSSVars(d) in d.CSSVars.
func (d *Descriptor) ResolveCSSVars() []string {
	d.CSSVars = ParseCSSVars(d)
	return d.CSSVars
}

// lexBinding returns the offset of the parenthesis closing a v-bind( whose
// argument starts at start.
func lexBinding(content string, start int) (int, bool) {
	state := inParens
	parenDepth := 0
	for i := start; i < len(content); i++ {
		c := content[i]
		switch state {
		case inParens:
			switch c {
			case core.CharSQ:
				state = inSingleQuoteString
			case core.CharDQ:
				state = inDoubleQuoteString
			case core.CharLPAREN:
				parenDepth++
			case core.CharRPAREN:
				if parenDepth == 0 {
					return i, true
				}
				parenDepth--
			}
		case inSingleQuoteString:
			if c == core.CharSQ {
				state = inParens
			}
		case inDoubleQuoteString:
			if c == core.CharDQ {
				state = inParens
			}
		}
	}
	return 0, false
}

func normalizeExpression(exp string) string {
	exp = strings.TrimSpace(exp)
	if exp == "" {
		return exp
	}
	first, last := exp[0], exp[len(exp)-1]
	if core.IsQuote(int(first)) && first == last {
		if len(exp) < 2 {
			return ""
		}
		return exp[1 : len(exp)-1]
	}
	return exp
}

// CSSVarName returns the development-mode custom property name of a
// v-bind() expression in the component with scope id id.
func CSSVarName(id, raw string) string {
	return id + "-" + varNameRE.ReplaceAllString(raw, "_")
}
