package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/config"
	"vtc-go/packages/compiler/src/util"
)

// ClassModule moves class and :class into StaticClass and ClassBinding.
var ClassModule = &config.ModuleOptions{
	StaticKeys:    []string{"staticClass"},
	TransformNode: transformClass,
	GenData:       genClassData,
}

// StyleModule moves style and :style into StaticStyle and StyleBinding.
var StyleModule = &config.ModuleOptions{
	StaticKeys:    []string{"staticStyle"},
	TransformNode: transformStyle,
	GenData:       genStyleData,
}

func transformClass(el *ast.Element, opts *config.CompilerOptions) *ast.Element {
	if staticClass := attrString(el, "class"); staticClass != "" {
		warnInterpolation(el, "class", staticClass, opts)
		el.StaticClass = jsonString(strings.Join(strings.Fields(staticClass), " "))
	}
	if binding, ok := getBindingAttr(el, "class"); ok {
		el.ClassBinding = binding
	}
	return nil
}

func genClassData(el *ast.Element) string {
	var data string
	if el.StaticClass != "" {
		data += "staticClass:" + el.StaticClass + ","
	}
	if el.ClassBinding != "" {
		data += "class:" + el.ClassBinding + ","
	}
	return data
}

func transformStyle(el *ast.Element, opts *config.CompilerOptions) *ast.Element {
	if staticStyle := attrString(el, "style"); staticStyle != "" {
		warnInterpolation(el, "style", staticStyle, opts)
		el.StaticStyle = parseStyleText(staticStyle).JSON()
	}
	if binding, ok := getBindingAttr(el, "style"); ok {
		el.StyleBinding = binding
	}
	return nil
}

func genStyleData(el *ast.Element) string {
	var data string
	if el.StaticStyle != "" {
		data += "staticStyle:" + el.StaticStyle + ","
	}
	if el.StyleBinding != "" {
		data += "style:(" + el.StyleBinding + "),"
	}
	return data
}

func attrString(el *ast.Element, name string) string {
	v, ok := el.GetAndRemoveAttr(name, false)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// getBindingAttr returns the expression bound with :name or v-bind:name.
func getBindingAttr(el *ast.Element, name string) (string, bool) {
	for _, attr := range []string{":" + name, "v-bind:" + name} {
		if v, ok := el.GetAndRemoveAttr(attr, false); ok {
			s, _ := v.(string)
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func warnInterpolation(el *ast.Element, name, value string, opts *config.CompilerOptions) {
	delims := opts.DelimitersOrDefault()
	if !hasInterpolation(value, delims) {
		return
	}
	msg := fmt.Sprintf(
		`%s="%s": Interpolation inside attributes has been removed. `+
			`Use v-bind or the colon shorthand instead. For example, `+
			`instead of <div %s="%s val %s">, use <div :%s="val">.`,
		name, value, name, delims[0], delims[1], name,
	)
	w := util.NewWarning(msg)
	if raw := el.RawAttrsMap[name]; raw != nil && raw.Start != nil && raw.End != nil {
		w = util.NewRangedWarning(msg, *raw.Start, *raw.End)
	}
	opts.Warn(w, false)
}

// hasInterpolation reports whether text contains a non-empty delimited
// expression.
func hasInterpolation(text string, delims [2]string) bool {
	i := strings.Index(text, delims[0])
	if i < 0 {
		return false
	}
	rest := text[i+len(delims[0]):]
	return len(rest) > 0 && strings.Contains(rest[1:], delims[1])
}

// StyleDeclarations is an ordered set of CSS declarations.
type StyleDeclarations struct {
	Names  []string
	Values map[string]string
}

// JSON renders the declarations as a JSON object in declaration order.
func (s StyleDeclarations) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range s.Names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(jsonString(name))
		sb.WriteByte(':')
		sb.WriteString(jsonString(s.Values[name]))
	}
	sb.WriteByte('}')
	return sb.String()
}

var parseStyleText = util.Cached(ParseStyleText)

// ParseStyleText splits an inline style attribute into declarations. A
// semicolon inside parentheses does not end a declaration; a later
// declaration of the same property replaces the value but keeps the
// original position. A value ends at the first line break.
func ParseStyleText(cssText string) StyleDeclarations {
	res := StyleDeclarations{Values: map[string]string{}}
	for _, item := range splitStyleList(cssText) {
		m := propertyDelimiterRE.FindStringSubmatchIndex(item)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(item[:m[0]])
		if _, seen := res.Values[name]; !seen {
			res.Names = append(res.Names, name)
		}
		res.Values[name] = strings.TrimSpace(item[m[2]:m[3]])
	}
	return res
}

// propertyDelimiterRE matches the first colon followed by at least one
// character on the same line.
var propertyDelimiterRE = regexp.MustCompile(`:([^\n\r\x{2028}\x{2029}]+)`)

// splitStyleList splits on every ';' that is not followed by a ')' before
// the next '('.
func splitStyleList(cssText string) []string {
	var items []string
	start := 0
	for i := 0; i < len(cssText); i++ {
		if cssText[i] != ';' || insideParens(cssText[i+1:]) {
			continue
		}
		items = append(items, cssText[start:i])
		start = i + 1
	}
	return append(items, cssText[start:])
}

func insideParens(rest string) bool {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			return false
		case ')':
			return true
		}
	}
	return false
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
