package schema

import (
	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/config"
)

// TextDirective compiles v-text into a textContent property binding.
func TextDirective(el *ast.Element, dir *ast.Directive, _ config.WarnFunc) bool {
	if dir.Value != "" {
		addProp(el, "textContent", "_s("+dir.Value+")", dir)
	}
	return false
}

// HTMLDirective compiles v-html into an innerHTML property binding.
func HTMLDirective(el *ast.Element, dir *ast.Directive, _ config.WarnFunc) bool {
	if dir.Value != "" {
		addProp(el, "innerHTML", "_s("+dir.Value+")", dir)
	}
	return false
}

func addProp(el *ast.Element, name, value string, dir *ast.Directive) {
	el.Props = append(el.Props, &ast.Attr{Name: name, Value: value, Start: dir.Start, End: dir.End})
	el.Plain = false
}
