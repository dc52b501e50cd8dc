package config

import (
	"strings"

	"vtc-go/packages/compiler/src/ast"
)

// ModuleOptions is a compiler plugin. Every hook is optional.
type ModuleOptions struct {
	// PreTransformNode runs before the element's attributes are processed.
	// A non-nil result replaces the element.
	PreTransformNode func(el *ast.Element, opts *CompilerOptions) *ast.Element
	// TransformNode runs after the element's attributes are processed.
	TransformNode func(el *ast.Element, opts *CompilerOptions) *ast.Element
	// PostTransformNode runs after the element and its children are done.
	PostTransformNode func(el *ast.Element, opts *CompilerOptions)
	// GenData returns extra data object code for the element.
	GenData func(el *ast.Element) string
	// TransformCode rewrites the generated code of the element.
	TransformCode func(el *ast.Element, code string) string
	// StaticKeys lists the AST properties this module considers static.
	StaticKeys []string
}

func applyTransforms(el *ast.Element, opts *CompilerOptions, pick func(*ModuleOptions) func(*ast.Element, *CompilerOptions) *ast.Element) *ast.Element {
	for _, m := range opts.Modules {
		fn := pick(m)
		if fn == nil {
			continue
		}
		if next := fn(el, opts); next != nil {
			el = next
		}
	}
	return el
}

// ApplyPreTransforms runs every PreTransformNode hook in module order and
// returns the resulting element.
func ApplyPreTransforms(el *ast.Element, opts *CompilerOptions) *ast.Element {
	return applyTransforms(el, opts, func(m *ModuleOptions) func(*ast.Element, *CompilerOptions) *ast.Element {
		return m.PreTransformNode
	})
}

// ApplyTransforms runs every TransformNode hook in module order and
// returns the resulting element.
func ApplyTransforms(el *ast.Element, opts *CompilerOptions) *ast.Element {
	return applyTransforms(el, opts, func(m *ModuleOptions) func(*ast.Element, *CompilerOptions) *ast.Element {
		return m.TransformNode
	})
}

// ApplyPostTransforms runs every PostTransformNode hook in module order.
func ApplyPostTransforms(el *ast.Element, opts *CompilerOptions) {
	for _, m := range opts.Modules {
		if m.PostTransformNode != nil {
			m.PostTransformNode(el, opts)
		}
	}
}

// GenData concatenates the data code every module produces for el.
func GenData(el *ast.Element, modules []*ModuleOptions) string {
	var sb strings.Builder
	for _, m := range modules {
		if m.GenData != nil {
			sb.WriteString(m.GenData(el))
		}
	}
	return sb.String()
}

// TransformCode threads code through every module's TransformCode hook.
func TransformCode(el *ast.Element, code string, modules []*ModuleOptions) string {
	for _, m := range modules {
		if m.TransformCode != nil {
			code = m.TransformCode(el, code)
		}
	}
	return code
}

// GenStaticKeys joins the static keys of all modules with commas.
func GenStaticKeys(modules []*ModuleOptions) string {
	var keys []string
	for _, m := range modules {
		keys = append(keys, m.StaticKeys...)
	}
	return strings.Join(keys, ",")
}
