package optimizer

import (
	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/config"
	"vtc-go/packages/compiler/src/util"
)

// SSR optimizability levels stored in SSROptimizability.
const (
	// SSRFalse: the whole sub-tree must be rendered as virtual nodes.
	SSRFalse = iota
	// SSRFull: the whole sub-tree can be rendered as a string.
	SSRFull
	// SSRSelf: the node can be stringified but some children cannot.
	SSRSelf
	// SSRChildren: the node needs a virtual node but its children can be
	// stringified.
	SSRChildren
	// SSRPartial: the node needs a virtual node and only some children can
	// be stringified.
	SSRPartial
)

var isBuiltInDir = util.MakeMap("text,html,show,on,bind,model,pre,cloak,once", false)

type ssrOptimizer struct {
	isPlatformReservedTag util.TagPredicate
}

// OptimizeSSR records on every node how much of it can be rendered to a
// string on the server. Runs of fully optimizable siblings below a
// partially optimizable element are wrapped in <template> elements.
func OptimizeSSR(root *ast.Element, opts *config.CompilerOptions) {
	if root == nil {
		return
	}
	if opts == nil {
		opts = config.New()
	}
	o := &ssrOptimizer{isPlatformReservedTag: opts.IsReservedTag}
	if o.isPlatformReservedTag == nil {
		o.isPlatformReservedTag = util.NoTag
	}
	o.walk(root, true)
}

// truthy reports whether an attribute value is set to something other
// than an empty string or false.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	}
	return true
}

func level(l int) *int {
	return &l
}

func ssrLevel(n ast.Node) *int {
	switch n := n.(type) {
	case *ast.Element:
		return n.SSROptimizability
	case *ast.Expression:
		return n.SSROptimizability
	case *ast.Text:
		return n.SSROptimizability
	}
	return nil
}

func (o *ssrOptimizer) walk(n ast.Node, isRoot bool) {
	switch n := n.(type) {
	case *ast.Expression:
		n.SSROptimizability = level(SSRFull)
	case *ast.Text:
		n.SSROptimizability = level(SSRFull)
	case *ast.Element:
		o.walkElement(n, isRoot)
	}
}

func (o *ssrOptimizer) walkElement(el *ast.Element, isRoot bool) {
	if o.isUnoptimizableTree(el) {
		el.SSROptimizability = level(SSRFalse)
		return
	}
	// The root and nodes with custom directives always need a virtual node.
	selfUnoptimizable := isRoot || hasCustomDirective(el)
	check := func(child ast.Node) {
		if l := ssrLevel(child); l == nil || *l != SSRFull {
			if selfUnoptimizable {
				el.SSROptimizability = level(SSRPartial)
			} else {
				el.SSROptimizability = level(SSRSelf)
			}
		}
	}
	if selfUnoptimizable {
		el.SSROptimizability = level(SSRChildren)
	}
	for _, child := range el.Children {
		o.walk(child, false)
		check(child)
	}
	for _, cond := range elseBranches(el) {
		o.walk(cond.Block, isRoot)
		check(cond.Block)
	}
	vHTML := truthy(el.AttrsMap["v-html"])
	vText := truthy(el.AttrsMap["v-text"])
	if el.SSROptimizability == nil || (!isRoot && (vHTML || vText)) {
		el.SSROptimizability = level(SSRFull)
	} else {
		optimizeSiblings(el)
	}
}

// optimizeSiblings groups runs of fully optimizable children into
// <template> wrappers.
func optimizeSiblings(el *ast.Element) {
	var children []ast.Node
	var group []ast.Node
	pushGroup := func() {
		if len(group) == 0 {
			return
		}
		tmpl := ast.NewElement("template", []*ast.Attr{}, el, nil)
		tmpl.SSROptimizability = level(SSRFull)
		for _, c := range group {
			if child, ok := c.(*ast.Element); ok {
				child.Parent = tmpl
			}
		}
		tmpl.Children = group
		children = append(children, tmpl)
		group = nil
	}
	for _, child := range el.Children {
		if l := ssrLevel(child); l != nil && *l == SSRFull {
			group = append(group, child)
			continue
		}
		pushGroup()
		children = append(children, child)
	}
	pushGroup()
	el.Children = children
}

func (o *ssrOptimizer) isUnoptimizableTree(el *ast.Element) bool {
	return util.IsBuiltInTag(el.Tag) ||
		!o.isPlatformReservedTag(el.Tag) ||
		el.Component != "" ||
		isSelectWithModel(el)
}

func hasCustomDirective(el *ast.Element) bool {
	for _, d := range el.Directives {
		if !isBuiltInDir(d.Name) {
			return true
		}
	}
	return false
}

// A <select v-model> needs a runtime check to pick the selected option.
func isSelectWithModel(el *ast.Element) bool {
	if el.Tag != "select" {
		return false
	}
	for _, d := range el.Directives {
		if d.Name == "model" {
			return true
		}
	}
	return false
}
