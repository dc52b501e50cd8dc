// Package optimizer marks static sub-trees of a template AST. Code
// generation hoists marked trees into constants that the patching process
// skips.
package optimizer

import (
	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/config"
	"vtc-go/packages/compiler/src/util"
)

const baseStaticKeys = "type,tag,attrsList,attrsMap,plain,parent,children,attrs,start,end,rawAttrsMap"

var genStaticKeysCached = util.Cached(genStaticKeys)

func genStaticKeys(keys string) util.TagPredicate {
	if keys == "" {
		return util.MakeMap(baseStaticKeys, false)
	}
	return util.MakeMap(baseStaticKeys+","+keys, false)
}

type optimizer struct {
	isStaticKey           util.TagPredicate
	isPlatformReservedTag util.TagPredicate
}

// Optimize sets Static on every node below root and StaticRoot and
// StaticInFor on elements. A nil root is ignored and nil opts means the
// defaults of config.New.
func Optimize(root *ast.Element, opts *config.CompilerOptions) {
	if root == nil {
		return
	}
	if opts == nil {
		opts = config.New()
	}
	o := &optimizer{
		isStaticKey:           genStaticKeysCached(opts.StaticKeys),
		isPlatformReservedTag: opts.IsReservedTag,
	}
	if o.isPlatformReservedTag == nil {
		o.isPlatformReservedTag = util.NoTag
	}
	o.markStatic(root)
	o.markStaticRoots(root, false)
}

func (o *optimizer) markStatic(n ast.Node) {
	n.SetStatic(o.isStatic(n))
	el, ok := n.(*ast.Element)
	if !ok {
		return
	}
	// Component slot content stays dynamic so the component can mutate it.
	if _, inline := el.AttrsMap["inline-template"]; !o.isPlatformReservedTag(el.Tag) && el.Tag != "slot" && !inline {
		return
	}
	for _, child := range el.Children {
		o.markStatic(child)
		if !child.IsStatic() {
			el.Static = false
		}
	}
	for _, cond := range elseBranches(el) {
		o.markStatic(cond.Block)
		if !cond.Block.Static {
			el.Static = false
		}
	}
}

func (o *optimizer) markStaticRoots(n ast.Node, isInFor bool) {
	el, ok := n.(*ast.Element)
	if !ok {
		return
	}
	if el.Static || el.Once {
		el.StaticInFor = isInFor
	}
	// A static root needs children beyond a single text node.
	if el.Static && len(el.Children) > 0 && !(len(el.Children) == 1 && el.Children[0].Type() == ast.NodeText) {
		el.StaticRoot = true
		return
	}
	el.StaticRoot = false
	for _, child := range el.Children {
		o.markStaticRoots(child, isInFor || el.For != "")
	}
	for _, cond := range elseBranches(el) {
		o.markStaticRoots(cond.Block, isInFor)
	}
}

func (o *optimizer) isStatic(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Expression:
		return false
	case *ast.Text:
		return true
	case *ast.Element:
		if n.Pre {
			return true
		}
		if n.HasBindings || n.If != "" || n.For != "" {
			return false
		}
		if util.IsBuiltInTag(n.Tag) || !o.isPlatformReservedTag(n.Tag) || isDirectChildOfTemplateFor(n) {
			return false
		}
		for _, key := range n.SetKeys() {
			if !o.isStaticKey(key) {
				return false
			}
		}
		return true
	}
	return false
}

func isDirectChildOfTemplateFor(el *ast.Element) bool {
	for el.Parent != nil {
		el = el.Parent
		if el.Tag != "template" {
			return false
		}
		if el.For != "" {
			return true
		}
	}
	return false
}

// elseBranches returns the v-else-if and v-else conditions of el.
func elseBranches(el *ast.Element) []*ast.IfCondition {
	if len(el.IfConditions) < 2 {
		return nil
	}
	var out []*ast.IfCondition
	for _, cond := range el.IfConditions[1:] {
		if cond.Block != nil {
			out = append(out, cond)
		}
	}
	return out
}
