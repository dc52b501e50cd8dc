package ast

// Structural keys every element carries.
var baseKeys = []string{"type", "tag", "attrsList", "attrsMap", "rawAttrsMap", "parent", "children"}

// SetKeys returns the property names of the populated fields of el, named
// as in the wire format. The structural keys are always present; start and
// end only when a range was recorded. A field holding its zero value counts
// as unset. The optimizer's own outputs (static, staticRoot, staticInFor)
// are never reported, so running the optimizer twice gives the same result.
func (el *Element) SetKeys() []string {
	keys := append([]string(nil), baseKeys...)
	add := func(set bool, name string) {
		if set {
			keys = append(keys, name)
		}
	}

	add(el.Start != nil, "start")
	add(el.End != nil, "end")
	add(el.Processed, "processed")
	add(el.StaticProcessed, "staticProcessed")
	add(el.HasBindings, "hasBindings")
	add(el.Text != "", "text")
	add(el.Attrs != nil, "attrs")
	add(el.DynamicAttrs != nil, "dynamicAttrs")
	add(el.Props != nil, "props")
	add(el.Plain, "plain")
	add(el.Pre, "pre")
	add(el.Ns != "", "ns")
	add(el.Component != "", "component")
	add(el.InlineTemplate, "inlineTemplate")
	add(el.TransitionMode != "", "transitionMode")
	add(el.SlotName != "", "slotName")
	add(el.SlotTarget != "", "slotTarget")
	add(el.SlotTargetDynamic, "slotTargetDynamic")
	add(el.SlotScope != "", "slotScope")
	add(el.ScopedSlots != nil, "scopedSlots")
	add(el.Ref != "", "ref")
	add(el.RefInFor, "refInFor")
	add(el.If != "", "if")
	add(el.IfProcessed, "ifProcessed")
	add(el.ElseIf != "", "elseif")
	add(el.Else, "else")
	add(el.IfConditions != nil, "ifConditions")
	add(el.For != "", "for")
	add(el.ForProcessed, "forProcessed")
	add(el.Key != "", "key")
	add(el.Alias != "", "alias")
	add(el.Iterator1 != "", "iterator1")
	add(el.Iterator2 != "", "iterator2")
	add(el.StaticClass != "", "staticClass")
	add(el.ClassBinding != "", "classBinding")
	add(el.StaticStyle != "", "staticStyle")
	add(el.StyleBinding != "", "styleBinding")
	add(el.Events != nil, "events")
	add(el.NativeEvents != nil, "nativeEvents")
	add(el.Transition != nil, "transition")
	add(el.TransitionOnAppear, "transitionOnAppear")
	add(el.Model != nil, "model")
	add(el.Directives != nil, "directives")
	add(el.Forbidden, "forbidden")
	add(el.Once, "once")
	add(el.OnceProcessed, "onceProcessed")
	add(el.WrapData != nil, "wrapData")
	add(el.WrapListeners != nil, "wrapListeners")
	add(el.SSROptimizability != nil, "ssrOptimizability")
	return keys
}
