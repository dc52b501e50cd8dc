package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownNodeType is returned when a decoded node carries a discriminant
// other than 1, 2 or 3.
var ErrUnknownNodeType = errors.New("unknown node type")

// Format selects a wire encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// wireNode is the flat tagged-union form of every node kind. Parent pointers
// are never written; Relink restores them after decoding.
type wireNode struct {
	Type NodeType `json:"type" msgpack:"type"`

	Tag         string           `json:"tag,omitempty" msgpack:"tag,omitempty"`
	AttrsList   []*Attr          `json:"attrsList,omitempty" msgpack:"attrsList,omitempty"`
	AttrsMap    map[string]any   `json:"attrsMap,omitempty" msgpack:"attrsMap,omitempty"`
	RawAttrsMap map[string]*Attr `json:"rawAttrsMap,omitempty" msgpack:"rawAttrsMap,omitempty"`
	Children    []*wireNode      `json:"children,omitempty" msgpack:"children,omitempty"`

	Start *int `json:"start,omitempty" msgpack:"start,omitempty"`
	End   *int `json:"end,omitempty" msgpack:"end,omitempty"`

	Processed       bool `json:"processed,omitempty" msgpack:"processed,omitempty"`
	Static          bool `json:"static,omitempty" msgpack:"static,omitempty"`
	StaticRoot      bool `json:"staticRoot,omitempty" msgpack:"staticRoot,omitempty"`
	StaticInFor     bool `json:"staticInFor,omitempty" msgpack:"staticInFor,omitempty"`
	StaticProcessed bool `json:"staticProcessed,omitempty" msgpack:"staticProcessed,omitempty"`
	HasBindings     bool `json:"hasBindings,omitempty" msgpack:"hasBindings,omitempty"`

	Text         string  `json:"text,omitempty" msgpack:"text,omitempty"`
	Attrs        []*Attr `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
	DynamicAttrs []*Attr `json:"dynamicAttrs,omitempty" msgpack:"dynamicAttrs,omitempty"`
	Props        []*Attr `json:"props,omitempty" msgpack:"props,omitempty"`
	Plain        bool    `json:"plain,omitempty" msgpack:"plain,omitempty"`
	Pre          bool    `json:"pre,omitempty" msgpack:"pre,omitempty"`
	Ns           string  `json:"ns,omitempty" msgpack:"ns,omitempty"`

	Component         string               `json:"component,omitempty" msgpack:"component,omitempty"`
	InlineTemplate    bool                 `json:"inlineTemplate,omitempty" msgpack:"inlineTemplate,omitempty"`
	TransitionMode    string               `json:"transitionMode,omitempty" msgpack:"transitionMode,omitempty"`
	SlotName          string               `json:"slotName,omitempty" msgpack:"slotName,omitempty"`
	SlotTarget        string               `json:"slotTarget,omitempty" msgpack:"slotTarget,omitempty"`
	SlotTargetDynamic bool                 `json:"slotTargetDynamic,omitempty" msgpack:"slotTargetDynamic,omitempty"`
	SlotScope         string               `json:"slotScope,omitempty" msgpack:"slotScope,omitempty"`
	ScopedSlots       map[string]*wireNode `json:"scopedSlots,omitempty" msgpack:"scopedSlots,omitempty"`

	Ref      string `json:"ref,omitempty" msgpack:"ref,omitempty"`
	RefInFor bool   `json:"refInFor,omitempty" msgpack:"refInFor,omitempty"`

	If           string             `json:"if,omitempty" msgpack:"if,omitempty"`
	IfProcessed  bool               `json:"ifProcessed,omitempty" msgpack:"ifProcessed,omitempty"`
	ElseIf       string             `json:"elseif,omitempty" msgpack:"elseif,omitempty"`
	Else         bool               `json:"else,omitempty" msgpack:"else,omitempty"`
	IfConditions []*wireIfCondition `json:"ifConditions,omitempty" msgpack:"ifConditions,omitempty"`

	For          string `json:"for,omitempty" msgpack:"for,omitempty"`
	ForProcessed bool   `json:"forProcessed,omitempty" msgpack:"forProcessed,omitempty"`
	Key          string `json:"key,omitempty" msgpack:"key,omitempty"`
	Alias        string `json:"alias,omitempty" msgpack:"alias,omitempty"`
	Iterator1    string `json:"iterator1,omitempty" msgpack:"iterator1,omitempty"`
	Iterator2    string `json:"iterator2,omitempty" msgpack:"iterator2,omitempty"`

	StaticClass  string          `json:"staticClass,omitempty" msgpack:"staticClass,omitempty"`
	ClassBinding string          `json:"classBinding,omitempty" msgpack:"classBinding,omitempty"`
	StaticStyle  string          `json:"staticStyle,omitempty" msgpack:"staticStyle,omitempty"`
	StyleBinding string          `json:"styleBinding,omitempty" msgpack:"styleBinding,omitempty"`
	Events       ElementHandlers `json:"events,omitempty" msgpack:"events,omitempty"`
	NativeEvents ElementHandlers `json:"nativeEvents,omitempty" msgpack:"nativeEvents,omitempty"`

	Transition         any  `json:"transition,omitempty" msgpack:"transition,omitempty"`
	TransitionOnAppear bool `json:"transitionOnAppear,omitempty" msgpack:"transitionOnAppear,omitempty"`

	Model      *Model       `json:"model,omitempty" msgpack:"model,omitempty"`
	Directives []*Directive `json:"directives,omitempty" msgpack:"directives,omitempty"`

	Forbidden     bool `json:"forbidden,omitempty" msgpack:"forbidden,omitempty"`
	Once          bool `json:"once,omitempty" msgpack:"once,omitempty"`
	OnceProcessed bool `json:"onceProcessed,omitempty" msgpack:"onceProcessed,omitempty"`

	SSROptimizability *int `json:"ssrOptimizability,omitempty" msgpack:"ssrOptimizability,omitempty"`

	IsComment  bool   `json:"isComment,omitempty" msgpack:"isComment,omitempty"`
	Expression string `json:"expression,omitempty" msgpack:"expression,omitempty"`
	Tokens     []any  `json:"tokens,omitempty" msgpack:"tokens,omitempty"`
}

// wireIfCondition marks the condition whose block is the carrying element
// with Self instead of repeating it.
type wireIfCondition struct {
	Exp   *string   `json:"exp" msgpack:"exp"`
	Self  bool      `json:"self,omitempty" msgpack:"self,omitempty"`
	Block *wireNode `json:"block,omitempty" msgpack:"block,omitempty"`
}

func toWire(n Node) *wireNode {
	switch n := n.(type) {
	case *Element:
		return elementToWire(n)
	case *Expression:
		return &wireNode{
			Type:              NodeExpression,
			Expression:        n.Expression,
			Text:              n.Text,
			Tokens:            n.Tokens,
			Static:            n.Static,
			SSROptimizability: n.SSROptimizability,
			Start:             n.Start,
			End:               n.End,
		}
	case *Text:
		return &wireNode{
			Type:              NodeText,
			Text:              n.Text,
			Static:            n.Static,
			IsComment:         n.IsComment,
			SSROptimizability: n.SSROptimizability,
			Start:             n.Start,
			End:               n.End,
		}
	}
	return nil
}

func elementToWire(el *Element) *wireNode {
	w := &wireNode{
		Type:               NodeElement,
		Tag:                el.Tag,
		AttrsList:          el.AttrsList,
		AttrsMap:           el.AttrsMap,
		RawAttrsMap:        el.RawAttrsMap,
		Start:              el.Start,
		End:                el.End,
		Processed:          el.Processed,
		Static:             el.Static,
		StaticRoot:         el.StaticRoot,
		StaticInFor:        el.StaticInFor,
		StaticProcessed:    el.StaticProcessed,
		HasBindings:        el.HasBindings,
		Text:               el.Text,
		Attrs:              el.Attrs,
		DynamicAttrs:       el.DynamicAttrs,
		Props:              el.Props,
		Plain:              el.Plain,
		Pre:                el.Pre,
		Ns:                 el.Ns,
		Component:          el.Component,
		InlineTemplate:     el.InlineTemplate,
		TransitionMode:     el.TransitionMode,
		SlotName:           el.SlotName,
		SlotTarget:         el.SlotTarget,
		SlotTargetDynamic:  el.SlotTargetDynamic,
		SlotScope:          el.SlotScope,
		Ref:                el.Ref,
		RefInFor:           el.RefInFor,
		If:                 el.If,
		IfProcessed:        el.IfProcessed,
		ElseIf:             el.ElseIf,
		Else:               el.Else,
		For:                el.For,
		ForProcessed:       el.ForProcessed,
		Key:                el.Key,
		Alias:              el.Alias,
		Iterator1:          el.Iterator1,
		Iterator2:          el.Iterator2,
		StaticClass:        el.StaticClass,
		ClassBinding:       el.ClassBinding,
		StaticStyle:        el.StaticStyle,
		StyleBinding:       el.StyleBinding,
		Events:             el.Events,
		NativeEvents:       el.NativeEvents,
		Transition:         el.Transition,
		TransitionOnAppear: el.TransitionOnAppear,
		Model:              el.Model,
		Directives:         el.Directives,
		Forbidden:          el.Forbidden,
		Once:               el.Once,
		OnceProcessed:      el.OnceProcessed,
		SSROptimizability:  el.SSROptimizability,
	}
	for _, c := range el.Children {
		if cw := toWire(c); cw != nil {
			w.Children = append(w.Children, cw)
		}
	}
	if el.ScopedSlots != nil {
		w.ScopedSlots = make(map[string]*wireNode, len(el.ScopedSlots))
		for name, slot := range el.ScopedSlots {
			if slot != nil {
				w.ScopedSlots[name] = elementToWire(slot)
			}
		}
	}
	for _, cond := range el.IfConditions {
		wc := &wireIfCondition{Exp: cond.Exp}
		switch {
		case cond.Block == el:
			wc.Self = true
		case cond.Block != nil:
			wc.Block = elementToWire(cond.Block)
		}
		w.IfConditions = append(w.IfConditions, wc)
	}
	return w
}

func fromWire(w *wireNode) (Node, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: missing node", ErrUnknownNodeType)
	}
	switch w.Type {
	case NodeElement:
		return elementFromWire(w)
	case NodeExpression:
		return &Expression{
			Expression:        w.Expression,
			Text:              w.Text,
			Tokens:            w.Tokens,
			Static:            w.Static,
			SSROptimizability: w.SSROptimizability,
			Start:             w.Start,
			End:               w.End,
		}, nil
	case NodeText:
		return &Text{
			Text:              w.Text,
			Static:            w.Static,
			IsComment:         w.IsComment,
			SSROptimizability: w.SSROptimizability,
			Start:             w.Start,
			End:               w.End,
		}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownNodeType, int(w.Type))
}

func elementFromWire(w *wireNode) (*Element, error) {
	if w.Type != NodeElement {
		return nil, fmt.Errorf("%w: want element, got %d", ErrUnknownNodeType, int(w.Type))
	}
	el := &Element{
		Tag:                w.Tag,
		AttrsList:          w.AttrsList,
		AttrsMap:           w.AttrsMap,
		RawAttrsMap:        w.RawAttrsMap,
		Children:           make([]Node, 0, len(w.Children)),
		Start:              w.Start,
		End:                w.End,
		Processed:          w.Processed,
		Static:             w.Static,
		StaticRoot:         w.StaticRoot,
		StaticInFor:        w.StaticInFor,
		StaticProcessed:    w.StaticProcessed,
		HasBindings:        w.HasBindings,
		Text:               w.Text,
		Attrs:              w.Attrs,
		DynamicAttrs:       w.DynamicAttrs,
		Props:              w.Props,
		Plain:              w.Plain,
		Pre:                w.Pre,
		Ns:                 w.Ns,
		Component:          w.Component,
		InlineTemplate:     w.InlineTemplate,
		TransitionMode:     w.TransitionMode,
		SlotName:           w.SlotName,
		SlotTarget:         w.SlotTarget,
		SlotTargetDynamic:  w.SlotTargetDynamic,
		SlotScope:          w.SlotScope,
		Ref:                w.Ref,
		RefInFor:           w.RefInFor,
		If:                 w.If,
		IfProcessed:        w.IfProcessed,
		ElseIf:             w.ElseIf,
		Else:               w.Else,
		For:                w.For,
		ForProcessed:       w.ForProcessed,
		Key:                w.Key,
		Alias:              w.Alias,
		Iterator1:          w.Iterator1,
		Iterator2:          w.Iterator2,
		StaticClass:        w.StaticClass,
		ClassBinding:       w.ClassBinding,
		StaticStyle:        w.StaticStyle,
		StyleBinding:       w.StyleBinding,
		Events:             w.Events,
		NativeEvents:       w.NativeEvents,
		Transition:         w.Transition,
		TransitionOnAppear: w.TransitionOnAppear,
		Model:              w.Model,
		Directives:         w.Directives,
		Forbidden:          w.Forbidden,
		Once:               w.Once,
		OnceProcessed:      w.OnceProcessed,
		SSROptimizability:  w.SSROptimizability,
	}
	if el.AttrsMap == nil {
		el.AttrsMap = map[string]any{}
	}
	if el.RawAttrsMap == nil {
		el.RawAttrsMap = map[string]*Attr{}
	}
	for _, cw := range w.Children {
		c, err := fromWire(cw)
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", w.Tag, err)
		}
		el.Children = append(el.Children, c)
	}
	if w.ScopedSlots != nil {
		el.ScopedSlots = make(map[string]*Element, len(w.ScopedSlots))
		for name, sw := range w.ScopedSlots {
			slot, err := elementFromWire(sw)
			if err != nil {
				return nil, fmt.Errorf("<%s> slot %s: %w", w.Tag, name, err)
			}
			el.ScopedSlots[name] = slot
		}
	}
	for _, wc := range w.IfConditions {
		cond := &IfCondition{Exp: wc.Exp}
		switch {
		case wc.Self:
			cond.Block = el
		case wc.Block != nil:
			block, err := elementFromWire(wc.Block)
			if err != nil {
				return nil, fmt.Errorf("<%s> condition: %w", w.Tag, err)
			}
			cond.Block = block
		}
		el.IfConditions = append(el.IfConditions, cond)
	}
	return el, nil
}

// MarshalJSON implements json.Marshaler.
func (el *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(el))
}

// MarshalJSON implements json.Marshaler.
func (e *Expression) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(e))
}

// MarshalJSON implements json.Marshaler.
func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(t))
}

// Encode writes n to w in the given format.
func Encode(w io.Writer, n Node, format Format) error {
	wn := toWire(n)
	if wn == nil {
		return fmt.Errorf("%w: %T", ErrUnknownNodeType, n)
	}
	switch format {
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(wn)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(wn)
	}
}

// Decode reads one node from r and restores its parent pointers.
func Decode(r io.Reader, format Format) (Node, error) {
	var wn wireNode
	var err error
	switch format {
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&wn)
	default:
		err = json.NewDecoder(r).Decode(&wn)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s ast: %w", format, err)
	}
	n, err := fromWire(&wn)
	if err != nil {
		return nil, err
	}
	if el, ok := n.(*Element); ok {
		Relink(el)
	}
	return n, nil
}

// DecodeElement is Decode for inputs whose root must be an element.
func DecodeElement(r io.Reader, format Format) (*Element, error) {
	n, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	el, ok := n.(*Element)
	if !ok {
		return nil, fmt.Errorf("root is a %s node, want element", n.Type())
	}
	return el, nil
}
