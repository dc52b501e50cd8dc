// Package ast defines the template AST produced by a parse phase and
// consumed by the optimizer and code generation.
package ast

import (
	"fmt"
	"slices"

	"vtc-go/packages/compiler/src/util"
)

// NodeType discriminates the three node shapes. The numeric values are part
// of the wire format and must not change.
type NodeType int

const (
	NodeElement    NodeType = 1
	NodeExpression NodeType = 2
	NodeText       NodeType = 3
)

func (t NodeType) String() string {
	switch t {
	case NodeElement:
		return "element"
	case NodeExpression:
		return "expression"
	case NodeText:
		return "text"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Node is an Element, an Expression or a Text.
type Node interface {
	Type() NodeType
	IsStatic() bool
	SetStatic(bool)
	SourceRange() (start, end *int)
}

// Attr is a raw attribute. Value is opaque to everything but the parser
// that produced it.
type Attr struct {
	Name    string `json:"name" msgpack:"name"`
	Value   any    `json:"value" msgpack:"value"`
	Dynamic bool   `json:"dynamic,omitempty" msgpack:"dynamic,omitempty"`
	Start   *int   `json:"start,omitempty" msgpack:"start,omitempty"`
	End     *int   `json:"end,omitempty" msgpack:"end,omitempty"`
}

// Modifiers holds the modifiers of a directive or event binding.
type Modifiers map[string]bool

// ElementHandler is one event listener.
type ElementHandler struct {
	Value     string    `json:"value" msgpack:"value"`
	Params    []any     `json:"params,omitempty" msgpack:"params,omitempty"`
	Modifiers Modifiers `json:"modifiers" msgpack:"modifiers"`
	Dynamic   bool      `json:"dynamic,omitempty" msgpack:"dynamic,omitempty"`
	Start     *int      `json:"start,omitempty" msgpack:"start,omitempty"`
	End       *int      `json:"end,omitempty" msgpack:"end,omitempty"`
}

// ElementHandlers maps event names to their listeners in registration order.
// A single listener is a one-element slice.
type ElementHandlers map[string][]*ElementHandler

// Directive is a parsed v-* directive.
type Directive struct {
	Name         string    `json:"name" msgpack:"name"`
	RawName      string    `json:"rawName" msgpack:"rawName"`
	Value        string    `json:"value" msgpack:"value"`
	Arg          *string   `json:"arg" msgpack:"arg"`
	IsDynamicArg bool      `json:"isDynamicArg" msgpack:"isDynamicArg"`
	Modifiers    Modifiers `json:"modifiers" msgpack:"modifiers"`
	Start        *int      `json:"start,omitempty" msgpack:"start,omitempty"`
	End          *int      `json:"end,omitempty" msgpack:"end,omitempty"`
}

// Model is the v-model binding of a component.
type Model struct {
	Value      string `json:"value" msgpack:"value"`
	Callback   string `json:"callback" msgpack:"callback"`
	Expression string `json:"expression" msgpack:"expression"`
}

// IfCondition is one branch of a v-if chain. Exp is nil for v-else. The
// first condition's block is the element carrying the chain.
type IfCondition struct {
	Exp   *string
	Block *Element
}

// Element is an element node.
//
// Parent is a back-reference: the owning edge is the Children slice of the
// parent. Use AppendChild, RemoveChild and ReplaceWith to keep both in sync.
type Element struct {
	Tag         string
	AttrsList   []*Attr
	AttrsMap    map[string]any
	RawAttrsMap map[string]*Attr
	Parent      *Element
	Children    []Node

	Start *int
	End   *int

	Processed bool

	Static          bool
	StaticRoot      bool
	StaticInFor     bool
	StaticProcessed bool
	HasBindings     bool

	Text         string
	Attrs        []*Attr
	DynamicAttrs []*Attr
	Props        []*Attr
	Plain        bool
	Pre          bool
	Ns           string

	Component         string
	InlineTemplate    bool
	TransitionMode    string
	SlotName          string
	SlotTarget        string
	SlotTargetDynamic bool
	SlotScope         string
	ScopedSlots       map[string]*Element

	Ref      string
	RefInFor bool

	If           string
	IfProcessed  bool
	ElseIf       string
	Else         bool
	IfConditions []*IfCondition

	For          string
	ForProcessed bool
	Key          string
	Alias        string
	Iterator1    string
	Iterator2    string

	StaticClass  string
	ClassBinding string
	StaticStyle  string
	StyleBinding string
	Events       ElementHandlers
	NativeEvents ElementHandlers

	// Transition is either a transition name or true.
	Transition         any
	TransitionOnAppear bool

	Model *Model

	Directives []*Directive

	Forbidden     bool
	Once          bool
	OnceProcessed bool
	WrapData      func(code string) string
	WrapListeners func(code string) string

	SSROptimizability *int
}

// Text is a text node.
type Text struct {
	Text              string
	Static            bool
	IsComment         bool
	SSROptimizability *int
	Start             *int
	End               *int
}

// Expression is an interpolation. Tokens interleave literal strings and
// binding objects of the form map[string]any{"@binding": expr}.
type Expression struct {
	Expression        string
	Text              string
	Tokens            []any
	Static            bool
	SSROptimizability *int
	Start             *int
	End               *int
}

// Type implements Node.
func (*Element) Type() NodeType {
	return NodeElement
}

// IsStatic implements Node.
func (el *Element) IsStatic() bool {
	return el.Static
}

// SetStatic implements Node.
func (el *Element) SetStatic(s bool) {
	el.Static = s
}

// SourceRange implements Node.
func (el *Element) SourceRange() (start, end *int) {
	return el.Start, el.End
}

// Type implements Node.
func (*Expression) Type() NodeType {
	return NodeExpression
}

// IsStatic implements Node. Interpolations are never static.
func (e *Expression) IsStatic() bool {
	return e.Static
}

// SetStatic implements Node.
func (e *Expression) SetStatic(s bool) {
	e.Static = s
}

// SourceRange implements Node.
func (e *Expression) SourceRange() (start, end *int) {
	return e.Start, e.End
}

// Type implements Node.
func (*Text) Type() NodeType {
	return NodeText
}

// IsStatic implements Node.
func (t *Text) IsStatic() bool {
	return t.Static
}

// SetStatic implements Node.
func (t *Text) SetStatic(s bool) {
	t.Static = s
}

// SourceRange implements Node.
func (t *Text) SourceRange() (start, end *int) {
	return t.Start, t.End
}

// NewElement creates an element the way the parser does when it meets a
// start tag. Duplicate attributes are reported through warn (which may be
// nil); the last value wins in AttrsMap.
func NewElement(tag string, attrs []*Attr, parent *Element, warn func(util.WarningMessage)) *Element {
	return &Element{
		Tag:         tag,
		AttrsList:   attrs,
		AttrsMap:    makeAttrsMap(attrs, warn),
		RawAttrsMap: map[string]*Attr{},
		Parent:      parent,
		Children:    []Node{},
	}
}

func makeAttrsMap(attrs []*Attr, warn func(util.WarningMessage)) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, a := range attrs {
		if _, dup := m[a.Name]; dup && warn != nil {
			msg := "duplicate attribute: " + a.Name
			if a.Start != nil && a.End != nil {
				warn(util.NewRangedWarning(msg, *a.Start, *a.End))
			} else {
				warn(util.NewWarning(msg))
			}
		}
		m[a.Name] = a.Value
	}
	return m
}

// NewText creates a text node.
func NewText(text string) *Text {
	return &Text{Text: text}
}

// NewComment creates a comment text node.
func NewComment(text string) *Text {
	return &Text{Text: text, IsComment: true}
}

// NewExpression creates an interpolation node.
func NewExpression(expression, text string, tokens []any) *Expression {
	return &Expression{Expression: expression, Text: text, Tokens: tokens}
}

// Binding builds the token that represents a dynamic part of an
// interpolation.
func Binding(expr string) map[string]any {
	return map[string]any{"@binding": expr}
}

// AppendChild appends n to el's children. n is detached from its previous
// position first, so appending a current child moves it to the end.
func (el *Element) AppendChild(n Node) {
	detach(n)
	el.RemoveChild(n)
	if child, ok := n.(*Element); ok {
		child.Parent = el
	}
	el.Children = append(el.Children, n)
}

// RemoveChild removes n from el's children and clears its parent pointer.
// It reports whether n was found.
func (el *Element) RemoveChild(n Node) bool {
	i := slices.Index(el.Children, n)
	if i < 0 {
		return false
	}
	el.Children = slices.Delete(el.Children, i, i+1)
	if child, ok := n.(*Element); ok && child.Parent == el {
		child.Parent = nil
	}
	return true
}

// ReplaceWith puts replacement in el's position among its parent's
// children. It reports false when el has no parent or is not among the
// parent's children. A replacement already in the tree is moved.
func (el *Element) ReplaceWith(replacement Node) bool {
	parent := el.Parent
	if parent == nil || !slices.Contains(parent.Children, Node(el)) {
		return false
	}
	if replacement == Node(el) {
		return true
	}
	detach(replacement)
	parent.RemoveChild(replacement)
	i := slices.Index(parent.Children, Node(el))
	if r, ok := replacement.(*Element); ok {
		r.Parent = parent
	}
	parent.Children[i] = replacement
	el.Parent = nil
	return true
}

// detach removes an element from its current parent.
func detach(n Node) {
	if child, ok := n.(*Element); ok && child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
}

// AttrValue returns the value of name in AttrsMap.
func (el *Element) AttrValue(name string) (any, bool) {
	v, ok := el.AttrsMap[name]
	return v, ok
}

// GetAndRemoveAttr returns the value of name from AttrsMap and removes the
// attribute from AttrsList. When removeFromMap is set the AttrsMap entry is
// dropped as well; by default it is kept so codegen can still see it.
func (el *Element) GetAndRemoveAttr(name string, removeFromMap bool) (any, bool) {
	v, ok := el.AttrsMap[name]
	if !ok {
		return nil, false
	}
	for i, a := range el.AttrsList {
		if a.Name == name {
			el.AttrsList = append(el.AttrsList[:i:i], el.AttrsList[i+1:]...)
			break
		}
	}
	if removeFromMap {
		delete(el.AttrsMap, name)
	}
	return v, true
}

// AddIfCondition appends a branch to el's v-if chain.
func (el *Element) AddIfCondition(exp *string, block *Element) {
	el.IfConditions = append(el.IfConditions, &IfCondition{Exp: exp, Block: block})
}
