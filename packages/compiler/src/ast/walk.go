package ast

import (
	"errors"
	"fmt"
)

// ErrBrokenParent is returned by CheckParents when a child's parent pointer
// does not reference the element holding it.
var ErrBrokenParent = errors.New("parent pointer does not match children")

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the children of the visited node. Scoped slots and
// v-else branches are not part of Children and are not visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if el, ok := n.(*Element); ok {
		for _, c := range el.Children {
			Walk(c, fn)
		}
	}
}

// CheckParents verifies that every element reachable through Children has
// its Parent set to the element holding it.
func CheckParents(root *Element) error {
	var err error
	Walk(root, func(n Node) bool {
		el, ok := n.(*Element)
		if !ok || err != nil {
			return false
		}
		for i, c := range el.Children {
			child, ok := c.(*Element)
			if !ok {
				continue
			}
			if child.Parent != el {
				err = fmt.Errorf("<%s> child %d <%s>: %w", el.Tag, i, child.Tag, ErrBrokenParent)
				return false
			}
		}
		return true
	})
	return err
}

// Relink restores parent pointers below root: children and scoped slots
// point at the element holding them, v-else branches at the element that
// encloses their v-if.
func Relink(root *Element) {
	relink(root)
}

func relink(el *Element) {
	for _, c := range el.Children {
		if child, ok := c.(*Element); ok {
			child.Parent = el
			relink(child)
		}
	}
	for _, slot := range el.ScopedSlots {
		if slot == nil {
			continue
		}
		slot.Parent = el
		relink(slot)
	}
	for i, cond := range el.IfConditions {
		if i == 0 || cond.Block == nil || cond.Block == el {
			continue
		}
		cond.Block.Parent = el.Parent
		relink(cond.Block)
	}
}
