package scenetree

import "iter"

// TraverseChildren yields the descendants of e, not e itself, depth-first in
// pre-order with siblings in insertion order.
//
// pred gates the walk: an entity for which it returns false is skipped
// together with its whole subtree. A nil pred visits every descendant.
//
//	for child := range root.TraverseChildren(nil) {
//		...
//	}
func (e *Entity) TraverseChildren(pred func(*Entity) bool) iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		stack := make([]*Entity, 0, len(e.children))
		for i := len(e.children) - 1; i >= 0; i-- {
			stack = append(stack, e.children[i])
		}
		for len(stack) > 0 {
			n := len(stack) - 1
			cur := stack[n]
			stack = stack[:n]
			if pred != nil && !pred(cur) {
				continue
			}
			if !yield(cur) {
				return
			}
			for i := len(cur.children) - 1; i >= 0; i-- {
				stack = append(stack, cur.children[i])
			}
		}
	}
}

// TraverseComponents yields the components of e and its descendants,
// depth-first in pre-order. At each entity all matching components are
// yielded, in attachment order, before any child is visited. Only children
// whose own enabled flag is set are descended into; e itself is always
// visited. A nil pred yields every component.
func (e *Entity) TraverseComponents(pred func(Behavior) bool) iter.Seq[Behavior] {
	return func(yield func(Behavior) bool) {
		stack := []*Entity{e}
		for len(stack) > 0 {
			n := len(stack) - 1
			cur := stack[n]
			stack = stack[:n]
			for i := 0; i < len(cur.components); i++ {
				c := cur.components[i]
				if pred != nil && !pred(c) {
					continue
				}
				if !yield(c) {
					return
				}
			}
			stack = pushChildren(stack, cur)
		}
	}
}

// Tick calls OnTick(dt) on every component reached from e through entities
// whose own enabled flag is set, provided the component's own flag is set
// too. Disabled entities are skipped along with their subtrees. Tick does
// nothing when e itself is disabled.
//
// Tick is meant to be called on a root once per frame; dt is passed through
// unchanged.
func (e *Entity) Tick(dt float64) {
	if !e.self {
		return
	}
	stack := []*Entity{e}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for i := 0; i < len(cur.components); i++ {
			c := cur.components[i]
			if b := c.base(); b.entity == cur && b.self {
				c.OnTick(dt)
			}
		}
		stack = pushChildren(stack, cur)
	}
}
