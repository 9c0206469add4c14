package scenetree

import "github.com/rotisserie/eris"

// SetParent moves e under parent, detaching it from its current parent first.
// A nil parent turns e into a root. Setting the current parent again is a
// no-op and keeps e's position among its siblings.
//
// Making an entity a descendant of itself is not detected and leaves the tree
// in an undefined state.
func (e *Entity) SetParent(parent *Entity) {
	if e.parent == parent {
		return
	}
	if old := e.parent; old != nil {
		old.children, _ = removeItem(old.children, e)
	}
	e.parent = parent
	if parent != nil {
		parent.children = append(parent.children, e)
	}
	e.invalidate()
	ev := logger.Debug().Uint64("entity", e.id)
	if parent != nil {
		ev = ev.Uint64("parent", parent.id)
	}
	ev.Msg("entity reparented")
}

// AddChild appends child to e's children, removing it from its previous
// parent if it had one.
func (e *Entity) AddChild(child *Entity) {
	if child == nil {
		return
	}
	child.SetParent(e)
}

// RemoveChild detaches child from e. It is a no-op if child is not a direct
// child of e. The removed child becomes a root; it is not otherwise affected.
func (e *Entity) RemoveChild(child *Entity) {
	if child == nil || child.parent != e {
		return
	}
	child.SetParent(nil)
}

// RemoveChildAt detaches the child at index i.
//
// Returns:
//   - The removed child.
//   - An error wrapping ErrIndexOutOfRange if i is not a valid child index.
func (e *Entity) RemoveChildAt(i int) (*Entity, error) {
	child, ok := e.ChildAt(i)
	if !ok {
		return nil, eris.Wrapf(ErrIndexOutOfRange, "child index %d of entity %d with %d children", i, e.id, len(e.children))
	}
	child.SetParent(nil)
	return child, nil
}
