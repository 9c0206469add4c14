package scenetree

import "reflect"

// indexIfAbsent records c as the representative of kind unless one is
// already recorded.
func (e *Entity) indexIfAbsent(kind reflect.Type, c Behavior) {
	if e.typeIndex == nil {
		e.typeIndex = make(map[reflect.Type]Behavior, 4)
	}
	if _, ok := e.typeIndex[kind]; !ok {
		e.typeIndex[kind] = c
	}
}

// evict drops every index entry that points at c. An interface kind may have
// cached c as well as its concrete kind, so all entries are checked.
func (e *Entity) evict(c Behavior) {
	for kind, indexed := range e.typeIndex {
		if indexed == c {
			delete(e.typeIndex, kind)
		}
	}
}

// matchesKind reports whether c is of the given kind. Interface kinds match
// any implementation.
func matchesKind(c Behavior, kind reflect.Type) bool {
	t := reflect.TypeOf(c)
	if t == kind {
		return true
	}
	return kind.Kind() == reflect.Interface && t.Implements(kind)
}

// ComponentByType returns a component of the given kind.
//
// The type index is consulted first. On a miss the components are scanned in
// attachment order and the first match is cached in the index for later
// calls. kind is usually a pointer type such as reflect.TypeFor[*Spinner](),
// or an interface type, in which case any implementation matches.
//
// Returns:
//   - The component, or nil and false if the entity has no component of
//     that kind or kind is nil.
func (e *Entity) ComponentByType(kind reflect.Type) (Behavior, bool) {
	if kind == nil {
		return nil, false
	}
	if c, ok := e.typeIndex[kind]; ok {
		return c, true
	}
	for _, c := range e.components {
		if matchesKind(c, kind) {
			e.indexIfAbsent(kind, c)
			return c, true
		}
	}
	return nil, false
}

// ComponentOf is the typed form of ComponentByType.
//
//	spinner, ok := scenetree.ComponentOf[*Spinner](entity)
func ComponentOf[T any](e *Entity) (T, bool) {
	c, ok := e.ComponentByType(reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return c.(T), true
}

// ComponentsOf returns every component assignable to T in attachment order.
// It does not touch the type index.
func ComponentsOf[T any](e *Entity) []T {
	var out []T
	for _, c := range e.components {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// FindComponent returns the first component, in attachment order, for which
// pred returns true.
func (e *Entity) FindComponent(pred func(Behavior) bool) (Behavior, bool) {
	for _, c := range e.components {
		if pred(c) {
			return c, true
		}
	}
	return nil, false
}

// FindComponents returns every component for which pred returns true, in
// attachment order.
func (e *Entity) FindComponents(pred func(Behavior) bool) []Behavior {
	var out []Behavior
	for _, c := range e.components {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}
