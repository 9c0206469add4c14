package scenetree

// EnabledSelf reports the entity's own enabled flag, ignoring ancestors.
func (e *Entity) EnabledSelf() bool {
	return e.self
}

// Enabled reports whether the entity and all of its ancestors are enabled.
//
// The result is cached on the entity. On a cache miss the ancestor chain is
// walked until a disabled entity, a cached ancestor or the root is reached.
func (e *Entity) Enabled() bool {
	switch e.enabled {
	case cacheEnabled:
		return true
	case cacheDisabled:
		return false
	}
	enabled := e.self
	if enabled {
		for p := e.parent; p != nil; p = p.parent {
			if p.enabled != cacheUnset {
				enabled = p.enabled == cacheEnabled
				break
			}
			if !p.self {
				enabled = false
				break
			}
		}
	}
	if enabled {
		e.enabled = cacheEnabled
	} else {
		e.enabled = cacheDisabled
	}
	return enabled
}

// SetEnabled sets the entity's own enabled flag.
//
// When the effective state of the entity flips, OnEnabledChanged is called
// on every self-enabled component of this entity and of every descendant that
// is itself enabled, in pre-order. Descendants with their own flag off are
// skipped together with their subtrees, their effective state does not
// change.
func (e *Entity) SetEnabled(enabled bool) {
	if e.self == enabled {
		return
	}
	before := e.Enabled()
	e.self = enabled
	e.invalidate()
	after := e.Enabled()
	if before == after {
		return
	}
	logger.Trace().Uint64("entity", e.id).Bool("enabled", after).Msg("enabled state cascade")
	e.notifyEnabled(after)
}

// invalidate clears the enabled cache of e and its whole subtree. It uses an
// explicit work-list so deep trees cannot exhaust the stack.
func (e *Entity) invalidate() {
	stack := []*Entity{e}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		cur.enabled = cacheUnset
		stack = append(stack, cur.children...)
	}
}

// notifyEnabled walks the self-enabled part of the subtree in pre-order and
// delivers the new effective state to self-enabled components.
func (e *Entity) notifyEnabled(enabled bool) {
	stack := []*Entity{e}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for i := 0; i < len(cur.components); i++ {
			c := cur.components[i]
			if b := c.base(); b.entity == cur && b.self {
				c.OnEnabledChanged(enabled)
			}
		}
		stack = pushChildren(stack, cur)
	}
}

// pushChildren pushes the self-enabled children of e in reverse so they pop
// in insertion order.
func pushChildren(stack []*Entity, e *Entity) []*Entity {
	for i := len(e.children) - 1; i >= 0; i-- {
		if child := e.children[i]; child.self {
			stack = append(stack, child)
		}
	}
	return stack
}
