// Package scenetree provides a hierarchical entity/component framework.
//
// Entities form a tree. Each entity owns an ordered list of components that
// add behavior through two hooks, OnTick and OnEnabledChanged. Enabled state
// cascades from ancestors to descendants and is cached per entity, so reads
// are O(1) amortized.
//
// The package is single-threaded: a tree and everything attached to it must
// only be touched from one goroutine at a time.
package scenetree

import (
	"reflect"
	"sync/atomic"
)

// nextEntityID backs the automatic entity IDs.
var nextEntityID atomic.Uint64

// enabledCache is the tri-state cache of an entity's effective enabled value.
type enabledCache uint8

const (
	cacheUnset enabledCache = iota
	cacheEnabled
	cacheDisabled
)

// Entity is a node in the tree. The zero value is not usable, create entities
// with NewEntity.
type Entity struct {
	parent     *Entity                   // Non-owning back-pointer, nil for roots.
	children   []*Entity                 // Insertion order; traversal order.
	components []Behavior                // Attachment order; authoritative.
	typeIndex  map[reflect.Type]Behavior // Lookup accelerator, lazily allocated.
	id         uint64
	enabled    enabledCache
	self       bool
}

// entityConfig collects EntityOption values.
type entityConfig struct {
	id      uint64
	hasID   bool
	enabled bool
}

// EntityOption configures an Entity at construction.
type EntityOption func(*entityConfig)

// WithID sets a caller supplied ID instead of the automatic counter value.
// Uniqueness is not checked.
func WithID(id uint64) EntityOption {
	return func(c *entityConfig) {
		c.id = id
		c.hasID = true
	}
}

// WithEnabled sets the entity's own enabled flag. Entities are enabled by
// default.
func WithEnabled(enabled bool) EntityOption {
	return func(c *entityConfig) {
		c.enabled = enabled
	}
}

// NewEntity creates a detached root entity.
//
// Parameters:
//   - opts: Optional settings, see WithID and WithEnabled.
//
// Returns:
//   - The new entity. Its ID is taken from a process wide counter unless
//     WithID was given.
func NewEntity(opts ...EntityOption) *Entity {
	cfg := entityConfig{enabled: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.hasID {
		cfg.id = nextEntityID.Add(1)
	}
	return &Entity{id: cfg.id, self: cfg.enabled}
}

// ID returns the entity's identifier.
func (e *Entity) ID() uint64 {
	return e.id
}

// Parent returns the parent entity or nil for a root.
func (e *Entity) Parent() *Entity {
	return e.parent
}

// Root returns the topmost ancestor, which is e itself for a root.
func (e *Entity) Root() *Entity {
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// HierarchyLevel returns the number of ancestors. Roots are level 0.
func (e *Entity) HierarchyLevel() int {
	level := 0
	for p := e.parent; p != nil; p = p.parent {
		level++
	}
	return level
}

// Children returns the direct children in insertion order. The slice is owned
// by the entity and must not be modified.
func (e *Entity) Children() []*Entity {
	return e.children
}

// ChildCount returns the number of direct children.
func (e *Entity) ChildCount() int {
	return len(e.children)
}

// ChildAt returns the child at index i, or false if i is out of range.
func (e *Entity) ChildAt(i int) (*Entity, bool) {
	if i < 0 || i >= len(e.children) {
		return nil, false
	}
	return e.children[i], true
}

// Components returns the attached components in attachment order. The slice
// is owned by the entity and must not be modified.
func (e *Entity) Components() []Behavior {
	return e.components
}

// ComponentCount returns the number of attached components.
func (e *Entity) ComponentCount() int {
	return len(e.components)
}

// ComponentAt returns the component at index i, or false if i is out of range.
func (e *Entity) ComponentAt(i int) (Behavior, bool) {
	if i < 0 || i >= len(e.components) {
		return nil, false
	}
	return e.components[i], true
}
