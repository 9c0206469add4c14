package scenetree

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Behavior is implemented by every component kind. Concrete kinds embed
// Component, which supplies no-op hooks and the lifecycle state, and override
// the hooks they need:
//
//	type Spinner struct {
//		scenetree.Component
//		Angle float64
//	}
//
//	func (s *Spinner) OnTick(dt float64) { s.Angle += dt }
//
//	spinner := scenetree.Attach(entity, &Spinner{})
type Behavior interface {
	// OnTick is called once per Tick that reaches the component while it is
	// effectively enabled.
	OnTick(dt float64)
	// OnEnabledChanged is called whenever the component's effective enabled
	// state flips, whether the flip comes from the component's own flag or
	// from its entity.
	OnEnabledChanged(enabled bool)
	// Destroy detaches the component permanently, see Component.Destroy.
	Destroy()

	base() *Component
}

type lifecycle uint8

const (
	unattached lifecycle = iota
	live
	destroyed
)

// Component holds the state shared by all component kinds. It is meant to be
// embedded; its zero value is an unattached component.
type Component struct {
	entity *Entity
	owner  Behavior // The embedding value, used to dispatch hooks.
	state  lifecycle
	self   bool
}

func (c *Component) base() *Component {
	return c
}

// OnTick is the default no-op tick hook.
func (c *Component) OnTick(float64) {}

// OnEnabledChanged is the default no-op enabled hook.
func (c *Component) OnEnabledChanged(bool) {}

// componentConfig collects ComponentOption values.
type componentConfig struct {
	enabled  bool
	precache bool
}

// ComponentOption configures a component at attach time.
type ComponentOption func(*componentConfig)

// WithComponentEnabled sets the component's own enabled flag. Components are
// enabled by default.
func WithComponentEnabled(enabled bool) ComponentOption {
	return func(cfg *componentConfig) {
		cfg.enabled = enabled
	}
}

// WithPrecache registers the component in its entity's type index right
// away, unless another component of the same concrete type is already indexed.
func WithPrecache() ComponentOption {
	return func(cfg *componentConfig) {
		cfg.precache = true
	}
}

// Attach binds c to e for the rest of c's life and appends it to e's
// components. Attach is the only way to bring a component to life; the owning
// entity can never change afterwards.
//
// Parameters:
//   - e: The owning entity, must not be nil.
//   - c: A pointer to a value embedding Component that has never been attached.
//   - opts: See WithComponentEnabled and WithPrecache.
//
// Returns:
//   - c, for chaining.
//
// Attach panics if c was attached before, including when it is destroyed.
func Attach[T Behavior](e *Entity, c T, opts ...ComponentOption) T {
	if e == nil {
		panic(eris.New("cannot attach component to a nil entity"))
	}
	b := c.base()
	if b.state != unattached {
		panic(eris.Wrapf(ErrAlreadyAttached, "attach %T to entity %d", c, e.id))
	}
	cfg := componentConfig{enabled: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	b.entity = e
	b.owner = c
	b.state = live
	b.self = cfg.enabled
	e.components = append(e.components, c)
	if cfg.precache {
		e.indexIfAbsent(reflect.TypeOf(c), c)
	}
	if ev := logger.Debug(); ev.Enabled() {
		ev.Uint64("entity", e.id).Stringer("kind", reflect.TypeOf(c)).Msg("component attached")
	}
	return c
}

// checkLive panics if the component is not live. It compiles to nothing
// under the scenetree_release build tag.
func (c *Component) checkLive(op string) {
	if !guardEnabled {
		return
	}
	switch c.state {
	case destroyed:
		panic(eris.Wrapf(ErrDestroyed, "%s", op))
	case unattached:
		panic(eris.Wrapf(ErrNotAttached, "%s", op))
	}
}

// Entity returns the owning entity.
func (c *Component) Entity() *Entity {
	c.checkLive("Entity")
	return c.entity
}

// EnabledSelf reports the component's own enabled flag.
func (c *Component) EnabledSelf() bool {
	c.checkLive("EnabledSelf")
	return c.self
}

// Enabled reports whether the component and its entity are both enabled.
func (c *Component) Enabled() bool {
	c.checkLive("Enabled")
	return c.self && c.entity.Enabled()
}

// SetEnabled sets the component's own enabled flag and calls
// OnEnabledChanged if its effective state flips as a result.
func (c *Component) SetEnabled(enabled bool) {
	c.checkLive("SetEnabled")
	if c.self == enabled {
		return
	}
	before := c.self && c.entity.Enabled()
	c.self = enabled
	after := c.self && c.entity.Enabled()
	if before != after {
		c.owner.OnEnabledChanged(after)
	}
}

// IsDestroyed reports whether Destroy has been called. It is safe to call at
// any point in the component's life.
func (c *Component) IsDestroyed() bool {
	return c.state == destroyed
}

// Destroy detaches the component from its entity permanently. Any type index
// entry pointing at this component is evicted. Calling Destroy again, or on a
// component that was never attached, does nothing.
//
// After Destroy the component must not be used; doing so panics unless built
// with the scenetree_release tag.
func (c *Component) Destroy() {
	if c.state != live {
		return
	}
	e := c.entity
	e.components, _ = removeItem(e.components, c.owner)
	e.evict(c.owner)
	if ev := logger.Debug(); ev.Enabled() {
		ev.Uint64("entity", e.id).Stringer("kind", reflect.TypeOf(c.owner)).Msg("component destroyed")
	}
	c.entity = nil
	c.owner = nil
	c.state = destroyed
}
