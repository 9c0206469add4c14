// Package script provides a scenetree component kind whose hooks are written
// in tengo.
//
// A script assigns the hooks it implements to the predeclared globals tick
// and enabled_changed:
//
//	tick = func(self, dt) {
//		s := self.state
//		if is_undefined(s.elapsed) { s.elapsed = 0.0 }
//		s.elapsed = s.elapsed + dt
//	}
//
//	enabled_changed = func(self, enabled) {
//		if !enabled { self.set_enabled(true) }
//	}
//
// self is an immutable map with entity_id, level, state, set_enabled and
// destroy. state is a map that persists across calls and reloads. The whole
// script runs on every hook call, so anything that must survive belongs in
// state. set_enabled and destroy take effect once the script returns.
package script

import (
	"os"
	"reflect"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/edwinsyarief/scenetree"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const prelude = "tick := undefined\nenabled_changed := undefined\n"

const dispatch = `
if __phase == "tick" {
	if is_callable(tick) { tick(__self, __dt) }
} else if __phase == "enabled" {
	if is_callable(enabled_changed) { enabled_changed(__self, __enabled) }
}
`

// Component runs a compiled tengo script from its hooks.
type Component struct {
	scenetree.Component

	compiled *tengo.Compiled
	state    *tengo.Map
	pending  []func()
	log      zerolog.Logger
	opts     []scenetree.ComponentOption
	path     string
	err      error
}

// Kind is the type key of script components, for scenetree lookups.
var Kind = reflect.TypeFor[*Component]()

// Option configures a script Component.
type Option func(*Component)

// WithLogger sets the logger used to report script failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Component) {
		c.log = l
	}
}

// WithComponentOptions forwards options to scenetree.Attach.
func WithComponentOptions(opts ...scenetree.ComponentOption) Option {
	return func(c *Component) {
		c.opts = append(c.opts, opts...)
	}
}

// Attach compiles src and attaches the resulting component to e. Nothing is
// attached if compilation fails.
func Attach(e *scenetree.Entity, src []byte, opts ...Option) (*Component, error) {
	compiled, err := compile(src)
	if err != nil {
		return nil, err
	}
	c := &Component{
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return scenetree.Attach(e, c, c.opts...), nil
}

// AttachFile reads the script at path and attaches it to e. The path is
// remembered for Reloader.
func AttachFile(e *scenetree.Entity, path string, opts ...Option) (*Component, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read script %s", path)
	}
	c, err := Attach(e, src, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "script %s", path)
	}
	c.path = path
	return c, nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	full := make([]byte, 0, len(prelude)+len(src)+len(dispatch)+1)
	full = append(full, prelude...)
	full = append(full, src...)
	full = append(full, '\n')
	full = append(full, dispatch...)

	s := tengo.NewScript(full)
	_ = s.Add("__phase", "")
	_ = s.Add("__self", map[string]any{})
	_ = s.Add("__dt", 0.0)
	_ = s.Add("__enabled", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, eris.Wrap(err, "compile script")
	}
	return compiled, nil
}

// Path returns the file the script was loaded from, or "" for in-memory
// sources.
func (c *Component) Path() string {
	return c.path
}

// Err returns the error of the most recent hook run, or nil if it succeeded.
func (c *Component) Err() error {
	return c.err
}

// State returns a copy of the script's persistent state as Go values.
func (c *Component) State() map[string]any {
	out, _ := objectToAny(c.state).(map[string]any)
	return out
}

// Reload recompiles the component from src. The persistent state is kept. On
// error the previous script stays in place.
func (c *Component) Reload(src []byte) error {
	compiled, err := compile(src)
	if err != nil {
		return err
	}
	c.compiled = compiled
	c.err = nil
	return nil
}

// OnTick runs the script's tick function.
func (c *Component) OnTick(dt float64) {
	c.run("tick", func(compiled *tengo.Compiled) error {
		return compiled.Set("__dt", dt)
	})
}

// OnEnabledChanged runs the script's enabled_changed function.
func (c *Component) OnEnabledChanged(enabled bool) {
	c.run("enabled", func(compiled *tengo.Compiled) error {
		return compiled.Set("__enabled", enabled)
	})
}

func (c *Component) run(phase string, bind func(*tengo.Compiled) error) {
	err := c.exec(phase, bind)
	c.report(phase, err)

	pending := c.pending
	c.pending = nil
	if err != nil {
		return
	}
	for _, fn := range pending {
		if c.IsDestroyed() {
			return
		}
		fn()
	}
}

// exec runs the script once. Some VM faults, such as integer division by
// zero, panic inside tengo; they are returned as errors.
func (c *Component) exec(phase string, bind func(*tengo.Compiled) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("script %s panicked: %v", phase, r)
		}
	}()
	compiled := c.compiled
	if err = compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err = compiled.Set("__self", c.selfMap()); err != nil {
		return err
	}
	if err = bind(compiled); err != nil {
		return err
	}
	return compiled.Run()
}

func (c *Component) report(phase string, err error) {
	if err == nil {
		c.err = nil
		return
	}
	err = eris.Wrapf(err, "script %s phase", phase)
	if c.err == nil || c.err.Error() != err.Error() {
		c.log.Error().Err(err).Str("path", c.path).Str("phase", phase).Msg("script failed")
	}
	c.err = err
}

// selfMap builds the map handed to the script's hooks.
func (c *Component) selfMap() *tengo.ImmutableMap {
	e := c.Entity()
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"entity_id": &tengo.Int{Value: int64(e.ID())},
		"level":     &tengo.Int{Value: int64(e.HierarchyLevel())},
		"state":     c.state,
		"set_enabled": &tengo.UserFunction{Name: "set_enabled", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			enabled := !args[0].IsFalsy()
			c.pending = append(c.pending, func() { c.SetEnabled(enabled) })
			return tengo.UndefinedValue, nil
		}},
		"destroy": &tengo.UserFunction{Name: "destroy", Value: func(args ...tengo.Object) (tengo.Object, error) {
			c.pending = append(c.pending, c.Destroy)
			return tengo.UndefinedValue, nil
		}},
	}}
}

// objectToAny converts tengo values to plain Go values.
func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return v.Value
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
