package scenetree

import "github.com/rotisserie/eris"

var (
	// ErrDestroyed is the cause of the panic raised when a destroyed component
	// is read or mutated.
	ErrDestroyed = eris.New("component has been destroyed")
	// ErrNotAttached is the cause of the panic raised when a component is used
	// before it was attached to an entity.
	ErrNotAttached = eris.New("component is not attached to an entity")
	// ErrAlreadyAttached is raised when Attach is called on a component that is
	// live or destroyed.
	ErrAlreadyAttached = eris.New("component was already attached")
	// ErrIndexOutOfRange is returned by index based mutators.
	ErrIndexOutOfRange = eris.New("index out of range")
)
