package renderer

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized     = errors.New("not initialized")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
)

// ResourceLoadError reports a texture, font or mesh that could not be read or
// decoded. It is fatal to scene initialization.
type ResourceLoadError struct {
	Kind string // "texture", "font" or "mesh"
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

// StateError reports an operation called out of lifecycle order, such as
// drawing before initialization.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StateError) Unwrap() error { return e.Err }

func NewStateError(op string, err error) *StateError {
	return &StateError{Op: op, Err: err}
}
