package types

import (
	"errors"
	"fmt"
)

// Remote resource errors.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrTransport       = errors.New("transport error")
	ErrInvalidRecord   = errors.New("invalid resource record")
	ErrUnknownResource = errors.New("unknown resource type")
	ErrUnknownRelation = errors.New("unknown relation")
)

// Collection addressing errors.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptyCollection = errors.New("pop from empty collection")
)

// Editor and query errors.
var (
	ErrInvalidState      = errors.New("invalid editor state")
	ErrInvalidExpression = errors.New("invalid filter expression")
)

// ResourceError reports a failed operation on one remote resource. It carries
// enough context (operation, type, id) to diagnose the failure without a
// retry, and unwraps to one of the sentinel errors above.
type ResourceError struct {
	Op       string // fetch, refresh, update, relation, ...
	Type     string
	ID       string
	Relation string // set for relation lookups only
	Err      error
}

func (e *ResourceError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("%s %s %s.%s: %v", e.Op, e.Type, e.ID, e.Relation, e.Err)
	}
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Type, e.ID, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// IndexError reports a failed collection lookup with the collection size and
// the requested position or id.
type IndexError struct {
	Op    string
	Size  int
	Index int
	ID    string // set for id lookups
	Err   error
}

func (e *IndexError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s id %q (size %d): %v", e.Op, e.ID, e.Size, e.Err)
	}
	return fmt.Sprintf("%s index %d (size %d): %v", e.Op, e.Index, e.Size, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// StateError reports editor misuse: an operation attempted from a state that
// does not allow it. It always unwraps to ErrInvalidState.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s from state %s: %v", e.Op, e.State, ErrInvalidState)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport reports whether err wraps ErrTransport.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
