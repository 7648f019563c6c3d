// Package canopy provides a composable, virtualized hierarchical list adapter.
// A Tree flattens one root collection plus any number of dynamically expanded
// child collections into a single randomly addressable sequence of rows, and
// relays structural change notifications from all of them into that space.
package canopy

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Position errors
var (
	// ErrIndexOutOfRange indicates that a position is negative or beyond the item count.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotRootRow indicates that an outer position refers to a child row, not a root row.
	ErrNotRootRow = errors.New("position is not a root row")

	// ErrNotExpanded indicates that a root position has no expanded child collection.
	ErrNotExpanded = errors.New("root position is not expanded")
)

// State errors
var (
	// ErrTypeMismatch indicates that restored state does not have the expected shape.
	ErrTypeMismatch = errors.New("state type mismatch")
)

// Dispatch errors
var (
	// ErrReentrantMutation indicates a mutation was attempted from inside a change
	// notification dispatched by the same Tree.
	ErrReentrantMutation = errors.New("mutation not allowed during change notification")
)

// IndexOutOfRangeError carries the requested index and the item count of the
// coordinate space it was checked against.
type IndexOutOfRangeError struct {
	Space Space
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range, total size: %d", e.Space, e.Index, e.Count)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// newOutOfRange builds the wrapped error for outOfRange and checkIndex. Its
// stack starts at their caller.
func newOutOfRange(space Space, index, count int) error {
	return goerrors.Wrap(&IndexOutOfRangeError{Space: space, Index: index, Count: count}, 2)
}

func outOfRange(space Space, index, count int) error {
	return newOutOfRange(space, index, count)
}

func checkIndex(space Space, index, count int) error {
	if index < 0 || index >= count {
		return newOutOfRange(space, index, count)
	}
	return nil
}

// withStack attaches a stack trace to err. A nil err stays nil.
func withStack(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

// withStackf attaches a stack trace and a message prefix to err.
func withStackf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return goerrors.WrapPrefix(err, fmt.Sprintf(format, args...), 1)
}

// ErrorStack returns err formatted with its stack trace when one is attached.
func ErrorStack(err error) string {
	if err == nil {
		return ""
	}
	var ge *goerrors.Error
	if errors.As(err, &ge) {
		return ge.ErrorStack()
	}
	return err.Error()
}
