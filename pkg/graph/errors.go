package graph

import (
	"errors"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
)

var (
	// ErrElementExists is returned by add operations under strict checking when
	// the id is already taken, or when a simple graph already has an edge
	// between the same endpoints.
	ErrElementExists = errors.New("element already exists")

	// ErrElementNotFound is returned under strict checking when an operation
	// references an absent node or edge.
	ErrElementNotFound = errors.New("element not found")

	// ErrIllegalAttribute is returned when a [None] value is stored on a graph
	// configured with [WithNullAttributesAreErrors].
	ErrIllegalAttribute = errors.New("illegal attribute value")

	// ErrClassMismatch is returned when a node or edge factory produces an
	// element that was not built for the requesting graph. It signals a
	// misconfigured factory and is never degraded by non-strict mode.
	ErrClassMismatch = errors.New("element class mismatch")

	// ErrListenerDispatch is returned when a single-threaded graph's listener
	// set is modified while events are being dispatched.
	ErrListenerDispatch = errors.New("listener set modified during dispatch")
)

func errExists(t ElementType, id string) error {
	return gserrors.Wrap(gserrors.ErrCodeElementAlreadyExists, ErrElementExists, "%s %q", t, id)
}

func errNotFound(t ElementType, id string) error {
	return gserrors.Wrap(gserrors.ErrCodeElementNotFound, ErrElementNotFound, "%s %q", t, id)
}

func errIllegalAttribute(elementID, key string) error {
	return gserrors.Wrap(gserrors.ErrCodeIllegalAttribute, ErrIllegalAttribute, "%q on %q", key, elementID)
}

func errClassMismatch(format string, args ...any) error {
	return gserrors.Wrap(gserrors.ErrCodeClassMismatch, ErrClassMismatch, format, args...)
}

func errDispatch() error {
	return gserrors.Wrap(gserrors.ErrCodeConcurrentModification, ErrListenerDispatch, "listener registration")
}
