package slot

import "github.com/pkg/errors"

var (
	// ErrUnsupportedOperation is returned when the slot variant can not serve the call.
	ErrUnsupportedOperation = errors.New("operation is not supported by this slot kind")
	// ErrShapeMismatch is returned when two slots disagree on the attribute count.
	ErrShapeMismatch = errors.New("slot descriptors do not match")
	// ErrInvalidState is returned when the slot is empty and the call needs a row, or the reverse.
	ErrInvalidState = errors.New("slot is in the wrong state for this operation")
	// ErrWrongSlotKind is returned by a store function called on a slot of another kind.
	ErrWrongSlotKind = errors.New("store function does not match the slot kind")
	// ErrInvalidAttribute is returned for attribute numbers outside the descriptor.
	ErrInvalidAttribute = errors.New("invalid attribute number")
)
