package dispatch

import "errors"

var (
	// ErrUnbalancedUnblock is the panic value of Unblock called without a matching Block.
	ErrUnbalancedUnblock = errors.New("unblock without matching block")

	// ErrUnbalancedPop is the panic value of Scheduler.Pop called on the root frame.
	ErrUnbalancedPop = errors.New("pop without matching push")

	// ErrFrameOrder is the panic value of a ScopedFrame released while frames
	// pushed after it are still on the stack.
	ErrFrameOrder = errors.New("scheduler frame released out of order")

	// ErrNilHandler is the panic value of a subscription attempt with a nil handler or predicate.
	ErrNilHandler = errors.New("nil handler")

	// ErrInvalidPolicy is returned when parsing an unknown delivery policy name.
	ErrInvalidPolicy = errors.New("invalid delivery policy")
)
