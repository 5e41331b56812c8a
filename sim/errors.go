package sim

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to test an error against a kind.
var (
	// ErrInvalidAddress reports an address that cannot be represented under
	// the configured cache or DRAM geometry.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnknownOperation reports an operation other than read or write.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrQueueInvariantViolation reports an internal bookkeeping failure, such
	// as a completion for a request that no queue holds. It is never
	// recoverable.
	ErrQueueInvariantViolation = errors.New("queue invariant violation")

	// ErrConfiguration reports an invalid component configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Error carries the component and the cycle where a failure is detected.
type Error struct {
	Kind      error
	Component string
	Cycle     uint64
	HasCycle  bool
	Msg       string
}

// NewError creates an Error of the given kind.
func NewError(kind error, component string, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Component: component,
		Msg:       fmt.Sprintf(format, args...),
	}
}

// AtCycle attaches the cycle at which the error happens.
func (e *Error) AtCycle(cycle uint64) *Error {
	e.Cycle = cycle
	e.HasCycle = true

	return e
}

func (e *Error) Error() string {
	where := e.Component
	if e.HasCycle {
		where = fmt.Sprintf("%s at cycle %d", e.Component, e.Cycle)
	}

	if where == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, where, e.Msg)
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}
