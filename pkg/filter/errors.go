package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when an explicitly requested coordinate lies outside the image.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrDivideByZero is returned when a reference channel used as a divisor is zero.
	ErrDivideByZero = errors.New("divide by zero")
	// ErrDegenerateRange is returned when a stretch sees a flat image.
	ErrDegenerateRange = errors.New("degenerate value range")
	ErrInvalidKernel   = errors.New("invalid kernel")
	ErrInvalidMask     = errors.New("invalid structuring element")
	ErrEmptyImage      = errors.New("empty image")
	ErrUnknownCommand  = errors.New("unknown command")
)

// UnknownCommandError is returned by Lookup when no command matches.
// Suggestion holds the closest registered name, if any is reasonably close.
type UnknownCommandError struct {
	Name       string
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown command %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown command %q", e.Name)
}

func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }
