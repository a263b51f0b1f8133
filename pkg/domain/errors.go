package domain

import (
	"errors"
	"fmt"
)

// ErrNotStarted is returned when the engine is ticked before a start
// element was set.
var ErrNotStarted = errors.New("engine not started")

// ErrClosed is returned when an operation is attempted on a closed engine.
var ErrClosed = errors.New("engine closed")

// UnknownResultError reports a decider returning a label that is not a
// declared branch of its decision element. The tick that produced it
// must be treated as failed; the engine never picks a fallback branch.
type UnknownResultError struct {
	Element string
	Result  string
	Labels  []string
}

func (e *UnknownResultError) Error() string {
	return fmt.Sprintf("decision %q returned undeclared result %q (declared: %v)", e.Element, e.Result, e.Labels)
}
