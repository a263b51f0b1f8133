package schema

import (
	"errors"
	"fmt"
)

// ErrAbstractElement reports a remote stack claiming an element of
// abstract kind. Compiled trees never contain one, so the message is
// structurally invalid.
var ErrAbstractElement = errors.New("remote stack contains an abstract element")

// ErrPastLeaf reports a remote stack extending below an action element.
// Actions are leaves; nothing can be stacked beneath them.
var ErrPastLeaf = errors.New("remote stack extends past an action leaf")

// UnknownReasonError reports an activation reason that is not a declared
// branch of the corresponding local decision element.
type UnknownReasonError struct {
	Element string
	Reason  string
}

func (e *UnknownReasonError) Error() string {
	return fmt.Sprintf("element %q has no child for activation reason %q", e.Element, e.Reason)
}
