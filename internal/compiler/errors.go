package compiler

import "fmt"

// ParseError reports a malformed definition with its source position.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func errAt(pos pos, format string, args ...any) error {
	return &ParseError{File: pos.file, Line: pos.line, Msg: fmt.Sprintf(format, args...)}
}
