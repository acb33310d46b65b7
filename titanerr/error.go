// Package titanerr defines the diagnostic value shared by every stage of the
// pipeline: lexer, parser, checker, upvalues pass, coder and driver each
// return their own errors as this type rather than panicking on legal input.
package titanerr

import "fmt"

// Pos is a source location: filename, 1-based line, 1-based column.
type Pos struct {
	Filename string
	Line     int
	Column   int
}

func (p Pos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Label is a symbolic diagnostic tag, e.g. "MalformedNumber" or "ExpWhile".
// Parser and lexer errors always carry one; checker/driver errors may leave
// it empty when the message is already specific enough.
type Label string

// Error is the diagnostic value produced by every pipeline stage.
type Error struct {
	Pos   Pos
	Label Label
	Msg   string
}

// New builds an Error with no symbolic label, formatting Msg like fmt.Sprintf.
func New(pos Pos, format string, args ...interface{}) Error {
	return Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// NewLabeled builds an Error carrying a symbolic label, as parser and lexer
// errors do (§4.1, §4.2 of the specification this package implements).
func NewLabeled(pos Pos, label Label, format string, args ...interface{}) Error {
	return Error{Pos: pos, Label: label, Msg: fmt.Sprintf(format, args...)}
}

func (e Error) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s [%s]", e.Pos, e.Msg, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// List collects diagnostics from a pass that does not stop at the first
// error (the checker and the driver; §4.4, §7).
type List []Error

func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	s := l[0].Error()
	for _, e := range l[1:] {
		s += "\n" + e.Error()
	}
	return s
}

func (l List) HasErrors() bool {
	return len(l) > 0
}
