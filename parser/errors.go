package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports a malformed line or expression. Remainder holds the
// text the expression parser could not consume, when there is any.
type ParseError struct {
	File      string
	Line      int
	Source    string
	Remainder string
	Msg       string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.File != "" {
		fmt.Fprintf(&b, "%s:%d: ", e.File, e.Line)
	}
	b.WriteString(e.Msg)
	if e.Remainder != "" {
		fmt.Fprintf(&b, ": unparsed remainder %q", e.Remainder)
	}
	return b.String()
}

func exprError(msg, remainder string) *ParseError {
	return &ParseError{Msg: msg, Remainder: remainder}
}

// lineError attaches a line position to err, keeping the remainder of an
// underlying expression error.
func lineError(l Line, err error, format string, args ...any) *ParseError {
	msg := fmt.Sprintf(format, args...)
	out := &ParseError{File: l.File, Line: l.Number, Source: l.Content, Msg: msg}
	if err == nil {
		return out
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		out.Remainder = pe.Remainder
		out.Msg = msg + ": " + pe.Msg
		return out
	}
	out.Msg = msg + ": " + err.Error()
	return out
}
