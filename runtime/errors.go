package eruntime

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUndefinedFunction   = errors.New("undefined function")
	ErrLabelNotFound       = errors.New("label not found")
	ErrNotImplemented      = errors.New("not implemented")
	ErrUnsupportedMode     = errors.New("unsupported mode")
	ErrUnknownStatement    = errors.New("unknown statement")
	ErrContinueOutsideLoop = errors.New("CONTINUE outside of REPEAT")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrInputClosed         = errors.New("input closed")
)

// errQuit unwinds a run started by QUIT. Run reports it as success.
var errQuit = errors.New("quit")

// EvalError is a failure raised while executing a script. Kind is one of
// the Err* sentinels above.
type EvalError struct {
	Kind     error
	Name     string // the function, label, command or mode involved
	Function string // innermost user function being executed
}

func (e *EvalError) Error() string {
	var b strings.Builder
	if e.Function != "" {
		fmt.Fprintf(&b, "in @%s: ", e.Function)
	}
	b.WriteString(e.Kind.Error())
	if e.Name != "" {
		fmt.Fprintf(&b, ": %s", e.Name)
	}
	return b.String()
}

func (e *EvalError) Unwrap() error {
	return e.Kind
}

func (vm *VM) evalError(kind error, name string) *EvalError {
	return &EvalError{Kind: kind, Name: name, Function: vm.currentFunction()}
}
