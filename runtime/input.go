package eruntime

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// InputRequest describes what the script is blocked on.
type InputRequest struct {
	Command string
	// Numeric requests expect an integer; hosts may validate before replying.
	Numeric bool
	// Wait requests only need an acknowledgement; the text is discarded.
	Wait bool
}

// SetInputProvider installs the blocking line reader used once queued input
// runs out. Returning io.EOF or ErrInputClosed ends input for the run.
func (vm *VM) SetInputProvider(fn func(InputRequest) (string, error)) {
	vm.inputProvider = fn
}

// EnqueueInput queues lines that are consumed before the provider is asked.
func (vm *VM) EnqueueInput(values ...string) {
	vm.inputQueue = append(vm.inputQueue, values...)
}

func (vm *VM) consumeQueuedInput() (string, bool) {
	if len(vm.inputQueue) == 0 {
		return "", false
	}
	v := vm.inputQueue[0]
	vm.inputQueue = vm.inputQueue[1:]
	return v, true
}

// readInput blocks for one line. A wait request with no input left is
// acknowledged instead of failing.
func (vm *VM) readInput(req InputRequest) (string, error) {
	if raw, ok := vm.consumeQueuedInput(); ok {
		return raw, nil
	}
	if vm.inputProvider == nil {
		if req.Wait {
			return "", nil
		}
		return "", vm.evalError(ErrInputClosed, req.Command)
	}
	raw, err := vm.inputProvider(req)
	if err == nil {
		return raw, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, ErrInputClosed) {
		if req.Wait {
			return "", nil
		}
		return "", vm.evalError(ErrInputClosed, req.Command)
	}
	return "", fmt.Errorf("%s: %w", req.Command, err)
}

// parseIntInput parses a decimal integer, accepting full-width digits and
// signs as typed through an IME.
func parseIntInput(raw string) (int64, bool) {
	raw = strings.TrimSpace(width.Narrow.String(raw))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
