//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/gosuda/erakit"
	eruntime "github.com/gosuda/erakit/runtime"
)

type runResult struct {
	Outputs     []eruntime.Output `json:"outputs"`
	Error       string            `json:"error,omitempty"`
	InputClosed bool              `json:"input_closed,omitempty"`
}

type inputRequestPayload struct {
	Command string `json:"command"`
	Numeric bool   `json:"numeric"`
	Wait    bool   `json:"wait"`
}

// inputPrompt asks the page's erakitInputNext(json) hook for a line once
// the queue is empty. A missing hook or a null answer closes input.
func inputPrompt(req eruntime.InputRequest) (string, error) {
	fn := js.Global().Get("erakitInputNext")
	if fn.Type() != js.TypeFunction {
		return "", eruntime.ErrInputClosed
	}
	b, _ := json.Marshal(inputRequestPayload{
		Command: strings.ToUpper(strings.TrimSpace(req.Command)),
		Numeric: req.Numeric,
		Wait:    req.Wait,
	})
	v := fn.Invoke(string(b))
	if v.IsUndefined() || v.IsNull() {
		return "", eruntime.ErrInputClosed
	}
	return strings.TrimSpace(v.String()), nil
}

func respond(r runResult) any {
	if r.Outputs == nil {
		r.Outputs = []eruntime.Output{}
	}
	b, _ := json.Marshal(r)
	return string(b)
}

// runGame(filesJSON, entry?, inputsJSON?) is exposed to the page as erakitRun.
func runGame(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return respond(runResult{Error: "runGame requires files JSON object"})
	}

	var files map[string]string
	if err := json.Unmarshal([]byte(args[0].String()), &files); err != nil {
		return respond(runResult{Error: fmt.Sprintf("invalid files json: %v", err)})
	}
	if len(files) == 0 {
		return respond(runResult{Error: "no files provided"})
	}

	entry := "TITLE"
	if len(args) > 1 {
		if e := strings.TrimSpace(args[1].String()); e != "" {
			entry = e
		}
	}

	var queued []string
	if len(args) > 2 && strings.TrimSpace(args[2].String()) != "" {
		if err := json.Unmarshal([]byte(args[2].String()), &queued); err != nil {
			return respond(runResult{Error: fmt.Sprintf("invalid inputs json: %v", err)})
		}
	}

	vm, err := erakit.Compile(files)
	if err != nil {
		return respond(runResult{Error: fmt.Sprintf("compile: %v", err)})
	}
	vm.EnqueueInput(queued...)
	vm.SetInputProvider(inputPrompt)

	out, err := vm.Run(entry)
	result := runResult{Outputs: out}
	switch {
	case errors.Is(err, eruntime.ErrInputClosed):
		result.InputClosed = true
	case err != nil:
		result.Error = fmt.Sprintf("runtime: %v", err)
	}
	return respond(result)
}

func main() {
	js.Global().Set("erakitRun", js.FuncOf(runGame))
	select {}
}
