package mobile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/erakit"
	eruntime "github.com/gosuda/erakit/runtime"
)

type runResult struct {
	Outputs     []eruntime.Output `json:"outputs"`
	Error       string            `json:"error,omitempty"`
	InputClosed bool              `json:"input_closed,omitempty"`
}

// Run executes ERB/CSV content provided as JSON map and returns JSON result.
// filesJSON format: {"ERB/MAIN.ERB":"...","CSV/Item.csv":"..."}
// inputsJSON format: ["1","hello", ...]
// Running out of queued input is not an error: the outputs so far are
// returned with input_closed set, so the host can append input and rerun.
func Run(filesJSON, entry, inputsJSON string) string {
	return encode(run(filesJSON, entry, inputsJSON))
}

func run(filesJSON, entry, inputsJSON string) runResult {
	var files map[string]string
	if err := json.Unmarshal([]byte(filesJSON), &files); err != nil {
		return runResult{Error: fmt.Sprintf("invalid files json: %v", err)}
	}
	if len(files) == 0 {
		return runResult{Error: "no files provided"}
	}

	entry = strings.TrimSpace(entry)
	if entry == "" {
		entry = "TITLE"
	}

	var queued []string
	if strings.TrimSpace(inputsJSON) != "" {
		if err := json.Unmarshal([]byte(inputsJSON), &queued); err != nil {
			return runResult{Error: fmt.Sprintf("invalid inputs json: %v", err)}
		}
	}

	vm, err := erakit.Compile(files)
	if err != nil {
		return runResult{Error: fmt.Sprintf("compile: %v", err)}
	}
	vm.EnqueueInput(queued...)

	out, err := vm.Run(entry)
	result := runResult{Outputs: out}
	switch {
	case errors.Is(err, eruntime.ErrInputClosed):
		result.InputClosed = true
	case err != nil:
		result.Error = fmt.Sprintf("runtime: %v", err)
	}
	return result
}

func encode(r runResult) string {
	if r.Outputs == nil {
		r.Outputs = []eruntime.Output{}
	}
	b, _ := json.Marshal(r)
	return string(b)
}
