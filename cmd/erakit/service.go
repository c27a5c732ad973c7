package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gosuda/erakit"
	"github.com/gosuda/erakit/logger"
	eruntime "github.com/gosuda/erakit/runtime"
)

func compileScripts(cfg appConfig) (*eruntime.VM, error) {
	files, err := loadScripts(cfg.path)
	if err != nil {
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	vm, err := erakit.CompileWithOptions(files, erakit.Options{
		Strict: cfg.strict,
		Logger: logger.GetLogger(),
		VM:     eruntime.Options{LineWidth: cfg.lineWidth},
	})
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return vm, nil
}

// runVM compiles and runs the scripts on the calling goroutine, reporting
// output, prompts and completion on events. Cancelling ctx stops the run
// at the next statement or pending prompt.
func runVM(ctx context.Context, cfg appConfig, events chan<- tea.Msg) {
	defer close(events)
	send := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	vm, err := compileScripts(cfg)
	if err != nil {
		send(vmDoneMsg{err: err})
		return
	}
	vm.SetOutputHook(func(out eruntime.Output) {
		send(vmOutputMsg{out: out})
	})
	vm.SetInputProvider(func(req eruntime.InputRequest) (string, error) {
		resp := make(chan vmInputResp, 1)
		if !send(vmPromptMsg{req: req, resp: resp}) {
			return "", ctx.Err()
		}
		select {
		case r := <-resp:
			if r.closed {
				return "", eruntime.ErrInputClosed
			}
			return r.value, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})

	_, err = vm.RunContext(ctx, cfg.entry)
	if errors.Is(err, eruntime.ErrInputClosed) || errors.Is(err, context.Canceled) {
		err = nil
	}
	send(vmDoneMsg{err: err})
}
