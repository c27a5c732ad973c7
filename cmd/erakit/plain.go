package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	eruntime "github.com/gosuda/erakit/runtime"
)

// lineReader is the console side of INPUT: liner on a terminal, a plain
// buffered reader on pipes.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type linerReader struct {
	state *liner.State
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

func (r *linerReader) Close() error {
	return r.state.Close()
}

type bufferedReader struct {
	r *bufio.Reader
}

func (b *bufferedReader) ReadLine(string) (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *bufferedReader) Close() error {
	return nil
}

func newLineReader(in *os.File) lineReader {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		st := liner.NewLiner()
		st.SetCtrlCAborts(true)
		return &linerReader{state: st}
	}
	return &bufferedReader{r: bufio.NewReader(in)}
}

func promptFor(req eruntime.InputRequest) string {
	if req.Wait {
		return ""
	}
	if req.Numeric {
		return "# "
	}
	return "> "
}

// runPlain drives the VM on a line console. Output goes straight to w and
// input ends cleanly at EOF.
func runPlain(cfg appConfig, w io.Writer, in lineReader) error {
	defer in.Close()

	vm, err := compileScripts(cfg)
	if err != nil {
		return err
	}
	vm.SetOutputHook(func(out eruntime.Output) {
		if out.NewLine {
			fmt.Fprintln(w, out.Text)
		} else {
			fmt.Fprint(w, out.Text)
		}
	})
	vm.SetInputProvider(func(req eruntime.InputRequest) (string, error) {
		return in.ReadLine(promptFor(req))
	})

	_, err = vm.Run(cfg.entry)
	if errors.Is(err, eruntime.ErrInputClosed) {
		return nil
	}
	return err
}
