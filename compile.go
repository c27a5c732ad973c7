package erakit

import (
	"log/slog"

	"github.com/gosuda/erakit/ast"
	"github.com/gosuda/erakit/parser"
	eruntime "github.com/gosuda/erakit/runtime"
)

// Options controls both the parse and the VM it builds.
type Options struct {
	// Strict turns line-level parse diagnostics into a compile error and
	// unknown statements into run errors.
	Strict bool
	Logger *slog.Logger
	// VM is passed through to eruntime.NewWithOptions. Its Strict and
	// Logger fields are filled from the outer options when unset.
	VM eruntime.Options
}

// Compile parses ERB and CSV files and builds a VM instance.
// The input map key is the virtual file name (e.g. "MAIN.ERB").
func Compile(files map[string]string) (*eruntime.VM, error) {
	return CompileWithOptions(files, Options{})
}

func CompileWithOptions(files map[string]string, opts Options) (*eruntime.VM, error) {
	program, err := parser.ParseProgramWithOptions(files, parser.Options{Strict: opts.Strict, Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	vmOpts := opts.VM
	vmOpts.Strict = vmOpts.Strict || opts.Strict
	if vmOpts.Logger == nil {
		vmOpts.Logger = opts.Logger
	}
	return eruntime.NewWithOptions(program, vmOpts)
}

// Parse only returns AST program for tooling use.
func Parse(files map[string]string) (*ast.Program, error) {
	return parser.ParseProgram(files)
}
