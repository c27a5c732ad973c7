package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosuda/erakit/ast"
	"github.com/gosuda/erakit/logger"
)

// Options controls how line failures are treated.
type Options struct {
	// Strict turns every malformed line into a parse failure. The default
	// reports the line and keeps going.
	Strict bool
	Logger *slog.Logger
}

func ParseProgram(files map[string]string) (*ast.Program, error) {
	return ParseProgramWithOptions(files, Options{})
}

// ParseProgramWithOptions parses every script file, in sorted path order,
// into one function table. Files ending in .CSV are kept as master data.
func ParseProgramWithOptions(files map[string]string, opts Options) (*ast.Program, error) {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	scripts := map[string]string{}
	csv := map[string]string{}
	for file, content := range files {
		if strings.HasSuffix(strings.ToUpper(file), ".CSV") {
			csv[file] = content
			continue
		}
		scripts[file] = content
	}
	if len(scripts) == 0 {
		return nil, fmt.Errorf("no script files found")
	}

	prog := &ast.Program{Functions: ast.NewFunctionTable(), CSVFiles: csv}
	for _, file := range sortedKeys(scripts) {
		lineErrs, err := parseFile(prog.Functions, file, scripts[file], log)
		for _, le := range lineErrs {
			if !opts.Strict {
				log.Warn("skipping malformed line", "error", le.Error())
			}
		}
		prog.Diagnostics = append(prog.Diagnostics, lineErrs...)
		if err != nil {
			return nil, err
		}
	}
	if opts.Strict && len(prog.Diagnostics) > 0 {
		return nil, errors.Join(prog.Diagnostics...)
	}
	prog.Functions.Reorder()
	return prog, nil
}

// ParseSource parses a single script into a reordered function table,
// reporting malformed lines through the default logger.
func ParseSource(file, source string) (*ast.FunctionTable, error) {
	prog, err := ParseProgram(map[string]string{file: source})
	if err != nil {
		return nil, err
	}
	return prog.Functions, nil
}
