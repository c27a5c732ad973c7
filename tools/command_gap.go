// Command command_gap lists the commands a script set calls that are
// neither engine built-ins nor declared functions, with how often each is
// used.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosuda/erakit/ast"
	"github.com/gosuda/erakit/parser"
	eruntime "github.com/gosuda/erakit/runtime"
)

func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	files, err := readScripts(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read scripts: %v\n", err)
		os.Exit(1)
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	prog, err := parser.ParseProgramWithOptions(files, parser.Options{Logger: quiet})
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	gaps := commandGaps(prog.Functions)
	fmt.Printf("declared functions: %d\n", prog.Functions.Len())
	fmt.Printf("built-in commands: %d\n", len(eruntime.BuiltinNames()))
	fmt.Printf("skipped lines: %d\n", len(prog.Diagnostics))
	fmt.Printf("unresolved commands: %d\n", len(gaps))
	for _, g := range gaps {
		fmt.Printf("  - %s (%d)\n", g.name, g.uses)
	}
}

type gap struct {
	name string
	uses int
}

func commandGaps(table *ast.FunctionTable) []gap {
	builtins := map[string]bool{}
	for _, n := range eruntime.BuiltinNames() {
		builtins[n] = true
	}
	counts := map[string]int{}
	note := func(name string) {
		if !builtins[name] && !table.Has(name) {
			counts[name]++
		}
	}
	for _, name := range table.Names() {
		for _, fn := range table.Lookup(name) {
			ast.Inspect(fn.Body, func(s ast.Statement, _ int) bool {
				call, ok := s.(ast.CallStmt)
				if !ok {
					return true
				}
				note(call.Name)
				if call.Name == "CALL" {
					if target := eruntime.CallTarget(call.Arg); target != "" {
						note(target)
					}
				}
				return true
			})
		}
	}
	out := make([]gap, 0, len(counts))
	for name, n := range counts {
		out = append(out, gap{name: name, uses: n})
	}
	slices.SortFunc(out, func(a, b gap) int {
		if a.uses != b.uses {
			return b.uses - a.uses
		}
		return strings.Compare(a.name, b.name)
	})
	return out
}

func readScripts(root string) (map[string]string, error) {
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".ERB") {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(path)] = string(b)
		return nil
	})
	return files, err
}
