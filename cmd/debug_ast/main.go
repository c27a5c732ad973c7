package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuda/erakit/ast"
	"github.com/gosuda/erakit/parser"
)

func main() {
	only := flag.String("func", "", "dump only this function")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/debug_ast [-func NAME] <file.erb>...")
		os.Exit(2)
	}

	files := map[string]string{}
	for _, path := range flag.Args() {
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
			os.Exit(1)
		}
		files[filepath.Base(path)] = string(b)
	}
	prog, err := parser.ParseProgram(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}
	if err := dumpTable(os.Stdout, prog.Functions, *only); err != nil {
		fmt.Fprintf(os.Stderr, "dump: %v\n", err)
		os.Exit(1)
	}
}

// dumpTable writes every declaration in table order, or only those of name
// when it is set.
func dumpTable(w io.Writer, table *ast.FunctionTable, name string) error {
	names := table.Names()
	if name != "" {
		if !table.Has(name) {
			return fmt.Errorf("missing function %s", strings.ToUpper(name))
		}
		names = []string{strings.ToUpper(name)}
	}
	for _, n := range names {
		for _, fn := range table.Lookup(n) {
			tag := ""
			if fn.Priority != "" {
				tag = " #" + fn.Priority
			}
			fmt.Fprintf(w, "@%s%s (%s:%d) stmts=%d\n", fn.Name, tag, fn.File, fn.Line, fn.Body.Len())
			dumpThunk(w, fn.Body, 1)
		}
	}
	return nil
}

func dumpThunk(w io.Writer, t *ast.Thunk, depth int) {
	if t == nil {
		return
	}
	pad := strings.Repeat("  ", depth)
	for _, st := range t.Statements {
		switch s := st.(type) {
		case ast.AssignStmt:
			fmt.Fprintf(w, "%s%s %s %s\n", pad, ast.FormatExpr(s.Target), s.Op, ast.FormatExpr(s.Expr))
		case ast.IfStmt:
			for i, br := range s.Branches {
				kw := "ELSEIF"
				if i == 0 {
					kw = "IF"
				}
				fmt.Fprintf(w, "%s%s %s\n", pad, kw, ast.FormatExpr(br.Cond))
				dumpThunk(w, br.Body, depth+1)
			}
			if s.Else.Len() > 0 {
				fmt.Fprintf(w, "%sELSE\n", pad)
				dumpThunk(w, s.Else, depth+1)
			}
		case ast.RepeatStmt:
			fmt.Fprintf(w, "%sREPEAT %s\n", pad, ast.FormatExpr(s.Count))
			dumpThunk(w, s.Body, depth+1)
		case ast.ContinueStmt:
			fmt.Fprintf(w, "%sCONTINUE\n", pad)
		case ast.LabelStmt:
			fmt.Fprintf(w, "%s$%s\n", pad, s.Name)
		case ast.CallStmt:
			fmt.Fprintf(w, "%s%s %q\n", pad, s.Name, s.Arg)
		default:
			fmt.Fprintf(w, "%s%T\n", pad, st)
		}
	}
}
