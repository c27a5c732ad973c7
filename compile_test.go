package erakit_test

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gosuda/erakit"
	"github.com/gosuda/erakit/parser"
	eruntime "github.com/gosuda/erakit/runtime"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func compileQuiet(t *testing.T, files map[string]string, strict bool) *eruntime.VM {
	t.Helper()
	vm, err := erakit.CompileWithOptions(files, erakit.Options{Strict: strict, Logger: quiet})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return vm
}

func joinOutput(out []eruntime.Output) string {
	var b strings.Builder
	for _, o := range out {
		b.WriteString(o.Text)
		if o.NewLine {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestCompileAndRunBasicFlow(t *testing.T) {
	files := map[string]string{
		"MAIN.ERB": `
@TITLE
A = 10
CALL HELLO
IF RESULT == 11
    PRINTL ok
ELSE
    PRINTL ng
ENDIF
PRINTVL 1 + 2 * 3
PRINTVL (1 + 2) * 3
PRINTFORML X=%A%
QUIT

@HELLO
RETURN A + 1
`,
	}

	vm, err := erakit.Compile(files)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	out, err := vm.Run("TITLE")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(out) != 4 {
		t.Fatalf("unexpected output count: %d", len(out))
	}
	if out[0].Text != "ok" || !out[0].NewLine {
		t.Fatalf("unexpected first output: %+v", out[0])
	}
	if out[1].Text != "7" || out[2].Text != "9" {
		t.Fatalf("unexpected arithmetic output: %+v", out[1:3])
	}
	if out[3].Text != "X=10" {
		t.Fatalf("unexpected form output: %q", out[3].Text)
	}
}

func TestGotoLabel(t *testing.T) {
	files := map[string]string{
		"LOOP.ERB": `
@TITLE
A = 0
$LOOP
A = A + 1
IF A < 3
    GOTO LOOP
ENDIF
PRINTVL A
QUIT
`,
	}

	vm := compileQuiet(t, files, true)
	out, err := vm.Run("TITLE")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("unexpected output count: %d", len(out))
	}
	if out[0].Text != "3" {
		t.Fatalf("unexpected output text: %q", out[0].Text)
	}
}

func TestRepeatCountAndContinue(t *testing.T) {
	files := map[string]string{
		"CTRL.ERB": `
@TITLE
A = 0
REPEAT 4
    SIF COUNT % 2
        CONTINUE
    A += COUNT + 10
REND
PRINTVL A
PRINTVL COUNT
`,
	}

	vm := compileQuiet(t, files, true)
	out, err := vm.Run("TITLE")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := joinOutput(out); got != "22\n3\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSubscriptsAndLazyZero(t *testing.T) {
	files := map[string]string{
		"VARS.ERB": `
@TITLE
PRINTVL NEVER:7
A:1:2 = 5
PRINTVL A:1:2 + A:1 + A
`,
	}

	vm := compileQuiet(t, files, true)
	out, err := vm.Run("TITLE")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := joinOutput(out); got != "0\n5\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if vm.Var("A", 1, 2).Int64() != 5 {
		t.Fatalf("A:1:2 = %v", vm.Var("A", 1, 2))
	}
}

func TestCallUsesLastDeclarationAcrossFiles(t *testing.T) {
	files := map[string]string{
		"A.ERB": "@TITLE\nCALL GREET\n@GREET\nPRINTL from a\n",
		"B.ERB": "@GREET\nPRINTL from b\n",
	}

	vm := compileQuiet(t, files, true)
	out, err := vm.Run("")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := joinOutput(out); got != "from b\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestUnmatchedParenthesis(t *testing.T) {
	files := map[string]string{
		"BAD.ERB": "@TITLE\nA = (1 + 2\nPRINTL after\n",
	}

	_, err := erakit.CompileWithOptions(files, erakit.Options{Strict: true, Logger: quiet})
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *parser.ParseError, got %v", err)
	}
	if perr.File != "BAD.ERB" || perr.Line != 2 || perr.Remainder != "(1 + 2" {
		t.Fatalf("unexpected parse error: %+v", perr)
	}

	vm := compileQuiet(t, files, false)
	out, err := vm.Run("TITLE")
	if err != nil {
		t.Fatalf("permissive run failed: %v", err)
	}
	if got := joinOutput(out); got != "after\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestParseReportsDiagnostics(t *testing.T) {
	program, err := erakit.Parse(map[string]string{
		"MAIN.ERB": "@TITLE\nENDIF\nPRINTL ok\n",
		"Item.csv": "0,Potion,50\n",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(program.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", program.Diagnostics)
	}
	if _, ok := program.CSVFiles["Item.csv"]; !ok {
		t.Fatalf("csv file not kept: %v", program.CSVFiles)
	}
	if got := program.Functions.Names(); len(got) != 1 || got[0] != "TITLE" {
		t.Fatalf("unexpected functions %v", got)
	}
}

func TestVMOptionsPassThrough(t *testing.T) {
	vm, err := erakit.CompileWithOptions(map[string]string{
		"MAIN.ERB": "@TITLE\nDRAWLINE\n",
	}, erakit.Options{Logger: quiet, VM: eruntime.Options{LineWidth: 5}})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	out, err := vm.Run("TITLE")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := joinOutput(out); got != "-----\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
