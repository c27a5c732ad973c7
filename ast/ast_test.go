package ast

import (
	"fmt"
	"slices"
	"testing"
)

func TestFunctionTableOrdering(t *testing.T) {
	table := NewFunctionTable()
	table.Add(&Function{Name: "event", Priority: "LAST", Line: 1})
	table.Add(&Function{Name: "Main", Line: 2})
	table.Add(&Function{Name: "EVENT", Line: 3})
	table.Add(&Function{Name: "EVENT", Priority: "pri", Line: 4})
	table.Add(&Function{Name: "EVENT", Line: 5})

	if got := table.Names(); !slices.Equal(got, []string{"EVENT", "MAIN"}) {
		t.Fatalf("names = %v", got)
	}
	if table.Len() != 2 || !table.Has("main") || table.Has("OTHER") {
		t.Fatal("unexpected membership")
	}
	if got := table.Last("event").Line; got != 5 {
		t.Fatalf("Last before reorder = line %d", got)
	}

	table.Reorder()
	var lines []int
	for _, fn := range table.Lookup("EVENT") {
		lines = append(lines, fn.Line)
	}
	if !slices.Equal(lines, []int{4, 3, 5, 1}) {
		t.Fatalf("reordered lines = %v", lines)
	}
	if got := table.Last("EVENT").Line; got != 1 {
		t.Fatalf("Last after reorder = line %d", got)
	}
	var nilTable *FunctionTable
	if nilTable.Lookup("X") != nil {
		t.Fatal("nil table lookup should be empty")
	}
}

func TestFormatExpr(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{IntLit{Value: -3}, "-3"},
		{VarRef{Name: "A", Index: []Expr{IntLit{Value: 1}, VarRef{Name: "I"}}}, "A:1:I"},
		{VarRef{Name: "A", Index: []Expr{VarRef{Name: "B", Index: []Expr{IntLit{Value: 2}}}}}, "A:(B:2)"},
		{BinaryExpr{Op: "+", Left: IntLit{Value: 1}, Right: BinaryExpr{Op: "*", Left: IntLit{Value: 2}, Right: IntLit{Value: 3}}}, "(1 + (2 * 3))"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		if got := FormatExpr(tt.expr); got != tt.want {
			t.Errorf("FormatExpr(%#v) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestInspect(t *testing.T) {
	inner := NewThunk()
	inner.Append(ContinueStmt{})
	repeat := RepeatStmt{Count: IntLit{Value: 2}, Body: inner}

	then := NewThunk()
	then.Append(repeat)
	els := NewThunk()
	els.Append(LabelStmt{Name: "L"})

	body := NewThunk()
	body.Append(IfStmt{Branches: []IfBranch{{Cond: IntLit{Value: 1}, Body: then}}, Else: els})
	body.Append(CallStmt{Name: "PRINTL", Arg: "x"})

	var seen []string
	Inspect(body, func(s Statement, depth int) bool {
		seen = append(seen, fmt.Sprintf("%d:%T", depth, s))
		return true
	})
	want := []string{"0:ast.IfStmt", "1:ast.RepeatStmt", "2:ast.ContinueStmt", "1:ast.LabelStmt", "0:ast.CallStmt"}
	if !slices.Equal(seen, want) {
		t.Fatalf("visited %v, want %v", seen, want)
	}

	seen = seen[:0]
	Inspect(body, func(s Statement, depth int) bool {
		seen = append(seen, fmt.Sprintf("%d:%T", depth, s))
		return false
	})
	if len(seen) != 2 {
		t.Fatalf("skipping children still visited %v", seen)
	}
}
